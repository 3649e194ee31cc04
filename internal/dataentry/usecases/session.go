package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"abq-data-entry/internal/dataentry/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	_instrumentationName = "abq-data-entry"

	_metricRecordsSaved  = "abq_records_saved_total"
	_metricSavesRejected = "abq_saves_rejected_total"
)

// FieldState is what a form shows for one field: its text, the error from
// the last whole-value check and whether input is currently allowed.
type FieldState struct {
	Value    string
	Error    string
	Disabled bool
	Bounds   domain.Bounds
}

// FormErrors is returned by Save when any field fails validation.
type FormErrors struct {
	Fields map[string]string
	order  []string
}

func (e *FormErrors) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(e.order, ", "))
}

func (e *FormErrors) Is(target error) bool {
	return target == ErrInvalidForm
}

type SessionOption func(*Session)

func WithSettings(settings SettingsRepository) SessionOption {
	return func(s *Session) {
		s.settings = settings
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session holds the state of one form being filled in. It is not safe for
// concurrent use.
type Session struct {
	id         string
	form       domain.Form
	repository RecordRepository
	settings   SettingsRepository
	now        func() time.Time
	logger     *slog.Logger

	fields   map[string]*FieldState
	declared map[string]domain.Bounds
	position *int
	saved    int

	recordsSaved  metric.Int64Counter
	savesRejected metric.Int64Counter
}

func NewSession(form domain.Form, repository RecordRepository, opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.NewString(),
		form:       form,
		repository: repository,
		now:        time.Now,
		logger:     slog.Default(),
		fields:     make(map[string]*FieldState, len(form.Fields)),
		declared:   make(map[string]domain.Bounds, len(form.Fields)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("session_id", s.id))
	if err := s.initializeMetrics(); err != nil {
		s.logger.Error("initializing metrics", slog.Any("error", err))
		s.recordsSaved = noop.Int64Counter{}
		s.savesRejected = noop.Int64Counter{}
	}

	for _, field := range form.Fields {
		bounds, _ := field.Bounds()
		s.declared[field.Name] = bounds
		s.fields[field.Name] = &FieldState{}
	}
	s.clear()
	s.Reset()

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Form() domain.Form {
	return s.form
}

func (s *Session) Field(name string) (FieldState, error) {
	state, _, err := s.lookup(name)
	if err != nil {
		return FieldState{}, err
	}
	return *state, nil
}

// Key applies a keystroke-level edit. A false result means the input was
// refused; that is not an error.
func (s *Session) Key(name string, edit domain.Edit) (bool, error) {
	state, field, err := s.lookup(name)
	if err != nil {
		return false, err
	}
	if state.Disabled || field.Type == domain.FieldTypeBoolean {
		return false, nil
	}

	state.Error = ""
	result := domain.NewRule(field, state.Bounds).Key(edit)
	switch {
	case result.Replace != nil:
		state.Value = *result.Replace
	case result.Accept:
		state.Value = edit.Proposed
	}
	return result.Accept, nil
}

func (s *Session) Insert(name string, index int, text string) (bool, error) {
	state, _, err := s.lookup(name)
	if err != nil {
		return false, err
	}
	return s.Key(name, domain.InsertEdit(state.Value, index, text))
}

func (s *Session) Delete(name string, index int, count int) (bool, error) {
	state, _, err := s.lookup(name)
	if err != nil {
		return false, err
	}
	return s.Key(name, domain.DeleteEdit(state.Value, index, count))
}

// Type appends text one character at a time, the way a user types it, and
// returns how many characters were accepted.
func (s *Session) Type(name string, text string) (int, error) {
	accepted := 0
	for _, char := range text {
		state, _, err := s.lookup(name)
		if err != nil {
			return accepted, err
		}
		ok, err := s.Key(name, domain.InsertEdit(state.Value, len([]rune(state.Value)), string(char)))
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

// Leave runs the whole-value check for a field as when focus moves away from
// it. The returned error is the field's validation failure, if any.
func (s *Session) Leave(name string) error {
	state, field, err := s.lookup(name)
	if err != nil {
		return err
	}

	verr := s.commit(state, field)
	if verr == nil {
		s.propagateBounds(name)
	}
	return verr
}

// SetValue replaces a field's text without keystroke filtering, as loading a
// record does. Boolean fields go through SetFlag.
func (s *Session) SetValue(name string, value string) error {
	state, field, err := s.lookup(name)
	if err != nil {
		return err
	}
	if field.Type == domain.FieldTypeBoolean {
		return s.SetFlag(name, domain.ParseFlag(value))
	}
	if state.Disabled {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, name)
	}
	state.Value = value
	state.Error = ""
	return nil
}

func (s *Session) SetFlag(name string, value bool) error {
	state, field, err := s.lookup(name)
	if err != nil {
		return err
	}
	if field.Type != domain.FieldTypeBoolean {
		return fmt.Errorf("%s is not a boolean field", name)
	}
	state.Value = domain.FormatValue(value)
	state.Error = ""
	s.applyToggles(name)
	return nil
}

// Errors validates every enabled field and returns the failing ones by name.
// The result is empty when the form can be saved.
func (s *Session) Errors() map[string]string {
	errs, _ := s.validateAll()
	return errs
}

func (s *Session) Record() domain.Record {
	record := make(domain.Record, len(s.form.Fields))
	for _, field := range s.form.Fields {
		state := s.fields[field.Name]
		if field.Type == domain.FieldTypeBoolean {
			record[field.Name] = domain.ParseFlag(state.Value)
			continue
		}
		record[field.Name] = state.Value
	}
	return record
}

// Save stores the form as a new record or, after Load, over the loaded one.
func (s *Session) Save(ctx context.Context) error {
	ctx, span := otel.Tracer(_instrumentationName).Start(ctx, "save-record")
	defer span.End()

	errs, order := s.validateAll()
	if len(errs) > 0 {
		s.logger.Debug("form has errors", slog.Any("fields", order))
		s.savesRejected.Add(ctx, 1)
		span.SetStatus(codes.Error, ErrInvalidForm.Error())
		return &FormErrors{Fields: errs, order: order}
	}

	mode := "append"
	if s.position != nil {
		mode = "update"
	}
	span.SetAttributes(attribute.String("mode", mode))

	record := s.Record()
	if err := s.repository.Save(ctx, record, s.position); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("saving record: %w", err)
	}
	s.saved++
	s.recordsSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))

	if s.position != nil {
		s.logger.Info("record updated", slog.Int("position", *s.position))
		return nil
	}

	s.logger.Info("record saved", slog.Int("saved_this_session", s.saved))
	s.Reset()
	return nil
}

// Load fills the form with the stored record at position so that the next
// Save rewrites it.
func (s *Session) Load(ctx context.Context, position int) error {
	ctx, span := otel.Tracer(_instrumentationName).Start(ctx, "load-record")
	defer span.End()
	span.SetAttributes(attribute.Int("position", position))

	record, err := s.repository.Get(ctx, position)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("loading record %d: %w", position, err)
	}

	s.clear()
	for _, field := range s.form.Fields {
		state := s.fields[field.Name]
		if field.Type == domain.FieldTypeBoolean {
			state.Value = domain.FormatValue(record.Bool(field.Name))
			continue
		}
		state.Value = record.Text(field.Name)
	}
	for _, toggle := range s.form.Toggles {
		s.applyToggles(toggle.Flag)
	}
	for _, link := range s.form.Links {
		if s.holdsValidValue(link.Source) {
			s.propagateBounds(link.Source)
		}
	}

	s.position = &position
	s.logger.Debug("record loaded", slog.Int("position", position))
	return nil
}

// Reset clears the form. With autofill settings enabled the date is set to
// today and, when a plot was in progress, the sheet data is kept and the plot
// moves on to the next one.
func (s *Session) Reset() {
	var (
		timeValue  = s.fields[domain.FieldTime]
		lab        = s.fields[domain.FieldLab]
		technician = s.fields[domain.FieldTechnician]
		plot       = s.fields[domain.FieldPlot]
		kept       = map[string]string{}
		nextPlot   string
	)
	if s.setting(SettingAutofillSheetData) && plot != nil {
		if field, ok := s.form.Field(domain.FieldPlot); ok {
			nextPlot = nextValue(field.Values, plot.Value)
		}
		if nextPlot != "" {
			for name, state := range map[string]*FieldState{
				domain.FieldTime:       timeValue,
				domain.FieldLab:        lab,
				domain.FieldTechnician: technician,
			} {
				if state != nil {
					kept[name] = state.Value
				}
			}
		}
	}

	s.clear()

	if s.setting(SettingAutofillDate) {
		if state, ok := s.fields[domain.FieldDate]; ok {
			state.Value = s.now().Format("2006-01-02")
		}
	}
	if nextPlot != "" {
		for name, value := range kept {
			s.fields[name].Value = value
		}
		s.fields[domain.FieldPlot].Value = nextPlot
	}
}

func (s *Session) RecordsSaved() int {
	return s.saved
}

// Position reports the record being edited, if any.
func (s *Session) Position() (int, bool) {
	if s.position == nil {
		return 0, false
	}
	return *s.position, true
}

func (s *Session) initializeMetrics() error {
	meter := otel.Meter(_instrumentationName)

	var err error
	s.recordsSaved, err = meter.Int64Counter(
		_metricRecordsSaved,
		metric.WithDescription("Records written to the store"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating records counter: %w", err)
	}

	s.savesRejected, err = meter.Int64Counter(
		_metricSavesRejected,
		metric.WithDescription("Saves refused because fields failed validation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating rejections counter: %w", err)
	}
	return nil
}

func (s *Session) lookup(name string) (*FieldState, domain.FieldDefinition, error) {
	field, ok := s.form.Field(name)
	if !ok {
		return nil, domain.FieldDefinition{}, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}
	return s.fields[name], field, nil
}

func (s *Session) clear() {
	for _, field := range s.form.Fields {
		state := s.fields[field.Name]
		*state = FieldState{Bounds: s.declared[field.Name]}
		if field.Type == domain.FieldTypeBoolean {
			state.Value = domain.FormatValue(false)
		}
	}
	for _, toggle := range s.form.Toggles {
		s.applyToggles(toggle.Flag)
	}
	s.position = nil
}

func (s *Session) commit(state *FieldState, field domain.FieldDefinition) error {
	state.Error = ""
	if state.Disabled {
		return nil
	}
	err := domain.NewRule(field, state.Bounds).Commit(state.Value)
	if err != nil {
		state.Error = err.Error()
	}
	return err
}

// holdsValidValue runs the whole-value check without recording its outcome.
func (s *Session) holdsValidValue(name string) bool {
	state, field, err := s.lookup(name)
	if err != nil || state.Disabled {
		return false
	}
	return domain.NewRule(field, state.Bounds).Commit(state.Value) == nil
}

func (s *Session) validateAll() (map[string]string, []string) {
	errs := map[string]string{}
	var order []string
	for _, field := range s.form.Fields {
		state := s.fields[field.Name]
		if err := s.commit(state, field); err != nil {
			errs[field.Name] = state.Error
			order = append(order, field.Name)
		}
	}
	return errs, order
}

func (s *Session) applyToggles(flag string) {
	on := domain.ParseFlag(s.fields[flag].Value)
	for _, toggle := range s.form.Toggles {
		if toggle.Flag != flag {
			continue
		}
		for _, target := range toggle.Targets {
			state := s.fields[target]
			state.Disabled = on
			if on {
				state.Value = ""
				state.Error = ""
			}
		}
	}
}

func (s *Session) propagateBounds(source string) {
	value, err := domain.ParseNumber(s.fields[source].Value)
	if err != nil {
		return
	}
	for _, link := range s.form.Links {
		if link.Source != source {
			continue
		}
		for _, target := range link.Targets {
			state := s.fields[target]
			bound := value
			switch link.Edge {
			case domain.LowerEdge:
				state.Bounds.Min = &bound
			case domain.UpperEdge:
				state.Bounds.Max = &bound
			}
			if state.Value != "" {
				field, _ := s.form.Field(target)
				_ = s.commit(state, field)
			}
		}
	}
}

func (s *Session) setting(key string) bool {
	if s.settings == nil {
		return false
	}
	return s.settings.Bool(key)
}

func nextValue(values []string, current string) string {
	for i, v := range values {
		if v == current && i+1 < len(values) {
			return values[i+1]
		}
	}
	return ""
}
