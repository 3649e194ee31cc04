package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/persistence"
	"abq-data-entry/internal/dataentry/usecases"
)

// SessionDriver runs a data entry session against a CSV sheet and a settings
// file kept in a scratch directory.
type SessionDriver struct {
	dir        string
	today      time.Time
	repository *persistence.CSVRecordRepository
	settings   *persistence.SettingsFile
	session    *usecases.Session
}

func NewSessionDriver(dir string, today time.Time) (*SessionDriver, error) {
	form := domain.ABQForm()

	repository, err := persistence.NewCSVRecordRepository(filepath.Join(dir, persistence.DefaultRecordFileName(today)), form)
	if err != nil {
		return nil, fmt.Errorf("opening record sheet: %w", err)
	}
	settings, err := persistence.NewSettingsFile(filepath.Join(dir, persistence.DefaultSettingsFileName))
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}

	d := &SessionDriver{
		dir:        dir,
		today:      today,
		repository: repository,
		settings:   settings,
	}
	d.Restart()
	return d, nil
}

// Restart begins a new session so that changed settings take effect.
func (d *SessionDriver) Restart() {
	d.session = usecases.NewSession(domain.ABQForm(), d.repository,
		usecases.WithSettings(d.settings),
		usecases.WithClock(func() time.Time { return d.today }),
	)
}

func (d *SessionDriver) Session() *usecases.Session {
	return d.session
}

func (d *SessionDriver) Settings() *persistence.SettingsFile {
	return d.settings
}

// Enter sets a field the way a pasted value arrives and leaves it.
func (d *SessionDriver) Enter(name, value string) error {
	if err := d.session.SetValue(name, value); err != nil {
		return err
	}
	field, _ := d.session.Form().Field(name)
	if field.Type == domain.FieldTypeBoolean {
		return nil
	}
	// validation failures stay on the field state
	_ = d.session.Leave(name)
	return nil
}

func (d *SessionDriver) Type(name, text string) error {
	if _, err := d.session.Type(name, text); err != nil {
		return err
	}
	_ = d.session.Leave(name)
	return nil
}

func (d *SessionDriver) Save(ctx context.Context) error {
	return d.session.Save(ctx)
}

func (d *SessionDriver) Records(ctx context.Context) ([]domain.Record, error) {
	return d.repository.FindAll(ctx)
}
