package persistence

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/usecases"
)

// DefaultRecordFileName is the daily sheet used when no path is configured.
func DefaultRecordFileName(now time.Time) string {
	return fmt.Sprintf("abq_data_record_%s.csv", now.Format("2006-01-02"))
}

var _ usecases.RecordRepository = (*CSVRecordRepository)(nil)

// CSVRecordRepository keeps records in a comma separated file whose header
// lists the form fields in canonical order. Nothing is cached: every call
// reads or writes the file from scratch.
type CSVRecordRepository struct {
	path   string
	form   domain.Form
	fields []string
}

func NewCSVRecordRepository(path string, form domain.Form) (*CSVRecordRepository, error) {
	if err := checkWritable(path); err != nil {
		return nil, err
	}

	return &CSVRecordRepository{
		path:   path,
		form:   form,
		fields: form.Names(),
	}, nil
}

func (r *CSVRecordRepository) Path() string {
	return r.path
}

func (r *CSVRecordRepository) Save(ctx context.Context, record domain.Record, position *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.checkFields(record); err != nil {
		return err
	}

	if position == nil {
		return r.append(record)
	}

	header, records, err := r.read()
	if err != nil {
		return err
	}
	if *position < 0 || *position >= len(records) {
		return fmt.Errorf("%w: %d of %d", usecases.ErrRecordOutOfRange, *position, len(records))
	}
	records[*position] = record

	// columns outside the form are kept as they are in the file
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rowOf(header, rec)
	}

	return r.rewrite(header, rows)
}

func (r *CSVRecordRepository) FindAll(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, records, err := r.read()
	return records, err
}

func (r *CSVRecordRepository) Get(ctx context.Context, position int) (domain.Record, error) {
	records, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if position < 0 || position >= len(records) {
		return nil, fmt.Errorf("%w: %d of %d", usecases.ErrRecordOutOfRange, position, len(records))
	}
	return records[position], nil
}

// read returns the file header and its records. A missing file has
// neither.
func (r *CSVRecordRepository) read() ([]string, []domain.Record, error) {
	fh, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []domain.Record{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", r.path, err)
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("reading header of %s: %w", r.path, err)
	}
	if missing := r.missingFields(header); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", usecases.ErrCorruptStore, strings.Join(missing, ", "))
	}

	flags := r.form.BooleanNames()
	records := []domain.Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", r.path, err)
		}

		record := make(domain.Record, len(header))
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record[name] = value
		}
		record.NormalizeFlags(flags)
		records = append(records, record)
	}

	slog.Debug("records read", slog.String("path", r.path), slog.Int("count", len(records)))
	return header, records, nil
}

func (r *CSVRecordRepository) append(record domain.Record) error {
	info, err := os.Stat(r.path)
	newFile := errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0)

	header := r.fields
	if !newFile {
		if header, err = r.header(); err != nil {
			return err
		}
	}

	fh, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", usecases.ErrStoreNotWritable, r.path, err)
	}
	defer fh.Close()

	writer := csv.NewWriter(fh)
	if newFile {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := writer.Write(rowOf(header, record)); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", r.path, err)
	}

	slog.Debug("record appended", slog.String("path", r.path), slog.Bool("new_file", newFile))
	return fh.Close()
}

// header reads the column names of an existing, non-empty file.
func (r *CSVRecordRepository) header() ([]string, error) {
	fh, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", r.path, err)
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", r.path, err)
	}
	if missing := r.missingFields(header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", usecases.ErrCorruptStore, strings.Join(missing, ", "))
	}
	return header, nil
}

func (r *CSVRecordRepository) rewrite(header []string, rows [][]string) error {
	fh, err := os.OpenFile(r.path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", usecases.ErrStoreNotWritable, r.path, err)
	}
	defer fh.Close()

	writer := csv.NewWriter(fh)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	slog.Debug("records rewritten", slog.String("path", r.path), slog.Int("count", len(rows)))
	return fh.Close()
}

// checkFields refuses records carrying keys the form does not define.
func (r *CSVRecordRepository) checkFields(record domain.Record) error {
	var unknown []string
	for name := range record {
		if _, ok := r.form.Field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", usecases.ErrUnknownField, strings.Join(unknown, ", "))
	}
	return nil
}

func rowOf(header []string, record domain.Record) []string {
	row := make([]string, len(header))
	for i, name := range header {
		row[i] = record.Text(name)
	}
	return row
}

func (r *CSVRecordRepository) missingFields(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	var missing []string
	for _, name := range r.fields {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// checkWritable fails unless the file can be written: an existing file must
// accept writes, a missing one needs a writable parent directory.
func checkWritable(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", usecases.ErrStoreNotWritable, path)
		}
		fh, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("%w: %s", usecases.ErrStoreNotWritable, path)
		}
		return fh.Close()
	case errors.Is(err, fs.ErrNotExist):
		probe, err := os.CreateTemp(filepath.Dir(path), ".abq-probe-*")
		if err != nil {
			return fmt.Errorf("%w: %s", usecases.ErrStoreNotWritable, path)
		}
		name := probe.Name()
		probe.Close()
		return os.Remove(name)
	default:
		return fmt.Errorf("%w: %s: %w", usecases.ErrStoreNotWritable, path, err)
	}
}
