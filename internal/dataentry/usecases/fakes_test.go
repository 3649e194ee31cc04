package usecases_test

import (
	"context"
	"fmt"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/usecases"
)

type fakeRecordRepository struct {
	records       []domain.Record
	saveError     error
	savePositions []*int
}

func newFakeRecordRepository() *fakeRecordRepository {
	return &fakeRecordRepository{}
}

func (r *fakeRecordRepository) Save(_ context.Context, record domain.Record, position *int) error {
	r.savePositions = append(r.savePositions, position)
	if r.saveError != nil {
		return r.saveError
	}
	if position == nil {
		r.records = append(r.records, record)
		return nil
	}
	if *position < 0 || *position >= len(r.records) {
		return usecases.ErrRecordOutOfRange
	}
	r.records[*position] = record
	return nil
}

func (r *fakeRecordRepository) FindAll(context.Context) ([]domain.Record, error) {
	return r.records, nil
}

func (r *fakeRecordRepository) Get(_ context.Context, position int) (domain.Record, error) {
	if position < 0 || position >= len(r.records) {
		return nil, fmt.Errorf("%w: %d", usecases.ErrRecordOutOfRange, position)
	}
	return r.records[position], nil
}

type fakeSettings map[string]bool

func (s fakeSettings) Bool(key string) bool {
	return s[key]
}

func (s fakeSettings) Set(key string, value any) error {
	flag, ok := value.(bool)
	if !ok {
		return usecases.ErrBadSetting
	}
	s[key] = flag
	return nil
}
