package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/persistence/internal"
	"abq-data-entry/internal/dataentry/usecases"
	"abq-data-entry/internal/infra/sql"
)

var _ usecases.RecordRepository = (*SQLRecordRepository)(nil)

// SQLRecordRepository keeps records in a database table. Positions are the
// 0-based order of insertion, which matches the row order of the CSV store.
type SQLRecordRepository struct {
	orm  sql.ORM
	form domain.Form
}

func NewSQLRecordRepository(orm sql.ORM, form domain.Form) (*SQLRecordRepository, error) {
	err := orm.AutoMigrate(&internal.Record{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SQLRecordRepository{
		orm:  orm,
		form: form,
	}, nil
}

func (r *SQLRecordRepository) Save(ctx context.Context, record domain.Record, position *int) error {
	if err := r.checkFields(record); err != nil {
		return err
	}
	entity := internal.FromDomain(record)

	if position == nil {
		err := r.orm.WithContext(ctx).Create(&entity).Error()
		if err != nil {
			return fmt.Errorf("creating record in database: %w", err)
		}
		slog.Debug("record created", slog.Uint64("id", uint64(entity.ID)))
		return nil
	}

	return r.orm.Transaction(func(tx sql.ORM) error {
		existing, err := r.at(ctx, tx, *position)
		if err != nil {
			return err
		}
		entity.ID = existing.ID

		err = tx.WithContext(ctx).Save(&entity).Error()
		if err != nil {
			return fmt.Errorf("updating record %d: %w", *position, err)
		}
		slog.Debug("record updated", slog.Int("position", *position), slog.Uint64("id", uint64(entity.ID)))
		return nil
	})
}

func (r *SQLRecordRepository) FindAll(ctx context.Context) ([]domain.Record, error) {
	var entities []internal.Record
	err := r.orm.
		WithContext(ctx).
		Order("id").
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	flags := r.form.BooleanNames()
	result := make([]domain.Record, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain(flags)
	}
	return result, nil
}

func (r *SQLRecordRepository) Get(ctx context.Context, position int) (domain.Record, error) {
	entity, err := r.at(ctx, r.orm, position)
	if err != nil {
		return nil, err
	}
	return entity.ToDomain(r.form.BooleanNames()), nil
}

func (r *SQLRecordRepository) at(ctx context.Context, orm sql.ORM, position int) (internal.Record, error) {
	if position < 0 {
		return internal.Record{}, fmt.Errorf("%w: %d", usecases.ErrRecordOutOfRange, position)
	}

	var entity internal.Record
	err := orm.
		WithContext(ctx).
		Order("id").
		Offset(position).
		First(&entity).
		Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return internal.Record{}, fmt.Errorf("%w: %d", usecases.ErrRecordOutOfRange, position)
	}
	if err != nil {
		return internal.Record{}, fmt.Errorf("database query: %w", err)
	}
	return entity, nil
}

func (r *SQLRecordRepository) checkFields(record domain.Record) error {
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
