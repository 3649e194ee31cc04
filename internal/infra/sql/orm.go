package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type ORM interface {
	AutoMigrate(dst ...any) error
	Create(value any) ORM
	Find(dest any, conds ...any) ORM
	First(dest any, conds ...any) ORM
	Offset(offset int) ORM
	Order(value any) ORM
	Save(value any) ORM
	WithContext(ctx context.Context) ORM
	Transaction(fc func(tx ORM) error) error

	Error() error
}

type DB struct {
	*gorm.DB
	autoMigrationEnabled bool
	timeout              time.Duration
	system               string
}

var (
	ErrRecordNotFound = errors.New("record not found")
)

func (d DB) Error() error {
	switch {
	case errors.Is(d.DB.Error, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case d.DB.Error != nil:
		return fmt.Errorf("database error: %w", d.DB.Error)
	default:
		return nil
	}
}

var _ ORM = (*DB)(nil)

func (d DB) AutoMigrate(dst ...any) error {
	if d.autoMigrationEnabled {
		return d.DB.AutoMigrate(dst...)
	}

	return nil
}

func (d DB) Create(value any) ORM {
	d.setSpanAttributes("create")
	d.DB = d.DB.Create(value)
	return &d
}

func (d DB) Find(value any, conds ...any) ORM {
	d.setSpanAttributes("find")
	d.DB = d.DB.Find(value, conds...)
	return &d
}

func (d DB) First(value any, conds ...any) ORM {
	d.setSpanAttributes("first")
	d.DB = d.DB.First(value, conds...)
	return &d
}

func (d DB) Offset(value int) ORM {
	d.DB = d.DB.Offset(value)
	return &d
}

func (d DB) Order(value any) ORM {
	d.DB = d.DB.Order(value)
	return &d
}

func (d DB) Save(value any) ORM {
	d.setSpanAttributes("save")
	d.DB = d.DB.Save(value)
	return &d
}

// WithContext binds ctx to the following statements, bounded by the
// configured timeout when there is one.
func (d DB) WithContext(value context.Context) ORM {
	if d.timeout > 0 {
		timeoutCtx, cancel := context.WithTimeout(value, d.timeout)
		go func() {
			<-timeoutCtx.Done()
			cancel()
		}()
		value = timeoutCtx
	}

	d.DB = d.DB.WithContext(value)
	return &d
}

func (d DB) Transaction(f func(ORM) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return f(&DB{DB: tx, autoMigrationEnabled: d.autoMigrationEnabled, timeout: d.timeout, system: d.system})
	})
}

func (d DB) setSpanAttributes(operation string) {
	if ctx := d.DB.Statement.Context; ctx != nil {
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("span.kind", "client"),
				attribute.String("component", "database"),
				attribute.String("db.system", d.system),
				attribute.String("db.operation", operation),
			)
		}
	}
}
