package usecases

import (
	"context"
	"errors"

	"abq-data-entry/internal/dataentry/domain"
)

//go:generate mockgen -source=repository_port.go -destination=../../../test/unit/doubles/dataentry/usecases/repository_port_mock.go -package=usecases -mock_names=RecordRepository=MockRecordRepository,SettingsRepository=MockSettingsRepository

var (
	ErrCorruptStore     = errors.New("store is missing fields")
	ErrRecordOutOfRange = errors.New("record position out of range")
	ErrStoreNotWritable = errors.New("permission denied accessing file")
	ErrUnknownField     = errors.New("record has fields the store does not know")
	ErrFieldNotFound    = errors.New("field not found")
	ErrFieldDisabled    = errors.New("field is disabled")
	ErrInvalidForm      = errors.New("cannot save, error in fields")
	ErrBadSetting       = errors.New("bad key or wrong value type")
)

// RecordRepository stores records by 0-based position. A nil position on
// Save appends.
type RecordRepository interface {
	Save(ctx context.Context, record domain.Record, position *int) error
	FindAll(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, position int) (domain.Record, error)
}

const (
	SettingAutofillDate      = "autofill date"
	SettingAutofillSheetData = "autofill sheet data"
)

type SettingsRepository interface {
	Bool(key string) bool
	Set(key string, value any) error
}
