package internal

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"abq-data-entry/internal/dataentry/domain"
)

type Record struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Values Values `gorm:"type:text;not null"`
}

func (Record) TableName() string {
	return "records"
}

type Values map[string]any

func (v Values) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (v *Values) Scan(src any) error {
	var data []byte

	switch val := src.(type) {
	case string:
		data = []byte(val)
	case []byte:
		data = val
	case nil:
		*v = Values{}
		return nil
	default:
		return errors.New("invalid type for record values")
	}

	return json.Unmarshal(data, v)
}

func FromDomain(record domain.Record) Record {
	values := make(Values, len(record))
	for name, value := range record {
		if flag, ok := value.(bool); ok {
			values[name] = flag
			continue
		}
		values[name] = domain.FormatValue(value)
	}
	return Record{Values: values}
}

func (r Record) ToDomain(flags []string) domain.Record {
	record := make(domain.Record, len(r.Values))
	for name, value := range r.Values {
		record[name] = value
	}
	record.NormalizeFlags(flags)
	return record
}
