package domain

type FieldType string

const (
	FieldTypeString          FieldType = "string"
	FieldTypeLongString      FieldType = "long_string"
	FieldTypeStringList      FieldType = "string_list"
	FieldTypeShortStringList FieldType = "short_string_list"
	FieldTypeISODate         FieldType = "iso_date_string"
	FieldTypeBoolean         FieldType = "boolean"
	FieldTypeInteger         FieldType = "integer"
	FieldTypeDecimal         FieldType = "decimal"
)

func (t FieldType) IsNumeric() bool {
	return t == FieldTypeInteger || t == FieldTypeDecimal
}

func (t FieldType) IsChoice() bool {
	return t == FieldTypeStringList || t == FieldTypeShortStringList
}

// FieldDefinition describes one input of the form. Numeric constraints are
// decimal strings so that precision is taken from what was written, e.g.
// an increment of "0.01" allows two fractional digits.
type FieldDefinition struct {
	Name       string
	Type       FieldType
	IsRequired bool
	Values     []string
	Min        string
	Max        string
	Increment  string
}

// Bounds returns the declared numeric limits of the field. Unset limits are
// nil and mean unbounded.
func (f FieldDefinition) Bounds() (Bounds, error) {
	var bounds Bounds
	if f.Min != "" {
		n, err := ParseNumber(f.Min)
		if err != nil {
			return Bounds{}, err
		}
		bounds.Min = &n
	}
	if f.Max != "" {
		n, err := ParseNumber(f.Max)
		if err != nil {
			return Bounds{}, err
		}
		bounds.Max = &n
	}
	return bounds, nil
}

// Precision is the number of fractional digits the increment allows.
func (f FieldDefinition) Precision() int {
	increment := f.Increment
	if increment == "" {
		return 0
	}
	n, err := ParseNumber(increment)
	if err != nil {
		return 0
	}
	return n.SignificantScale()
}

func (f FieldDefinition) HasValue(value string) bool {
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}
