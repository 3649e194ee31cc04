package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const isoDateLayout = "2006-01-02"

type textRule struct {
	required bool
}

func (textRule) Key(Edit) KeyResult {
	return accept()
}

func (r textRule) Commit(value string) error {
	if r.required && strings.TrimSpace(value) == "" {
		return ErrMissingValue
	}
	return nil
}

type booleanRule struct{}

func (booleanRule) Key(Edit) KeyResult {
	return accept()
}

func (booleanRule) Commit(string) error {
	return nil
}

type dateRule struct{}

func (dateRule) Key(edit Edit) KeyResult {
	if edit.Action == ActionDelete {
		return accept()
	}
	for offset, char := range []rune(edit.Text) {
		switch edit.Index + offset {
		case 0, 1, 2, 3, 5, 6, 8, 9:
			if !unicode.IsDigit(char) {
				return reject()
			}
		case 4, 7:
			if char != '-' {
				return reject()
			}
		default:
			return reject()
		}
	}
	return accept()
}

func (dateRule) Commit(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrMissingValue
	}
	if _, err := time.Parse(isoDateLayout, value); err != nil {
		return ErrInvalidDate
	}
	return nil
}

type choiceListRule struct {
	field FieldDefinition
}

func (r choiceListRule) Key(edit Edit) KeyResult {
	if edit.Action == ActionDelete {
		return replaceWith("")
	}

	prefix := strings.ToLower(edit.Proposed)
	var matching []string
	for _, v := range r.field.Values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			matching = append(matching, v)
		}
	}

	switch len(matching) {
	case 0:
		return reject()
	case 1:
		return replaceWith(matching[0])
	default:
		return accept()
	}
}

func (r choiceListRule) Commit(value string) error {
	return commitChoice(r.field, value)
}

type choiceSetRule struct {
	field FieldDefinition
}

func (r choiceSetRule) Key(edit Edit) KeyResult {
	if edit.Action == ActionDelete {
		return replaceWith("")
	}
	for _, v := range r.field.Values {
		if strings.EqualFold(v, edit.Proposed) || strings.EqualFold(v, edit.Text) {
			return replaceWith(v)
		}
	}
	return reject()
}

func (r choiceSetRule) Commit(value string) error {
	return commitChoice(r.field, value)
}

func commitChoice(field FieldDefinition, value string) error {
	if value == "" {
		if field.IsRequired {
			return ErrMissingValue
		}
		return nil
	}
	if !field.HasValue(value) {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, value)
	}
	return nil
}

type numericRule struct {
	field     FieldDefinition
	bounds    Bounds
	precision int
}

func (r numericRule) Key(edit Edit) KeyResult {
	if edit.Action == ActionDelete {
		return accept()
	}

	allowNegative := r.bounds.Min == nil || r.bounds.Min.Sign() < 0
	allowDecimal := r.precision > 0
	dots := strings.Count(edit.Current, ".")

	for offset, char := range []rune(edit.Text) {
		switch {
		case unicode.IsDigit(char):
		case char == '-':
			if !allowNegative || edit.Index+offset != 0 {
				return reject()
			}
		case char == '.':
			if !allowDecimal || dots > 0 {
				return reject()
			}
			dots++
		default:
			return reject()
		}
	}

	switch edit.Proposed {
	case "", "-", ".", "-.":
		return accept()
	}

	proposed, err := ParseNumber(edit.Proposed)
	if err != nil {
		return reject()
	}
	if r.bounds.Max != nil && proposed.Cmp(*r.bounds.Max) > 0 {
		return reject()
	}
	if proposed.Scale() > r.precision {
		return reject()
	}
	return accept()
}

func (r numericRule) Commit(value string) error {
	if strings.TrimSpace(value) == "" && !r.field.IsRequired {
		return nil
	}

	n, err := ParseNumber(value)
	if err != nil {
		return err
	}
	if r.bounds.Min != nil && n.Cmp(*r.bounds.Min) < 0 {
		return fmt.Errorf("%w (min %s)", ErrTooLow, r.bounds.Min)
	}
	if r.bounds.Max != nil && n.Cmp(*r.bounds.Max) > 0 {
		return fmt.Errorf("%w (max %s)", ErrTooHigh, r.bounds.Max)
	}
	return nil
}
