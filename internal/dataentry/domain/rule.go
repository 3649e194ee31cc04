package domain

type Action int

const (
	ActionInsert Action = iota
	ActionDelete
)

// Edit is a single change attempted on a field's text. Proposed is the text
// the field would hold if the change were accepted.
type Edit struct {
	Action   Action
	Index    int
	Text     string
	Current  string
	Proposed string
}

func InsertEdit(current string, index int, text string) Edit {
	runes := []rune(current)
	if index < 0 || index > len(runes) {
		index = len(runes)
	}
	proposed := string(runes[:index]) + text + string(runes[index:])
	return Edit{
		Action:   ActionInsert,
		Index:    index,
		Text:     text,
		Current:  current,
		Proposed: proposed,
	}
}

func DeleteEdit(current string, index int, count int) Edit {
	runes := []rune(current)
	if index < 0 {
		index = 0
	}
	if index > len(runes) {
		index = len(runes)
	}
	end := index + count
	if end > len(runes) {
		end = len(runes)
	}
	return Edit{
		Action:   ActionDelete,
		Index:    index,
		Text:     string(runes[index:end]),
		Current:  current,
		Proposed: string(runes[:index]) + string(runes[end:]),
	}
}

// KeyResult is the verdict on an Edit. Replace, when set, is the text the
// field takes whatever Accept says; choice lists use it to auto-complete.
type KeyResult struct {
	Accept  bool
	Replace *string
}

func accept() KeyResult {
	return KeyResult{Accept: true}
}

func reject() KeyResult {
	return KeyResult{}
}

func replaceWith(value string) KeyResult {
	return KeyResult{Replace: &value}
}

// Rule validates a field both per keystroke and as a whole value when the
// field is left.
type Rule interface {
	Key(edit Edit) KeyResult
	Commit(value string) error
}

// NewRule selects the validation strategy for the field type. Bounds are the
// live limits, which may differ from the declared ones for linked fields.
func NewRule(field FieldDefinition, bounds Bounds) Rule {
	switch field.Type {
	case FieldTypeISODate:
		return dateRule{}
	case FieldTypeStringList:
		return choiceListRule{field: field}
	case FieldTypeShortStringList:
		return choiceSetRule{field: field}
	case FieldTypeInteger, FieldTypeDecimal:
		return numericRule{field: field, bounds: bounds, precision: field.Precision()}
	case FieldTypeBoolean:
		return booleanRule{}
	default:
		return textRule{required: field.IsRequired}
	}
}
