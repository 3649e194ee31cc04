package domain

import "fmt"

type Edge int

const (
	LowerEdge Edge = iota
	UpperEdge
)

// Toggle disables its targets while the boolean Flag field is set.
type Toggle struct {
	Flag    string
	Targets []string
}

// BoundLink feeds the committed value of Source into one edge of the live
// bounds of each target.
type BoundLink struct {
	Source  string
	Targets []string
	Edge    Edge
}

type Form struct {
	Fields  []FieldDefinition
	Toggles []Toggle
	Links   []BoundLink
}

func (f Form) Field(name string) (FieldDefinition, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// Names returns the canonical field order.
func (f Form) Names() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}
	return names
}

func (f Form) BooleanNames() []string {
	var names []string
	for _, field := range f.Fields {
		if field.Type == FieldTypeBoolean {
			names = append(names, field.Name)
		}
	}
	return names
}

func NewFormBuilder() *formBuilder {
	return &formBuilder{}
}

type formBuilder struct {
	actions []formHandler
}

type formHandler func(v *Form) error

func (b *formBuilder) WithField(value FieldDefinition) *formBuilder {
	b.actions = append(b.actions, func(d *Form) error {
		if _, exists := d.Field(value.Name); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateField, value.Name)
		}
		if value.Type.IsNumeric() {
			if _, err := value.Bounds(); err != nil {
				return fmt.Errorf("field %s: %w", value.Name, err)
			}
		}
		d.Fields = append(d.Fields, value)
		return nil
	})
	return b
}

func (b *formBuilder) WithToggle(flag string, targets ...string) *formBuilder {
	b.actions = append(b.actions, func(d *Form) error {
		field, exists := d.Field(flag)
		if !exists {
			return fmt.Errorf("%w: %s", ErrFieldUnknown, flag)
		}
		if field.Type != FieldTypeBoolean {
			return fmt.Errorf("toggle %s must be a boolean field", flag)
		}
		if err := requireFields(d, targets); err != nil {
			return err
		}
		d.Toggles = append(d.Toggles, Toggle{Flag: flag, Targets: targets})
		return nil
	})
	return b
}

func (b *formBuilder) WithBoundLink(source string, edge Edge, targets ...string) *formBuilder {
	b.actions = append(b.actions, func(d *Form) error {
		if err := requireFields(d, append([]string{source}, targets...)); err != nil {
			return err
		}
		d.Links = append(d.Links, BoundLink{Source: source, Targets: targets, Edge: edge})
		return nil
	})
	return b
}

func (b *formBuilder) Build() (Form, error) {
	var result Form
	for _, action := range b.actions {
		if err := action(&result); err != nil {
			return Form{}, err
		}
	}
	return result, nil
}

func requireFields(form *Form, names []string) error {
	for _, name := range names {
		if _, exists := form.Field(name); !exists {
			return fmt.Errorf("%w: %s", ErrFieldUnknown, name)
		}
	}
	return nil
}
