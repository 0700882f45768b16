package fields

import (
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Field types.
const (
	TypeText   = "text"
	TypeNumber = "number"
	TypeDate   = "date"
)

// Params holds the fields of a Field under their wire names. An empty Type
// means text.
type Params struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// Field is a validated, immutable custom field payload.
type Field struct {
	p Params
}

// New validates p and returns the Field.
func New(p Params) (*Field, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Type == "" {
		p.Type = TypeText
	}
	if p.Name == "" {
		return nil, EmptyName()
	}
	switch p.Type {
	case TypeText, TypeNumber, TypeDate:
	default:
		return nil, InvalidType(p.Type)
	}
	return &Field{p: p}, nil
}

// Text returns a text field.
func Text(name string) (*Field, error) { return New(Params{Name: name, Type: TypeText}) }

// Number returns a number field.
func Number(name string) (*Field, error) { return New(Params{Name: name, Type: TypeNumber}) }

// Date returns a date field.
func Date(name string) (*Field, error) { return New(Params{Name: name, Type: TypeDate}) }

// FromArray builds a Field from wire-named keys. The name key is required.
func FromArray(m map[string]any) (*Field, error) {
	if key, missing := payload.MissingKey(m, "name"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// With returns a new Field with partial merged over the current values.
func (f *Field) With(partial map[string]any) (*Field, error) {
	p := f.p
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithName returns a copy with the name replaced.
func (f *Field) WithName(name string) (*Field, error) {
	p := f.p
	p.Name = name
	return New(p)
}

// WithType returns a copy with the type replaced.
func (f *Field) WithType(typ string) (*Field, error) {
	p := f.p
	p.Type = typ
	return New(p)
}

func (f *Field) Name() string   { return f.p.Name }
func (f *Field) Type() string   { return f.p.Type }
func (f *Field) Params() Params { return f.p }

// ToArray returns the request payload. Type is left out when it is text.
func (f *Field) ToArray() map[string]any {
	out := map[string]any{"name": f.p.Name}
	if f.p.Type != TypeText {
		out["type"] = f.p.Type
	}
	return out
}
