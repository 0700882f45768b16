package fields

import (
	"context"
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Builder accumulates a custom field fluently. A Builder is not safe for
// concurrent use.
type Builder struct {
	service *Service
	name    string
	typ     string
}

// NewBuilder returns an empty Builder backed by service.
func NewBuilder(service *Service) *Builder {
	return &Builder{service: service}
}

// Named sets the field name.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// WithTitle is Named: a field's title is its name.
func (b *Builder) WithTitle(title string) *Builder {
	return b.Named(title)
}

// OfType sets the field type. It is validated by ToDTO.
func (b *Builder) OfType(typ string) *Builder {
	b.typ = typ
	return b
}

func (b *Builder) AsText() *Builder   { return b.OfType(TypeText) }
func (b *Builder) AsNumber() *Builder { return b.OfType(TypeNumber) }
func (b *Builder) AsDate() *Builder   { return b.OfType(TypeDate) }

var methods = fluent.Table[*Builder]{
	"named":     fluent.Setter((*Builder).Named),
	"withTitle": fluent.Setter((*Builder).WithTitle),
	"ofType":    fluent.Setter((*Builder).OfType),
	"asText":    fluent.Flag((*Builder).AsText),
	"asNumber":  fluent.Flag((*Builder).AsNumber),
	"asDate":    fluent.Flag((*Builder).AsDate),
}

// Call invokes a builder method by name, with an optional "and" prefix.
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. The name is required.
func (b *Builder) ToDTO() (*Field, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, errs.ArgumentRequired(resource, "name")
	}
	return New(Params{Name: b.name, Type: b.typ})
}

// Create creates the field.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	f, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Create(ctx, f)
}

// Save is Create.
func (b *Builder) Save(ctx context.Context) (*Info, error) {
	return b.Create(ctx)
}

// Update overwrites field id with the accumulated state.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	f, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, f)
}

// Delete removes field id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find returns field id, or nil when it does not exist.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	return b.service.GetByID(ctx, id)
}

// FindByName looks up the field with the accumulated name.
func (b *Builder) FindByName(ctx context.Context) (*Info, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, errs.ArgumentRequired(resource, "name")
	}
	return b.service.FindByName(ctx, b.name)
}

// List returns one page of fields.
func (b *Builder) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	return b.service.List(ctx, filters)
}

// Reset clears the accumulated state.
func (b *Builder) Reset() *Builder {
	b.name = ""
	b.typ = ""
	return b
}

// Fresh returns a new empty Builder sharing the Service.
func (b *Builder) Fresh() *Builder {
	return NewBuilder(b.service)
}
