package groups

import (
	"context"
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Builder accumulates a group fluently. A Builder is not safe for
// concurrent use.
type Builder struct {
	service *Service
	name    string
}

// NewBuilder returns an empty Builder backed by service.
func NewBuilder(service *Service) *Builder {
	return &Builder{service: service}
}

// Named sets the group name.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// WithName is Named.
func (b *Builder) WithName(name string) *Builder {
	return b.Named(name)
}

var methods = fluent.Table[*Builder]{
	"named":    fluent.Setter((*Builder).Named),
	"withName": fluent.Setter((*Builder).WithName),
}

// Call invokes a builder method by name, with an optional "and" prefix.
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. The name is required.
func (b *Builder) ToDTO() (*Group, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, errs.ArgumentRequired(resource, "name")
	}
	return New(Params{Name: b.name})
}

// Create creates the group.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	g, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Create(ctx, g)
}

// Save is Create.
func (b *Builder) Save(ctx context.Context) (*Info, error) {
	return b.Create(ctx)
}

// Update renames group id to the accumulated name.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	g, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, g)
}

// Delete removes group id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find returns group id, or nil when it does not exist.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	return b.service.GetByID(ctx, id)
}

// FindByName looks up the group with the accumulated name.
func (b *Builder) FindByName(ctx context.Context) (*Info, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, errs.ArgumentRequired(resource, "name")
	}
	return b.service.FindByName(ctx, b.name)
}

// List returns one page of groups.
func (b *Builder) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	return b.service.List(ctx, filters)
}

// Subscribers returns one page of group id's subscribers.
func (b *Builder) Subscribers(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[Member], error) {
	return b.service.GetSubscribers(ctx, id, filters)
}

// Reset clears the accumulated state.
func (b *Builder) Reset() *Builder {
	b.name = ""
	return b
}

// Fresh returns a new empty Builder sharing the Service.
func (b *Builder) Fresh() *Builder {
	return NewBuilder(b.service)
}
