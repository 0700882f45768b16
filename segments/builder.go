package segments

import (
	"context"
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Builder accumulates a segment definition fluently. Segments cannot be
// created through the API, so the Builder is mostly useful for Update. A
// Builder is not safe for concurrent use.
type Builder struct {
	service *Service
	name    string
	filters []map[string]any
	match   string
}

// NewBuilder returns an empty Builder backed by service.
func NewBuilder(service *Service) *Builder {
	return &Builder{service: service}
}

// Named sets the segment name.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// WithFilter adds a raw filter.
func (b *Builder) WithFilter(filter map[string]any) *Builder {
	b.filters = append(b.filters, filter)
	return b
}

// WhereField adds a custom field filter.
func (b *Builder) WhereField(field, operator string, value any) *Builder {
	return b.WithFilter(FieldFilter(field, operator, value))
}

// InGroup adds a group membership filter.
func (b *Builder) InGroup(groupID any) *Builder {
	return b.WithFilter(GroupFilter(groupID, "in"))
}

// NotInGroup adds a negated group membership filter.
func (b *Builder) NotInGroup(groupID any) *Builder {
	return b.WithFilter(GroupFilter(groupID, "not_in"))
}

// WhereDate adds a date field filter.
func (b *Builder) WhereDate(field, operator string, value any) *Builder {
	return b.WithFilter(DateFilter(field, operator, value))
}

// WithEmailActivity adds an email activity filter, e.g. ("opened", "any").
func (b *Builder) WithEmailActivity(activity, operator string) *Builder {
	return b.WithFilter(EmailActivityFilter(activity, operator))
}

// MatchAll requires every filter to match.
func (b *Builder) MatchAll() *Builder {
	b.match = MatchAll
	return b
}

// MatchAny requires at least one filter to match.
func (b *Builder) MatchAny() *Builder {
	b.match = MatchAny
	return b
}

var methods = fluent.Table[*Builder]{
	"named":      fluent.Setter((*Builder).Named),
	"withFilter": fluent.Setter((*Builder).WithFilter),
	"whereField": func(b *Builder, args []any) error {
		return threeArgs(args, func(field, operator string, value any) { b.WhereField(field, operator, value) })
	},
	"whereDate": func(b *Builder, args []any) error {
		return threeArgs(args, func(field, operator string, value any) { b.WhereDate(field, operator, value) })
	},
	"inGroup": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 1); err != nil {
			return err
		}
		b.InGroup(args[0])
		return nil
	},
	"notInGroup": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 1); err != nil {
			return err
		}
		b.NotInGroup(args[0])
		return nil
	},
	"withEmailActivity": func(b *Builder, args []any) error {
		activity, err := fluent.Arg[string](args, 0)
		if err != nil {
			return err
		}
		operator, err := fluent.Arg[string](args, 1)
		if err != nil {
			return err
		}
		b.WithEmailActivity(activity, operator)
		return nil
	},
	"matchAll": fluent.Flag((*Builder).MatchAll),
	"matchAny": fluent.Flag((*Builder).MatchAny),
}

func threeArgs(args []any, set func(field, operator string, value any)) error {
	if err := fluent.Require(args, 3); err != nil {
		return err
	}
	field, err := fluent.Arg[string](args, 0)
	if err != nil {
		return err
	}
	operator, err := fluent.Arg[string](args, 1)
	if err != nil {
		return err
	}
	set(field, operator, args[2])
	return nil
}

// Call invokes a builder method by name, with an optional "and" prefix.
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. Name and at least one filter are
// required, checked in that order.
func (b *Builder) ToDTO() (*Segment, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, errs.ArgumentRequired(resource, "name")
	}
	if len(b.filters) == 0 {
		return nil, errs.ArgumentRequired(resource, "filters")
	}
	return New(Params{Name: b.name, Filters: b.filters, Match: b.match})
}

// Create validates the definition and always fails with a not-implemented
// error.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	seg, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Create(ctx, seg)
}

// Update overwrites segment id with the accumulated definition.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	seg, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, seg)
}

// Delete removes segment id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find returns segment id, or nil when it does not exist.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	return b.service.GetByID(ctx, id)
}

// List returns one page of segments.
func (b *Builder) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	return b.service.List(ctx, filters)
}

// Reset clears the accumulated state.
func (b *Builder) Reset() *Builder {
	b.name = ""
	b.filters = nil
	b.match = ""
	return b
}

// Fresh returns a new empty Builder sharing the Service.
func (b *Builder) Fresh() *Builder {
	return NewBuilder(b.service)
}
