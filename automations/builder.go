package automations

import (
	"context"
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/payload"
)

// Builder accumulates an automation fluently:
//
//	info, err := automations.NewBuilder(svc).
//		Named("Welcome").
//		TriggeredBy("subscriber_joins_group", map[string]any{"group_id": "42"}).
//		AddStep("email", map[string]any{"subject": "Hi"}).
//		Delay(1, "day").
//		Start(ctx)
//
// A Builder is not safe for concurrent use.
type Builder struct {
	service *Service
	params  Params
}

// NewBuilder returns an empty Builder backed by service.
func NewBuilder(service *Service) *Builder {
	return &Builder{service: service}
}

// Named sets the automation name.
func (b *Builder) Named(name string) *Builder {
	b.params.Name = name
	return b
}

// Description sets the free-text description.
func (b *Builder) Description(text string) *Builder {
	b.params.Description = text
	return b
}

func (b *Builder) Enabled() *Builder  { return b.setEnabled(true) }
func (b *Builder) Disabled() *Builder { return b.setEnabled(false) }

func (b *Builder) setEnabled(enabled bool) *Builder {
	b.params.Enabled = &enabled
	return b
}

// WithTrigger appends a trigger.
func (b *Builder) WithTrigger(trigger map[string]any) *Builder {
	b.params.Triggers = append(b.params.Triggers, payload.CloneMap(trigger))
	return b
}

// TriggeredBy adds a trigger of type typ with the given settings.
func (b *Builder) TriggeredBy(typ string, settings map[string]any) *Builder {
	b.params.Triggers = append(b.params.Triggers, typed(typ, settings))
	return b
}

// WithStep appends a workflow step.
func (b *Builder) WithStep(step map[string]any) *Builder {
	b.params.Steps = append(b.params.Steps, payload.CloneMap(step))
	return b
}

// AddStep appends a step of type typ with the given settings.
func (b *Builder) AddStep(typ string, settings map[string]any) *Builder {
	b.params.Steps = append(b.params.Steps, typed(typ, settings))
	return b
}

func typed(typ string, settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings)+1)
	for k, v := range settings {
		out[k] = v
	}
	out["type"] = typ
	return out
}

// Delay appends a delay step, e.g. Delay(2, "day").
func (b *Builder) Delay(value int, unit string) *Builder {
	return b.AddStep("delay", map[string]any{"value": value, "unit": unit})
}

// WithSetting sets one entry of the settings map.
func (b *Builder) WithSetting(key string, value any) *Builder {
	if b.params.Settings == nil {
		b.params.Settings = make(map[string]any)
	}
	b.params.Settings[key] = value
	return b
}

// ToGroup adds one group to the automation.
func (b *Builder) ToGroup(id any) *Builder {
	b.params.Groups = append(b.params.Groups, id)
	return b
}

// ToGroups adds several groups.
func (b *Builder) ToGroups(ids ...any) *Builder {
	b.params.Groups = append(b.params.Groups, ids...)
	return b
}

func typedEntry(add func(*Builder, string, map[string]any) *Builder) fluent.Method[*Builder] {
	return func(b *Builder, args []any) error {
		typ, err := fluent.Arg[string](args, 0)
		if err != nil {
			return err
		}
		settings, err := fluent.OptionalArg(args, 1, map[string]any{})
		if err != nil {
			return err
		}
		add(b, typ, settings)
		return nil
	}
}

var methods = fluent.Table[*Builder]{
	"named":       fluent.Setter((*Builder).Named),
	"description": fluent.Setter((*Builder).Description),
	"enabled":     fluent.Flag((*Builder).Enabled),
	"disabled":    fluent.Flag((*Builder).Disabled),
	"withTrigger": fluent.Setter((*Builder).WithTrigger),
	"triggeredBy": typedEntry((*Builder).TriggeredBy),
	"withStep":    fluent.Setter((*Builder).WithStep),
	"addStep":     typedEntry((*Builder).AddStep),
	"delay": func(b *Builder, args []any) error {
		value, err := fluent.Arg[int](args, 0)
		if err != nil {
			return err
		}
		unit, err := fluent.OptionalArg(args, 1, "day")
		if err != nil {
			return err
		}
		b.Delay(value, unit)
		return nil
	},
	"withSetting": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 2); err != nil {
			return err
		}
		key, err := fluent.Arg[string](args, 0)
		if err != nil {
			return err
		}
		b.WithSetting(key, args[1])
		return nil
	},
	"toGroup": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 1); err != nil {
			return err
		}
		b.ToGroup(args[0])
		return nil
	},
	"toGroups": fluent.Variadic((*Builder).ToGroups),
}

// Call invokes a builder method by name. Names may carry an "and" or a
// "then" prefix: Call("thenAddStep", "email") is AddStep("email", nil).
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and", "then"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. Only the name is required.
func (b *Builder) ToDTO() (*Automation, error) {
	if strings.TrimSpace(b.params.Name) == "" {
		return nil, errs.ArgumentRequired(resource, "name")
	}
	p := b.params.clone()
	p.Groups = payload.UniqueIDs(p.Groups)
	return New(p)
}

// Create validates the accumulated attributes and creates the automation.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	a, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Create(ctx, a)
}

// Save is Create.
func (b *Builder) Save(ctx context.Context) (*Info, error) {
	return b.Create(ctx)
}

// Start creates the automation and starts it. Nothing is started when the
// create fails.
func (b *Builder) Start(ctx context.Context) (*Info, error) {
	info, err := b.Create(ctx)
	if err != nil {
		return nil, err
	}
	return b.service.Start(ctx, info.ID)
}

// Update overwrites automation id with the accumulated state.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	a, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, a)
}

// Delete removes automation id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find returns automation id, or nil when it does not exist.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	return b.service.GetByID(ctx, id)
}

// List returns one page of automations.
func (b *Builder) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	return b.service.List(ctx, filters)
}

// Reset clears the accumulated state.
func (b *Builder) Reset() *Builder {
	b.params = Params{}
	return b
}

// Fresh returns a new empty Builder sharing the Service.
func (b *Builder) Fresh() *Builder {
	return NewBuilder(b.service)
}
