package webhooks

import (
	"context"
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/payload"
)

// Builder accumulates a webhook fluently. A Builder is not safe for
// concurrent use.
type Builder struct {
	service *Service
	params  Params
}

// NewBuilder returns an empty Builder backed by service.
func NewBuilder(service *Service) *Builder {
	return &Builder{service: service}
}

// URL sets the endpoint MailerLite posts events to.
func (b *Builder) URL(url string) *Builder {
	b.params.URL = url
	return b
}

// Named sets the webhook name.
func (b *Builder) Named(name string) *Builder {
	b.params.Name = name
	return b
}

// On subscribes to one event.
func (b *Builder) On(event string) *Builder {
	b.params.Events = append(b.params.Events, event)
	return b
}

// OnEvents subscribes to several events.
func (b *Builder) OnEvents(events ...string) *Builder {
	b.params.Events = append(b.params.Events, events...)
	return b
}

// OnSubscriberEvents subscribes to every subscriber.* event.
func (b *Builder) OnSubscriberEvents() *Builder {
	for _, e := range Events() {
		if strings.HasPrefix(e, "subscriber.") {
			b.On(e)
		}
	}
	return b
}

// OnCampaignEvents subscribes to every campaign.* event.
func (b *Builder) OnCampaignEvents() *Builder {
	for _, e := range Events() {
		if strings.HasPrefix(e, "campaign.") {
			b.On(e)
		}
	}
	return b
}

func (b *Builder) Enabled() *Builder  { return b.setEnabled(true) }
func (b *Builder) Disabled() *Builder { return b.setEnabled(false) }

func (b *Builder) setEnabled(enabled bool) *Builder {
	b.params.Enabled = &enabled
	return b
}

// Batchable makes MailerLite group deliveries into batches.
func (b *Builder) Batchable() *Builder {
	b.params.Batchable = true
	return b
}

var methods = fluent.Table[*Builder]{
	"url":   fluent.Setter((*Builder).URL),
	"named": fluent.Setter((*Builder).Named),
	"on":    fluent.Setter((*Builder).On),
	"onEvents": func(b *Builder, args []any) error {
		for i := range args {
			event, err := fluent.Arg[string](args, i)
			if err != nil {
				return err
			}
			b.On(event)
		}
		return nil
	},
	"onSubscriberEvents": fluent.Flag((*Builder).OnSubscriberEvents),
	"onCampaignEvents":   fluent.Flag((*Builder).OnCampaignEvents),
	"enabled":            fluent.Flag((*Builder).Enabled),
	"disabled":           fluent.Flag((*Builder).Disabled),
	"batchable":          fluent.Flag((*Builder).Batchable),
}

// Call invokes a builder method by name, with an optional "and" prefix.
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. The url and at least one event
// are required, checked in that order.
func (b *Builder) ToDTO() (*Webhook, error) {
	if strings.TrimSpace(b.params.URL) == "" {
		return nil, errs.ArgumentRequired(resource, "url")
	}
	if len(b.params.Events) == 0 {
		return nil, errs.ArgumentRequired(resource, "events")
	}
	p := b.params.clone()
	p.Events = payload.UniqueStrings(p.Events)
	return New(p)
}

// Create validates the accumulated attributes and registers the webhook.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	w, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Create(ctx, w)
}

// Save is Create.
func (b *Builder) Save(ctx context.Context) (*Info, error) {
	return b.Create(ctx)
}

// Update overwrites webhook id with the accumulated state.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	w, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, w)
}

// Delete removes webhook id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find returns webhook id, or nil when it does not exist.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	return b.service.GetByID(ctx, id)
}

// List returns one page of webhooks.
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
