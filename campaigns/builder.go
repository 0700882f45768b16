package campaigns

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/payload"
)

// htmlPolicy keeps formatting, links and images. It is safe for concurrent
// use.
var htmlPolicy = bluemonday.UGCPolicy()

// Builder accumulates a campaign fluently:
//
//	info, err := campaigns.NewBuilder(svc).
//		Subject("March news").
//		From("Acme", "news@acme.io").
//		WithHTML(body).
//		ToGroup("123").
//		Send(ctx)
//
// A Builder is not safe for concurrent use.
type Builder struct {
	service *Service
	params  Params
	draft   bool
}

// NewBuilder returns an empty Builder backed by service.
func NewBuilder(service *Service) *Builder {
	return &Builder{service: service}
}

// Subject sets the email subject line.
func (b *Builder) Subject(subject string) *Builder {
	b.params.Subject = subject
	return b
}

// Named sets the internal campaign name.
func (b *Builder) Named(name string) *Builder {
	b.params.Name = name
	return b
}

// From sets the sender name and address.
func (b *Builder) From(name, email string) *Builder {
	b.params.FromName = name
	b.params.FromEmail = email
	return b
}

// FromName sets the sender name.
func (b *Builder) FromName(name string) *Builder {
	b.params.FromName = name
	return b
}

// FromEmail sets the sender address.
func (b *Builder) FromEmail(email string) *Builder {
	b.params.FromEmail = email
	return b
}

// WithHTML sets the HTML body as given.
func (b *Builder) WithHTML(html string) *Builder {
	b.params.HTML = html
	return b
}

// WithSanitizedHTML sets the HTML body after stripping scripts, event
// handlers and other markup unsafe for user-supplied content.
func (b *Builder) WithSanitizedHTML(html string) *Builder {
	return b.WithHTML(htmlPolicy.Sanitize(html))
}

// WithPlain sets the plain-text body.
func (b *Builder) WithPlain(text string) *Builder {
	b.params.Plain = text
	return b
}

// WithContent sets both the HTML and plain-text bodies.
func (b *Builder) WithContent(html, text string) *Builder {
	return b.WithHTML(html).WithPlain(text)
}

// ToGroup targets one group.
func (b *Builder) ToGroup(id any) *Builder {
	b.params.Groups = append(b.params.Groups, id)
	return b
}

// ToGroups targets several groups.
func (b *Builder) ToGroups(ids ...any) *Builder {
	b.params.Groups = append(b.params.Groups, ids...)
	return b
}

// ToSegment targets one segment.
func (b *Builder) ToSegment(id any) *Builder {
	b.params.Segments = append(b.params.Segments, id)
	return b
}

// ToSegments targets several segments.
func (b *Builder) ToSegments(ids ...any) *Builder {
	b.params.Segments = append(b.params.Segments, ids...)
	return b
}

// OfType sets the campaign type. It is validated by ToDTO.
func (b *Builder) OfType(typ string) *Builder {
	b.params.Type = typ
	return b
}

func (b *Builder) Regular() *Builder { return b.OfType(TypeRegular) }
func (b *Builder) AB() *Builder      { return b.OfType(TypeAB) }
func (b *Builder) Resend() *Builder  { return b.OfType(TypeResend) }
func (b *Builder) RSS() *Builder     { return b.OfType(TypeRSS) }

// WithSetting sets one campaign setting, keeping the others.
func (b *Builder) WithSetting(key string, value any) *Builder {
	if b.params.Settings == nil {
		b.params.Settings = make(map[string]any)
	}
	b.params.Settings[key] = value
	return b
}

// WithSettings merges settings into the campaign settings.
func (b *Builder) WithSettings(settings map[string]any) *Builder {
	for k, v := range settings {
		b.WithSetting(k, v)
	}
	return b
}

// WithABSettings merges settings into the A/B test settings.
func (b *Builder) WithABSettings(settings map[string]any) *Builder {
	if b.params.ABSettings == nil {
		b.params.ABSettings = make(map[string]any)
	}
	for k, v := range settings {
		b.params.ABSettings[k] = v
	}
	return b
}

// ScheduleFor sets the delivery time. Create schedules the campaign unless
// the builder is marked as a draft.
func (b *Builder) ScheduleFor(at time.Time) *Builder {
	b.params.ScheduleAt = at
	return b
}

// Draft keeps Create from scheduling the campaign.
func (b *Builder) Draft() *Builder {
	b.draft = true
	return b
}

var methods = fluent.Table[*Builder]{
	"subject": fluent.Setter((*Builder).Subject),
	"named":   fluent.Setter((*Builder).Named),
	"from": func(b *Builder, args []any) error {
		name, err := fluent.Arg[string](args, 0)
		if err != nil {
			return err
		}
		email, err := fluent.Arg[string](args, 1)
		if err != nil {
			return err
		}
		b.From(name, email)
		return nil
	},
	"fromName":  fluent.Setter((*Builder).FromName),
	"fromEmail": fluent.Setter((*Builder).FromEmail),
	"withHTML":  fluent.Setter((*Builder).WithHTML),
	"withPlain": fluent.Setter((*Builder).WithPlain),

	"withSanitizedHTML": fluent.Setter((*Builder).WithSanitizedHTML),
	"toGroup": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 1); err != nil {
			return err
		}
		b.ToGroup(args[0])
		return nil
	},
	"toGroups": fluent.Variadic((*Builder).ToGroups),
	"toSegment": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 1); err != nil {
			return err
		}
		b.ToSegment(args[0])
		return nil
	},
	"toSegments":     fluent.Variadic((*Builder).ToSegments),
	"ofType":         fluent.Setter((*Builder).OfType),
	"regular":        fluent.Flag((*Builder).Regular),
	"ab":             fluent.Flag((*Builder).AB),
	"resend":         fluent.Flag((*Builder).Resend),
	"rss":            fluent.Flag((*Builder).RSS),
	"withSettings":   fluent.Setter((*Builder).WithSettings),
	"withABSettings": fluent.Setter((*Builder).WithABSettings),
	"scheduleFor":    fluent.Setter((*Builder).ScheduleFor),
	"draft":          fluent.Flag((*Builder).Draft),
}

// Call invokes a builder method by name. Names may carry an "and" prefix,
// so Call("andNamed", "x") is Named("x").
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. Subject, sender name and sender
// address are required, checked in that order.
func (b *Builder) ToDTO() (*Campaign, error) {
	required := []struct {
		field string
		value string
	}{
		{"subject", b.params.Subject},
		{"from_name", b.params.FromName},
		{"from_email", b.params.FromEmail},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, errs.ArgumentRequired(resource, r.field)
		}
	}

	p := b.params
	p.Groups = payload.UniqueIDs(p.Groups)
	p.Segments = payload.UniqueIDs(p.Segments)
	return New(p)
}

// Create creates the campaign, then schedules it when a delivery time is
// set and the builder is not a draft. A draft is created without
// schedule_at.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	c, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	if b.draft && c.IsScheduled() {
		if c, err = c.WithSchedule(time.Time{}); err != nil {
			return nil, err
		}
	}
	info, err := b.service.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if b.draft || !c.IsScheduled() {
		return info, nil
	}
	return b.service.Schedule(ctx, info.ID, c.ScheduleAt())
}

// Save is Create.
func (b *Builder) Save(ctx context.Context) (*Info, error) {
	return b.Create(ctx)
}

// Send creates the campaign and sends it right away. Nothing is sent when
// the create fails.
func (b *Builder) Send(ctx context.Context) (*Info, error) {
	c, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	info, err := b.service.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return b.service.Send(ctx, info.ID)
}

// ScheduleAt creates the campaign and schedules it for at.
func (b *Builder) ScheduleAt(ctx context.Context, at time.Time) (*Info, error) {
	b.params.ScheduleAt = at
	c, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	info, err := b.service.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return b.service.Schedule(ctx, info.ID, at)
}

// Update overwrites campaign id with the accumulated state.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	c, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, c)
}

// Delete removes campaign id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find returns campaign id, or nil when it does not exist.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	return b.service.GetByID(ctx, id)
}

// List returns one page of campaigns.
func (b *Builder) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	return b.service.List(ctx, filters)
}

// Reset clears the accumulated state.
func (b *Builder) Reset() *Builder {
	b.params = Params{}
	b.draft = false
	return b
}

// Fresh returns a new empty Builder sharing the Service.
func (b *Builder) Fresh() *Builder {
	return NewBuilder(b.service)
}
