package subscribers

import (
	"context"
	"strings"
	"time"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fluent"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/payload"
)

// Builder accumulates a subscriber fluently:
//
//	info, err := subscribers.NewBuilder(svc).
//		Email("jane@example.com").
//		Named("Jane").
//		ToGroup("123").
//		Subscribe(ctx)
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

// Email sets the address.
func (b *Builder) Email(email string) *Builder {
	b.params.Email = email
	return b
}

// Named sets the "name" custom field.
func (b *Builder) Named(name string) *Builder {
	return b.WithField("name", name)
}

// WithLastName sets the "last_name" custom field.
func (b *Builder) WithLastName(name string) *Builder {
	return b.WithField("last_name", name)
}

// WithField sets one custom field, keeping the others.
func (b *Builder) WithField(key string, value any) *Builder {
	if b.params.Fields == nil {
		b.params.Fields = make(map[string]any)
	}
	b.params.Fields[key] = value
	return b
}

// WithFields merges fields into the custom fields.
func (b *Builder) WithFields(fields map[string]any) *Builder {
	for k, v := range fields {
		b.WithField(k, v)
	}
	return b
}

// ToGroup adds one group.
func (b *Builder) ToGroup(id any) *Builder {
	b.params.Groups = append(b.params.Groups, id)
	return b
}

// ToGroups adds several groups.
func (b *Builder) ToGroups(ids ...any) *Builder {
	b.params.Groups = append(b.params.Groups, ids...)
	return b
}

// WithStatus sets the status. It is validated by ToDTO.
func (b *Builder) WithStatus(status string) *Builder {
	b.params.Status = status
	return b
}

func (b *Builder) Active() *Builder       { return b.WithStatus(StatusActive) }
func (b *Builder) Unsubscribed() *Builder { return b.WithStatus(StatusUnsubscribed) }
func (b *Builder) Unconfirmed() *Builder  { return b.WithStatus(StatusUnconfirmed) }

// SubscribedAt sets the subscription time.
func (b *Builder) SubscribedAt(t time.Time) *Builder {
	b.params.SubscribedAt = t
	return b
}

// FromIP sets the signup IP address.
func (b *Builder) FromIP(ip string) *Builder {
	b.params.IPAddress = ip
	return b
}

// OptedInAt sets the double opt-in confirmation time and IP.
func (b *Builder) OptedInAt(t time.Time, ip string) *Builder {
	b.params.OptedInAt = t
	b.params.OptinIP = ip
	return b
}

// UnsubscribedAt sets the unsubscription time.
func (b *Builder) UnsubscribedAt(t time.Time) *Builder {
	b.params.UnsubscribedAt = t
	return b
}

var methods = fluent.Table[*Builder]{
	"email":        fluent.Setter((*Builder).Email),
	"named":        fluent.Setter((*Builder).Named),
	"withLastName": fluent.Setter((*Builder).WithLastName),
	"withField": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 2); err != nil {
			return err
		}
		key, err := fluent.Arg[string](args, 0)
		if err != nil {
			return err
		}
		b.WithField(key, args[1])
		return nil
	},
	"withFields": fluent.Setter((*Builder).WithFields),
	"toGroup": func(b *Builder, args []any) error {
		if err := fluent.Require(args, 1); err != nil {
			return err
		}
		b.ToGroup(args[0])
		return nil
	},
	"toGroups":       fluent.Variadic((*Builder).ToGroups),
	"withStatus":     fluent.Setter((*Builder).WithStatus),
	"active":         fluent.Flag((*Builder).Active),
	"unsubscribed":   fluent.Flag((*Builder).Unsubscribed),
	"unconfirmed":    fluent.Flag((*Builder).Unconfirmed),
	"fromIP":         fluent.Setter((*Builder).FromIP),
	"subscribedAt":   fluent.Setter((*Builder).SubscribedAt),
	"unsubscribedAt": fluent.Setter((*Builder).UnsubscribedAt),
}

// Call invokes a builder method by name. Names may carry an "and" prefix,
// so Call("andNamed", "Jane") is Named("Jane").
func (b *Builder) Call(method string, args ...any) (*Builder, error) {
	if err := fluent.Dispatch(b, resource, methods, method, args, "and"); err != nil {
		return b, err
	}
	return b, nil
}

// ToDTO validates the accumulated state. Email is the only required field.
func (b *Builder) ToDTO() (*Subscriber, error) {
	if strings.TrimSpace(b.params.Email) == "" {
		return nil, errs.ArgumentRequired(resource, "email")
	}
	p := b.params
	p.Groups = payload.UniqueIDs(p.Groups)
	return New(p)
}

// Subscribe creates the subscriber.
func (b *Builder) Subscribe(ctx context.Context) (*Info, error) {
	sub, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Create(ctx, sub)
}

// Create is Subscribe.
func (b *Builder) Create(ctx context.Context) (*Info, error) {
	return b.Subscribe(ctx)
}

// Update overwrites subscriber id with the accumulated state.
func (b *Builder) Update(ctx context.Context, id string) (*Info, error) {
	sub, err := b.ToDTO()
	if err != nil {
		return nil, err
	}
	return b.service.Update(ctx, id, sub)
}

// Delete removes subscriber id.
func (b *Builder) Delete(ctx context.Context, id string) (bool, error) {
	return b.service.Delete(ctx, id)
}

// Find looks up a subscriber by id, or by the accumulated email when id is
// empty. A missing subscriber yields nil.
func (b *Builder) Find(ctx context.Context, id string) (*Info, error) {
	if id == "" {
		if b.params.Email == "" {
			return nil, errs.ArgumentRequired(resource, "email")
		}
		return b.service.GetByEmail(ctx, b.params.Email)
	}
	if strings.Contains(id, "@") {
		return b.service.GetByEmail(ctx, id)
	}
	return b.service.GetByID(ctx, id)
}

// List returns one page of subscribers.
func (b *Builder) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	return b.service.List(ctx, filters)
}

// Unsubscribe unsubscribes subscriber id.
func (b *Builder) Unsubscribe(ctx context.Context, id string) (*Info, error) {
	return b.service.Unsubscribe(ctx, id)
}

// Resubscribe reactivates subscriber id.
func (b *Builder) Resubscribe(ctx context.Context, id string) (*Info, error) {
	return b.service.Resubscribe(ctx, id)
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
