package subscribers

import (
	"strings"
	"time"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Subscriber statuses.
const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
	StatusUnconfirmed  = "unconfirmed"
	StatusBounced      = "bounced"
	StatusJunk         = "junk"
)

var validStatuses = map[string]struct{}{
	StatusActive:       {},
	StatusUnsubscribed: {},
	StatusUnconfirmed:  {},
	StatusBounced:      {},
	StatusJunk:         {},
}

var disposableDomains = map[string]struct{}{
	"10minutemail.com":  {},
	"guerrillamail.com": {},
	"mailinator.com":    {},
	"tempmail.org":      {},
	"temp-mail.org":     {},
	"yopmail.com":       {},
	"throwaway.email":   {},
	"trashmail.com":     {},
}

// Params holds the fields of a Subscriber under their wire names.
type Params struct {
	Email          string         `mapstructure:"email"`
	Fields         map[string]any `mapstructure:"fields"`
	Groups         []any          `mapstructure:"groups"`
	Status         string         `mapstructure:"status"`
	SubscribedAt   time.Time      `mapstructure:"subscribed_at"`
	IPAddress      string         `mapstructure:"ip_address"`
	OptedInAt      time.Time      `mapstructure:"opted_in_at"`
	OptinIP        string         `mapstructure:"optin_ip"`
	UnsubscribedAt time.Time      `mapstructure:"unsubscribed_at"`
}

func (p Params) clone() Params {
	p.Fields = payload.CloneMap(p.Fields)
	p.Groups = payload.CloneSlice(p.Groups)
	return p
}

// Subscriber is a validated, immutable subscriber payload.
type Subscriber struct {
	p Params
}

// New validates p and returns the Subscriber. An empty status means active.
func New(p Params) (*Subscriber, error) {
	p = p.clone()
	p.Email = strings.TrimSpace(p.Email)
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := check(p); err != nil {
		return nil, err
	}
	return &Subscriber{p: p}, nil
}

// FromArray builds a Subscriber from wire-named keys. The email key is
// required.
func FromArray(m map[string]any) (*Subscriber, error) {
	if key, missing := payload.MissingKey(m, "email"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

func check(p Params) error {
	if p.Email == "" {
		return EmptyEmail()
	}
	if !payload.IsEmail(p.Email) {
		return InvalidEmail(p.Email)
	}
	domain := strings.ToLower(p.Email[strings.LastIndex(p.Email, "@")+1:])
	if _, ok := disposableDomains[domain]; ok {
		return DisposableEmail(p.Email, domain)
	}
	if _, ok := validStatuses[p.Status]; !ok {
		return InvalidStatus(p.Status)
	}
	if err := payload.CheckScalarMap(p.Fields); err != nil {
		return InvalidFields(err)
	}
	if err := payload.CheckIDs(p.Groups); err != nil {
		return InvalidGroups(err)
	}
	return nil
}

// With returns a new Subscriber with partial merged over the current values.
func (s *Subscriber) With(partial map[string]any) (*Subscriber, error) {
	p := s.p.clone()
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithEmail returns a copy with a different address.
func (s *Subscriber) WithEmail(email string) (*Subscriber, error) {
	p := s.p.clone()
	p.Email = email
	return New(p)
}

// WithFields returns a copy with fields merged over the existing ones.
func (s *Subscriber) WithFields(fields map[string]any) (*Subscriber, error) {
	p := s.p.clone()
	if p.Fields == nil {
		p.Fields = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		p.Fields[k] = v
	}
	return New(p)
}

// WithGroups returns a copy with ids appended to the group list.
func (s *Subscriber) WithGroups(ids ...any) (*Subscriber, error) {
	p := s.p.clone()
	p.Groups = payload.UniqueIDs(append(p.Groups, ids...))
	return New(p)
}

// WithStatus returns a copy with a different status.
func (s *Subscriber) WithStatus(status string) (*Subscriber, error) {
	p := s.p.clone()
	p.Status = status
	return New(p)
}

func (s *Subscriber) Email() string             { return s.p.Email }
func (s *Subscriber) Fields() map[string]any    { return payload.CloneMap(s.p.Fields) }
func (s *Subscriber) Groups() []any             { return payload.CloneSlice(s.p.Groups) }
func (s *Subscriber) Status() string            { return s.p.Status }
func (s *Subscriber) SubscribedAt() time.Time   { return s.p.SubscribedAt }
func (s *Subscriber) IPAddress() string         { return s.p.IPAddress }
func (s *Subscriber) OptedInAt() time.Time      { return s.p.OptedInAt }
func (s *Subscriber) OptinIP() string           { return s.p.OptinIP }
func (s *Subscriber) UnsubscribedAt() time.Time { return s.p.UnsubscribedAt }

// Params returns a copy of the subscriber's fields.
func (s *Subscriber) Params() Params { return s.p.clone() }

// ToArray returns the request payload. Email is always present; the other
// keys only when set, and status only when it is not active.
func (s *Subscriber) ToArray() map[string]any {
	out := map[string]any{"email": s.p.Email}
	if len(s.p.Fields) > 0 {
		out["fields"] = payload.CloneMap(s.p.Fields)
	}
	if len(s.p.Groups) > 0 {
		out["groups"] = payload.CloneSlice(s.p.Groups)
	}
	if s.p.Status != StatusActive {
		out["status"] = s.p.Status
	}
	if !s.p.SubscribedAt.IsZero() {
		out["subscribed_at"] = payload.FormatTime(s.p.SubscribedAt)
	}
	if s.p.IPAddress != "" {
		out["ip_address"] = s.p.IPAddress
	}
	if !s.p.OptedInAt.IsZero() {
		out["opted_in_at"] = payload.FormatTime(s.p.OptedInAt)
	}
	if s.p.OptinIP != "" {
		out["optin_ip"] = s.p.OptinIP
	}
	if !s.p.UnsubscribedAt.IsZero() {
		out["unsubscribed_at"] = payload.FormatTime(s.p.UnsubscribedAt)
	}
	return out
}
