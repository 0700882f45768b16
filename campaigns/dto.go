package campaigns

import (
	"strings"
	"time"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Campaign types.
const (
	TypeRegular = "regular"
	TypeAB      = "ab"
	TypeResend  = "resend"
	TypeRSS     = "rss"
)

var validTypes = map[string]struct{}{
	TypeRegular: {},
	TypeAB:      {},
	TypeResend:  {},
	TypeRSS:     {},
}

// Params holds the fields of a Campaign under their wire names. Type is
// unset by default; the API then creates a regular campaign.
type Params struct {
	Subject    string         `mapstructure:"subject"`
	Name       string         `mapstructure:"name"`
	FromName   string         `mapstructure:"from_name"`
	FromEmail  string         `mapstructure:"from_email"`
	HTML       string         `mapstructure:"html"`
	Plain      string         `mapstructure:"plain"`
	Groups     []any          `mapstructure:"groups"`
	Segments   []any          `mapstructure:"segments"`
	ScheduleAt time.Time      `mapstructure:"schedule_at"`
	Type       string         `mapstructure:"type"`
	Settings   map[string]any `mapstructure:"settings"`
	ABSettings map[string]any `mapstructure:"ab_settings"`
}

func (p Params) clone() Params {
	p.Groups = payload.CloneSlice(p.Groups)
	p.Segments = payload.CloneSlice(p.Segments)
	p.Settings = payload.CloneMap(p.Settings)
	p.ABSettings = payload.CloneMap(p.ABSettings)
	return p
}

// Campaign is a validated, immutable campaign payload.
type Campaign struct {
	p Params
}

// New validates p and returns the Campaign.
func New(p Params) (*Campaign, error) {
	p = p.clone()
	p.Subject = strings.TrimSpace(p.Subject)
	p.FromEmail = strings.TrimSpace(p.FromEmail)
	if err := check(p); err != nil {
		return nil, err
	}
	return &Campaign{p: p}, nil
}

// FromArray builds a Campaign from wire-named keys. The subject key is
// required.
func FromArray(m map[string]any) (*Campaign, error) {
	if key, missing := payload.MissingKey(m, "subject"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

func check(p Params) error {
	if p.Subject == "" {
		return EmptySubject()
	}
	if p.FromEmail != "" && !payload.IsEmail(p.FromEmail) {
		return InvalidFromEmail(p.FromEmail)
	}
	if p.Type != "" {
		if _, ok := validTypes[p.Type]; !ok {
			return InvalidType(p.Type)
		}
	}
	if err := payload.CheckIDs(p.Groups); err != nil {
		return InvalidRecipients("groups", err)
	}
	if err := payload.CheckIDs(p.Segments); err != nil {
		return InvalidRecipients("segments", err)
	}
	return nil
}

// With returns a new Campaign with partial merged over the current values.
func (c *Campaign) With(partial map[string]any) (*Campaign, error) {
	p := c.p.clone()
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithSubject returns a copy with the subject replaced.
func (c *Campaign) WithSubject(subject string) (*Campaign, error) {
	p := c.p.clone()
	p.Subject = subject
	return New(p)
}

// WithName returns a copy with the name replaced.
func (c *Campaign) WithName(name string) (*Campaign, error) {
	p := c.p.clone()
	p.Name = name
	return New(p)
}

// WithGroups returns a copy with ids appended to the group list.
func (c *Campaign) WithGroups(ids ...any) (*Campaign, error) {
	p := c.p.clone()
	p.Groups = payload.UniqueIDs(append(p.Groups, ids...))
	return New(p)
}

// WithSegments returns a copy with ids appended to the segment list.
func (c *Campaign) WithSegments(ids ...any) (*Campaign, error) {
	p := c.p.clone()
	p.Segments = payload.UniqueIDs(append(p.Segments, ids...))
	return New(p)
}

// WithSchedule returns a copy scheduled for at.
func (c *Campaign) WithSchedule(at time.Time) (*Campaign, error) {
	p := c.p.clone()
	p.ScheduleAt = at
	return New(p)
}

func (c *Campaign) Subject() string            { return c.p.Subject }
func (c *Campaign) Name() string               { return c.p.Name }
func (c *Campaign) FromName() string           { return c.p.FromName }
func (c *Campaign) FromEmail() string          { return c.p.FromEmail }
func (c *Campaign) HTML() string               { return c.p.HTML }
func (c *Campaign) Plain() string              { return c.p.Plain }
func (c *Campaign) Groups() []any              { return payload.CloneSlice(c.p.Groups) }
func (c *Campaign) Segments() []any            { return payload.CloneSlice(c.p.Segments) }
func (c *Campaign) ScheduleAt() time.Time      { return c.p.ScheduleAt }
func (c *Campaign) Type() string               { return c.p.Type }
func (c *Campaign) Settings() map[string]any   { return payload.CloneMap(c.p.Settings) }
func (c *Campaign) ABSettings() map[string]any { return payload.CloneMap(c.p.ABSettings) }
func (c *Campaign) Params() Params             { return c.p.clone() }
func (c *Campaign) IsScheduled() bool          { return !c.p.ScheduleAt.IsZero() }

// ToArray returns the request payload: the subject plus every field that
// is set.
func (c *Campaign) ToArray() map[string]any {
	out := map[string]any{"subject": c.p.Subject}
	set := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	set("name", c.p.Name)
	set("from_name", c.p.FromName)
	set("from_email", c.p.FromEmail)
	set("html", c.p.HTML)
	set("plain", c.p.Plain)
	set("type", c.p.Type)
	if len(c.p.Groups) > 0 {
		out["groups"] = payload.CloneSlice(c.p.Groups)
	}
	if len(c.p.Segments) > 0 {
		out["segments"] = payload.CloneSlice(c.p.Segments)
	}
	if !c.p.ScheduleAt.IsZero() {
		out["schedule_at"] = payload.FormatTime(c.p.ScheduleAt)
	}
	if len(c.p.Settings) > 0 {
		out["settings"] = payload.CloneMap(c.p.Settings)
	}
	if len(c.p.ABSettings) > 0 {
		out["ab_settings"] = payload.CloneMap(c.p.ABSettings)
	}
	return out
}
