package webhooks

import (
	"sort"
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Events a webhook can subscribe to.
const (
	EventSubscriberCreated             = "subscriber.created"
	EventSubscriberUpdated             = "subscriber.updated"
	EventSubscriberUnsubscribed        = "subscriber.unsubscribed"
	EventSubscriberAddedToGroup        = "subscriber.added_to_group"
	EventSubscriberRemovedFromGroup    = "subscriber.removed_from_group"
	EventSubscriberBounced             = "subscriber.bounced"
	EventSubscriberAutomationTriggered = "subscriber.automation_triggered"
	EventSubscriberAutomationCompleted = "subscriber.automation_completed"
	EventSubscriberSpamReported        = "subscriber.spam_reported"
	EventSubscriberDeleted             = "subscriber.deleted"
	EventCampaignSent                  = "campaign.sent"
	EventCampaignOpened                = "campaign.opened"
	EventCampaignClicked               = "campaign.clicked"
)

var validEvents = map[string]struct{}{
	EventSubscriberCreated:             {},
	EventSubscriberUpdated:             {},
	EventSubscriberUnsubscribed:        {},
	EventSubscriberAddedToGroup:        {},
	EventSubscriberRemovedFromGroup:    {},
	EventSubscriberBounced:             {},
	EventSubscriberAutomationTriggered: {},
	EventSubscriberAutomationCompleted: {},
	EventSubscriberSpamReported:        {},
	EventSubscriberDeleted:             {},
	EventCampaignSent:                  {},
	EventCampaignOpened:                {},
	EventCampaignClicked:               {},
}

// Events returns every supported event name, sorted.
func Events() []string {
	out := make([]string, 0, len(validEvents))
	for e := range validEvents {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Params holds the fields of a Webhook under their wire names. A nil
// Enabled means enabled.
type Params struct {
	URL       string   `mapstructure:"url"`
	Events    []string `mapstructure:"events"`
	Name      string   `mapstructure:"name"`
	Enabled   *bool    `mapstructure:"enabled"`
	Batchable bool     `mapstructure:"batchable"`
}

func (p Params) clone() Params {
	if p.Enabled != nil {
		enabled := *p.Enabled
		p.Enabled = &enabled
	}
	p.Events = payload.CloneSlice(p.Events)
	return p
}

// Webhook is a validated, immutable webhook payload.
type Webhook struct {
	p Params
}

// New validates p and returns the Webhook.
func New(p Params) (*Webhook, error) {
	p = p.clone()
	p.URL = strings.TrimSpace(p.URL)
	p.Name = strings.TrimSpace(p.Name)
	if p.Enabled == nil {
		enabled := true
		p.Enabled = &enabled
	}
	if err := check(p); err != nil {
		return nil, err
	}
	return &Webhook{p: p}, nil
}

// For returns an enabled Webhook delivering events to url.
func For(url string, events ...string) (*Webhook, error) {
	return New(Params{URL: url, Events: events})
}

func check(p Params) error {
	if p.URL == "" {
		return EmptyURL()
	}
	if !payload.IsHTTPURL(p.URL) {
		return InvalidURL(p.URL)
	}
	if len(p.Events) == 0 {
		return NoEvents()
	}
	for _, e := range p.Events {
		if _, ok := validEvents[e]; !ok {
			return InvalidEvent(e)
		}
	}
	return nil
}

// FromArray builds a Webhook from wire-named keys. The url and events keys
// are required.
func FromArray(m map[string]any) (*Webhook, error) {
	if key, missing := payload.MissingKey(m, "url", "events"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// With returns a new Webhook with partial merged over the current values.
func (w *Webhook) With(partial map[string]any) (*Webhook, error) {
	p := w.p.clone()
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithURL returns a copy with the url replaced.
func (w *Webhook) WithURL(url string) (*Webhook, error) {
	p := w.p.clone()
	p.URL = url
	return New(p)
}

// WithName returns a copy with the name replaced.
func (w *Webhook) WithName(name string) (*Webhook, error) {
	p := w.p.clone()
	p.Name = name
	return New(p)
}

// WithEvents returns a copy with events added to the subscription.
func (w *Webhook) WithEvents(events ...string) (*Webhook, error) {
	p := w.p.clone()
	p.Events = payload.UniqueStrings(append(p.Events, events...))
	return New(p)
}

// WithEnabled returns a copy with the enabled flag replaced.
func (w *Webhook) WithEnabled(enabled bool) (*Webhook, error) {
	p := w.p.clone()
	p.Enabled = &enabled
	return New(p)
}

func (w *Webhook) URL() string      { return w.p.URL }
func (w *Webhook) Events() []string { return payload.CloneSlice(w.p.Events) }
func (w *Webhook) Name() string     { return w.p.Name }
func (w *Webhook) Enabled() bool    { return *w.p.Enabled }
func (w *Webhook) Batchable() bool  { return w.p.Batchable }
func (w *Webhook) Params() Params   { return w.p.clone() }

// ToArray returns the request payload. Enabled is left out when true and
// batchable when false.
func (w *Webhook) ToArray() map[string]any {
	out := map[string]any{
		"url":    w.p.URL,
		"events": payload.CloneSlice(w.p.Events),
	}
	if w.p.Name != "" {
		out["name"] = w.p.Name
	}
	if !*w.p.Enabled {
		out["enabled"] = false
	}
	if w.p.Batchable {
		out["batchable"] = true
	}
	return out
}
