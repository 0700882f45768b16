package automations

import (
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Params holds the fields of an Automation under their wire names. A nil
// Enabled means enabled.
type Params struct {
	Name        string           `mapstructure:"name"`
	Enabled     *bool            `mapstructure:"enabled"`
	Description string           `mapstructure:"description"`
	Triggers    []map[string]any `mapstructure:"triggers"`
	Steps       []map[string]any `mapstructure:"steps"`
	Settings    map[string]any   `mapstructure:"settings"`
	Groups      []any            `mapstructure:"groups"`
}

func (p Params) clone() Params {
	if p.Enabled != nil {
		enabled := *p.Enabled
		p.Enabled = &enabled
	}
	p.Triggers = payload.CloneMaps(p.Triggers)
	p.Steps = payload.CloneMaps(p.Steps)
	p.Settings = payload.CloneMap(p.Settings)
	p.Groups = payload.CloneSlice(p.Groups)
	return p
}

// Automation is a validated, immutable automation payload.
type Automation struct {
	p Params
}

// New validates p and returns the Automation.
func New(p Params) (*Automation, error) {
	p = p.clone()
	p.Name = strings.TrimSpace(p.Name)
	if p.Enabled == nil {
		enabled := true
		p.Enabled = &enabled
	}
	if err := check(p); err != nil {
		return nil, err
	}
	return &Automation{p: p}, nil
}

// Named returns an enabled Automation with only a name.
func Named(name string) (*Automation, error) {
	return New(Params{Name: name})
}

func check(p Params) error {
	if p.Name == "" {
		return EmptyName()
	}
	for i, t := range p.Triggers {
		if typ, _ := t["type"].(string); typ == "" {
			return InvalidTrigger(i, "missing type")
		}
	}
	for i, s := range p.Steps {
		if typ, _ := s["type"].(string); typ == "" {
			return InvalidStep(i, "missing type")
		}
	}
	if err := payload.CheckIDs(p.Groups); err != nil {
		return InvalidGroups(err)
	}
	return nil
}

// FromArray builds an Automation from wire-named keys. The name key is
// required.
func FromArray(m map[string]any) (*Automation, error) {
	if key, missing := payload.MissingKey(m, "name"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// With returns a new Automation with partial merged over the current values.
func (a *Automation) With(partial map[string]any) (*Automation, error) {
	p := a.p.clone()
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithName returns a copy with the name replaced.
func (a *Automation) WithName(name string) (*Automation, error) {
	p := a.p.clone()
	p.Name = name
	return New(p)
}

// WithEnabled returns a copy with the enabled flag replaced.
func (a *Automation) WithEnabled(enabled bool) (*Automation, error) {
	p := a.p.clone()
	p.Enabled = &enabled
	return New(p)
}

// WithTriggers returns a copy with triggers appended.
func (a *Automation) WithTriggers(triggers ...map[string]any) (*Automation, error) {
	p := a.p.clone()
	p.Triggers = append(p.Triggers, payload.CloneMaps(triggers)...)
	return New(p)
}

// WithSteps returns a copy with steps appended.
func (a *Automation) WithSteps(steps ...map[string]any) (*Automation, error) {
	p := a.p.clone()
	p.Steps = append(p.Steps, payload.CloneMaps(steps)...)
	return New(p)
}

func (a *Automation) Name() string               { return a.p.Name }
func (a *Automation) Enabled() bool              { return *a.p.Enabled }
func (a *Automation) Description() string        { return a.p.Description }
func (a *Automation) Triggers() []map[string]any { return payload.CloneMaps(a.p.Triggers) }
func (a *Automation) Steps() []map[string]any    { return payload.CloneMaps(a.p.Steps) }
func (a *Automation) Settings() map[string]any   { return payload.CloneMap(a.p.Settings) }
func (a *Automation) Groups() []any              { return payload.CloneSlice(a.p.Groups) }
func (a *Automation) Params() Params             { return a.p.clone() }

// ToArray returns the request payload. Enabled is left out when true.
func (a *Automation) ToArray() map[string]any {
	out := map[string]any{"name": a.p.Name}
	if !*a.p.Enabled {
		out["enabled"] = false
	}
	if a.p.Description != "" {
		out["description"] = a.p.Description
	}
	if len(a.p.Triggers) > 0 {
		out["triggers"] = payload.CloneMaps(a.p.Triggers)
	}
	if len(a.p.Steps) > 0 {
		out["steps"] = payload.CloneMaps(a.p.Steps)
	}
	if len(a.p.Settings) > 0 {
		out["settings"] = payload.CloneMap(a.p.Settings)
	}
	if len(a.p.Groups) > 0 {
		out["groups"] = payload.CloneSlice(a.p.Groups)
	}
	return out
}
