package groups

import (
	"strings"
	"unicode/utf8"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Params holds the fields of a Group under their wire names.
type Params struct {
	Name string `mapstructure:"name"`
}

// Group is a validated, immutable group payload.
type Group struct {
	p Params
}

// New validates p and returns the Group.
func New(p Params) (*Group, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, EmptyName()
	}
	if n := utf8.RuneCountInString(p.Name); n > MaxNameLength {
		return nil, NameTooLong(n)
	}
	return &Group{p: p}, nil
}

// Named is New(Params{Name: name}).
func Named(name string) (*Group, error) {
	return New(Params{Name: name})
}

// FromArray builds a Group from wire-named keys. The name key is required.
func FromArray(m map[string]any) (*Group, error) {
	if key, missing := payload.MissingKey(m, "name"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// With returns a new Group with partial merged over the current values.
func (g *Group) With(partial map[string]any) (*Group, error) {
	p := g.p
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithName returns a copy with the name replaced.
func (g *Group) WithName(name string) (*Group, error) {
	return New(Params{Name: name})
}

func (g *Group) Name() string   { return g.p.Name }
func (g *Group) Params() Params { return g.p }

// ToArray returns the request payload.
func (g *Group) ToArray() map[string]any {
	return map[string]any{"name": g.p.Name}
}
