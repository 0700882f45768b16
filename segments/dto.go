package segments

import (
	"strings"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/payload"
)

// Filter types and the keys each one requires besides "type".
const (
	FilterField         = "field"
	FilterGroup         = "group"
	FilterDate          = "date"
	FilterEmailActivity = "email_activity"
)

var filterKeys = map[string][]string{
	FilterField:         {"field", "operator", "value"},
	FilterGroup:         {"group_id", "operator"},
	FilterDate:          {"field", "operator", "value"},
	FilterEmailActivity: {"activity", "operator"},
}

// Match modes.
const (
	MatchAll = "all"
	MatchAny = "any"
)

// Params holds the fields of a Segment under their wire names. An empty
// Match means all.
type Params struct {
	Name    string           `mapstructure:"name"`
	Filters []map[string]any `mapstructure:"filters"`
	Match   string           `mapstructure:"match"`
}

func (p Params) clone() Params {
	p.Filters = payload.CloneMaps(p.Filters)
	return p
}

// Segment is a validated, immutable segment payload.
type Segment struct {
	p Params
}

// New validates p and returns the Segment.
func New(p Params) (*Segment, error) {
	p = p.clone()
	p.Name = strings.TrimSpace(p.Name)
	if p.Match == "" {
		p.Match = MatchAll
	}
	if err := check(p); err != nil {
		return nil, err
	}
	return &Segment{p: p}, nil
}

func check(p Params) error {
	if p.Name == "" {
		return EmptyName()
	}
	if len(p.Filters) == 0 {
		return NoFilters()
	}
	for i, f := range p.Filters {
		typ, _ := f["type"].(string)
		if typ == "" {
			return InvalidFilter(i, "missing type")
		}
		required, ok := filterKeys[typ]
		if !ok {
			return InvalidFilter(i, "unknown type "+typ)
		}
		if key, missing := payload.MissingKey(f, required...); missing {
			return InvalidFilter(i, typ+" filter requires "+key)
		}
	}
	if p.Match != MatchAll && p.Match != MatchAny {
		return InvalidMatch(p.Match)
	}
	return nil
}

// FieldSegment matches subscribers on a custom field value.
func FieldSegment(name, field, operator string, value any) (*Segment, error) {
	return New(Params{Name: name, Filters: []map[string]any{
		FieldFilter(field, operator, value),
	}})
}

// GroupSegment matches subscribers on group membership.
func GroupSegment(name string, groupID any, operator string) (*Segment, error) {
	return New(Params{Name: name, Filters: []map[string]any{
		GroupFilter(groupID, operator),
	}})
}

// DateSegment matches subscribers on a date field.
func DateSegment(name, field, operator string, value any) (*Segment, error) {
	return New(Params{Name: name, Filters: []map[string]any{
		DateFilter(field, operator, value),
	}})
}

// EmailActivitySegment matches subscribers on opens, clicks and the like.
func EmailActivitySegment(name, activity, operator string) (*Segment, error) {
	return New(Params{Name: name, Filters: []map[string]any{
		EmailActivityFilter(activity, operator),
	}})
}

// FieldFilter builds a filter on a custom field value.
func FieldFilter(field, operator string, value any) map[string]any {
	return map[string]any{"type": FilterField, "field": field, "operator": operator, "value": value}
}

// GroupFilter builds a filter on group membership.
func GroupFilter(groupID any, operator string) map[string]any {
	return map[string]any{"type": FilterGroup, "group_id": groupID, "operator": operator}
}

// DateFilter builds a filter on a date field.
func DateFilter(field, operator string, value any) map[string]any {
	return map[string]any{"type": FilterDate, "field": field, "operator": operator, "value": value}
}

// EmailActivityFilter builds a filter on email activity.
func EmailActivityFilter(activity, operator string) map[string]any {
	return map[string]any{"type": FilterEmailActivity, "activity": activity, "operator": operator}
}

// FromArray builds a Segment from wire-named keys. Name and filters are
// required.
func FromArray(m map[string]any) (*Segment, error) {
	if key, missing := payload.MissingKey(m, "name", "filters"); missing {
		return nil, errs.ArgumentRequired(resource, key)
	}
	var p Params
	if err := payload.Decode(m, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// With returns a new Segment with partial merged over the current values.
func (s *Segment) With(partial map[string]any) (*Segment, error) {
	p := s.p.clone()
	if err := payload.Decode(partial, &p); err != nil {
		return nil, errs.Validation(resource, "", err.Error())
	}
	return New(p)
}

// WithName returns a copy with the name replaced.
func (s *Segment) WithName(name string) (*Segment, error) {
	p := s.p.clone()
	p.Name = name
	return New(p)
}

// WithFilters returns a copy with filters appended.
func (s *Segment) WithFilters(filters ...map[string]any) (*Segment, error) {
	p := s.p.clone()
	p.Filters = append(p.Filters, payload.CloneMaps(filters)...)
	return New(p)
}

// WithMatch returns a copy with the match mode replaced.
func (s *Segment) WithMatch(match string) (*Segment, error) {
	p := s.p.clone()
	p.Match = match
	return New(p)
}

func (s *Segment) Name() string              { return s.p.Name }
func (s *Segment) Filters() []map[string]any { return payload.CloneMaps(s.p.Filters) }
func (s *Segment) Match() string             { return s.p.Match }
func (s *Segment) Params() Params            { return s.p.clone() }

// ToArray returns the request payload. Match is left out when it is all.
func (s *Segment) ToArray() map[string]any {
	out := map[string]any{
		"name":    s.p.Name,
		"filters": payload.CloneMaps(s.p.Filters),
	}
	if s.p.Match != MatchAll {
		out["match"] = s.p.Match
	}
	return out
}
