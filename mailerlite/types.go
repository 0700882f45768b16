package mailerlite

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Record is a decoded MailerLite resource object. Accessors return zero
// values for missing or mistyped keys so response transforms never fail on
// partial payloads.
type Record map[string]any

// String returns the value at key as a string.
func (r Record) String(key string) string {
	return r.StringOr(key, "")
}

// StringOr returns the value at key as a string, or def when absent or null.
func (r Record) StringOr(key, def string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// ID returns the "id" key, which the API emits as either a string or a number.
func (r Record) ID() string {
	return r.String("id")
}

// Int returns the value at key as an int.
func (r Record) Int(key string) int {
	switch t := r[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float returns the value at key as a float64. Rate objects of the form
// {"float": 0.5, "string": "50%"} are unwrapped.
func (r Record) Float(key string) float64 {
	switch t := r[key].(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case map[string]any:
		return Record(t).Float("float")
	default:
		return 0
	}
}

// Bool returns the value at key as a bool, or def when absent.
func (r Record) Bool(key string, def bool) bool {
	switch t := r[key].(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Map returns the object at key, never nil.
func (r Record) Map(key string) map[string]any {
	if m, ok := r[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Record returns the object at key as a Record, never nil.
func (r Record) Record(key string) Record {
	return Record(r.Map(key))
}

// Slice returns the array at key, never nil. Typed slices of objects and
// strings are accepted as well as decoded JSON arrays.
func (r Record) Slice(key string) []any {
	switch t := r[key].(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return []any{}
}

// Strings returns the array at key as strings, skipping non-scalar entries.
func (r Record) Strings(key string) []string {
	items := r.Slice(key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	return out
}

// Records returns the array at key as Records, skipping non-object entries.
func (r Record) Records(key string) []Record {
	items := r.Slice(key)
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Unwrap normalizes the response envelopes the API and its proxies produce.
// A {"body": {"data": {...}}} or {"data": {...}} envelope yields the inner
// object; anything else is returned as is.
func Unwrap(raw map[string]any) Record {
	if raw == nil {
		return Record{}
	}
	if body, ok := raw["body"].(map[string]any); ok {
		return Unwrap(body)
	}
	if data, ok := raw["data"].(map[string]any); ok {
		return Record(data)
	}
	return Record(raw)
}

// Page is one page of a list endpoint. Meta and Links are passed through
// verbatim from the API.
type Page[T any] struct {
	Data  []T            `json:"data"`
	Meta  map[string]any `json:"meta"`
	Links map[string]any `json:"links"`
}

// Total returns meta.total, falling back to the number of items on the page.
func (p *Page[T]) Total() int {
	if n := Record(p.Meta).Int("total"); n > 0 {
		return n
	}
	return len(p.Data)
}

// LastPage returns meta.last_page, or 1 when absent.
func (p *Page[T]) LastPage() int {
	if n := Record(p.Meta).Int("last_page"); n > 0 {
		return n
	}
	return 1
}

// NextCursor returns meta.next_cursor for cursor-paginated endpoints.
func (p *Page[T]) NextCursor() string {
	return Record(p.Meta).String("next_cursor")
}

// MapPage applies fn to every item of p, carrying meta and links over and
// defaulting them to empty maps.
func MapPage[T any](p *Page[Record], fn func(Record) T) *Page[T] {
	out := &Page[T]{
		Data:  make([]T, 0),
		Meta:  map[string]any{},
		Links: map[string]any{},
	}
	if p == nil {
		return out
	}
	for _, item := range p.Data {
		out.Data = append(out.Data, fn(item))
	}
	if p.Meta != nil {
		out.Meta = p.Meta
	}
	if p.Links != nil {
		out.Links = p.Links
	}
	return out
}

// Filters are list query parameters. Nested maps are encoded in the
// bracketed form the API expects: {"filter": {"status": "active"}} becomes
// filter[status]=active. Slices are comma-joined.
type Filters map[string]any

// Clone returns a shallow copy of f that is safe to modify.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Values encodes f as a query string.
func (f Filters) Values() url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		encodeFilter(values, k, f[k])
	}
	return values
}

func encodeFilter(values url.Values, key string, v any) {
	switch t := v.(type) {
	case nil:
		return
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			encodeFilter(values, fmt.Sprintf("%s[%s]", key, k), t[k])
		}
	case Filters:
		encodeFilter(values, key, map[string]any(t))
	case []string:
		values.Set(key, strings.Join(t, ","))
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		values.Set(key, strings.Join(parts, ","))
	default:
		values.Set(key, fmt.Sprint(t))
	}
}
