// Package payload holds the helpers the resource DTOs share: decoding
// snake_case maps into parameter structs, scalar and id-list checks, set
// de-duplication and the wire time format.
package payload

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// TimeLayout is the datetime format the API accepts.
const TimeLayout = "2006-01-02 15:04:05"

var validate = validator.New()

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsHTTPURL reports whether s is an absolute http or https URL.
func IsHTTPURL(s string) bool {
	if validate.Var(s, "required,url") != nil {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Decode merges input over out, which must be a pointer to a struct with
// mapstructure tags. Keys absent from input leave the existing values alone;
// maps and slices present in input replace the existing ones. Unknown keys
// are an error.
func Decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeHook,
		),
		ErrorUnused: true,
		ZeroFields:  true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// timeHook accepts the API datetime layout and RFC 3339 for time.Time fields.
func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{TimeLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("invalid datetime %q", s)
}

// MissingKey returns the first key from required that is absent from m.
func MissingKey(m map[string]any, required ...string) (string, bool) {
	for _, key := range required {
		if _, ok := m[key]; !ok {
			return key, true
		}
	}
	return "", false
}

// FormatTime renders t in the API datetime layout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// IsScalar reports whether v is nil, a string, a bool or a number.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// CheckScalarMap verifies every key is non-empty and every value scalar.
func CheckScalarMap(m map[string]any) error {
	for k, v := range m {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("keys must be non-empty strings")
		}
		if !IsScalar(v) {
			return fmt.Errorf("value for %q must be a scalar or null, got %T", k, v)
		}
	}
	return nil
}

// IsID reports whether v is a usable identifier: a non-empty string or an
// integer.
func IsID(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		// JSON numbers decode as float64
		return t == float64(int64(t))
	default:
		return false
	}
}

// CheckIDs verifies every entry is a string or integer identifier.
func CheckIDs(ids []any) error {
	for i, id := range ids {
		if !IsID(id) {
			return fmt.Errorf("entry %d must be a string or integer ID, got %T", i, id)
		}
	}
	return nil
}

// UniqueIDs drops repeated identifiers, keeping the first occurrence. 1 and
// "1" are the same identifier.
func UniqueIDs(ids []any) []any {
	seen := make(map[string]struct{}, len(ids))
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		key := fmt.Sprint(id)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UniqueStrings drops repeated strings, keeping the first occurrence.
func UniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// CloneMap returns a shallow copy of m, or nil when m is empty.
func CloneMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CloneMaps returns a copy of a list of maps, copying each map.
func CloneMaps(items []map[string]any) []map[string]any {
	if len(items) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, CloneMap(item))
	}
	return out
}

// CloneSlice returns a copy of s, or nil when s is empty.
func CloneSlice[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return append([]T(nil), s...)
}
