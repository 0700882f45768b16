package mailerlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want Record
	}{
		{
			name: "data envelope",
			raw:  map[string]any{"data": map[string]any{"id": "1"}},
			want: Record{"id": "1"},
		},
		{
			name: "body data envelope",
			raw:  map[string]any{"body": map[string]any{"data": map[string]any{"id": "2"}}},
			want: Record{"id": "2"},
		},
		{
			name: "bare object",
			raw:  map[string]any{"id": "3"},
			want: Record{"id": "3"},
		},
		{
			name: "nil",
			raw:  nil,
			want: Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unwrap(tt.raw))
		})
	}
}

func TestRecordAccessorsTolerateMissingKeys(t *testing.T) {
	r := Record{
		"id":         float64(12345),
		"count":      "7",
		"rate":       map[string]any{"float": 0.25, "string": "25%"},
		"enabled":    true,
		"name":       nil,
		"groups":     []any{"a", float64(2), map[string]any{"id": "x"}},
		"attributes": map[string]any{"k": "v"},
	}

	assert.Equal(t, "12345", r.ID())
	assert.Equal(t, 7, r.Int("count"))
	assert.Equal(t, 0.25, r.Float("rate"))
	assert.True(t, r.Bool("enabled", false))
	assert.True(t, r.Bool("missing", true))
	assert.Equal(t, "fallback", r.StringOr("name", "fallback"))
	assert.Equal(t, []string{"a", "2"}, r.Strings("groups"))
	assert.Len(t, r.Records("groups"), 1)
	assert.Equal(t, "v", r.Record("attributes").String("k"))
	assert.Empty(t, r.Map("missing"))
	assert.Empty(t, r.Slice("missing"))
	assert.Equal(t, 0, r.Int("missing"))
}

func TestMapPagePassesMetadataThrough(t *testing.T) {
	raw := &Page[Record]{
		Data:  []Record{{"id": "1"}, {"id": "2"}},
		Meta:  map[string]any{"total": 2},
		Links: map[string]any{},
	}

	page := MapPage(raw, func(r Record) string { return r.ID() })
	assert.Equal(t, []string{"1", "2"}, page.Data)
	assert.Equal(t, 2, page.Meta["total"])
	assert.NotNil(t, page.Links)

	empty := MapPage(&Page[Record]{}, func(r Record) string { return r.ID() })
	assert.NotNil(t, empty.Meta)
	assert.NotNil(t, empty.Links)
	assert.NotNil(t, empty.Data)
}

func TestFiltersValues(t *testing.T) {
	f := Filters{
		"filter": map[string]any{"status": "active", "name": "news"},
		"limit":  10,
		"ids":    []any{1, "2"},
		"tags":   []string{"a", "b"},
		"skip":   nil,
	}

	v := f.Values()
	assert.Equal(t, "active", v.Get("filter[status]"))
	assert.Equal(t, "news", v.Get("filter[name]"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "1,2", v.Get("ids"))
	assert.Equal(t, "a,b", v.Get("tags"))
	assert.False(t, v.Has("skip"))
}
