package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func pagedResource(pages map[string]*mailerlite.Page[item], calls *[]mailerlite.Filters) resource[item] {
	return resource[item]{
		name:     "items",
		singular: "item",
		row:      func(i item) []string { return []string{i.ID, i.Name} },
		list: func(_ context.Context, f mailerlite.Filters) (*mailerlite.Page[item], error) {
			*calls = append(*calls, f)
			key := mailerlite.Record(f).String("cursor")
			if key == "" {
				key = "page" + mailerlite.Record(f).String("page")
			}
			return pages[key], nil
		},
		get: func(_ context.Context, id string) (*item, error) {
			if id == "1" {
				return &item{ID: "1", Name: "one"}, nil
			}
			return nil, nil
		},
		missing: func(id string) error { return errs.NotFoundWithID("item", id, nil) },
	}
}

func TestFetchFollowsOffsetPages(t *testing.T) {
	var calls []mailerlite.Filters
	r := pagedResource(map[string]*mailerlite.Page[item]{
		"page":  {Data: []item{{ID: "1"}}, Meta: map[string]any{"last_page": 3, "total": 3}},
		"page2": {Data: []item{{ID: "2"}}, Meta: map[string]any{"last_page": 3, "total": 3}},
		"page3": {Data: []item{{ID: "3"}}, Meta: map[string]any{"last_page": 3, "total": 3}},
	}, &calls)

	records, total, err := fetch(context.Background(), r, mailerlite.Filters{"limit": 1}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, records, 3)
	assert.Len(t, calls, 3)

	calls = nil
	records, total, err = fetch(context.Background(), r, mailerlite.Filters{"limit": 1}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, records, 1)
	assert.Len(t, calls, 1)
}

func TestFetchFollowsCursor(t *testing.T) {
	var calls []mailerlite.Filters
	r := pagedResource(map[string]*mailerlite.Page[item]{
		"page": {Data: []item{{ID: "1"}}, Meta: map[string]any{"next_cursor": "abc"}},
		"abc":  {Data: []item{{ID: "2"}}, Meta: map[string]any{}},
	}, &calls)

	records, total, err := fetch(context.Background(), r, mailerlite.Filters{"limit": 1}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []item{{ID: "1"}, {ID: "2"}}, records)
	assert.Equal(t, "abc", calls[1]["cursor"])
}

func TestLookup(t *testing.T) {
	var calls []mailerlite.Filters
	r := pagedResource(nil, &calls)
	ctx := context.Background()

	got, err := lookup(ctx, r, []string{"1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Name)

	_, err = lookup(ctx, r, []string{"2"}, "")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = lookup(ctx, r, nil, "")
	assert.ErrorIs(t, err, errs.ErrValidation)

	r.byName = func(_ context.Context, name string) (*item, error) {
		return &item{ID: "9", Name: name}, nil
	}
	got, err = lookup(ctx, r, nil, "nine")
	require.NoError(t, err)
	assert.Equal(t, "9", got.ID)

	r.byName = func(context.Context, string) (*item, error) { return nil, nil }
	got, err = lookup(ctx, r, nil, "nobody")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Contains(t, err.Error(), "nobody")

	r.missingName = func(name string) error { return errs.NotFoundWithName("item", name) }
	_, err = lookup(ctx, r, nil, "nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
