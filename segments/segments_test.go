package segments

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
)

func TestNamedConstructors(t *testing.T) {
	tests := []struct {
		name string
		new  func() (*Segment, error)
		want map[string]any
	}{
		{
			"field",
			func() (*Segment, error) { return FieldSegment("Oslo", "city", "equals", "Oslo") },
			map[string]any{"type": "field", "field": "city", "operator": "equals", "value": "Oslo"},
		},
		{
			"group",
			func() (*Segment, error) { return GroupSegment("VIP", 12, "in") },
			map[string]any{"type": "group", "group_id": 12, "operator": "in"},
		},
		{
			"date",
			func() (*Segment, error) { return DateSegment("New", "subscribed_at", "after", "2026-01-01") },
			map[string]any{"type": "date", "field": "subscribed_at", "operator": "after", "value": "2026-01-01"},
		},
		{
			"email activity",
			func() (*Segment, error) { return EmailActivitySegment("Openers", "opened", "any") },
			map[string]any{"type": "email_activity", "activity": "opened", "operator": "any"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, err := tt.new()
			require.NoError(t, err)
			out := seg.ToArray()
			assert.Equal(t, []map[string]any{tt.want}, out["filters"])
			assert.NotContains(t, out, "match")
		})
	}
}

func TestSegmentValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		message string
	}{
		{"empty name", Params{Filters: []map[string]any{FieldFilter("a", "b", "c")}}, "segment name cannot be empty"},
		{"no filters", Params{Name: "x"}, "segment filters cannot be empty"},
		{"untyped filter", Params{Name: "x", Filters: []map[string]any{{"field": "a"}}}, "filter 0: missing type"},
		{"unknown type", Params{Name: "x", Filters: []map[string]any{{"type": "tag"}}}, "unknown type tag"},
		{"missing key", Params{Name: "x", Filters: []map[string]any{FieldFilter("a", "b", 1), {"type": "group", "operator": "in"}}}, "filter 1: group filter requires group_id"},
		{"bad match", Params{Name: "x", Filters: []map[string]any{GroupFilter(1, "in")}, Match: "some"}, "invalid match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSegmentImmutability(t *testing.T) {
	seg, err := GroupSegment("VIP", "1", "in")
	require.NoError(t, err)

	renamed, err := seg.WithName("X")
	require.NoError(t, err)
	assert.Equal(t, "VIP", seg.Name())
	assert.Equal(t, "X", renamed.Name())

	anyOf, err := seg.WithMatch(MatchAny)
	require.NoError(t, err)
	assert.Equal(t, MatchAny, anyOf.ToArray()["match"])
	assert.Equal(t, MatchAll, seg.Match())

	more, err := seg.WithFilters(EmailActivityFilter("clicked", "any"))
	require.NoError(t, err)
	assert.Len(t, seg.Filters(), 1)
	assert.Len(t, more.Filters(), 2)

	viaMap, err := FromArray(map[string]any{"name": "From map", "filters": []any{map[string]any{"type": "group", "group_id": "3", "operator": "in"}}})
	require.NoError(t, err)
	assert.Equal(t, "3", viaMap.Filters()[0]["group_id"])

	_, err = FromArray(map[string]any{"name": "No filters"})
	assert.True(t, errs.HasType(err, "argument_required"))
}

func TestCreateIsAlwaysRejected(t *testing.T) {
	fake := mailerlitetest.New()
	svc := NewService(fake, zerolog.Nop())

	for _, build := range []func() (*Segment, error){
		func() (*Segment, error) { return FieldSegment("a", "city", "equals", "x") },
		func() (*Segment, error) { return GroupSegment("b", 1, "in") },
		func() (*Segment, error) { return EmailActivitySegment("c", "opened", "any") },
	} {
		seg, err := build()
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), seg)
		assert.ErrorIs(t, err, errs.ErrNotImplemented)
	}

	b := NewBuilder(svc)
	_, err := b.Named("x").InGroup(1).Create(context.Background())
	assert.ErrorIs(t, err, errs.ErrNotImplemented)
	assert.Empty(t, fake.Methods())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(NewService(mailerlitetest.New(), zerolog.Nop()))

	_, err := b.ToDTO()
	assert.Equal(t, "name is required", err.Error())
	_, err = b.Named("x").ToDTO()
	assert.Equal(t, "filters is required", err.Error())

	_, err = b.Call("andWhereField", "city", "equals", "Oslo")
	require.NoError(t, err)
	_, err = b.Call("andMatchAny")
	require.NoError(t, err)
	_, err = b.Call("andWithEmailActivity", "opened", "any")
	require.NoError(t, err)

	seg, err := b.ToDTO()
	require.NoError(t, err)
	assert.Len(t, seg.Filters(), 2)
	assert.Equal(t, MatchAny, seg.Match())

	_, err = b.Call("andNonexistentMethod")
	assert.True(t, errs.HasType(err, "unknown_method"))

	_, err = b.Call("andWhereField", "city")
	assert.True(t, errs.HasType(err, "invalid_argument"))
}

func TestServiceStateActions(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"name": "VIP", "total": float64(40)})
	fake.Related[id] = []mailerlite.Record{{"id": "s1", "email": "a@b.com", "status": "active"}}
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.Deactivate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "inactive", info.Status)
	assert.Equal(t, 40, info.Total)

	info, err = svc.Activate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "active", info.Status)

	_, err = svc.Refresh(ctx, id)
	require.NoError(t, err)

	members, err := svc.GetSubscribers(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, []Member{{ID: "s1", Email: "a@b.com", Status: "active"}}, members.Data)

	fake.Fail("Activate", mailerlitetest.Status(http.StatusUnprocessableEntity, "Segment is already active"))
	_, err = svc.Activate(ctx, id)
	assert.True(t, errs.HasType(err, "cannot_activate"))

	_, err = svc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestServiceSoftLookupVersusHardFailure(t *testing.T) {
	svc := NewService(mailerlitetest.New(), zerolog.Nop())
	ctx := context.Background()

	info, err := svc.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, info)

	seg, _ := GroupSegment("x", 1, "in")
	_, err = svc.Update(ctx, "missing", seg)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
