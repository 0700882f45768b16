package groups

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
)

func newTestBuilder() (*Builder, *mailerlitetest.Fake) {
	fake := mailerlitetest.New()
	return NewBuilder(NewService(fake, zerolog.Nop())), fake
}

func TestGroupDTO(t *testing.T) {
	g, err := Named("Newsletter")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Newsletter"}, g.ToArray())

	renamed, err := g.WithName("X")
	require.NoError(t, err)
	assert.Equal(t, "Newsletter", g.Name())
	assert.Equal(t, "X", renamed.Name())

	merged, err := g.With(map[string]any{"name": "Y"})
	require.NoError(t, err)
	assert.Equal(t, "Y", merged.Name())

	_, err = Named("  ")
	assert.ErrorContains(t, err, "group name cannot be empty")

	_, err = Named(strings.Repeat("a", MaxNameLength))
	assert.NoError(t, err)

	_, err = Named(strings.Repeat("é", MaxNameLength+1))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = FromArray(map[string]any{})
	assert.True(t, errs.HasType(err, "argument_required"))
}

func TestBuilderCallAndCreate(t *testing.T) {
	b, fake := newTestBuilder()

	_, err := b.ToDTO()
	assert.Equal(t, "name is required", err.Error())

	_, err = b.Call("andNamed", "VIP")
	require.NoError(t, err)

	info, err := b.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "VIP", info.Name)
	assert.Equal(t, map[string]any{"name": "VIP"}, fake.LastPayload("Create"))

	_, err = b.Call("andNonexistentMethod")
	assert.True(t, errs.HasType(err, "unknown_method"))
}

func TestServiceCreateDuplicate(t *testing.T) {
	b, fake := newTestBuilder()
	fake.Fail("Create", mailerlitetest.Status(http.StatusUnprocessableEntity, "The name has already been taken."))

	_, err := b.Named("VIP").Create(context.Background())
	assert.ErrorIs(t, err, errs.ErrCreate)
	assert.True(t, errs.HasType(err, "already_exists"))
}

func TestServiceSoftLookupVersusHardFailure(t *testing.T) {
	b, _ := newTestBuilder()
	ctx := context.Background()

	info, err := b.Find(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, info)

	_, err = b.Named("X").Update(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = b.Delete(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestServiceListAndFindByName(t *testing.T) {
	b, fake := newTestBuilder()
	fake.Seed(mailerlite.Record{"name": "A", "active_count": float64(3), "open_rate": map[string]any{"float": 0.5}})
	id := fake.Seed(mailerlite.Record{"name": "B"})
	fake.Related[id] = []mailerlite.Record{{"id": "s1", "email": "a@b.com"}}

	page, err := b.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Data[0].ActiveCount)
	assert.Equal(t, 0.5, page.Data[0].OpenRate)

	info, err := b.Named("B").FindByName(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, id, info.ID)

	members, err := b.Subscribers(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, []Member{{ID: "s1", Email: "a@b.com", Status: "active"}}, members.Data)
	assert.Equal(t, float64(1), members.Meta["total"])
}
