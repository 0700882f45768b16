package fields

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
)

func TestFieldDTO(t *testing.T) {
	f, err := Text("city")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "city"}, f.ToArray())

	n, err := f.WithType(TypeNumber)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "city", "type": "number"}, n.ToArray())
	assert.Equal(t, TypeText, f.Type())

	renamed, err := f.WithName("town")
	require.NoError(t, err)
	assert.Equal(t, "city", f.Name())
	assert.Equal(t, "town", renamed.Name())

	d, err := FromArray(map[string]any{"name": "born", "type": "date"})
	require.NoError(t, err)
	assert.Equal(t, TypeDate, d.Type())

	_, err = New(Params{Name: "x", Type: "boolean"})
	assert.ErrorContains(t, err, "invalid field type")

	_, err = New(Params{})
	assert.ErrorContains(t, err, "field name cannot be empty")

	_, err = f.With(map[string]any{"type": "nope"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestBuilderWithTitleIsNamed(t *testing.T) {
	fake := mailerlitetest.New()
	b := NewBuilder(NewService(fake, zerolog.Nop()))

	f, err := b.WithTitle("Company").ToDTO()
	require.NoError(t, err)
	assert.Equal(t, "Company", f.Name())

	_, err = b.Reset().Call("andNamed", "Age")
	require.NoError(t, err)
	_, err = b.Call("andAsNumber")
	require.NoError(t, err)

	info, err := b.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Age", info.Name)
	assert.Equal(t, TypeNumber, info.Type)

	_, err = b.Call("andNonexistentMethod")
	assert.True(t, errs.HasType(err, "unknown_method"))
}

func TestServiceGetUsageIsNotImplemented(t *testing.T) {
	svc := NewService(mailerlitetest.New(), zerolog.Nop())
	_, err := svc.GetUsage(context.Background(), "1")
	assert.ErrorIs(t, err, errs.ErrNotImplemented)
}

func TestServiceFindByNameScansAllPages(t *testing.T) {
	fake := mailerlitetest.New()
	fake.Seed(mailerlite.Record{"name": "Name", "key": "name", "is_default": true})
	id := fake.Seed(mailerlite.Record{"name": "City", "key": "city"})
	svc := NewService(fake, zerolog.Nop())

	info, err := svc.FindByName(context.Background(), "City")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, "city", info.Key)

	info, err = svc.FindByName(context.Background(), "Nope")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestServiceSoftLookupVersusHardFailure(t *testing.T) {
	svc := NewService(mailerlitetest.New(), zerolog.Nop())
	ctx := context.Background()

	info, err := svc.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, info)

	f, _ := Text("x")
	_, err = svc.Update(ctx, "missing", f)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
