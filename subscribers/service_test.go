package subscribers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
)

func mustSubscriber(t *testing.T, email string) *Subscriber {
	t.Helper()
	sub, err := New(Params{Email: email})
	require.NoError(t, err)
	return sub
}

func TestServiceCreate(t *testing.T) {
	fake := mailerlitetest.New()
	svc := NewService(fake, zerolog.Nop())

	info, err := svc.Create(context.Background(), mustSubscriber(t, "a@b.com"))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", info.Email)
	assert.Equal(t, StatusActive, info.Status)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, fake.LastPayload("Create"))
}

func TestServiceCreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		upstream error
		is       error
		typ      string
	}{
		{"unauthorized", mailerlitetest.Status(http.StatusUnauthorized, "Unauthenticated."), errs.ErrAuthentication, "authentication_failed"},
		{"validation", mailerlitetest.Status(http.StatusUnprocessableEntity, "The email must be a valid email address."), errs.ErrCreate, "invalid_data"},
		{"duplicate", mailerlitetest.Status(http.StatusUnprocessableEntity, "The email has already been taken."), errs.ErrCreate, "already_exists"},
		{"other", errors.New("connection refused"), errs.ErrCreate, "create_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := mailerlitetest.New()
			fake.Fail("Create", tt.upstream)
			svc := NewService(fake, zerolog.Nop())

			_, err := svc.Create(context.Background(), mustSubscriber(t, "a@b.com"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
			assert.True(t, errs.HasType(err, tt.typ), err.Error())
		})
	}
}

func TestServiceSoftLookupVersusHardFailure(t *testing.T) {
	fake := mailerlitetest.New()
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, info)

	info, err = svc.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, info)

	_, err = svc.Update(ctx, "missing", mustSubscriber(t, "a@b.com"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "missing", e.Context["id"])

	ok, err = svc.Delete(ctx, "missing")
	assert.False(t, ok)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestServiceLookupReraisesOtherErrors(t *testing.T) {
	fake := mailerlitetest.New()
	svc := NewService(fake, zerolog.Nop())

	upstream := mailerlitetest.Status(http.StatusInternalServerError, "Server Error")
	fake.Fail("Find", upstream)
	_, err := svc.GetByID(context.Background(), "1")
	assert.Same(t, upstream, err)

	fake.Fail("Find", mailerlitetest.Status(http.StatusUnauthorized, ""))
	_, err = svc.GetByID(context.Background(), "1")
	assert.True(t, errs.IsFatal(err))
}

func TestServiceUpdateDelete(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"email": "a@b.com", "status": "active"})
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	sub, err := New(Params{Email: "a@b.com", Fields: map[string]any{"name": "Ann"}})
	require.NoError(t, err)
	info, err := svc.Update(ctx, id, sub)
	require.NoError(t, err)
	assert.Equal(t, "Ann", info.Fields["name"])

	ok, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestServiceList(t *testing.T) {
	fake := mailerlitetest.New()
	fake.Seed(mailerlite.Record{"email": "a@b.com"})
	fake.Seed(mailerlite.Record{"email": "c@d.com", "groups": []any{map[string]any{"id": "5", "name": "News"}}})
	fake.Meta = map[string]any{"total": 2}
	svc := NewService(fake, zerolog.Nop())

	page, err := svc.List(context.Background(), mailerlite.Filters{"limit": 25})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.Meta["total"])
	assert.Equal(t, map[string]any{}, page.Links)
	assert.Equal(t, []GroupRef{{ID: "5", Name: "News"}}, page.Data[1].Groups)
}

func TestServiceStatusChanges(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"email": "a@b.com", "status": "active"})
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.Unsubscribe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusUnsubscribed, info.Status)
	assert.Equal(t, map[string]any{"status": "unsubscribed"}, fake.LastPayload("Update"))

	info, err = svc.Resubscribe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, info.Status)

	fake.Fail("Update", mailerlitetest.Status(http.StatusUnprocessableEntity, "Subscriber cannot be unsubscribed"))
	_, err = svc.Unsubscribe(ctx, id)
	assert.ErrorIs(t, err, errs.ErrState)
	assert.True(t, errs.HasType(err, "cannot_unsubscribe"))
}

func TestServiceGroupsAndForget(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"email": "a@b.com"})
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	ok, err := svc.AddToGroup(ctx, id, "9")
	require.NoError(t, err)
	assert.True(t, ok)

	info, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []GroupRef{{ID: "9"}}, info.Groups)

	ok, err = svc.RemoveFromGroup(ctx, id, "9")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.AddToGroup(ctx, "missing", "9")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	ok, err = svc.Forget(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransformToleratesPartialRecords(t *testing.T) {
	info := transform(mailerlite.Record{"id": float64(12), "open_rate": map[string]any{"float": 0.25}})
	assert.Equal(t, "12", info.ID)
	assert.Equal(t, StatusActive, info.Status)
	assert.Equal(t, 0.25, info.OpenRate)
	assert.NotNil(t, info.Fields)
	assert.NotNil(t, info.Groups)
}
