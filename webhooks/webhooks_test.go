package webhooks

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

func TestWebhookDTO(t *testing.T) {
	w, err := For("https://example.com/hook", EventSubscriberCreated)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"url":    "https://example.com/hook",
		"events": []string{"subscriber.created"},
	}, w.ToArray())

	full, err := New(Params{
		URL:       "http://example.com/all",
		Events:    []string{EventCampaignSent, EventCampaignOpened},
		Name:      "All campaigns",
		Enabled:   new(bool),
		Batchable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"url":       "http://example.com/all",
		"events":    []string{"campaign.sent", "campaign.opened"},
		"name":      "All campaigns",
		"enabled":   false,
		"batchable": true,
	}, full.ToArray())

	more, err := w.WithEvents(EventSubscriberCreated, EventSubscriberDeleted)
	require.NoError(t, err)
	assert.Equal(t, []string{"subscriber.created", "subscriber.deleted"}, more.Events())
	assert.Equal(t, []string{"subscriber.created"}, w.Events())

	off, err := w.WithEnabled(false)
	require.NoError(t, err)
	assert.False(t, off.Enabled())
	assert.True(t, w.Enabled())
}

func TestWebhookValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		message string
	}{
		{"empty url", Params{Events: []string{EventCampaignSent}}, "webhook url cannot be empty"},
		{"relative url", Params{URL: "/hook", Events: []string{EventCampaignSent}}, "invalid webhook url"},
		{"ftp url", Params{URL: "ftp://example.com/hook", Events: []string{EventCampaignSent}}, "invalid webhook url"},
		{"no events", Params{URL: "https://example.com"}, "webhook events cannot be empty"},
		{"unknown event", Params{URL: "https://example.com", Events: []string{"campaign.exploded"}}, `invalid webhook event "campaign.exploded"`},
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

func TestWebhookFromArray(t *testing.T) {
	_, err := FromArray(map[string]any{"url": "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, "events is required", err.Error())

	w, err := FromArray(map[string]any{
		"url":       "https://example.com",
		"events":    []any{"subscriber.bounced"},
		"batchable": true,
	})
	require.NoError(t, err)
	assert.True(t, w.Batchable())

	renamed, err := w.With(map[string]any{"name": "Bounces"})
	require.NoError(t, err)
	assert.Equal(t, "Bounces", renamed.Name())
	assert.Empty(t, w.Name())

	_, err = w.With(map[string]any{"url": "nope"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestBuilderRequiredOrder(t *testing.T) {
	b := NewBuilder(NewService(mailerlitetest.New(), zerolog.Nop()))

	_, err := b.On(EventCampaignSent).ToDTO()
	assert.Equal(t, "url is required", err.Error())

	_, err = b.Reset().URL("https://example.com").ToDTO()
	assert.Equal(t, "events is required", err.Error())
}

func TestBuilderChaining(t *testing.T) {
	fake := mailerlitetest.New()
	b := NewBuilder(NewService(fake, zerolog.Nop()))

	_, err := b.Call("andUrl", "https://example.com/hook")
	require.NoError(t, err)
	_, err = b.Call("andOnCampaignEvents")
	require.NoError(t, err)
	_, err = b.Call("andOn", EventCampaignSent)
	require.NoError(t, err)
	_, err = b.Call("andBatchable")
	require.NoError(t, err)

	w, err := b.ToDTO()
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign.clicked", "campaign.opened", "campaign.sent"}, w.Events())

	info, err := b.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", info.URL)
	assert.True(t, info.Batchable)
	assert.True(t, info.Enabled)
	assert.Len(t, info.Events, 3)

	_, err = b.Call("andNonexistentMethod")
	assert.True(t, errs.HasType(err, "unknown_method"))

	_, err = b.Call("andOnEvents", "campaign.sent", 3)
	assert.True(t, errs.HasType(err, "invalid_argument"))
}

func TestServiceEnableDisable(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"url": "https://example.com", "events": []any{"campaign.sent"}})
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.Disable(ctx, id)
	require.NoError(t, err)
	assert.False(t, info.Enabled)
	assert.Equal(t, map[string]any{"enabled": false}, fake.LastPayload("Update"))

	info, err = svc.Enable(ctx, id)
	require.NoError(t, err)
	assert.True(t, info.Enabled)

	_, err = svc.Disable(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestServiceTestAndLogs(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"url": "https://example.com", "events": []any{"campaign.sent"}})
	fake.Related[id] = []mailerlite.Record{
		{"id": "l1", "event": "campaign.sent", "status": "delivered", "response_code": float64(200), "attempts": float64(1)},
	}
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.Test(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign.sent"}, info.Events)

	logs, err := svc.GetLogs(ctx, id, mailerlite.Filters{"limit": 10})
	require.NoError(t, err)
	assert.Equal(t, []Delivery{{ID: "l1", Event: "campaign.sent", Status: "delivered", ResponseCode: 200, Attempts: 1}}, logs.Data)

	fake.Fail("Test", mailerlitetest.Status(http.StatusUnauthorized, ""))
	_, err = svc.Test(ctx, id)
	assert.True(t, errs.IsFatal(err))

	_, err = svc.GetLogs(ctx, "missing", nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestServiceCreateDuplicate(t *testing.T) {
	fake := mailerlitetest.New()
	fake.Fail("Create", mailerlitetest.Status(http.StatusUnprocessableEntity, "The url has already been taken."))
	svc := NewService(fake, zerolog.Nop())

	w, _ := For("https://example.com", EventCampaignSent)
	_, err := svc.Create(context.Background(), w)
	assert.True(t, errs.HasType(err, "already_exists"))
	assert.ErrorIs(t, err, errs.ErrCreate)
}

func TestServiceListPassesMetaThrough(t *testing.T) {
	fake := mailerlitetest.New()
	fake.Seed(mailerlite.Record{"url": "https://a.example"})
	fake.Seed(mailerlite.Record{"url": "https://b.example"})
	fake.Meta = map[string]any{"total": float64(2)}
	svc := NewService(fake, zerolog.Nop())

	page, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, float64(2), page.Meta["total"])
	assert.Equal(t, map[string]any{}, page.Links)
}

func TestServiceSoftLookupVersusHardFailure(t *testing.T) {
	svc := NewService(mailerlitetest.New(), zerolog.Nop())
	ctx := context.Background()

	info, err := svc.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, info)

	w, _ := For("https://example.com", EventCampaignSent)
	_, err = svc.Update(ctx, "missing", w)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
