package campaigns

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
)

func newTestBuilder() (*Builder, *mailerlitetest.Fake) {
	fake := mailerlitetest.New()
	return NewBuilder(NewService(fake, zerolog.Nop())), fake
}

func TestBuilderRequiredFieldOrder(t *testing.T) {
	b, _ := newTestBuilder()

	_, err := b.ToDTO()
	require.Error(t, err)
	assert.Equal(t, "subject is required", err.Error())

	_, err = b.Subject("S").ToDTO()
	assert.Equal(t, "from_name is required", err.Error())

	_, err = b.FromName("Acme").ToDTO()
	assert.Equal(t, "from_email is required", err.Error())

	c, err := b.FromEmail("news@acme.io").ToDTO()
	require.NoError(t, err)
	assert.Equal(t, "S", c.Subject())
}

func TestBuilderDeduplicatesRecipients(t *testing.T) {
	b, _ := newTestBuilder()
	c, err := b.Subject("S").From("Acme", "news@acme.io").
		ToGroup("1").ToGroups("1", "2").
		ToSegment(3).ToSegments(3).
		ToDTO()
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2"}, c.Groups())
	assert.Equal(t, []any{3}, c.Segments())
}

func TestBuilderCall(t *testing.T) {
	b, _ := newTestBuilder()
	for _, step := range []struct {
		method string
		args   []any
	}{
		{"subject", []any{"S"}},
		{"andNamed", []any{"Spring"}},
		{"andFrom", []any{"Acme", "news@acme.io"}},
		{"andRss", nil},
	} {
		_, err := b.Call(step.method, step.args...)
		require.NoError(t, err, step.method)
	}

	c, err := b.ToDTO()
	require.NoError(t, err)
	assert.Equal(t, "Spring", c.Name())
	assert.Equal(t, TypeRSS, c.Type())

	_, err = b.Call("andNonexistentMethod")
	assert.True(t, errs.HasType(err, "unknown_method"))
}

func TestBuilderSend(t *testing.T) {
	b, fake := newTestBuilder()

	info, err := b.Subject("S").From("Acme", "news@acme.io").ToGroup("1").Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sent", info.Status)
	assert.Equal(t, []string{"Create", "Send"}, fake.Methods())
}

func TestBuilderSendStopsWhenCreateFails(t *testing.T) {
	b, fake := newTestBuilder()
	fake.Fail("Create", mailerlitetest.Status(http.StatusUnprocessableEntity, "The subject field is required."))

	_, err := b.Subject("S").From("Acme", "news@acme.io").Send(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrCreate)
	assert.Equal(t, []string{"Create"}, fake.Methods())
}

func TestBuilderScheduleAt(t *testing.T) {
	b, fake := newTestBuilder()
	at := time.Date(2026, 7, 4, 9, 30, 0, 0, time.UTC)

	info, err := b.Subject("S").From("Acme", "news@acme.io").ScheduleAt(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, "ready", info.Status)
	assert.Equal(t, []string{"Create", "Schedule"}, fake.Methods())
	assert.Equal(t, map[string]any{
		"delivery": "scheduled",
		"schedule": map[string]any{"date": "2026-07-04", "hours": "09", "minutes": "30"},
	}, fake.LastPayload("Schedule"))
}

func TestBuilderCreateSchedulesUnlessDraft(t *testing.T) {
	at := time.Date(2026, 7, 4, 9, 30, 0, 0, time.UTC)

	b, fake := newTestBuilder()
	_, err := b.Subject("S").From("Acme", "news@acme.io").ScheduleFor(at).Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Create", "Schedule"}, fake.Methods())

	b, fake = newTestBuilder()
	_, err = b.Subject("S").From("Acme", "news@acme.io").ScheduleFor(at).Draft().Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Create"}, fake.Methods())
	assert.NotContains(t, fake.LastPayload("Create"), "schedule_at")
	assert.Equal(t, "S", fake.LastPayload("Create")["subject"])
}

func TestBuilderSanitizedHTML(t *testing.T) {
	b, _ := newTestBuilder()
	_, err := b.Subject("S").From("Acme", "news@acme.io").
		Call("andWithSanitizedHTML", `<p onclick="steal()">Hi</p><script>alert(1)</script>`)
	require.NoError(t, err)

	c, err := b.ToDTO()
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi</p>", c.HTML())
}

func TestBuilderReset(t *testing.T) {
	b, _ := newTestBuilder()
	b.Subject("S").From("Acme", "news@acme.io").Draft()
	b.Reset()
	assert.False(t, b.draft)
	_, err := b.ToDTO()
	assert.Equal(t, "subject is required", err.Error())
	assert.Same(t, b.service, b.Fresh().service)
}
