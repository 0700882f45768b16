package automations

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

func TestAutomationDTO(t *testing.T) {
	a, err := Named("Welcome")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Welcome"}, a.ToArray())
	assert.True(t, a.Enabled())

	off, err := a.WithEnabled(false)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Welcome", "enabled": false}, off.ToArray())
	assert.True(t, a.Enabled())

	renamed, err := a.WithName("X")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", a.Name())
	assert.Equal(t, "X", renamed.Name())

	full, err := New(Params{
		Name:        "Drip",
		Description: "three mails",
		Triggers:    []map[string]any{{"type": "subscriber_joins_group", "group_id": "1"}},
		Steps:       []map[string]any{{"type": "email"}, {"type": "delay", "value": 2, "unit": "day"}},
		Settings:    map[string]any{"track": true},
		Groups:      []any{"1", 2},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":        "Drip",
		"description": "three mails",
		"triggers":    []map[string]any{{"type": "subscriber_joins_group", "group_id": "1"}},
		"steps":       []map[string]any{{"type": "email"}, {"type": "delay", "value": 2, "unit": "day"}},
		"settings":    map[string]any{"track": true},
		"groups":      []any{"1", 2},
	}, full.ToArray())
}

func TestAutomationValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		message string
	}{
		{"empty name", Params{Name: "  "}, "automation name cannot be empty"},
		{"untyped trigger", Params{Name: "x", Triggers: []map[string]any{{"group_id": "1"}}}, "trigger 0: missing type"},
		{"untyped step", Params{Name: "x", Steps: []map[string]any{{"type": "email"}, {}}}, "step 1: missing type"},
		{"bad group", Params{Name: "x", Groups: []any{1.5}}, "invalid groups"},
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

func TestAutomationFromArrayAndWith(t *testing.T) {
	_, err := FromArray(map[string]any{"enabled": false})
	assert.True(t, errs.HasType(err, "argument_required"))

	a, err := FromArray(map[string]any{"name": "Welcome", "enabled": false})
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	on, err := a.With(map[string]any{"enabled": true})
	require.NoError(t, err)
	assert.True(t, on.Enabled())
	assert.False(t, a.Enabled())
	assert.NotContains(t, on.ToArray(), "enabled")

	more, err := a.WithSteps(map[string]any{"type": "email"})
	require.NoError(t, err)
	assert.Empty(t, a.Steps())
	assert.Len(t, more.Steps(), 1)
}

func TestBuilderThenChaining(t *testing.T) {
	fake := mailerlitetest.New()
	b := NewBuilder(NewService(fake, zerolog.Nop()))

	_, err := b.Call("andNamed", "Welcome")
	require.NoError(t, err)
	_, err = b.Call("thenTriggeredBy", "subscriber_joins_group", map[string]any{"group_id": "7"})
	require.NoError(t, err)
	_, err = b.Call("thenAddStep", "email")
	require.NoError(t, err)
	_, err = b.Call("thenDelay", 2)
	require.NoError(t, err)
	_, err = b.Call("andToGroups", "1", 1, "2")
	require.NoError(t, err)

	a, err := b.ToDTO()
	require.NoError(t, err)
	assert.Equal(t, "Welcome", a.Name())
	assert.Equal(t, []map[string]any{{"type": "subscriber_joins_group", "group_id": "7"}}, a.Triggers())
	assert.Equal(t, []map[string]any{{"type": "email"}, {"type": "delay", "value": 2, "unit": "day"}}, a.Steps())
	assert.Equal(t, []any{"1", "2"}, a.Groups())

	_, err = b.Call("thenNonexistentMethod")
	assert.True(t, errs.HasType(err, "unknown_method"))

	_, err = b.Call("thendelay", 2)
	assert.True(t, errs.HasType(err, "unknown_method"))

	_, err = b.Call("thenDelay", "two")
	assert.True(t, errs.HasType(err, "invalid_argument"))

	_, err = b.Reset().ToDTO()
	assert.Equal(t, "name is required", err.Error())
}

func TestBuilderStartCreatesThenStarts(t *testing.T) {
	fake := mailerlitetest.New()
	b := NewBuilder(NewService(fake, zerolog.Nop()))

	info, err := b.Named("Welcome").AddStep("email", nil).Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "active", info.Status)
	assert.Equal(t, 1, info.StepsCount)
	assert.Equal(t, []string{"Create", "Start"}, fake.Methods())
}

func TestBuilderStartStopsOnCreateFailure(t *testing.T) {
	fake := mailerlitetest.New()
	fake.Fail("Create", mailerlitetest.Status(http.StatusUnprocessableEntity, "The name has already been taken."))
	b := NewBuilder(NewService(fake, zerolog.Nop()))

	_, err := b.Named("Welcome").Start(context.Background())
	assert.True(t, errs.HasType(err, "already_exists"))
	assert.Equal(t, []string{"Create"}, fake.Methods())
}

func TestServiceTransitions(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"name": "Welcome", "status": "inactive", "enabled": false})
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	steps := []struct {
		action func(context.Context, string) (*Info, error)
		want   string
	}{
		{svc.Start, "active"},
		{svc.Pause, "paused"},
		{svc.Resume, "active"},
		{svc.Stop, "inactive"},
	}
	for _, step := range steps {
		info, err := step.action(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, step.want, info.Status)
	}
}

func TestServiceTransitionRefused(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"name": "Welcome", "status": "active"})
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	fake.Fail("Start", mailerlitetest.Status(http.StatusUnprocessableEntity, "Automation is already running"))
	_, err := svc.Start(ctx, id)
	require.Error(t, err)
	assert.True(t, errs.HasType(err, "cannot_start"))
	assert.ErrorIs(t, err, errs.ErrState)
	e, _ := errs.As(err)
	assert.Equal(t, "active", e.Context["status"])
	assert.Contains(t, err.Error(), `in status "active"`)

	fake.Fail("Pause", mailerlitetest.Status(http.StatusUnprocessableEntity, "Automation is already paused"))
	_, err = svc.Pause(ctx, id)
	assert.True(t, errs.HasType(err, "cannot_pause"))

	_, err = svc.Stop(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	fake.Fail("Resume", errors.New("connection reset"))
	_, err = svc.Resume(ctx, id)
	assert.True(t, errs.HasType(err, "resume_failed"))
}

func TestServiceStatsAndSubscribers(t *testing.T) {
	fake := mailerlitetest.New()
	id := fake.Seed(mailerlite.Record{"name": "Welcome"})
	fake.Stats[id] = mailerlite.Record{"stats": map[string]any{
		"completed_subscribers_count": float64(10),
		"subscribers_in_queue_count":  float64(3),
		"open_rate":                   map[string]any{"float": 0.5, "string": "50%"},
	}}
	fake.Related[id] = []mailerlite.Record{
		{"id": "9", "status": "active", "step_id": "s2", "subscriber": map[string]any{"id": "s1", "email": "a@b.com"}},
	}
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	stats, err := svc.GetStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.CompletedSubscribersCount)
	assert.Equal(t, 3, stats.SubscribersInQueueCount)
	assert.InDelta(t, 0.5, stats.OpenRate, 0.0001)

	page, err := svc.GetSubscribers(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, []Participant{{ID: "9", SubscriberID: "s1", Email: "a@b.com", Status: "active", StepID: "s2"}}, page.Data)
	assert.Equal(t, 1, page.Total())
}

func TestServiceTransformDefaults(t *testing.T) {
	info := transform(mailerlite.Record{"id": float64(5)})
	assert.Equal(t, "5", info.ID)
	assert.True(t, info.Enabled)
	assert.Equal(t, "active", info.Status)
	assert.Equal(t, []string{}, info.Triggers)

	info = transform(mailerlite.Record{"enabled": false, "triggers": []any{map[string]any{"type": "date"}}})
	assert.Equal(t, "inactive", info.Status)
	assert.Equal(t, []string{"date"}, info.Triggers)
}

func TestServiceSoftLookupVersusHardFailure(t *testing.T) {
	fake := mailerlitetest.New()
	svc := NewService(fake, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, info)

	a, _ := Named("x")
	_, err = svc.Update(ctx, "missing", a)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	fake.Fail("Find", mailerlitetest.Status(http.StatusUnauthorized, ""))
	_, err = svc.GetByID(ctx, "1")
	assert.True(t, errs.IsFatal(err))
}

func TestServiceFindByName(t *testing.T) {
	fake := mailerlitetest.New()
	fake.Seed(mailerlite.Record{"name": "One"})
	id := fake.Seed(mailerlite.Record{"name": "Two"})
	svc := NewService(fake, zerolog.Nop())

	info, err := svc.FindByName(context.Background(), "Two")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, id, info.ID)

	info, err = svc.FindByName(context.Background(), "Three")
	require.NoError(t, err)
	assert.Nil(t, info)
}
