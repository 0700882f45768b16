package cmd

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/filter"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
	"github.com/s0up4200/mailkit/manager"
)

func withFakeManager(t *testing.T) *mailerlitetest.Fake {
	t.Helper()
	fake := mailerlitetest.New()
	mgr = manager.NewWithAPIs(manager.APIs{
		Subscribers: fake,
		Campaigns:   fake,
		Groups:      fake,
		Fields:      fake,
		Segments:    fake,
		Automations: fake,
		Webhooks:    fake,
	}, zerolog.Nop())
	filters = filter.NewManager(filter.WithEvaluator(filter.NewConcurrentEvaluator(filter.WithWorkers(1))))
	logger = zerolog.Nop()
	output = "json"
	dryRun = false

	t.Cleanup(func() {
		_ = filters.Close(context.Background())
		mgr, filters = nil, nil
		output, dryRun = "table", false
	})
	return fake
}

func TestSubscribersAddAndUnsubscribe(t *testing.T) {
	withFakeManager(t)
	ctx := context.Background()

	c := subscribersCmd()
	c.SetArgs([]string{"add", "ann@example.com", "--name", "Ann", "--field", "city=Oslo", "--group", "7"})
	require.NoError(t, c.Execute())

	info, err := mgr.Services().Subscribers.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Oslo", info.Fields["city"])
	assert.Equal(t, "Ann", info.Fields["name"])

	c = subscribersCmd()
	c.SetArgs([]string{"unsubscribe", info.ID})
	require.NoError(t, c.Execute())

	info, err = mgr.Services().Subscribers.GetByID(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "unsubscribed", info.Status)
}

func TestSubscribersAddRejectsMalformedField(t *testing.T) {
	withFakeManager(t)

	c := subscribersCmd()
	c.SetArgs([]string{"add", "ann@example.com", "--field", "city"})
	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestListWithFilter(t *testing.T) {
	fake := withFakeManager(t)
	fake.Seed(mailerlite.Record{"email": "a@example.com", "status": "active"})

	c := subscribersCmd()
	c.SetArgs([]string{"list", "--filter", `status == "active"`})
	assert.NoError(t, c.Execute())

	c = subscribersCmd()
	c.SetArgs([]string{"list", "--filter", `status ==`})
	err := c.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter expression")
}

func TestGetMissingIsNotFound(t *testing.T) {
	withFakeManager(t)

	c := groupsCmd()
	c.SetArgs([]string{"get", "999"})
	err := c.Execute()
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUnknownNameIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() *cobra.Command
		args []string
	}{
		{"campaign get", campaignsCmd, []string{"get", "--name", "nope"}},
		{"group delete", groupsCmd, []string{"delete", "--name", "nope", "-y"}},
		{"field get", fieldsCmd, []string{"get", "--name", "nope"}},
		{"automation delete", automationsCmd, []string{"delete", "--name", "nope", "--yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := withFakeManager(t)
			fake.Seed(mailerlite.Record{"name": "VIP"})

			c := tt.cmd()
			c.SetArgs(tt.args)
			var err error
			require.NotPanics(t, func() { err = c.Execute() })
			assert.ErrorIs(t, err, errs.ErrNotFound)
			assert.Contains(t, err.Error(), `"nope"`)
			assert.NotContains(t, fake.Methods(), "Delete")
		})
	}
}

func TestDeleteDryRunKeepsRecord(t *testing.T) {
	fake := withFakeManager(t)
	id := fake.Seed(mailerlite.Record{"name": "VIP"})
	dryRun = true

	c := groupsCmd()
	c.SetArgs([]string{"delete", id, "--yes"})
	require.NoError(t, c.Execute())

	found, err := mgr.Services().Groups.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, found)

	dryRun = false
	c = groupsCmd()
	c.SetArgs([]string{"delete", "--name", "VIP", "--yes"})
	require.NoError(t, c.Execute())

	found, err = mgr.Services().Groups.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAutomationStart(t *testing.T) {
	fake := withFakeManager(t)
	id := fake.Seed(mailerlite.Record{"name": "Welcome", "status": "inactive", "enabled": false})

	c := automationsCmd()
	c.SetArgs([]string{"start", id})
	require.NoError(t, c.Execute())

	info, err := mgr.Services().Automations.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "active", info.Status)
	assert.Contains(t, fake.Methods(), "Start")
}

func TestCountMatches(t *testing.T) {
	fake := withFakeManager(t)
	require.NoError(t, filters.RegisterFilters(map[string]string{
		"active":  `status == "active"`,
		"example": `emailDomain() == "example.com"`,
	}))
	fake.Seed(mailerlite.Record{"email": "ann@example.com", "status": "active"})
	fake.Seed(mailerlite.Record{"email": "bob@test.org", "status": "active"})
	fake.Seed(mailerlite.Record{"email": "cy@example.com", "status": "unsubscribed"})

	ctx := context.Background()
	page, err := mgr.Services().Subscribers.List(ctx, mailerlite.Filters{})
	require.NoError(t, err)

	counts, err := countMatches(ctx, page.Data, nil)
	require.NoError(t, err)
	assert.Equal(t, []filterCount{
		{Filter: "active", Matches: 2, Total: 3},
		{Filter: "example", Matches: 2, Total: 3},
	}, counts)

	counts, err = countMatches(ctx, page.Data, []string{"example"})
	require.NoError(t, err)
	assert.Equal(t, []filterCount{{Filter: "example", Matches: 2, Total: 3}}, counts)

	_, err = countMatches(ctx, page.Data, []string{"nope"})
	var unknown *filter.UnknownFilterError
	assert.ErrorAs(t, err, &unknown)

	c := subscribersCmd()
	c.SetArgs([]string{"count", "active"})
	require.NoError(t, c.Execute())
	assert.Contains(t, fake.Methods(), "Get")
}
