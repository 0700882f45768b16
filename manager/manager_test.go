package manager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/mailerlite/mailerlitetest"
)

func fakeAPIs(f *mailerlitetest.Fake) APIs {
	return APIs{
		Subscribers: f,
		Campaigns:   f,
		Groups:      f,
		Fields:      f,
		Segments:    f,
		Automations: f,
		Webhooks:    f,
	}
}

func TestNewRejectsEmptyKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		m, err := New(Options{APIKey: key}, zerolog.Nop())
		require.Error(t, err)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, errs.ErrAuthentication)
		assert.True(t, errs.IsFatal(err))
		assert.True(t, errs.HasType(err, "missing_api_key"))
	}
}

func TestNewAppliesOptions(t *testing.T) {
	m, err := New(Options{
		APIKey:     "key",
		BaseURL:    "https://example.com/api/",
		Timeout:    5 * time.Second,
		Registerer: prometheus.NewRegistry(),
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api", m.Client().BaseURL())
	assert.Equal(t, 5*time.Second, m.Client().Timeout())

	m, err = New(Options{APIKey: "key"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, mailerlite.DefaultBaseURL, m.Client().BaseURL())
	assert.Equal(t, mailerlite.DefaultTimeout, m.Client().Timeout())
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"valid key", http.StatusOK, false},
		{"rejected key", http.StatusUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/subscribers", r.URL.Path)
				assert.Equal(t, "1", r.URL.Query().Get("limit"))
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}, "meta": map[string]any{"total": 0}})
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"message": "Unauthenticated."})
			}))
			defer server.Close()

			m, err := New(Options{APIKey: "secret", BaseURL: server.URL}, zerolog.Nop())
			require.NoError(t, err)

			err = m.Ping(context.Background())
			if tt.wantErr {
				assert.True(t, errs.IsFatal(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuilderFactoriesShareServices(t *testing.T) {
	fake := mailerlitetest.New()
	m := NewWithAPIs(fakeAPIs(fake), zerolog.Nop())
	ctx := context.Background()

	assert.Nil(t, m.Client())

	sub, err := m.Subscribers().Email("a@b.com").Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", sub.Email)

	group, err := m.Groups().Named("VIP").Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VIP", group.Name)

	_, err = m.Segments().Named("x").InGroup(group.ID).Create(ctx)
	assert.ErrorIs(t, err, errs.ErrNotImplemented)

	b1, b2 := m.Campaigns(), m.Campaigns()
	assert.NotSame(t, b1, b2)

	assert.NotNil(t, m.Fields())
	assert.NotNil(t, m.Automations())
	assert.NotNil(t, m.Webhooks())

	found, err := m.Services().Subscribers.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sub.ID, found.ID)
}

func TestDefaultIsBuiltOnce(t *testing.T) {
	first, err := Default(Options{APIKey: "one"}, zerolog.Nop())
	require.NoError(t, err)

	second, err := Default(Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Same(t, first, second)
}
