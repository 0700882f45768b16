// Package manager ties the resource packages together behind one facade.
// A Manager owns a single MailerLite client and one Service per resource,
// and hands out fresh builders on demand:
//
//	m, err := manager.New(manager.Options{APIKey: key}, logger)
//	if err != nil {
//		return err
//	}
//	info, err := m.Subscribers().Email("a@b.com").ToGroup("42").Subscribe(ctx)
package manager

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/automations"
	"github.com/s0up4200/mailkit/campaigns"
	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/fields"
	"github.com/s0up4200/mailkit/groups"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/segments"
	"github.com/s0up4200/mailkit/subscribers"
	"github.com/s0up4200/mailkit/webhooks"
)

// Options configure the underlying client. Zero values fall back to the
// mailerlite package defaults.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Registerer receives the client's request metrics when set
	Registerer prometheus.Registerer
}

// APIs are the endpoint groups the Services are built on.
type APIs struct {
	Subscribers mailerlite.SubscribersAPI
	Campaigns   mailerlite.CampaignsAPI
	Groups      mailerlite.GroupsAPI
	Fields      mailerlite.FieldsAPI
	Segments    mailerlite.SegmentsAPI
	Automations mailerlite.AutomationsAPI
	Webhooks    mailerlite.WebhooksAPI
}

// ClientAPIs returns the endpoint groups of client.
func ClientAPIs(client *mailerlite.Client) APIs {
	return APIs{
		Subscribers: client.Subscribers(),
		Campaigns:   client.Campaigns(),
		Groups:      client.Groups(),
		Fields:      client.Fields(),
		Segments:    client.Segments(),
		Automations: client.Automations(),
		Webhooks:    client.Webhooks(),
	}
}

// Services holds one Service per resource. Services are stateless and safe
// to share between goroutines.
type Services struct {
	Subscribers *subscribers.Service
	Campaigns   *campaigns.Service
	Groups      *groups.Service
	Fields      *fields.Service
	Segments    *segments.Service
	Automations *automations.Service
	Webhooks    *webhooks.Service
}

// Manager is the facade over every resource.
type Manager struct {
	client   *mailerlite.Client
	services Services
	logger   zerolog.Logger
}

// New builds a Manager with its own client. An empty API key fails with an
// authentication error before anything else happens.
func New(opts Options, logger zerolog.Logger) (*Manager, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errs.MissingCredential()
	}

	clientOpts := []mailerlite.Option{}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, mailerlite.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, mailerlite.WithTimeout(opts.Timeout))
	}
	if opts.Registerer != nil {
		clientOpts = append(clientOpts, mailerlite.WithMetrics(opts.Registerer))
	}

	client, err := mailerlite.NewClient(opts.APIKey, logger, clientOpts...)
	if err != nil {
		return nil, err
	}

	m := NewWithAPIs(ClientAPIs(client), logger)
	m.client = client
	logger.Debug().Str("base_url", client.BaseURL()).Dur("timeout", client.Timeout()).Msg("MailerLite manager ready")
	return m, nil
}

// NewWithAPIs builds a Manager over existing endpoint implementations.
func NewWithAPIs(apis APIs, logger zerolog.Logger) *Manager {
	return &Manager{
		services: Services{
			Subscribers: subscribers.NewService(apis.Subscribers, logger),
			Campaigns:   campaigns.NewService(apis.Campaigns, logger),
			Groups:      groups.NewService(apis.Groups, logger),
			Fields:      fields.NewService(apis.Fields, logger),
			Segments:    segments.NewService(apis.Segments, logger),
			Automations: automations.NewService(apis.Automations, logger),
			Webhooks:    webhooks.NewService(apis.Webhooks, logger),
		},
		logger: logger,
	}
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
	defaultErr     error
)

// Default returns the process-wide Manager, building it from opts on first
// use. Later calls return the same Manager, or the same error, whatever
// options they pass.
func Default(opts Options, logger zerolog.Logger) (*Manager, error) {
	defaultOnce.Do(func() {
		defaultManager, defaultErr = New(opts, logger)
	})
	return defaultManager, defaultErr
}

// Client returns the underlying client, or nil for a Manager built with
// NewWithAPIs.
func (m *Manager) Client() *mailerlite.Client {
	return m.client
}

// Services returns the per-resource Services.
func (m *Manager) Services() Services {
	return m.services
}

// Subscribers starts a subscriber builder.
func (m *Manager) Subscribers() *subscribers.Builder {
	return subscribers.NewBuilder(m.services.Subscribers)
}

// Campaigns starts a campaign builder.
func (m *Manager) Campaigns() *campaigns.Builder {
	return campaigns.NewBuilder(m.services.Campaigns)
}

// Groups starts a group builder.
func (m *Manager) Groups() *groups.Builder {
	return groups.NewBuilder(m.services.Groups)
}

// Fields starts a field builder.
func (m *Manager) Fields() *fields.Builder {
	return fields.NewBuilder(m.services.Fields)
}

// Segments starts a segment builder.
func (m *Manager) Segments() *segments.Builder {
	return segments.NewBuilder(m.services.Segments)
}

// Automations starts an automation builder.
func (m *Manager) Automations() *automations.Builder {
	return automations.NewBuilder(m.services.Automations)
}

// Webhooks starts a webhook builder.
func (m *Manager) Webhooks() *webhooks.Builder {
	return webhooks.NewBuilder(m.services.Webhooks)
}

// Ping checks the credential with the cheapest list call there is.
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := m.services.Subscribers.List(ctx, mailerlite.Filters{"limit": 1}); err != nil {
		m.logger.Debug().Err(err).Msg("MailerLite ping failed")
		return err
	}
	return nil
}
