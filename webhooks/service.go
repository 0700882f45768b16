package webhooks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is a webhook as returned by every Service method.
type Info struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Events    []string `json:"events"`
	Enabled   bool     `json:"enabled"`
	Batchable bool     `json:"batchable"`
	Secret    string   `json:"secret"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// Delivery is one logged webhook delivery attempt.
type Delivery struct {
	ID           string `json:"id"`
	Event        string `json:"event"`
	Status       string `json:"status"`
	ResponseCode int    `json:"response_code"`
	Attempts     int    `json:"attempts"`
	CreatedAt    string `json:"created_at"`
}

// Service talks to the webhook endpoints.
type Service struct {
	api    mailerlite.WebhooksAPI
	logger zerolog.Logger
}

// NewService creates a webhook Service
func NewService(api mailerlite.WebhooksAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create registers the webhook.
func (s *Service) Create(ctx context.Context, w *Webhook) (*Info, error) {
	raw, err := s.api.Create(ctx, w.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpCreate, w.URL(), err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("url", w.URL()).Strs("events", w.Events()).Msg("Created webhook")
	return &info, nil
}

// GetByID returns the webhook, or nil when it does not exist.
func (s *Service) GetByID(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Find(ctx, id)
	if err != nil {
		if errs.IsMissing(err) {
			return nil, nil
		}
		return nil, s.translate(errs.OpGet, id, err)
	}
	info := transform(raw)
	return &info, nil
}

// Update replaces the writable attributes of webhook id.
func (s *Service) Update(ctx context.Context, id string, w *Webhook) (*Info, error) {
	return s.update(ctx, id, w.ToArray())
}

// Delete removes the webhook. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, s.translate(errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted webhook")
	return true, nil
}

// List returns one page of webhooks. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, s.translate(errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// Test asks MailerLite to send a test delivery to the webhook url.
func (s *Service) Test(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Test(ctx, id)
	if err != nil {
		return nil, errs.TranslateAction(resource, "test", id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Tested webhook")
	return &info, nil
}

// GetLogs returns one page of delivery attempts.
func (s *Service) GetLogs(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[Delivery], error) {
	page, err := s.api.GetLogs(ctx, id, filters)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_logs", id, err)
	}
	return mailerlite.MapPage(page, transformDelivery), nil
}

// Enable turns delivery back on.
func (s *Service) Enable(ctx context.Context, id string) (*Info, error) {
	return s.update(ctx, id, map[string]any{"enabled": true})
}

// Disable pauses delivery without deleting the webhook.
func (s *Service) Disable(ctx context.Context, id string) (*Info, error) {
	return s.update(ctx, id, map[string]any{"enabled": false})
}

func (s *Service) update(ctx context.Context, id string, body map[string]any) (*Info, error) {
	raw, err := s.api.Update(ctx, id, body)
	if err != nil {
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Bool("enabled", info.Enabled).Msg("Updated webhook")
	return &info, nil
}

func (s *Service) translate(op, ref string, err error) error {
	if op == errs.OpCreate && errs.Classify(err) == errs.ClassDuplicate {
		return AlreadyExists(ref, err)
	}
	return errs.Translate(resource, op, ref, err)
}

func transform(r mailerlite.Record) Info {
	return Info{
		ID:        r.ID(),
		Name:      r.String("name"),
		URL:       r.String("url"),
		Events:    r.Strings("events"),
		Enabled:   r.Bool("enabled", true),
		Batchable: r.Bool("batchable", false),
		Secret:    r.String("secret"),
		CreatedAt: r.String("created_at"),
		UpdatedAt: r.String("updated_at"),
	}
}

func transformDelivery(r mailerlite.Record) Delivery {
	return Delivery{
		ID:           r.ID(),
		Event:        r.String("event"),
		Status:       r.String("status"),
		ResponseCode: r.Int("response_code"),
		Attempts:     r.Int("attempts"),
		CreatedAt:    r.String("created_at"),
	}
}
