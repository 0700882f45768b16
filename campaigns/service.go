package campaigns

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is a campaign as returned by every Service method.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Subject      string `json:"subject"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	FromName     string `json:"from_name"`
	FromEmail    string `json:"from_email"`
	ScheduledFor string `json:"scheduled_for"`
	QueuedAt     string `json:"queued_at"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	Stats        Stats  `json:"stats"`
}

// Stats are the delivery and engagement counters of a campaign.
type Stats struct {
	Sent              int     `json:"sent"`
	OpensCount        int     `json:"opens_count"`
	UniqueOpensCount  int     `json:"unique_opens_count"`
	OpenRate          float64 `json:"open_rate"`
	ClicksCount       int     `json:"clicks_count"`
	UniqueClicksCount int     `json:"unique_clicks_count"`
	ClickRate         float64 `json:"click_rate"`
	UnsubscribesCount int     `json:"unsubscribes_count"`
	SpamCount         int     `json:"spam_count"`
	HardBouncesCount  int     `json:"hard_bounces_count"`
	SoftBouncesCount  int     `json:"soft_bounces_count"`
}

// Activity is one recipient's engagement with a sent campaign.
type Activity struct {
	ID           string `json:"id"`
	SubscriberID string `json:"subscriber_id"`
	Email        string `json:"email"`
	OpensCount   int    `json:"opens_count"`
	ClicksCount  int    `json:"clicks_count"`
}

// Service talks to the campaign endpoints.
type Service struct {
	api    mailerlite.CampaignsAPI
	logger zerolog.Logger
}

// NewService creates a campaign Service
func NewService(api mailerlite.CampaignsAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create creates a draft campaign.
func (s *Service) Create(ctx context.Context, c *Campaign) (*Info, error) {
	raw, err := s.api.Create(ctx, c.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpCreate, c.Subject(), err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("subject", c.Subject()).Msg("Created campaign")
	return &info, nil
}

// GetByID returns the campaign, or nil when it does not exist.
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

// Update replaces the campaign's content with c.
func (s *Service) Update(ctx context.Context, id string, c *Campaign) (*Info, error) {
	raw, err := s.api.Update(ctx, id, c.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Updated campaign")
	return &info, nil
}

// Delete removes the campaign. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, s.translate(errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted campaign")
	return true, nil
}

// List returns one page of campaigns. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, s.translate(errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// FindByName returns the first campaign whose name is exactly name, or nil.
// The API has no name filter, so this walks every page of List: it costs
// one request per page and is linear in the number of campaigns.
func (s *Service) FindByName(ctx context.Context, name string) (*Info, error) {
	for pageNo := 1; ; pageNo++ {
		page, err := s.List(ctx, mailerlite.Filters{"limit": 100, "page": pageNo})
		if err != nil {
			return nil, err
		}
		for i := range page.Data {
			if page.Data[i].Name == name {
				return &page.Data[i], nil
			}
		}
		if len(page.Data) == 0 || pageNo >= page.LastPage() {
			return nil, nil
		}
	}
}

// Schedule schedules delivery of campaign id at the given time (UTC).
func (s *Service) Schedule(ctx context.Context, id string, at time.Time) (*Info, error) {
	at = at.UTC()
	raw, err := s.api.Schedule(ctx, id, map[string]any{
		"delivery": "scheduled",
		"schedule": map[string]any{
			"date":    at.Format("2006-01-02"),
			"hours":   at.Format("15"),
			"minutes": at.Format("04"),
		},
	})
	if err != nil {
		return nil, s.translateSend("schedule", id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Time("at", at).Msg("Scheduled campaign")
	return &info, nil
}

// Send delivers campaign id immediately.
func (s *Service) Send(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Send(ctx, id)
	if err != nil {
		return nil, s.translateSend("send", id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Sent campaign")
	return &info, nil
}

// Cancel returns a scheduled campaign to draft.
func (s *Service) Cancel(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Cancel(ctx, id)
	if err != nil {
		if errs.Classify(err) == errs.ClassState {
			return nil, CannotCancel(id, err)
		}
		return nil, errs.TranslateAction(resource, "cancel", id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Cancelled campaign")
	return &info, nil
}

// GetStats returns the campaign's counters.
func (s *Service) GetStats(ctx context.Context, id string) (*Stats, error) {
	raw, err := s.api.GetStats(ctx, id)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_stats", id, err)
	}
	stats := transformStats(statsRecord(raw))
	return &stats, nil
}

// GetSubscribers returns one page of recipient activity.
func (s *Service) GetSubscribers(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[Activity], error) {
	page, err := s.api.GetSubscribers(ctx, id, filters)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_subscribers", id, err)
	}
	return mailerlite.MapPage(page, transformActivity), nil
}

// translate maps SDK failures of the CRUD calls onto the campaign errors.
func (s *Service) translate(op, ref string, err error) error {
	if op == errs.OpCreate && errs.Classify(err) == errs.ClassDuplicate {
		return AlreadyExists(ref, err)
	}
	return errs.Translate(resource, op, ref, err)
}

func (s *Service) translateSend(action, id string, err error) error {
	switch errs.Classify(err) {
	case errs.ClassUnauthorized:
		return errs.Authentication(resource, err)
	case errs.ClassNotFound:
		return NotFound(id, err)
	case errs.ClassNoRecipients:
		return NoRecipients(id, err)
	case errs.ClassState:
		if action == "schedule" {
			return CannotSchedule(id, err)
		}
		return CannotSend(id, err)
	default:
		return SendFailed(id, err)
	}
}

func transform(r mailerlite.Record) Info {
	// the API nests content under emails[0]; flat keys win when present
	email := mailerlite.Record{}
	if emails := r.Records("emails"); len(emails) > 0 {
		email = emails[0]
	}
	pick := func(key, nested string) string {
		if v := r.String(key); v != "" {
			return v
		}
		return email.String(nested)
	}

	return Info{
		ID:           r.ID(),
		Name:         r.String("name"),
		Subject:      pick("subject", "subject"),
		Type:         r.StringOr("type", TypeRegular),
		Status:       r.StringOr("status", "draft"),
		FromName:     pick("from_name", "from_name"),
		FromEmail:    pick("from_email", "from"),
		ScheduledFor: pick("scheduled_for", "schedule_at"),
		QueuedAt:     r.String("queued_at"),
		StartedAt:    r.String("started_at"),
		FinishedAt:   r.String("finished_at"),
		CreatedAt:    r.String("created_at"),
		UpdatedAt:    r.String("updated_at"),
		Stats:        transformStats(r.Record("stats")),
	}
}

// statsRecord accepts both a bare stats object and one wrapped in "stats".
func statsRecord(r mailerlite.Record) mailerlite.Record {
	if inner, ok := r["stats"].(map[string]any); ok {
		return mailerlite.Record(inner)
	}
	return r
}

func transformStats(r mailerlite.Record) Stats {
	return Stats{
		Sent:              r.Int("sent"),
		OpensCount:        r.Int("opens_count"),
		UniqueOpensCount:  r.Int("unique_opens_count"),
		OpenRate:          r.Float("open_rate"),
		ClicksCount:       r.Int("clicks_count"),
		UniqueClicksCount: r.Int("unique_clicks_count"),
		ClickRate:         r.Float("click_rate"),
		UnsubscribesCount: r.Int("unsubscribes_count"),
		SpamCount:         r.Int("spam_count"),
		HardBouncesCount:  r.Int("hard_bounces_count"),
		SoftBouncesCount:  r.Int("soft_bounces_count"),
	}
}

func transformActivity(r mailerlite.Record) Activity {
	sub := r.Record("subscriber")
	return Activity{
		ID:           r.ID(),
		SubscriberID: sub.ID(),
		Email:        sub.String("email"),
		OpensCount:   r.Int("opens_count"),
		ClicksCount:  r.Int("clicks_count"),
	}
}
