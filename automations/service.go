package automations

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is an automation as returned by every Service method.
type Info struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Enabled     bool     `json:"enabled"`
	Triggers    []string `json:"triggers"`
	StepsCount  int      `json:"steps_count"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Stats       Stats    `json:"stats"`
}

// Stats are the counters of an automation.
type Stats struct {
	CompletedSubscribersCount int     `json:"completed_subscribers_count"`
	SubscribersInQueueCount   int     `json:"subscribers_in_queue_count"`
	Sent                      int     `json:"sent"`
	OpensCount                int     `json:"opens_count"`
	OpenRate                  float64 `json:"open_rate"`
	ClicksCount               int     `json:"clicks_count"`
	ClickRate                 float64 `json:"click_rate"`
	UnsubscribesCount         int     `json:"unsubscribes_count"`
}

// Participant is a subscriber going through an automation.
type Participant struct {
	ID           string `json:"id"`
	SubscriberID string `json:"subscriber_id"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	StepID       string `json:"step_id"`
	CreatedAt    string `json:"created_at"`
}

// Service talks to the automation endpoints.
type Service struct {
	api    mailerlite.AutomationsAPI
	logger zerolog.Logger
}

// NewService creates an automation Service
func NewService(api mailerlite.AutomationsAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create creates the automation. It is not started.
func (s *Service) Create(ctx context.Context, a *Automation) (*Info, error) {
	raw, err := s.api.Create(ctx, a.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpCreate, a.Name(), err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("name", a.Name()).Msg("Created automation")
	return &info, nil
}

// GetByID returns the automation, or nil when it does not exist.
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

// Update replaces the writable attributes of automation id.
func (s *Service) Update(ctx context.Context, id string, a *Automation) (*Info, error) {
	raw, err := s.api.Update(ctx, id, a.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Updated automation")
	return &info, nil
}

// Delete removes the automation. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, s.translate(errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted automation")
	return true, nil
}

// List returns one page of automations. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, s.translate(errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// FindByName returns the first automation named exactly name, or nil. It
// walks every page of List, so it is linear in the number of automations.
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

// Start activates automation id.
func (s *Service) Start(ctx context.Context, id string) (*Info, error) {
	return s.transition(ctx, id, "start", s.api.Start, CannotStart)
}

// Stop deactivates automation id.
func (s *Service) Stop(ctx context.Context, id string) (*Info, error) {
	return s.transition(ctx, id, "stop", s.api.Stop, CannotStop)
}

// Pause pauses a running automation.
func (s *Service) Pause(ctx context.Context, id string) (*Info, error) {
	return s.transition(ctx, id, "pause", s.api.Pause, CannotPause)
}

// Resume restarts a paused automation.
func (s *Service) Resume(ctx context.Context, id string) (*Info, error) {
	return s.transition(ctx, id, "resume", s.api.Resume, CannotResume)
}

// transition runs one state action. When the API refuses it because of the
// current state, the current status is looked up for the error context.
func (s *Service) transition(
	ctx context.Context,
	id, action string,
	call func(context.Context, string) (mailerlite.Record, error),
	refused func(id, status string, cause error) *errs.Error,
) (*Info, error) {
	raw, err := call(ctx, id)
	if err != nil {
		if errs.Classify(err) == errs.ClassState {
			return nil, refused(id, s.currentStatus(ctx, id), err)
		}
		return nil, errs.TranslateAction(resource, action, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Str("action", action).Str("status", info.Status).Msg("Automation transitioned")
	return &info, nil
}

func (s *Service) currentStatus(ctx context.Context, id string) string {
	raw, err := s.api.Find(ctx, id)
	if err != nil {
		s.logger.Debug().Err(err).Str("id", id).Msg("Could not read automation status")
		return ""
	}
	return transform(raw).Status
}

// GetStats returns the automation's counters.
func (s *Service) GetStats(ctx context.Context, id string) (*Stats, error) {
	raw, err := s.api.GetStats(ctx, id)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_stats", id, err)
	}
	if inner, ok := raw["stats"].(map[string]any); ok {
		raw = inner
	}
	stats := transformStats(raw)
	return &stats, nil
}

// GetSubscribers returns one page of the subscribers in the automation.
func (s *Service) GetSubscribers(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[Participant], error) {
	page, err := s.api.GetSubscribers(ctx, id, filters)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_subscribers", id, err)
	}
	return mailerlite.MapPage(page, transformParticipant), nil
}

func (s *Service) translate(op, ref string, err error) error {
	if op == errs.OpCreate && errs.Classify(err) == errs.ClassDuplicate {
		return AlreadyExists(ref, err)
	}
	return errs.Translate(resource, op, ref, err)
}

func transform(r mailerlite.Record) Info {
	triggers := make([]string, 0)
	for _, t := range r.Records("triggers") {
		if typ := t.String("type"); typ != "" {
			triggers = append(triggers, typ)
		}
	}

	enabled := r.Bool("enabled", true)
	status := r.String("status")
	if status == "" {
		status = "inactive"
		if enabled {
			status = "active"
		}
	}

	return Info{
		ID:          r.ID(),
		Name:        r.String("name"),
		Description: r.String("description"),
		Status:      status,
		Enabled:     enabled,
		Triggers:    triggers,
		StepsCount:  len(r.Slice("steps")),
		CreatedAt:   r.String("created_at"),
		UpdatedAt:   r.String("updated_at"),
		Stats:       transformStats(r.Record("stats")),
	}
}

func transformStats(r mailerlite.Record) Stats {
	return Stats{
		CompletedSubscribersCount: r.Int("completed_subscribers_count"),
		SubscribersInQueueCount:   r.Int("subscribers_in_queue_count"),
		Sent:                      r.Int("sent"),
		OpensCount:                r.Int("opens_count"),
		OpenRate:                  r.Float("open_rate"),
		ClicksCount:               r.Int("clicks_count"),
		ClickRate:                 r.Float("click_rate"),
		UnsubscribesCount:         r.Int("unsubscribes_count"),
	}
}

func transformParticipant(r mailerlite.Record) Participant {
	sub := r.Record("subscriber")
	email := sub.String("email")
	if email == "" {
		email = r.String("email")
	}
	return Participant{
		ID:           r.ID(),
		SubscriberID: sub.ID(),
		Email:        email,
		Status:       r.String("status"),
		StepID:       r.String("step_id"),
		CreatedAt:    r.String("created_at"),
	}
}
