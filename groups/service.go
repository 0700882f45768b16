package groups

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is a group as returned by every Service method.
type Info struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	ActiveCount       int     `json:"active_count"`
	SentCount         int     `json:"sent_count"`
	OpensCount        int     `json:"opens_count"`
	OpenRate          float64 `json:"open_rate"`
	ClicksCount       int     `json:"clicks_count"`
	ClickRate         float64 `json:"click_rate"`
	UnsubscribedCount int     `json:"unsubscribed_count"`
	UnconfirmedCount  int     `json:"unconfirmed_count"`
	BouncedCount      int     `json:"bounced_count"`
	JunkCount         int     `json:"junk_count"`
	CreatedAt         string  `json:"created_at"`
}

// Member is a subscriber listed under a group.
type Member struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// Service talks to the group endpoints.
type Service struct {
	api    mailerlite.GroupsAPI
	logger zerolog.Logger
}

// NewService creates a group Service
func NewService(api mailerlite.GroupsAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create creates the group. A name that is taken is reported as
// AlreadyExists.
func (s *Service) Create(ctx context.Context, g *Group) (*Info, error) {
	raw, err := s.api.Create(ctx, g.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpCreate, g.Name(), err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("name", info.Name).Msg("Created group")
	return &info, nil
}

// GetByID returns the group, or nil when it does not exist.
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

// Update renames group id.
func (s *Service) Update(ctx context.Context, id string, g *Group) (*Info, error) {
	raw, err := s.api.Update(ctx, id, g.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Str("name", info.Name).Msg("Updated group")
	return &info, nil
}

// Delete removes the group. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, s.translate(errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted group")
	return true, nil
}

// List returns one page of groups. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, s.translate(errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// GetSubscribers returns one page of the group's subscribers.
func (s *Service) GetSubscribers(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[Member], error) {
	page, err := s.api.GetSubscribers(ctx, id, filters)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_subscribers", id, err)
	}
	return mailerlite.MapPage(page, transformMember), nil
}

// FindByName returns the group named exactly name, or nil. Every page of
// List is scanned client-side, so the cost is linear in the number of
// groups.
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

func (s *Service) translate(op, ref string, err error) error {
	if op == errs.OpCreate && errs.Classify(err) == errs.ClassDuplicate {
		return AlreadyExists(ref, err)
	}
	return errs.Translate(resource, op, ref, err)
}

func transform(r mailerlite.Record) Info {
	return Info{
		ID:                r.ID(),
		Name:              r.String("name"),
		ActiveCount:       r.Int("active_count"),
		SentCount:         r.Int("sent_count"),
		OpensCount:        r.Int("opens_count"),
		OpenRate:          r.Float("open_rate"),
		ClicksCount:       r.Int("clicks_count"),
		ClickRate:         r.Float("click_rate"),
		UnsubscribedCount: r.Int("unsubscribed_count"),
		UnconfirmedCount:  r.Int("unconfirmed_count"),
		BouncedCount:      r.Int("bounced_count"),
		JunkCount:         r.Int("junk_count"),
		CreatedAt:         r.String("created_at"),
	}
}

func transformMember(r mailerlite.Record) Member {
	return Member{
		ID:     r.ID(),
		Email:  r.String("email"),
		Status: r.StringOr("status", "active"),
	}
}
