package segments

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is a segment as returned by every Service method.
type Info struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Total     int     `json:"total"`
	OpenRate  float64 `json:"open_rate"`
	ClickRate float64 `json:"click_rate"`
	CreatedAt string  `json:"created_at"`
}

// Member is a subscriber matched by a segment.
type Member struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// Service talks to the segment endpoints.
type Service struct {
	api    mailerlite.SegmentsAPI
	logger zerolog.Logger
}

// NewService creates a segment Service
func NewService(api mailerlite.SegmentsAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create always fails: the API cannot create segments.
func (s *Service) Create(ctx context.Context, seg *Segment) (*Info, error) {
	s.logger.Debug().Str("name", seg.Name()).Msg("Refusing segment create")
	return nil, CreateNotSupported()
}

// GetByID returns the segment, or nil when it does not exist.
func (s *Service) GetByID(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Find(ctx, id)
	if err != nil {
		if errs.IsMissing(err) {
			return nil, nil
		}
		return nil, errs.Translate(resource, errs.OpGet, id, err)
	}
	info := transform(raw)
	return &info, nil
}

// Update replaces segment id's definition.
func (s *Service) Update(ctx context.Context, id string, seg *Segment) (*Info, error) {
	raw, err := s.api.Update(ctx, id, seg.ToArray())
	if err != nil {
		return nil, errs.Translate(resource, errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Updated segment")
	return &info, nil
}

// Delete removes the segment. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, errs.Translate(resource, errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted segment")
	return true, nil
}

// List returns one page of segments. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, errs.Translate(resource, errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// GetSubscribers returns one page of the subscribers the segment matches.
func (s *Service) GetSubscribers(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[Member], error) {
	page, err := s.api.GetSubscribers(ctx, id, filters)
	if err != nil {
		return nil, errs.TranslateAction(resource, "get_subscribers", id, err)
	}
	return mailerlite.MapPage(page, transformMember), nil
}

// Activate enables the segment.
func (s *Service) Activate(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Activate(ctx, id)
	if err != nil {
		if errs.Classify(err) == errs.ClassState {
			return nil, CannotActivate(id, err)
		}
		return nil, errs.TranslateAction(resource, "activate", id, err)
	}
	return s.done("Activated segment", raw), nil
}

// Deactivate disables the segment.
func (s *Service) Deactivate(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Deactivate(ctx, id)
	if err != nil {
		if errs.Classify(err) == errs.ClassState {
			return nil, CannotDeactivate(id, err)
		}
		return nil, errs.TranslateAction(resource, "deactivate", id, err)
	}
	return s.done("Deactivated segment", raw), nil
}

// Refresh recalculates the segment's members.
func (s *Service) Refresh(ctx context.Context, id string) (*Info, error) {
	raw, err := s.api.Refresh(ctx, id)
	if err != nil {
		return nil, errs.TranslateAction(resource, "refresh", id, err)
	}
	return s.done("Refreshed segment", raw), nil
}

func (s *Service) done(msg string, raw mailerlite.Record) *Info {
	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("status", info.Status).Msg(msg)
	return &info
}

func transform(r mailerlite.Record) Info {
	return Info{
		ID:        r.ID(),
		Name:      r.String("name"),
		Status:    r.StringOr("status", "active"),
		Total:     r.Int("total"),
		OpenRate:  r.Float("open_rate"),
		ClickRate: r.Float("click_rate"),
		CreatedAt: r.String("created_at"),
	}
}

func transformMember(r mailerlite.Record) Member {
	return Member{
		ID:     r.ID(),
		Email:  r.String("email"),
		Status: r.StringOr("status", "active"),
	}
}
