package subscribers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is a subscriber as returned by every Service method.
type Info struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Status         string         `json:"status"`
	Source         string         `json:"source"`
	Sent           int            `json:"sent"`
	OpensCount     int            `json:"opens_count"`
	ClicksCount    int            `json:"clicks_count"`
	OpenRate       float64        `json:"open_rate"`
	ClickRate      float64        `json:"click_rate"`
	IPAddress      string         `json:"ip_address"`
	OptinIP        string         `json:"optin_ip"`
	SubscribedAt   string         `json:"subscribed_at"`
	UnsubscribedAt string         `json:"unsubscribed_at"`
	OptedInAt      string         `json:"opted_in_at"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
	Fields         map[string]any `json:"fields"`
	Groups         []GroupRef     `json:"groups"`
}

// GroupRef is a group the subscriber belongs to.
type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service talks to the subscriber endpoints.
type Service struct {
	api    mailerlite.SubscribersAPI
	logger zerolog.Logger
}

// NewService creates a subscriber Service
func NewService(api mailerlite.SubscribersAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create subscribes the address. Creating an existing subscriber is
// reported as AlreadyExists.
func (s *Service) Create(ctx context.Context, sub *Subscriber) (*Info, error) {
	raw, err := s.api.Create(ctx, sub.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpCreate, sub.Email(), err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("email", info.Email).Msg("Created subscriber")
	return &info, nil
}

// GetByID returns the subscriber, or nil when it does not exist.
func (s *Service) GetByID(ctx context.Context, id string) (*Info, error) {
	return s.find(ctx, id)
}

// GetByEmail returns the subscriber with the address, or nil when there is
// none.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Info, error) {
	return s.find(ctx, email)
}

func (s *Service) find(ctx context.Context, idOrEmail string) (*Info, error) {
	raw, err := s.api.Find(ctx, idOrEmail)
	if err != nil {
		if errs.IsMissing(err) {
			s.logger.Debug().Str("ref", idOrEmail).Msg("Subscriber not found")
			return nil, nil
		}
		return nil, s.translate(errs.OpGet, idOrEmail, err)
	}
	info := transform(raw)
	return &info, nil
}

// Update replaces the subscriber's fields with those of sub.
func (s *Service) Update(ctx context.Context, id string, sub *Subscriber) (*Info, error) {
	raw, err := s.api.Update(ctx, id, sub.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Updated subscriber")
	return &info, nil
}

// Delete removes the subscriber. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, s.translate(errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted subscriber")
	return true, nil
}

// List returns one page of subscribers. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, s.translate(errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// AddToGroup assigns the subscriber to a group.
func (s *Service) AddToGroup(ctx context.Context, subscriberID, groupID string) (bool, error) {
	if _, err := s.api.AddToGroup(ctx, subscriberID, groupID); err != nil {
		return false, errs.TranslateAction(resource, "add_to_group", subscriberID, err)
	}
	s.logger.Debug().Str("id", subscriberID).Str("group_id", groupID).Msg("Added subscriber to group")
	return true, nil
}

// RemoveFromGroup unassigns the subscriber from a group.
func (s *Service) RemoveFromGroup(ctx context.Context, subscriberID, groupID string) (bool, error) {
	if err := s.api.RemoveFromGroup(ctx, subscriberID, groupID); err != nil {
		return false, errs.TranslateAction(resource, "remove_from_group", subscriberID, err)
	}
	s.logger.Debug().Str("id", subscriberID).Str("group_id", groupID).Msg("Removed subscriber from group")
	return true, nil
}

// Unsubscribe sets the subscriber's status to unsubscribed. The API has no
// dedicated endpoint; this is an update of the status field.
func (s *Service) Unsubscribe(ctx context.Context, id string) (*Info, error) {
	return s.setStatus(ctx, id, StatusUnsubscribed, CannotUnsubscribe)
}

// Resubscribe sets the subscriber's status back to active.
func (s *Service) Resubscribe(ctx context.Context, id string) (*Info, error) {
	return s.setStatus(ctx, id, StatusActive, CannotResubscribe)
}

func (s *Service) setStatus(ctx context.Context, id, status string, refused func(id, status string, cause error) *errs.Error) (*Info, error) {
	raw, err := s.api.Update(ctx, id, map[string]any{"status": status})
	if err != nil {
		if errs.Classify(err) == errs.ClassState {
			return nil, refused(id, "", err)
		}
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Str("status", info.Status).Msg("Changed subscriber status")
	return &info, nil
}

// Forget deletes the subscriber and all of its personal data.
func (s *Service) Forget(ctx context.Context, id string) (bool, error) {
	if _, err := s.api.Forget(ctx, id); err != nil {
		return false, errs.TranslateAction(resource, "forget", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Forgot subscriber")
	return true, nil
}

// translate maps SDK failures onto the subscriber errors.
func (s *Service) translate(op, ref string, err error) error {
	if op == errs.OpCreate && errs.Classify(err) == errs.ClassDuplicate {
		return AlreadyExists(ref, err)
	}
	if op == errs.OpUpdate || op == errs.OpDelete {
		if errs.IsMissing(err) {
			return NotFound(ref, err)
		}
	}
	return errs.Translate(resource, op, ref, err)
}

func transform(r mailerlite.Record) Info {
	info := Info{
		ID:             r.ID(),
		Email:          r.String("email"),
		Status:         r.StringOr("status", StatusActive),
		Source:         r.String("source"),
		Sent:           r.Int("sent"),
		OpensCount:     r.Int("opens_count"),
		ClicksCount:    r.Int("clicks_count"),
		OpenRate:       r.Float("open_rate"),
		ClickRate:      r.Float("click_rate"),
		IPAddress:      r.String("ip_address"),
		OptinIP:        r.String("optin_ip"),
		SubscribedAt:   r.String("subscribed_at"),
		UnsubscribedAt: r.String("unsubscribed_at"),
		OptedInAt:      r.String("opted_in_at"),
		CreatedAt:      r.String("created_at"),
		UpdatedAt:      r.String("updated_at"),
		Fields:         r.Map("fields"),
		Groups:         make([]GroupRef, 0),
	}
	for _, g := range r.Slice("groups") {
		switch t := g.(type) {
		case map[string]any:
			group := mailerlite.Record(t)
			info.Groups = append(info.Groups, GroupRef{ID: group.ID(), Name: group.String("name")})
		default:
			info.Groups = append(info.Groups, GroupRef{ID: mailerlite.Record{"id": t}.ID()})
		}
	}
	return info
}
