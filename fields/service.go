package fields

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/mailerlite"
)

// Info is a custom field as returned by every Service method.
type Info struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	IsDefault bool   `json:"is_default"`
}

// Service talks to the custom field endpoints.
type Service struct {
	api    mailerlite.FieldsAPI
	logger zerolog.Logger
}

// NewService creates a field Service
func NewService(api mailerlite.FieldsAPI, logger zerolog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger.With().Str("resource", resource).Logger(),
	}
}

// Create creates the field.
func (s *Service) Create(ctx context.Context, f *Field) (*Info, error) {
	raw, err := s.api.Create(ctx, f.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpCreate, f.Name(), err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", info.ID).Str("key", info.Key).Msg("Created field")
	return &info, nil
}

// GetByID returns the field, or nil when it does not exist.
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

// Update renames field id.
func (s *Service) Update(ctx context.Context, id string, f *Field) (*Info, error) {
	raw, err := s.api.Update(ctx, id, f.ToArray())
	if err != nil {
		return nil, s.translate(errs.OpUpdate, id, err)
	}

	info := transform(raw)
	s.logger.Debug().Str("id", id).Msg("Updated field")
	return &info, nil
}

// Delete removes the field. It returns true on success.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.api.Delete(ctx, id); err != nil {
		return false, s.translate(errs.OpDelete, id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deleted field")
	return true, nil
}

// List returns one page of fields. Meta and links are passed through.
func (s *Service) List(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[Info], error) {
	page, err := s.api.Get(ctx, filters)
	if err != nil {
		return nil, s.translate(errs.OpList, "", err)
	}
	return mailerlite.MapPage(page, transform), nil
}

// FindByName returns the field named exactly name, or nil. There is no
// server-side name filter: every page is fetched and scanned, so the cost
// grows linearly with the number of fields.
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

// GetUsage always fails: the API has no field usage endpoint.
func (s *Service) GetUsage(ctx context.Context, id string) (map[string]any, error) {
	return nil, UsageNotSupported()
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
		Key:       r.String("key"),
		Type:      r.StringOr("type", TypeText),
		IsDefault: r.Bool("is_default", false),
	}
}
