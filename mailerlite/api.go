package mailerlite

import (
	"context"
)

// SubscribersAPI defines the subscriber endpoints
type SubscribersAPI interface {
	Create(ctx context.Context, payload map[string]any) (Record, error)
	// Find accepts either a subscriber id or an email address
	Find(ctx context.Context, idOrEmail string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
	AddToGroup(ctx context.Context, subscriberID, groupID string) (Record, error)
	RemoveFromGroup(ctx context.Context, subscriberID, groupID string) error
	Forget(ctx context.Context, id string) (Record, error)
}

// CampaignsAPI defines the campaign endpoints
type CampaignsAPI interface {
	Create(ctx context.Context, payload map[string]any) (Record, error)
	Find(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
	Schedule(ctx context.Context, id string, payload map[string]any) (Record, error)
	Send(ctx context.Context, id string) (Record, error)
	Cancel(ctx context.Context, id string) (Record, error)
	GetStats(ctx context.Context, id string) (Record, error)
	GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error)
}

// GroupsAPI defines the group endpoints
type GroupsAPI interface {
	Create(ctx context.Context, payload map[string]any) (Record, error)
	Find(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
	GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error)
}

// FieldsAPI defines the custom field endpoints
type FieldsAPI interface {
	Create(ctx context.Context, payload map[string]any) (Record, error)
	Find(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
}

// SegmentsAPI defines the segment endpoints. The API has no create endpoint.
type SegmentsAPI interface {
	Find(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
	GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error)
	Activate(ctx context.Context, id string) (Record, error)
	Deactivate(ctx context.Context, id string) (Record, error)
	Refresh(ctx context.Context, id string) (Record, error)
}

// AutomationsAPI defines the automation endpoints
type AutomationsAPI interface {
	Create(ctx context.Context, payload map[string]any) (Record, error)
	Find(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
	Start(ctx context.Context, id string) (Record, error)
	Stop(ctx context.Context, id string) (Record, error)
	Pause(ctx context.Context, id string) (Record, error)
	Resume(ctx context.Context, id string) (Record, error)
	GetStats(ctx context.Context, id string) (Record, error)
	GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error)
}

// WebhooksAPI defines the webhook endpoints
type WebhooksAPI interface {
	Create(ctx context.Context, payload map[string]any) (Record, error)
	Find(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, filters Filters) (*Page[Record], error)
	Test(ctx context.Context, id string) (Record, error)
	GetLogs(ctx context.Context, id string, filters Filters) (*Page[Record], error)
}

var (
	_ SubscribersAPI = (*SubscribersEndpoint)(nil)
	_ CampaignsAPI   = (*CampaignsEndpoint)(nil)
	_ GroupsAPI      = (*GroupsEndpoint)(nil)
	_ FieldsAPI      = (*FieldsEndpoint)(nil)
	_ SegmentsAPI    = (*SegmentsEndpoint)(nil)
	_ AutomationsAPI = (*AutomationsEndpoint)(nil)
	_ WebhooksAPI    = (*WebhooksEndpoint)(nil)
)
