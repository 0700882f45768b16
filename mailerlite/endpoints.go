package mailerlite

import (
	"context"
	"net/http"
	"net/url"
)

// crud implements the endpoints every resource shares.
type crud struct {
	c    *Client
	base string
}

func (r crud) path(id string, sub ...string) string {
	p := r.base + "/" + url.PathEscape(id)
	for _, s := range sub {
		p += "/" + s
	}
	return p
}

// Create issues POST /{resource}.
func (r crud) Create(ctx context.Context, payload map[string]any) (Record, error) {
	return r.c.record(ctx, http.MethodPost, r.base, nil, payload)
}

// Find issues GET /{resource}/{id}.
func (r crud) Find(ctx context.Context, id string) (Record, error) {
	return r.c.record(ctx, http.MethodGet, r.path(id), nil, nil)
}

// Update issues PUT /{resource}/{id}.
func (r crud) Update(ctx context.Context, id string, payload map[string]any) (Record, error) {
	return r.c.record(ctx, http.MethodPut, r.path(id), nil, payload)
}

// Delete issues DELETE /{resource}/{id}.
func (r crud) Delete(ctx context.Context, id string) error {
	_, err := r.c.doRequest(ctx, http.MethodDelete, r.path(id), nil, nil)
	return err
}

// Get issues GET /{resource} with the given filters.
func (r crud) Get(ctx context.Context, filters Filters) (*Page[Record], error) {
	return r.c.page(ctx, r.base, filters)
}

func (r crud) action(ctx context.Context, id, verb string, body map[string]any) (Record, error) {
	// a nil map must not be sent as a JSON null body
	var payload any
	if body != nil {
		payload = body
	}
	return r.c.record(ctx, http.MethodPost, r.path(id, verb), nil, payload)
}

func (r crud) read(ctx context.Context, id string, sub ...string) (Record, error) {
	return r.c.record(ctx, http.MethodGet, r.path(id, sub...), nil, nil)
}

func (r crud) subPage(ctx context.Context, id string, filters Filters, sub ...string) (*Page[Record], error) {
	return r.c.page(ctx, r.path(id, sub...), filters)
}

// SubscribersEndpoint serves /subscribers.
type SubscribersEndpoint struct{ crud }

// Subscribers returns the subscriber endpoints.
func (c *Client) Subscribers() *SubscribersEndpoint {
	return &SubscribersEndpoint{crud{c: c, base: "/subscribers"}}
}

// AddToGroup issues POST /subscribers/{id}/groups/{group_id}.
func (e *SubscribersEndpoint) AddToGroup(ctx context.Context, subscriberID, groupID string) (Record, error) {
	return e.c.record(ctx, http.MethodPost, e.path(subscriberID, "groups", url.PathEscape(groupID)), nil, nil)
}

// RemoveFromGroup issues DELETE /subscribers/{id}/groups/{group_id}.
func (e *SubscribersEndpoint) RemoveFromGroup(ctx context.Context, subscriberID, groupID string) error {
	_, err := e.c.doRequest(ctx, http.MethodDelete, e.path(subscriberID, "groups", url.PathEscape(groupID)), nil, nil)
	return err
}

// Forget issues POST /subscribers/{id}/forget.
func (e *SubscribersEndpoint) Forget(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "forget", nil)
}

// CampaignsEndpoint serves /campaigns.
type CampaignsEndpoint struct{ crud }

// Campaigns returns the campaign endpoints.
func (c *Client) Campaigns() *CampaignsEndpoint {
	return &CampaignsEndpoint{crud{c: c, base: "/campaigns"}}
}

// Schedule issues POST /campaigns/{id}/schedule.
func (e *CampaignsEndpoint) Schedule(ctx context.Context, id string, payload map[string]any) (Record, error) {
	return e.action(ctx, id, "schedule", payload)
}

// Send schedules the campaign for instant delivery.
func (e *CampaignsEndpoint) Send(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "schedule", map[string]any{"delivery": "instant"})
}

// Cancel issues POST /campaigns/{id}/cancel.
func (e *CampaignsEndpoint) Cancel(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "cancel", nil)
}

// GetStats issues GET /campaigns/{id}/stats.
func (e *CampaignsEndpoint) GetStats(ctx context.Context, id string) (Record, error) {
	return e.read(ctx, id, "stats")
}

// GetSubscribers issues GET /campaigns/{id}/reports/subscriber-activity.
func (e *CampaignsEndpoint) GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error) {
	return e.subPage(ctx, id, filters, "reports", "subscriber-activity")
}

// GroupsEndpoint serves /groups.
type GroupsEndpoint struct{ crud }

// Groups returns the group endpoints.
func (c *Client) Groups() *GroupsEndpoint {
	return &GroupsEndpoint{crud{c: c, base: "/groups"}}
}

// GetSubscribers issues GET /groups/{id}/subscribers.
func (e *GroupsEndpoint) GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error) {
	return e.subPage(ctx, id, filters, "subscribers")
}

// FieldsEndpoint serves /fields.
type FieldsEndpoint struct{ crud }

// Fields returns the custom field endpoints.
func (c *Client) Fields() *FieldsEndpoint {
	return &FieldsEndpoint{crud{c: c, base: "/fields"}}
}

// SegmentsEndpoint serves /segments.
type SegmentsEndpoint struct{ crud }

// Segments returns the segment endpoints.
func (c *Client) Segments() *SegmentsEndpoint {
	return &SegmentsEndpoint{crud{c: c, base: "/segments"}}
}

// GetSubscribers issues GET /segments/{id}/subscribers.
func (e *SegmentsEndpoint) GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error) {
	return e.subPage(ctx, id, filters, "subscribers")
}

// Activate issues POST /segments/{id}/activate.
func (e *SegmentsEndpoint) Activate(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "activate", nil)
}

// Deactivate issues POST /segments/{id}/deactivate.
func (e *SegmentsEndpoint) Deactivate(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "deactivate", nil)
}

// Refresh issues POST /segments/{id}/refresh.
func (e *SegmentsEndpoint) Refresh(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "refresh", nil)
}

// AutomationsEndpoint serves /automations.
type AutomationsEndpoint struct{ crud }

// Automations returns the automation endpoints.
func (c *Client) Automations() *AutomationsEndpoint {
	return &AutomationsEndpoint{crud{c: c, base: "/automations"}}
}

// Start issues POST /automations/{id}/start.
func (e *AutomationsEndpoint) Start(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "start", nil)
}

// Stop issues POST /automations/{id}/stop.
func (e *AutomationsEndpoint) Stop(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "stop", nil)
}

// Pause issues POST /automations/{id}/pause.
func (e *AutomationsEndpoint) Pause(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "pause", nil)
}

// Resume issues POST /automations/{id}/resume.
func (e *AutomationsEndpoint) Resume(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "resume", nil)
}

// GetStats issues GET /automations/{id}/stats.
func (e *AutomationsEndpoint) GetStats(ctx context.Context, id string) (Record, error) {
	return e.read(ctx, id, "stats")
}

// GetSubscribers issues GET /automations/{id}/activity.
func (e *AutomationsEndpoint) GetSubscribers(ctx context.Context, id string, filters Filters) (*Page[Record], error) {
	return e.subPage(ctx, id, filters, "activity")
}

// WebhooksEndpoint serves /webhooks.
type WebhooksEndpoint struct{ crud }

// Webhooks returns the webhook endpoints.
func (c *Client) Webhooks() *WebhooksEndpoint {
	return &WebhooksEndpoint{crud{c: c, base: "/webhooks"}}
}

// Test issues POST /webhooks/{id}/test.
func (e *WebhooksEndpoint) Test(ctx context.Context, id string) (Record, error) {
	return e.action(ctx, id, "test", nil)
}

// GetLogs issues GET /webhooks/{id}/logs.
func (e *WebhooksEndpoint) GetLogs(ctx context.Context, id string, filters Filters) (*Page[Record], error) {
	return e.subPage(ctx, id, filters, "logs")
}
