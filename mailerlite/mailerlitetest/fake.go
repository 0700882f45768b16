// Package mailerlitetest provides an in-memory implementation of the
// mailerlite endpoint interfaces for tests.
package mailerlitetest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/s0up4200/mailkit/mailerlite"
)

// Call records one invocation of the fake.
type Call struct {
	Method  string
	ID      string
	Payload map[string]any
}

// Fake stores records in memory and answers every resource interface of the
// mailerlite package. Unknown ids produce a 404 *mailerlite.APIError, like
// the real API.
type Fake struct {
	mu sync.Mutex

	records map[string]mailerlite.Record
	order   []string
	nextID  int
	errors  map[string]error

	// Meta and Links are returned verbatim by Get when set.
	Meta  map[string]any
	Links map[string]any
	// Related backs GetSubscribers and GetLogs, keyed by parent id.
	Related map[string][]mailerlite.Record
	// Stats backs GetStats, keyed by id.
	Stats map[string]mailerlite.Record

	Calls []Call
}

var (
	_ mailerlite.SubscribersAPI = (*Fake)(nil)
	_ mailerlite.CampaignsAPI   = (*Fake)(nil)
	_ mailerlite.GroupsAPI      = (*Fake)(nil)
	_ mailerlite.FieldsAPI      = (*Fake)(nil)
	_ mailerlite.SegmentsAPI    = (*Fake)(nil)
	_ mailerlite.AutomationsAPI = (*Fake)(nil)
	_ mailerlite.WebhooksAPI    = (*Fake)(nil)
)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		records: make(map[string]mailerlite.Record),
		errors:  make(map[string]error),
		Related: make(map[string][]mailerlite.Record),
		Stats:   make(map[string]mailerlite.Record),
	}
}

// Seed stores rec under its "id", assigning one when missing, and returns
// the id.
func (f *Fake) Seed(rec mailerlite.Record) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store(rec)
}

// Fail makes every later call of method return err.
func (f *Fake) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[method] = err
}

// Status returns an *mailerlite.APIError with the given status and message.
func Status(code int, message string) error {
	if message == "" {
		message = http.StatusText(code)
	}
	return &mailerlite.APIError{StatusCode: code, Message: message}
}

// Methods returns the method names called so far, in order.
func (f *Fake) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.Method)
	}
	return out
}

// LastPayload returns the payload of the most recent call to method.
func (f *Fake) LastPayload(method string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Calls) - 1; i >= 0; i-- {
		if f.Calls[i].Method == method {
			return f.Calls[i].Payload
		}
	}
	return nil
}

func (f *Fake) store(rec mailerlite.Record) string {
	id := rec.ID()
	if id == "" {
		f.nextID++
		id = strconv.Itoa(f.nextID)
	}
	stored := mailerlite.Record{}
	for k, v := range rec {
		stored[k] = v
	}
	stored["id"] = id
	if _, exists := f.records[id]; !exists {
		f.order = append(f.order, id)
	}
	f.records[id] = stored
	return id
}

// begin records the call and returns the injected error, if any. The caller
// holds the lock.
func (f *Fake) begin(method, id string, payload map[string]any) error {
	f.Calls = append(f.Calls, Call{Method: method, ID: id, Payload: payload})
	return f.errors[method]
}

func (f *Fake) lookup(idOrEmail string) (mailerlite.Record, error) {
	if rec, ok := f.records[idOrEmail]; ok {
		return rec, nil
	}
	if strings.Contains(idOrEmail, "@") {
		for _, id := range f.order {
			if f.records[id].String("email") == idOrEmail {
				return f.records[id], nil
			}
		}
	}
	return nil, Status(http.StatusNotFound, "Resource not found.")
}

func clone(rec mailerlite.Record) mailerlite.Record {
	out := mailerlite.Record{}
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// Create stores payload as a new record.
func (f *Fake) Create(ctx context.Context, payload map[string]any) (mailerlite.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Create", "", payload); err != nil {
		return nil, err
	}
	rec := mailerlite.Record{}
	for k, v := range payload {
		rec[k] = v
	}
	delete(rec, "id")
	id := f.store(rec)
	return clone(f.records[id]), nil
}

// Find returns the record with the given id, or email for subscribers.
func (f *Fake) Find(ctx context.Context, id string) (mailerlite.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Find", id, nil); err != nil {
		return nil, err
	}
	rec, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	return clone(rec), nil
}

// Update merges payload into the stored record.
func (f *Fake) Update(ctx context.Context, id string, payload map[string]any) (mailerlite.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Update", id, payload); err != nil {
		return nil, err
	}
	rec, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	for k, v := range payload {
		rec[k] = v
	}
	return clone(rec), nil
}

// Delete removes the record.
func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Delete", id, nil); err != nil {
		return err
	}
	if _, err := f.lookup(id); err != nil {
		return err
	}
	delete(f.records, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns every stored record on one page. The filters are recorded
// but not applied.
func (f *Fake) Get(ctx context.Context, filters mailerlite.Filters) (*mailerlite.Page[mailerlite.Record], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Get", "", filters); err != nil {
		return nil, err
	}
	page := &mailerlite.Page[mailerlite.Record]{Meta: f.Meta, Links: f.Links}
	for _, id := range f.order {
		page.Data = append(page.Data, clone(f.records[id]))
	}
	if page.Meta == nil {
		page.Meta = map[string]any{"total": float64(len(page.Data)), "current_page": float64(1), "last_page": float64(1)}
	}
	return page, nil
}

// transitions maps state actions onto the status they leave a record in.
var transitions = map[string]string{
	"Schedule":   "ready",
	"Send":       "sent",
	"Cancel":     "draft",
	"Start":      "active",
	"Stop":       "inactive",
	"Pause":      "paused",
	"Resume":     "active",
	"Activate":   "active",
	"Deactivate": "inactive",
	"Refresh":    "",
	"Test":       "",
	"Forget":     "forgotten",
}

func (f *Fake) transition(method, id string, payload map[string]any) (mailerlite.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(method, id, payload); err != nil {
		return nil, err
	}
	rec, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	if status := transitions[method]; status != "" {
		rec["status"] = status
	}
	for k, v := range payload {
		rec[k] = v
	}
	return clone(rec), nil
}

func (f *Fake) related(method, id string, filters mailerlite.Filters) (*mailerlite.Page[mailerlite.Record], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(method, id, filters); err != nil {
		return nil, err
	}
	if _, err := f.lookup(id); err != nil {
		return nil, err
	}
	items := f.Related[id]
	return &mailerlite.Page[mailerlite.Record]{
		Data: items,
		Meta: map[string]any{"total": float64(len(items))},
	}, nil
}

// AddToGroup records the membership on the subscriber's "groups" list.
func (f *Fake) AddToGroup(ctx context.Context, subscriberID, groupID string) (mailerlite.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("AddToGroup", subscriberID, map[string]any{"group_id": groupID}); err != nil {
		return nil, err
	}
	rec, err := f.lookup(subscriberID)
	if err != nil {
		return nil, err
	}
	groups, _ := rec["groups"].([]any)
	rec["groups"] = append(groups, map[string]any{"id": groupID})
	return mailerlite.Record{"id": groupID}, nil
}

// RemoveFromGroup drops the membership from the subscriber's "groups" list.
func (f *Fake) RemoveFromGroup(ctx context.Context, subscriberID, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("RemoveFromGroup", subscriberID, map[string]any{"group_id": groupID}); err != nil {
		return err
	}
	rec, err := f.lookup(subscriberID)
	if err != nil {
		return err
	}
	kept := make([]any, 0)
	for _, g := range rec.Slice("groups") {
		if m, ok := g.(map[string]any); ok && mailerlite.Record(m).ID() == groupID {
			continue
		}
		kept = append(kept, g)
	}
	rec["groups"] = kept
	return nil
}

// Forget marks the subscriber as forgotten.
func (f *Fake) Forget(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Forget", id, nil)
}

// Schedule stores the schedule payload on the campaign.
func (f *Fake) Schedule(ctx context.Context, id string, payload map[string]any) (mailerlite.Record, error) {
	return f.transition("Schedule", id, payload)
}

// Send marks the campaign as sent.
func (f *Fake) Send(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Send", id, nil)
}

// Cancel returns the campaign to draft.
func (f *Fake) Cancel(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Cancel", id, nil)
}

// GetStats returns Stats[id], or an empty record.
func (f *Fake) GetStats(ctx context.Context, id string) (mailerlite.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("GetStats", id, nil); err != nil {
		return nil, err
	}
	if _, err := f.lookup(id); err != nil {
		return nil, err
	}
	if stats, ok := f.Stats[id]; ok {
		return clone(stats), nil
	}
	return mailerlite.Record{}, nil
}

// GetSubscribers returns Related[id] on one page.
func (f *Fake) GetSubscribers(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[mailerlite.Record], error) {
	return f.related("GetSubscribers", id, filters)
}

// Activate marks the segment active.
func (f *Fake) Activate(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Activate", id, nil)
}

// Deactivate marks the segment inactive.
func (f *Fake) Deactivate(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Deactivate", id, nil)
}

// Refresh returns the segment unchanged.
func (f *Fake) Refresh(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Refresh", id, nil)
}

// Start marks the automation active.
func (f *Fake) Start(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Start", id, nil)
}

// Stop marks the automation inactive.
func (f *Fake) Stop(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Stop", id, nil)
}

// Pause marks the automation paused.
func (f *Fake) Pause(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Pause", id, nil)
}

// Resume marks the automation active.
func (f *Fake) Resume(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Resume", id, nil)
}

// Test returns the webhook unchanged.
func (f *Fake) Test(ctx context.Context, id string) (mailerlite.Record, error) {
	return f.transition("Test", id, nil)
}

// GetLogs returns Related[id] on one page.
func (f *Fake) GetLogs(ctx context.Context, id string, filters mailerlite.Filters) (*mailerlite.Page[mailerlite.Record], error) {
	return f.related("GetLogs", id, filters)
}
