package webhooks

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "webhook"

// EmptyURL is returned when a webhook has no url.
func EmptyURL() *errs.Error {
	return errs.Validation(resource, "url", "webhook url cannot be empty")
}

// InvalidURL reports a url that is not absolute http(s).
func InvalidURL(url string) *errs.Error {
	e := errs.Validation(resource, "url", "invalid webhook url, must be an absolute http or https URL")
	e.Context["url"] = url
	return e
}

// NoEvents is returned when a webhook subscribes to nothing.
func NoEvents() *errs.Error {
	return errs.Validation(resource, "events", "webhook events cannot be empty")
}

// InvalidEvent reports an event name the API does not know.
func InvalidEvent(event string) *errs.Error {
	return errs.Validation(resource, "events", fmt.Sprintf("invalid webhook event %q", event))
}

// NotFound is returned when no webhook has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// AlreadyExists reports a webhook already registered for url.
func AlreadyExists(url string, cause error) *errs.Error {
	return errs.AlreadyExists(resource, url, cause)
}
