package campaigns

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "campaign"

// EmptySubject is returned when a campaign has no subject.
func EmptySubject() *errs.Error {
	return errs.Validation(resource, "subject", "subject cannot be empty")
}

// InvalidFromEmail reports a sender address that is not a valid email.
func InvalidFromEmail(email string) *errs.Error {
	e := errs.Validation(resource, "from_email", "invalid from_email format")
	e.Context["email"] = email
	return e
}

// InvalidType reports a campaign type the API does not know.
func InvalidType(typ string) *errs.Error {
	return errs.Validation(resource, "type", fmt.Sprintf("invalid campaign type %q", typ))
}

// InvalidRecipients reports a malformed groups or segments list.
func InvalidRecipients(field string, cause error) *errs.Error {
	return errs.Validation(resource, field, fmt.Sprintf("invalid %s: %v", field, cause))
}

// NotFound is returned when no campaign has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// NotFoundByName is returned when no campaign has the given name.
func NotFoundByName(name string) *errs.Error {
	return errs.NotFoundWithName(resource, name)
}

// AlreadyExists reports a duplicate campaign.
func AlreadyExists(subject string, cause error) *errs.Error {
	return errs.AlreadyExists(resource, subject, cause)
}

// CannotSend is returned when the campaign is not in a sendable state,
// e.g. it was already sent.
func CannotSend(id string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "send", "", cause)
}

// CannotSchedule is returned when the campaign cannot be scheduled in its current state.
func CannotSchedule(id string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "schedule", "", cause)
}

// CannotCancel is returned when the campaign is not scheduled.
func CannotCancel(id string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "cancel", "", cause)
}

// NoRecipients is returned when a send targets nobody.
func NoRecipients(id string, cause error) *errs.Error {
	return errs.NoRecipients(resource, id, cause)
}

// SendFailed wraps any other failure to send.
func SendFailed(id string, cause error) *errs.Error {
	return errs.SendFailed(resource, id, cause)
}
