package subscribers

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "subscriber"

// EmptyEmail is returned when a subscriber is built without an address.
func EmptyEmail() *errs.Error {
	return errs.Validation(resource, "email", "email cannot be empty")
}

// InvalidEmail is returned for an address that is not an email.
func InvalidEmail(email string) *errs.Error {
	e := errs.Validation(resource, "email", "invalid email format")
	e.Context["email"] = email
	return e
}

// DisposableEmail is returned for an address on a throwaway mail domain.
func DisposableEmail(email, domain string) *errs.Error {
	e := errs.Validation(resource, "email", fmt.Sprintf("disposable email domain %s is not allowed", domain))
	e.Context["email"] = email
	return e
}

// InvalidStatus is returned for a status outside the known set.
func InvalidStatus(status string) *errs.Error {
	return errs.Validation(resource, "status", fmt.Sprintf("invalid status %q", status))
}

// InvalidFields is returned when custom field values are not scalars.
func InvalidFields(cause error) *errs.Error {
	return errs.Validation(resource, "fields", "invalid fields: "+cause.Error())
}

// InvalidGroups is returned for group ids that are neither strings nor
// integers.
func InvalidGroups(cause error) *errs.Error {
	return errs.Validation(resource, "groups", "invalid groups: "+cause.Error())
}

// NotFound is returned when no subscriber has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// NotFoundByEmail is returned when no subscriber has the given address.
func NotFoundByEmail(email string, cause error) *errs.Error {
	return errs.NotFoundWithEmail(resource, email, cause)
}

// AlreadyExists is returned when the address is already subscribed.
func AlreadyExists(email string, cause error) *errs.Error {
	return errs.AlreadyExists(resource, email, cause)
}

// CannotUnsubscribe is returned when the subscriber cannot leave its
// current status.
func CannotUnsubscribe(id, status string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "unsubscribe", status, cause)
}

// CannotResubscribe is returned when the subscriber cannot return to active.
func CannotResubscribe(id, status string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "resubscribe", status, cause)
}
