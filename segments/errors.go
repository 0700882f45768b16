package segments

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "segment"

// EmptyName is returned when a segment has no name.
func EmptyName() *errs.Error {
	return errs.Validation(resource, "name", "segment name cannot be empty")
}

// NoFilters is returned when a segment has no filters.
func NoFilters() *errs.Error {
	return errs.Validation(resource, "filters", "segment filters cannot be empty")
}

// InvalidFilter reports a problem with the filter at index.
func InvalidFilter(index int, reason string) *errs.Error {
	e := errs.Validation(resource, "filters", fmt.Sprintf("filter %d: %s", index, reason))
	e.Context["index"] = index
	return e
}

// InvalidMatch reports a match mode other than all or any.
func InvalidMatch(match string) *errs.Error {
	return errs.Validation(resource, "match", fmt.Sprintf("invalid match %q, must be all or any", match))
}

// CreateNotSupported is returned by every create: segments can only be
// created in the MailerLite dashboard.
func CreateNotSupported() *errs.Error {
	return errs.NotImplemented(resource, "create", "create the segment in the MailerLite dashboard, then manage it by id")
}

// NotFound is returned when no segment has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// CannotActivate is returned when the segment cannot be activated.
func CannotActivate(id string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "activate", "", cause)
}

// CannotDeactivate is returned when the segment cannot be deactivated.
func CannotDeactivate(id string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "deactivate", "", cause)
}
