package groups

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "group"

// MaxNameLength is the longest group name the API accepts.
const MaxNameLength = 255

// EmptyName is returned when a group has no name.
func EmptyName() *errs.Error {
	return errs.Validation(resource, "name", "group name cannot be empty")
}

// NameTooLong reports a name longer than MaxNameLength.
func NameTooLong(length int) *errs.Error {
	e := errs.Validation(resource, "name", fmt.Sprintf("group name cannot exceed %d characters, got %d", MaxNameLength, length))
	e.Context["length"] = length
	return e
}

// NotFound is returned when no group has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// NotFoundByName is returned when no group has the given name.
func NotFoundByName(name string) *errs.Error {
	return errs.NotFoundWithName(resource, name)
}

// AlreadyExists reports a duplicate group.
func AlreadyExists(name string, cause error) *errs.Error {
	return errs.AlreadyExists(resource, name, cause)
}
