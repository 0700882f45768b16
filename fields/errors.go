package fields

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "field"

// EmptyName is returned when a field has no name.
func EmptyName() *errs.Error {
	return errs.Validation(resource, "name", "field name cannot be empty")
}

// InvalidType reports a field type other than text, number or date.
func InvalidType(typ string) *errs.Error {
	return errs.Validation(resource, "type", fmt.Sprintf("invalid field type %q, must be one of text, number, date", typ))
}

// NotFound is returned when no field has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// NotFoundByName is returned when no field has the given name.
func NotFoundByName(name string) *errs.Error {
	return errs.NotFoundWithName(resource, name)
}

// AlreadyExists reports a duplicate field.
func AlreadyExists(name string, cause error) *errs.Error {
	return errs.AlreadyExists(resource, name, cause)
}

// UsageNotSupported is returned by Service.GetUsage.
func UsageNotSupported() *errs.Error {
	return errs.NotImplemented(resource, "usage", "the API does not report where a field is used")
}
