package automations

import (
	"fmt"

	"github.com/s0up4200/mailkit/errs"
)

const resource = "automation"

// EmptyName is returned when an automation has no name.
func EmptyName() *errs.Error {
	return errs.Validation(resource, "name", "automation name cannot be empty")
}

// InvalidTrigger reports a problem with the trigger at index.
func InvalidTrigger(index int, reason string) *errs.Error {
	e := errs.Validation(resource, "triggers", fmt.Sprintf("trigger %d: %s", index, reason))
	e.Context["index"] = index
	return e
}

// InvalidStep reports a problem with the step at index.
func InvalidStep(index int, reason string) *errs.Error {
	e := errs.Validation(resource, "steps", fmt.Sprintf("step %d: %s", index, reason))
	e.Context["index"] = index
	return e
}

// InvalidGroups reports a malformed groups list.
func InvalidGroups(cause error) *errs.Error {
	return errs.Validation(resource, "groups", fmt.Sprintf("invalid groups: %v", cause))
}

// NotFound is returned when no automation has the given id.
func NotFound(id string, cause error) *errs.Error {
	return errs.NotFoundWithID(resource, id, cause)
}

// NotFoundByName is returned when no automation has the given name.
func NotFoundByName(name string) *errs.Error {
	return errs.NotFoundWithName(resource, name)
}

// AlreadyExists reports a duplicate automation.
func AlreadyExists(name string, cause error) *errs.Error {
	return errs.AlreadyExists(resource, name, cause)
}

// CannotStart is returned when the automation is already running or
// otherwise not startable. status is the current status when known.
func CannotStart(id, status string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "start", status, cause)
}

// CannotStop is returned when the automation is not running.
func CannotStop(id, status string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "stop", status, cause)
}

// CannotPause is returned when the automation is not active.
func CannotPause(id, status string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "pause", status, cause)
}

// CannotResume is returned when the automation is not paused.
func CannotResume(id, status string, cause error) *errs.Error {
	return errs.CannotTransition(resource, id, "resume", status, cause)
}
