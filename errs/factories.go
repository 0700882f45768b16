package errs

import (
	"fmt"
	"net/http"
)

// Validation reports a DTO constraint violation on field.
func Validation(resource, field, message string) *Error {
	return newError(KindValidation, http.StatusUnprocessableEntity, resource, "validation",
		message, map[string]any{"field": field}, nil)
}

// ArgumentRequired reports the first missing mandatory builder field.
func ArgumentRequired(resource, field string) *Error {
	return newError(KindValidation, http.StatusUnprocessableEntity, resource, "argument_required",
		fmt.Sprintf("%s is required", field), map[string]any{"field": field}, nil)
}

// InvalidArgument reports a builder method called with an argument of the
// wrong type.
func InvalidArgument(resource, method string, cause error) *Error {
	return newError(KindValidation, http.StatusUnprocessableEntity, resource, "invalid_argument",
		fmt.Sprintf("invalid argument for %s", method), map[string]any{"method": method}, cause)
}

// UnknownMethod reports a chained call that resolves to no builder method.
func UnknownMethod(resource, method string) *Error {
	return newError(KindValidation, http.StatusBadRequest, resource, "unknown_method",
		fmt.Sprintf("method %s does not exist on %s builder", method, resource),
		map[string]any{"method": method}, nil)
}

// NotFoundWithID reports a resource missing by id.
func NotFoundWithID(resource, id string, cause error) *Error {
	return newError(KindNotFound, http.StatusNotFound, resource, "not_found",
		fmt.Sprintf("%s with ID %s not found", resource, id), map[string]any{"id": id}, cause)
}

// NotFoundWithEmail reports a resource missing by email.
func NotFoundWithEmail(resource, email string, cause error) *Error {
	return newError(KindNotFound, http.StatusNotFound, resource, "not_found",
		fmt.Sprintf("%s with email %s not found", resource, email), map[string]any{"email": email}, cause)
}

// NotFoundWithName reports a resource missing by name.
func NotFoundWithName(resource, name string) *Error {
	return newError(KindNotFound, http.StatusNotFound, resource, "not_found",
		fmt.Sprintf("%s named %q not found", resource, name), map[string]any{"name": name}, nil)
}

// AlreadyExists reports a duplicate create.
func AlreadyExists(resource, identity string, cause error) *Error {
	return newError(KindCreate, http.StatusConflict, resource, "already_exists",
		fmt.Sprintf("%s %s already exists", resource, identity), map[string]any{"identity": identity}, cause)
}

// InvalidData reports a payload the API rejected. op selects the Kind:
// OpCreate yields a create error, anything else an update error.
func InvalidData(resource, op, ref string, cause error) *Error {
	kind := KindUpdate
	if op == OpCreate {
		kind = KindCreate
	}
	return newError(kind, http.StatusUnprocessableEntity, resource, "invalid_data",
		fmt.Sprintf("invalid data for %s %s", resource, op), map[string]any{"operation": op, "ref": ref}, cause)
}

// CreateFailed is the catch-all for an unclassified create failure.
func CreateFailed(resource, identity string, cause error) *Error {
	return newError(KindCreate, http.StatusInternalServerError, resource, "create_failed",
		fmt.Sprintf("failed to create %s %s", resource, identity),
		map[string]any{"identity": identity, "upstream": message(cause)}, cause)
}

// UpdateFailed is the catch-all for an unclassified update failure.
func UpdateFailed(resource, id string, cause error) *Error {
	return newError(KindUpdate, http.StatusInternalServerError, resource, "update_failed",
		fmt.Sprintf("failed to update %s %s", resource, id),
		map[string]any{"id": id, "upstream": message(cause)}, cause)
}

// DeleteFailed is the catch-all for an unclassified delete failure.
func DeleteFailed(resource, id string, cause error) *Error {
	return newError(KindDelete, http.StatusInternalServerError, resource, "delete_failed",
		fmt.Sprintf("failed to delete %s %s", resource, id),
		map[string]any{"id": id, "upstream": message(cause)}, cause)
}

// CannotTransition reports an action refused because of the resource's
// current status, e.g. starting an automation that is already running.
func CannotTransition(resource, id, action, currentStatus string, cause error) *Error {
	msg := fmt.Sprintf("cannot %s %s %s", action, resource, id)
	if currentStatus != "" {
		msg = fmt.Sprintf("%s in status %q", msg, currentStatus)
	}
	return newError(KindState, http.StatusConflict, resource, "cannot_"+action,
		msg, map[string]any{"id": id, "action": action, "status": currentStatus}, cause)
}

// ActionFailed is the catch-all for an unclassified state action failure.
func ActionFailed(resource, id, action string, cause error) *Error {
	return newError(KindState, http.StatusInternalServerError, resource, action+"_failed",
		fmt.Sprintf("failed to %s %s %s", action, resource, id),
		map[string]any{"id": id, "action": action, "upstream": message(cause)}, cause)
}

// SendFailed is the catch-all for an unclassified send failure.
func SendFailed(resource, id string, cause error) *Error {
	return newError(KindSend, http.StatusInternalServerError, resource, "send_failed",
		fmt.Sprintf("failed to send %s %s", resource, id),
		map[string]any{"id": id, "upstream": message(cause)}, cause)
}

// NoRecipients reports a send refused because nobody would receive it.
func NoRecipients(resource, id string, cause error) *Error {
	return newError(KindSend, http.StatusUnprocessableEntity, resource, "no_recipients",
		fmt.Sprintf("%s %s has no recipients", resource, id), map[string]any{"id": id}, cause)
}

// NotImplemented reports an operation the upstream API does not offer.
func NotImplemented(resource, op, hint string) *Error {
	msg := fmt.Sprintf("%s %s is not supported by the MailerLite API", resource, op)
	if hint != "" {
		msg += ": " + hint
	}
	return newError(KindNotImplemented, http.StatusNotImplemented, resource, "not_implemented",
		msg, map[string]any{"operation": op}, nil)
}

func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
