package errs

import (
	"errors"
	"strings"
)

// Operations passed to Translate.
const (
	OpCreate = "create"
	OpGet    = "get"
	OpList   = "list"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Class is the classification of an upstream failure.
type Class int

const (
	ClassOther Class = iota
	ClassUnauthorized
	ClassNotFound
	ClassValidation
	ClassDuplicate
	ClassState
	ClassNoRecipients
)

// apiError is satisfied by *mailerlite.APIError.
type apiError interface {
	HTTPStatus() int
	IsUnauthorized() bool
	IsNotFound() bool
	IsConflict() bool
	IsValidation() bool
}

var (
	unauthorizedMarkers = []string{"401", "unauthorized", "unauthenticated", "invalid api key", "forbidden"}
	notFoundMarkers     = []string{"404", "not found", "does not exist"}
	duplicateMarkers    = []string{"already exists", "already been taken", "duplicate"}
	noRecipientMarkers  = []string{"no recipients", "no subscribers"}
	stateMarkers        = []string{"invalid state", "cannot be", "already running", "already active", "already paused", "already sent", "not in a"}
	validationMarkers   = []string{"422", "validation", "unprocessable"}
)

// Classify maps an upstream error onto a Class. A status code from the
// SDK error wins; the case-insensitive message markers are the fallback for
// errors that carry none, and refine 422 responses into duplicates or state
// conflicts.
func Classify(err error) Class {
	if err == nil {
		return ClassOther
	}

	status, validation := 0, false
	var apiErr apiError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsUnauthorized():
			return ClassUnauthorized
		case apiErr.IsNotFound():
			return ClassNotFound
		case apiErr.IsConflict():
			return ClassDuplicate
		}
		status, validation = apiErr.HTTPStatus(), apiErr.IsValidation()
	}

	msg := strings.ToLower(err.Error())
	switch {
	case status == 0 && containsAny(msg, unauthorizedMarkers):
		return ClassUnauthorized
	case status == 0 && containsAny(msg, notFoundMarkers):
		return ClassNotFound
	case containsAny(msg, duplicateMarkers):
		return ClassDuplicate
	case containsAny(msg, noRecipientMarkers):
		return ClassNoRecipients
	case containsAny(msg, stateMarkers):
		return ClassState
	case validation || containsAny(msg, validationMarkers):
		return ClassValidation
	}

	return ClassOther
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Translate converts an upstream failure of a CRUD operation into the
// taxonomy. ref is the id (update/delete) or identity (create) involved.
// Lookups and lists only get the authentication check; everything else
// they see is returned unchanged.
func Translate(resource, op, ref string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	class := Classify(err)
	if class == ClassUnauthorized {
		return Authentication(resource, err)
	}

	switch op {
	case OpCreate:
		switch class {
		case ClassValidation:
			return InvalidData(resource, op, ref, err)
		case ClassDuplicate:
			return AlreadyExists(resource, ref, err)
		default:
			return CreateFailed(resource, ref, err)
		}
	case OpUpdate:
		switch class {
		case ClassNotFound:
			return NotFoundWithID(resource, ref, err)
		case ClassValidation:
			return InvalidData(resource, op, ref, err)
		default:
			return UpdateFailed(resource, ref, err)
		}
	case OpDelete:
		if class == ClassNotFound {
			return NotFoundWithID(resource, ref, err)
		}
		return DeleteFailed(resource, ref, err)
	default:
		return err
	}
}

// TranslateAction converts an upstream failure of a state action (start,
// pause, cancel, activate, ...) on the resource with the given id.
func TranslateAction(resource, action, id string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	switch Classify(err) {
	case ClassUnauthorized:
		return Authentication(resource, err)
	case ClassNotFound:
		return NotFoundWithID(resource, id, err)
	case ClassState:
		return CannotTransition(resource, id, action, "", err)
	default:
		return ActionFailed(resource, id, action, err)
	}
}

// IsMissing reports whether err means the looked-up resource does not exist.
// Soft lookups turn it into a nil result.
func IsMissing(err error) bool {
	return err != nil && Classify(err) == ClassNotFound
}
