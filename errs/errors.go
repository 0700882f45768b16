package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups errors by what went wrong, independent of resource.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindValidation
	KindNotFound
	KindCreate
	KindUpdate
	KindDelete
	KindState
	KindSend
	KindNotImplemented
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindState:
		return "state"
	case KindSend:
		return "send"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("resource not found")
	ErrCreate         = errors.New("create failed")
	ErrUpdate         = errors.New("update failed")
	ErrDelete         = errors.New("delete failed")
	ErrState          = errors.New("invalid state")
	ErrSend           = errors.New("send failed")
	ErrNotImplemented = errors.New("not implemented")
)

var kindSentinels = map[Kind]error{
	KindAuthentication: ErrAuthentication,
	KindValidation:     ErrValidation,
	KindNotFound:       ErrNotFound,
	KindCreate:         ErrCreate,
	KindUpdate:         ErrUpdate,
	KindDelete:         ErrDelete,
	KindState:          ErrState,
	KindSend:           ErrSend,
	KindNotImplemented: ErrNotImplemented,
}

// Error is the base error for every failure raised by the resource packages.
// Construct it through the factory functions, never directly.
type Error struct {
	Kind     Kind
	Resource string
	Message  string
	// Code is an HTTP-style severity code: 401, 404, 409, 422, 500, 501
	Code int
	// Context always carries "type" and "resource" plus the identifiers
	// involved ("id", "email", "name", ...)
	Context map[string]any
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind sentinel, so errors.Is(err, ErrNotFound) works for
// every resource.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// Type returns the context discriminator, e.g. "already_exists".
func (e *Error) Type() string {
	s, _ := e.Context["type"].(string)
	return s
}

// IsFatal reports whether the error must never be retried.
func (e *Error) IsFatal() bool {
	return e.Kind == KindAuthentication
}

func newError(kind Kind, code int, resource, typ, message string, ctx map[string]any, cause error) *Error {
	context := map[string]any{
		"type":     typ,
		"resource": resource,
	}
	for k, v := range ctx {
		context[k] = v
	}
	return &Error{
		Kind:     kind,
		Resource: resource,
		Message:  message,
		Code:     code,
		Context:  context,
		Err:      cause,
	}
}

// As returns err as an *Error when it is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsFatal reports whether err carries an authentication failure.
func IsFatal(err error) bool {
	e, ok := As(err)
	return ok && e.IsFatal()
}

// HasType reports whether err is an *Error with the given context type.
func HasType(err error, typ string) bool {
	e, ok := As(err)
	return ok && e.Type() == typ
}

// Authentication wraps a rejected credential.
func Authentication(resource string, cause error) *Error {
	return newError(KindAuthentication, http.StatusUnauthorized, resource, "authentication_failed",
		"MailerLite authentication failed: API key is invalid or expired", nil, cause)
}

// MissingCredential is raised when the configured API key is empty.
func MissingCredential() *Error {
	return newError(KindAuthentication, http.StatusUnauthorized, "manager", "missing_api_key",
		"MailerLite API key is not configured", nil, nil)
}
