package mailerlite

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrMissingAPIKey indicates the client was built without a credential
	ErrMissingAPIKey = errors.New("mailerlite API key is required")
	// ErrInvalidResponse indicates the API returned a body we could not decode
	ErrInvalidResponse = errors.New("invalid response from mailerlite API")
)

// APIError represents a non-2xx response from the MailerLite API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	// Errors holds per-field validation messages returned with 422 responses
	Errors map[string][]string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mailerlite API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("mailerlite API error: status %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsValidation checks if the error indicates rejected input
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// IsConflict checks if the error indicates a duplicate resource
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}
