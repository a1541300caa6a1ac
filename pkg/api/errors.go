package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PaulEvans8669/incidents/pkg/incident"
)

// APIError is a non-2xx response from the incident service. Validation
// failures carry a `details` array of "field: message" strings which maps
// back onto form fields via FieldErrors.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

// FieldErrors parses the details array into per-field messages.
func (e *APIError) FieldErrors() incident.FieldErrors {
	return incident.ParseDetails(e.Details)
}

// IsNotFound reports whether err is a 404 from the service. A deleted or
// never-existing incident surfaces this; the caller renders a not-found
// view instead of an error state.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a backend validation rejection whose
// details should be mapped onto form fields.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest && len(apiErr.Details) > 0
}
