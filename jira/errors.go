package jira

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request %s %s failed with status %d: %s",
		e.Method, e.URL, e.StatusCode, string(e.Body))
}

// IsNotFound reports whether the service answered 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsUnauthorized reports whether the credentials were rejected.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// AsAPIError unwraps err to an *APIError, if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
