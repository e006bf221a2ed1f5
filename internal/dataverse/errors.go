package dataverse

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError carries the status code and message of a failed Web API call.
// The message is the error.message field of the OData error body when the
// response had one, otherwise a trimmed copy of the raw body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dataverse: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
