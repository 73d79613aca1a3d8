package shop

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError carries the HTTP status and server-provided detail for a failed
// request. It lets callers branch on status without string matching.
type APIError struct {
	Status int
	Path   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsRateLimited reports whether err is an API 429.
func IsRateLimited(err error) bool {
	return statusIs(err, http.StatusTooManyRequests)
}

// IsUnauthorized reports whether err is an API 401.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized)
}

// IsValidation reports whether err is a 4xx other than 401/404/429: the
// server rejected the request itself, so retrying cannot help.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusTooManyRequests:
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
