package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoRefreshToken means a 401 could not be recovered because no refresh
// credential is persisted.
var ErrNoRefreshToken = errors.New("no refresh token available")

// Error is a non-2xx response from the API, carrying the server-provided
// code and message verbatim so callers can display them.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s, http %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("api: %s (http %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
