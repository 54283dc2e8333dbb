package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the failure shape every service call returns. A Status of zero
// means the request never produced an HTTP response (DNS failure, refused
// connection, timeout); otherwise Status carries the HTTP status code and
// Message the backend envelope's message.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error { return e.cause }

// IsNetworkError reports whether err represents a transport failure with no
// HTTP response, as opposed to an error status from the backend.
func IsNetworkError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// IsUnauthorized reports whether err is a 401 response, i.e. the session is
// no longer valid.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage extracts a short message suitable for a toast. Backend
// messages are used verbatim; transport failures map to a fixed string.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 0 {
			return "Cannot reach the server"
		}
		return apiErr.Message
	}
	return err.Error()
}
