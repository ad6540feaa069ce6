package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport wraps failures before any HTTP status was received.
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedBody is returned when an OK response that must carry data was not JSON.
	ErrUnexpectedBody = errors.New("unexpected response body")
	// ErrUnrecognizedShape is returned when the cook queue matched none of the known shapes.
	ErrUnrecognizedShape = errors.New("unrecognized cook queue shape")
	// ErrNotAuthenticated is returned by calls that need a merchant or branch id from the session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// HTTPError is a non-2xx response. Body is the response text, trimmed.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: HTTP error! status: %d: %s", e.Op, e.Status, e.Body)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// IsNoData reports whether err reads like the backend's "nothing to show" failure.
func IsNoData(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no data")
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
