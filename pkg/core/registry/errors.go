package registry

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable marks every failure of the remote register:
// transport errors, timeouts, non-2xx statuses and SOAP faults.
var ErrUpstreamUnavailable = errors.New("registry unavailable")

// UpstreamError carries the register's own message for the caller.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry %s (HTTP %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("registry %s: %s", e.Op, e.Message)
}

// Unwrap exposes both ErrUpstreamUnavailable and the underlying cause.
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamUnavailable}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}

// UpstreamMessage returns the register's message if err is an UpstreamError.
func UpstreamMessage(err error) (string, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Message, true
	}
	return "", false
}
