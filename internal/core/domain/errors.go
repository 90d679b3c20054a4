package domain

import (
	"fmt"
	"net/http"
)

// AuthError means no usable token could be obtained. It aborts the run.
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token request to %s failed: %v", e.URL, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError means a listing item does not have the shape of a clip.
type ValidationError struct {
	URL   string
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid clip at index %d from %s: %v", e.Index, e.URL, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError covers connection failures and non-success HTTP statuses.
// StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d %s", e.Op, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means a response lacked something we rely on,
// such as a Content-Length header on a download.
type MalformedResponseError struct {
	Op     string
	URL    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s %s: malformed response: %s", e.Op, e.URL, e.Reason)
}
