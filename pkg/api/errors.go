package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError is a network or timeout failure: no usable response was
// received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline rather than a refused
// or broken connection.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: request failed: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// Reason is the human-readable part of the error.
func (e *HTTPError) Reason() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// AuthRequiredError means the backend has no linked calendar identity. The
// user must reconnect at LoginURL; retrying is pointless.
type AuthRequiredError struct {
	Op       string
	Detail   string
	LoginURL string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%s: authentication required: %s", e.Op, e.Detail)
}

// MalformedResponseError means a response arrived but lacked required fields
// or could not be decoded.
type MalformedResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsAuthRequired reports whether err is, or wraps, an AuthRequiredError.
func IsAuthRequired(err error) bool {
	var ae *AuthRequiredError
	return errors.As(err, &ae)
}

// Reason extracts the best human-readable reason from err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var (
		te *TransportError
		he *HTTPError
		ae *AuthRequiredError
		me *MalformedResponseError
	)
	switch {
	case errors.As(err, &ae):
		if ae.Detail != "" {
			return ae.Detail
		}
		return "authentication required"
	case errors.As(err, &he):
		return he.Reason()
	case errors.As(err, &me):
		return "unexpected response from server: " + me.Reason
	case errors.As(err, &te):
		if te.Timeout() {
			return "request timed out"
		}
		if errors.Is(te.Err, context.Canceled) {
			return "request cancelled"
		}
		return "could not reach server: " + te.Err.Error()
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "unknown error"
}
