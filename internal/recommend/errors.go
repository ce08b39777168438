package recommend

import (
	"errors"
	"fmt"
)

// Kind classifies backend failures.
type Kind string

const (
	// KindTransport covers connection failures and timeouts.
	KindTransport Kind = "transport"
	// KindStatus is a non-2xx response.
	KindStatus Kind = "status"
	// KindMalformed is a response body that could not be decoded.
	KindMalformed Kind = "malformed"
)

// Error is returned by every Client call that reached (or tried to reach) the backend.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("recommend: %s: status %d: %s", e.Op, e.Status, e.Body)
		}
		return fmt.Sprintf("recommend: %s: status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("recommend: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindStatus:
		return e.Status >= 500 || e.Status == 429
	default:
		return false
	}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
