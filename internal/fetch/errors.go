package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure so callers can decide how to back off.
type Kind string

const (
	// KindTransient covers network errors and 5xx responses. Retried with
	// short backoff.
	KindTransient Kind = "transient"
	// KindSoftBlock covers responses that suggest automated-access suspicion
	// (403, 429). Retried with long backoff and surfaced distinctly.
	KindSoftBlock Kind = "soft_block"
	// KindTerminal covers everything that retrying cannot fix (bad URL,
	// 404, unexpected 4xx).
	KindTerminal Kind = "terminal"
)

// Error represents a failed fetch, carrying the URL and the failure kind.
type Error struct {
	URL     string
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s error for %s: %s: %v", e.Kind, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s error for %s: %s", e.Kind, e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsSoftBlock reports whether err is a fetch error caused by a soft block.
func IsSoftBlock(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindSoftBlock
}

// IsTransient reports whether err is a retriable network-level fetch error.
func IsTransient(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTransient
}
