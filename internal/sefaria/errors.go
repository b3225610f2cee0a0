package sefaria

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRelaysExhausted indicates every relay in the ordered list failed or
// timed out for one request. Fan-out callers downgrade this to a dropped
// candidate; the single-source viewer surfaces it directly.
var ErrRelaysExhausted = errors.New("all relays failed")

// ErrEmptyText indicates the repository answered but carried no usable text
var ErrEmptyText = errors.New("repository returned no text")

// NotFoundError is the structured form of the repository's "could not find
// ref" error payload. It is the explicit, testable trigger for the one-shot
// segment-suffix retry; callers never sniff message strings.
type NotFoundError struct {
	Ref     string
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ref %q not found: %s", e.Ref, e.Message)
}

// isNotFoundPayload classifies the repository's error string once, at the
// decode boundary
func isNotFoundPayload(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "could not find ref")
}
