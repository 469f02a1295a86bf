package model

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by the store and its callers.
var (
	// ErrNotFound means a referenced item or claim id is absent. Callers
	// treat it as a no-op and log, never crash a view.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means an attempted lifecycle move out of a
	// terminal state or backward.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyResolved means an adjudication was attempted on a claim
	// that is no longer pending.
	ErrAlreadyResolved = errors.New("claim already resolved")
)

// ValidationErrors maps field names to messages. It is surfaced inline to
// the submitter and never silently dropped.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f + ": " + v[f])
	}
	return b.String()
}
