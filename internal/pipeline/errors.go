package pipeline

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a processing pass failed.
//
// Provider failures never appear here: they are absorbed at the provider
// boundary and only reduce the evidence available to the aggregator.
type FailureKind string

const (
	FailureNotFound      FailureKind = "not_found"     // Claim id absent
	FailureConfiguration FailureKind = "configuration" // No usable providers at all
	FailurePersistence   FailureKind = "persistence"   // Store read or write failed
	FailureUnknown       FailureKind = "unknown"
)

// Error is a classified processing failure
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or FailureUnknown when err carries
// no classification
func KindOf(err error) FailureKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return FailureUnknown
}
