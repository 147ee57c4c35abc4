package signmatch

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClient is returned when a Recognizer is constructed without
	// an external recognition client.
	ErrNoClient = errors.New("recognition client is required")

	// ErrNoReferenceSet is returned when a Recognizer is constructed
	// without a reference set.
	ErrNoReferenceSet = errors.New("reference set is required")

	// ErrInvalidFallbackLabel is returned when the configured fallback
	// label is empty or itself a sentinel.
	ErrInvalidFallbackLabel = errors.New("fallback label must be a non-empty, non-sentinel label")
)

// ErrInvalidThreshold indicates an acceptance threshold outside [0,1].
type ErrInvalidThreshold struct {
	Threshold float32
}

func (e *ErrInvalidThreshold) Error() string {
	return fmt.Sprintf("invalid acceptance threshold: %f", e.Threshold)
}

// ErrInvalidConfidence indicates a confidence constant outside its
// documented range.
type ErrInvalidConfidence struct {
	Name       string
	Confidence float32
	Min, Max   float32
}

func (e *ErrInvalidConfidence) Error() string {
	return fmt.Sprintf("invalid %s confidence %f: must be in [%g, %g]", e.Name, e.Confidence, e.Min, e.Max)
}
