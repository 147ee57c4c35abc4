package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/signmatch/label"
)

// ErrInvalidEntry indicates a reference entry that fails validation.
var ErrInvalidEntry = errors.New("invalid reference entry")

// Entry is one labeled feature vector in the matchable reference set.
type Entry struct {
	// ID is an opaque stable identifier, unique per entry.
	ID string `json:"id"`
	// Label is the sign/word this entry represents. Labels are not
	// unique; multiple entries may share one.
	Label string `json:"label"`
	// Features is a fixed-length vector of observations in [0,1],
	// one per recognized dimension.
	Features []float32 `json:"features"`
	// Confidence is a static reliability weight in [0,1] assigned at
	// creation time. It is not derived from matching.
	Confidence float32 `json:"confidence"`
	// CreatedAt records when the entry was created.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the entry is usable for matching: a non-empty,
// non-sentinel label, at least one feature dimension, all features and
// the confidence weight within [0,1].
//
// Sentinel labels ("unknown", "no") are rejected because a Result must
// never carry them; an entry with such a label could surface one
// through the local match path.
func (e Entry) Validate() error {
	if e.Label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidEntry)
	}
	if label.IsSentinel(label.Sanitize(e.Label)) {
		return fmt.Errorf("%w: label %q is a reserved non-answer", ErrInvalidEntry, e.Label)
	}
	if len(e.Features) == 0 {
		return fmt.Errorf("%w: entry %q has no features", ErrInvalidEntry, e.Label)
	}
	for i, f := range e.Features {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: entry %q feature %d out of range: %f", ErrInvalidEntry, e.Label, i, f)
		}
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("%w: entry %q confidence out of range: %f", ErrInvalidEntry, e.Label, e.Confidence)
	}
	return nil
}

// Candidate is a potential match found by the feature matcher.
type Candidate struct {
	// Entry is the reference entry that produced the score.
	Entry Entry
	// Similarity is the raw similarity score in [0,1].
	Similarity float32
	// Combined is Similarity multiplied by the entry's static
	// confidence weight.
	Combined float32
}

// Source identifies which path of the recognition pipeline produced a
// result.
type Source int

const (
	// SourceLocal means the feature matcher resolved the result.
	SourceLocal Source = iota
	// SourceRemote means the external recognition call resolved it.
	SourceRemote
	// SourceRemoteDegraded means the external call failed and the
	// pipeline substituted the fixed fallback label.
	SourceRemoteDegraded
)

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	case SourceRemoteDegraded:
		return "remote-degraded"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Result is the outcome of one recognition call.
//
// Text is guaranteed non-empty and never a sentinel non-answer; callers
// that care whether the label was forced rather than recognized should
// inspect LowConfidence.
type Result struct {
	// Text is the resolved label.
	Text string `json:"text"`
	// Confidence is the combined score in [0,1].
	Confidence float32 `json:"confidence"`
	// Source reports which path produced the result.
	Source Source `json:"source"`
	// LowConfidence is set when the fixed fallback label was
	// substituted for an empty, sentinel, or failed remote answer.
	LowConfidence bool `json:"low_confidence"`
	// Timestamp is the creation time of the result.
	Timestamp time.Time `json:"timestamp"`
}
