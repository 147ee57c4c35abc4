// Package matcher implements the fast local pass of the recognition
// pipeline: an exact linear scan of the reference set.
//
// The reference set is small (tens of entries), so exact scan beats any
// index both in latency and in simplicity. The matcher is pure: it
// never mutates its inputs and has no internal state, which makes it
// safe for concurrent use without coordination.
package matcher

import (
	"github.com/hupe1980/signmatch/model"
	"github.com/hupe1980/signmatch/similarity"
)

// LabelIndex is the label-scoped view of a reference snapshot the
// matcher needs for restricted scans. refset.Snapshot implements it.
type LabelIndex interface {
	// Entries returns the full entry list.
	Entries() []model.Entry
	// ByLabel returns the entries carrying any of the given labels.
	ByLabel(labels ...string) []model.Entry
}

// Best scans entries for the one most similar to query and returns it
// together with its scores.
//
// Selection keeps the entry with strictly greatest similarity seen so
// far; on equal scores the earlier entry wins. Entries whose feature
// length differs from the query score 0 and can therefore never beat a
// comparable entry. ok is false only when entries is empty or no entry
// has a comparable feature length.
//
// The acceptance threshold is the caller's concern: Best reports the
// best candidate regardless of how weak it is.
func Best(query []float32, entries []model.Entry) (model.Candidate, bool) {
	return BestFunc(query, entries, similarity.MeanAbsDiff)
}

// BestFunc is Best with a caller-supplied similarity function.
func BestFunc(query []float32, entries []model.Entry, fn similarity.Func) (model.Candidate, bool) {
	if len(entries) == 0 || fn == nil {
		return model.Candidate{}, false
	}

	var (
		best  model.Candidate
		found bool
	)

	for _, e := range entries {
		// Length-mismatched entries are non-matchable, not candidates.
		if len(e.Features) != len(query) {
			continue
		}
		s := fn(query, e.Features)
		if !found || s > best.Similarity {
			best = model.Candidate{
				Entry:      e,
				Similarity: s,
				Combined:   s * e.Confidence,
			}
			found = true
		}
	}

	return best, found
}

// BestIn is Best restricted to entries carrying any of the given
// labels, resolved through the snapshot's label index. With no labels
// the whole set is scanned.
func BestIn(query []float32, idx LabelIndex, labels ...string) (model.Candidate, bool) {
	return BestInFunc(query, idx, similarity.MeanAbsDiff, labels...)
}

// BestInFunc is BestIn with a caller-supplied similarity function.
func BestInFunc(query []float32, idx LabelIndex, fn similarity.Func, labels ...string) (model.Candidate, bool) {
	if idx == nil {
		return model.Candidate{}, false
	}
	if len(labels) == 0 {
		return BestFunc(query, idx.Entries(), fn)
	}
	return BestFunc(query, idx.ByLabel(labels...), fn)
}
