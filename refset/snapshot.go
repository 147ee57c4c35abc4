package refset

import (
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/signmatch/model"
)

// Snapshot is an immutable view of the reference set.
//
// A snapshot is built once and never mutated afterwards, so it is safe
// for concurrent readers without locking. Label lookups go through a
// Roaring-bitmap inverted index over entry ordinals.
type Snapshot struct {
	entries []model.Entry
	byLabel map[string]*roaring.Bitmap
}

// NewSnapshot builds a snapshot from entries. The slice is copied; the
// caller keeps ownership of its input.
func NewSnapshot(entries []model.Entry) *Snapshot {
	s := &Snapshot{
		entries: slices.Clone(entries),
		byLabel: make(map[string]*roaring.Bitmap),
	}

	for i, e := range s.entries {
		bm, ok := s.byLabel[e.Label]
		if !ok {
			bm = roaring.New()
			s.byLabel[e.Label] = bm
		}
		bm.Add(uint32(i))
	}

	return s
}

// Entries returns the full entry list. Callers must treat the returned
// slice as read-only.
func (s *Snapshot) Entries() []model.Entry {
	return s.entries
}

// Len returns the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Vocabulary returns the distinct labels in the snapshot, sorted.
func (s *Snapshot) Vocabulary() []string {
	labels := make([]string, 0, len(s.byLabel))
	for l := range s.byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// ByLabel returns the entries carrying any of the given labels, in
// snapshot order. Unknown labels are ignored; with no labels the result
// is empty.
func (s *Snapshot) ByLabel(labels ...string) []model.Entry {
	if len(labels) == 0 {
		return nil
	}

	sel := roaring.New()
	for _, l := range labels {
		if bm, ok := s.byLabel[l]; ok {
			sel.Or(bm)
		}
	}

	out := make([]model.Entry, 0, sel.GetCardinality())
	it := sel.Iterator()
	for it.HasNext() {
		out = append(out, s.entries[it.Next()])
	}
	return out
}
