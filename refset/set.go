// Package refset maintains the reference set used by the feature
// matcher: a bundled builtin vocabulary, optionally merged with entries
// from a remote store.
//
// Readers always observe a complete snapshot. Refresh replaces the
// whole snapshot with a single atomic pointer swap; there is no
// incremental mutation, so a concurrent reader sees either the old set
// or the new one, never a mix.
package refset

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hupe1980/signmatch/model"
)

// Store is the remote collaborator holding previously stored labeled
// feature entries.
type Store interface {
	// List returns all stored entries.
	List(ctx context.Context) ([]model.Entry, error)
	// Put writes entries to the store, replacing any existing entries
	// with the same ID.
	Put(ctx context.Context, entries []model.Entry) error
}

// Set holds the current reference snapshot and knows how to refresh it
// from a Store.
type Set struct {
	snap    atomic.Pointer[Snapshot]
	builtin []model.Entry
	store   Store // nil: builtin only
	logger  *slog.Logger
}

// Option configures a Set.
type Option func(*Set)

// WithStore attaches the remote store consulted on Refresh.
func WithStore(store Store) Option {
	return func(s *Set) {
		s.store = store
	}
}

// WithLogger sets the logger used for refresh diagnostics. The default
// is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Set) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Set seeded with builtin. Entries failing validation are
// dropped. The initial snapshot is available immediately; call Refresh
// to merge in remote entries.
func New(builtin []model.Entry, opts ...Option) *Set {
	s := &Set{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.builtin = s.validated(builtin)
	s.snap.Store(NewSnapshot(s.builtin))
	return s
}

// Snapshot returns the current reference snapshot. The result is
// immutable and safe to use for the whole duration of a recognition
// call, regardless of concurrent refreshes.
func (s *Set) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Refresh reloads entries from the store and replaces the snapshot
// wholesale. Remote entries override builtin entries with the same ID.
// Without a store, Refresh resets the snapshot to the builtin list.
func (s *Set) Refresh(ctx context.Context) error {
	if s.store == nil {
		s.snap.Store(NewSnapshot(s.builtin))
		return nil
	}

	remote, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("refset: list remote entries: %w", err)
	}

	merged := s.merge(s.validated(remote))
	s.snap.Store(NewSnapshot(merged))

	s.logger.Info("reference set refreshed",
		"builtin", len(s.builtin),
		"remote", len(remote),
		"total", len(merged),
	)
	return nil
}

// merge layers remote entries over the builtin list: same-ID remote
// entries win, new IDs are appended in remote order.
func (s *Set) merge(remote []model.Entry) []model.Entry {
	byID := make(map[string]model.Entry, len(remote))
	for _, e := range remote {
		byID[e.ID] = e
	}

	merged := make([]model.Entry, 0, len(s.builtin)+len(remote))
	seen := make(map[string]struct{}, len(s.builtin))
	for _, e := range s.builtin {
		if r, ok := byID[e.ID]; ok {
			merged = append(merged, r)
		} else {
			merged = append(merged, e)
		}
		seen[e.ID] = struct{}{}
	}
	for _, e := range remote {
		if _, ok := seen[e.ID]; !ok {
			merged = append(merged, e)
			seen[e.ID] = struct{}{}
		}
	}

	return merged
}

func (s *Set) validated(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			s.logger.Warn("dropping reference entry", "id", e.ID, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out
}
