// Package testutil provides testing utilities for signmatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic feature vectors and
// synthetic reference entries.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/signmatch/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// FillUniform fills vec with uniform values in [0, 1).
func (r *RNG) FillUniform(vec []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range vec {
		vec[i] = r.rand.Float32()
	}
}

// Features returns a fresh feature vector of the given dimension with
// uniform values in [0, 1).
func (r *RNG) Features(dim int) []float32 {
	vec := make([]float32, dim)
	r.FillUniform(vec)
	return vec
}

// Entries generates count valid reference entries with dim-dimensional
// feature vectors. Labels cycle through the given label list.
func (r *RNG) Entries(count, dim int, labels ...string) []model.Entry {
	if len(labels) == 0 {
		labels = []string{"hello"}
	}

	entries := make([]model.Entry, count)
	for i := range entries {
		entries[i] = model.Entry{
			ID:         fmt.Sprintf("gen-%d", i),
			Label:      labels[i%len(labels)],
			Features:   r.Features(dim),
			Confidence: 0.5 + r.confidenceJitter(),
		}
	}
	return entries
}

func (r *RNG) confidenceJitter() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32() / 2
}
