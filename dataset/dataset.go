// Package dataset handles the exchange format for admin-uploaded
// reference datasets.
//
// A dataset file is a self-describing envelope: a fixed header naming
// the codec and compression used, followed by the encoded entry list.
// Files written with any supported codec/compression combination can
// be decoded without out-of-band knowledge.
package dataset

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/signmatch/model"
)

// Dataset is a named collection of reference entries as uploaded by an
// admin.
type Dataset struct {
	// Name identifies the dataset (e.g. "asl-basic-v2").
	Name string `json:"name"`
	// CreatedAt records when the dataset was assembled.
	CreatedAt time.Time `json:"created_at"`
	// Entries is the labeled feature vector list.
	Entries []model.Entry `json:"entries"`
}

// New creates a dataset from entries, minting IDs for entries that lack
// one and stamping missing creation times.
func New(name string, entries []model.Entry) *Dataset {
	now := time.Now().UTC()
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		out[i] = e
	}

	return &Dataset{
		Name:      name,
		CreatedAt: now,
		Entries:   out,
	}
}

// Validate checks every entry in the dataset.
func (d *Dataset) Validate() error {
	for _, e := range d.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
