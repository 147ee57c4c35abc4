package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryValidate(t *testing.T) {
	valid := Entry{
		ID:         "e1",
		Label:      "hello",
		Features:   []float32{0.8, 0.9, 0.7},
		Confidence: 0.95,
	}

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	tests := []struct {
		name   string
		mutate func(e *Entry)
	}{
		{name: "EmptyLabel", mutate: func(e *Entry) { e.Label = "" }},
		{name: "SentinelLabelNo", mutate: func(e *Entry) { e.Label = "no" }},
		{name: "SentinelLabelUnknown", mutate: func(e *Entry) { e.Label = "unknown" }},
		{name: "SentinelLabelDressedUp", mutate: func(e *Entry) { e.Label = " No! " }},
		{name: "NoFeatures", mutate: func(e *Entry) { e.Features = nil }},
		{name: "FeatureOutOfRange", mutate: func(e *Entry) { e.Features = []float32{0.5, 1.5} }},
		{name: "NegativeFeature", mutate: func(e *Entry) { e.Features = []float32{-0.1} }},
		{name: "ConfidenceOutOfRange", mutate: func(e *Entry) { e.Confidence = 1.2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			require.ErrorIs(t, e.Validate(), ErrInvalidEntry)
		})
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "local", SourceLocal.String())
	assert.Equal(t, "remote", SourceRemote.String())
	assert.Equal(t, "remote-degraded", SourceRemoteDegraded.String())
	assert.Equal(t, "Unknown(42)", Source(42).String())
}
