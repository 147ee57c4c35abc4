package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/signmatch/codec"
	"github.com/hupe1980/signmatch/model"
)

func sample() *Dataset {
	return &Dataset{
		Name:      "asl-basic-v2",
		CreatedAt: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
		Entries: []model.Entry{
			{ID: "e1", Label: "hello", Features: []float32{0.8, 0.9, 0.7, 0.85, 0.92}, Confidence: 0.95},
			{ID: "e2", Label: "thanks", Features: []float32{0.6, 0.7, 0.8, 0.65, 0.75}, Confidence: 0.9},
		},
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(comp.String(), func(t *testing.T) {
			data, err := Encode(sample(), codec.JSON{}, comp)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, sample(), got)
		})
	}
}

func TestEncodeDefaultCodec(t *testing.T) {
	data, err := Encode(sample(), nil, CompressionNone)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "asl-basic-v2", got.Name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"Truncated", []byte("SGD")},
		{"BadMagic", []byte("NOPE\x01\x00\x04json{}")},
		{"BadVersion", []byte("SGDS\x09\x00\x04json{}")},
		{"UnknownCodec", []byte("SGDS\x01\x00\x03xml{}")},
		{"TruncatedCodecName", []byte("SGDS\x01\x00\xff")},
		{"GarbagePayload", []byte("SGDS\x01\x00\x04json!!!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, ErrBadEnvelope)
		})
	}
}

func TestDecodeBadCompressedPayload(t *testing.T) {
	data, err := Encode(sample(), codec.JSON{}, CompressionZstd)
	require.NoError(t, err)

	// Corrupt the compressed payload.
	data[len(data)-1] ^= 0xFF
	_, err = Decode(data)
	require.Error(t, err)
}

func TestNewMintsIDs(t *testing.T) {
	d := New("upload", []model.Entry{
		{Label: "hello", Features: []float32{0.5}, Confidence: 0.9},
		{ID: "keep-me", Label: "yes", Features: []float32{0.6}, Confidence: 0.9},
	})

	assert.NotEmpty(t, d.Entries[0].ID)
	assert.Equal(t, "keep-me", d.Entries[1].ID)
	assert.False(t, d.Entries[0].CreatedAt.IsZero())
	require.NoError(t, d.Validate())
}

func TestDatasetValidate(t *testing.T) {
	d := New("bad", []model.Entry{
		{Label: "hello", Features: []float32{1.5}, Confidence: 0.9},
	})
	require.ErrorIs(t, d.Validate(), model.ErrInvalidEntry)
}
