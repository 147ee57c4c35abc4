package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"Plain", "hello", "hello"},
		{"Upper", "Hello", "hello"},
		{"Punctuation", "UNKNOWN!!", "unknown"},
		{"MixedNoise", "  Thank you.  ", "thank you"},
		{"InnerWhitespace", "i \t love\n you", "i love you"},
		{"Digits", "sign 42", "sign 42"},
		{"OnlyNoise", "?!...", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.in))
		})
	}
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel("unknown"))
	assert.True(t, IsSentinel("no"))
	assert.False(t, IsSentinel("hello"))
	assert.False(t, IsSentinel(""))
	assert.False(t, IsSentinel("not unknown"))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		forced   bool
	}{
		{"CleanAnswer", "Hello!", "hello", false},
		{"Sentinel", "UNKNOWN!!", "hello", true},
		{"SentinelNo", "No.", "hello", true},
		{"Empty", "", "hello", true},
		{"OnlyPunctuation", "??!", "hello", true},
		{"Phrase", "Thank You", "thank you", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, forced := Resolve(tt.raw, "hello")
			assert.Equal(t, tt.expected, text)
			assert.Equal(t, tt.forced, forced)
		})
	}
}
