// Package label normalizes free-form text returned by the external
// recognition service into a trusted label.
//
// The external model returns untrusted prose; this package is the
// boundary that turns it into something the pipeline may hand to a
// caller: punctuation stripped, lower-cased, and sentinel non-answers
// replaced by a fixed fallback.
package label

import (
	"strings"
	"unicode"
)

// sentinels are answers the external model uses to signal "no real
// answer". They are replaced by the fallback label, never surfaced.
var sentinels = map[string]struct{}{
	"unknown": {},
	"no":      {},
}

// Sanitize strips everything but letters, digits and spaces from s,
// lower-cases it, and collapses runs of whitespace to single spaces.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			space = true
		}
	}

	return b.String()
}

// IsSentinel reports whether the sanitized text is a deny-listed
// non-answer.
func IsSentinel(s string) bool {
	_, ok := sentinels[s]
	return ok
}

// Resolve sanitizes raw and applies the substitution policy: if the
// cleaned text is empty or a sentinel, fallback is returned instead and
// forced is true.
//
// The returned text is guaranteed non-empty as long as fallback is.
func Resolve(raw, fallback string) (text string, forced bool) {
	clean := Sanitize(raw)
	if clean == "" || IsSentinel(clean) {
		return fallback, true
	}
	return clean, false
}
