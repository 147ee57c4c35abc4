// Package genai adapts the external vision-capable generative-AI
// service used as the slow path of the recognition pipeline.
//
// The service is treated as opaque: image or text in, free-form text
// out. Whatever comes back is untrusted and must pass through the label
// package before it may reach a caller.
package genai

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyPayload is returned when a payload carries neither image nor
// text.
var ErrEmptyPayload = errors.New("payload has neither image nor text")

// Payload is the input forwarded to the external recognition call:
// captured image bytes, or a textual description, or both.
type Payload struct {
	// Image is the raw captured frame. Optional.
	Image []byte
	// MIMEType describes Image (e.g. "image/jpeg"). Defaults to
	// "image/jpeg" when Image is set and MIMEType is empty.
	MIMEType string
	// Text is a textual description of the gesture. Optional.
	Text string
}

// Empty reports whether the payload carries nothing to recognize.
func (p Payload) Empty() bool {
	return len(p.Image) == 0 && p.Text == ""
}

// Client is the external recognition service.
//
// Describe performs one outbound call and returns the raw model text.
// Implementations must not retry; failure handling is the pipeline's
// concern.
type Client interface {
	Describe(ctx context.Context, payload Payload, prompt string) (string, error)
}

// BuildPrompt returns the fixed instructional prompt for the fallback
// call, enumerating the recognizable vocabulary.
func BuildPrompt(vocabulary []string) string {
	var b strings.Builder
	b.WriteString("You are a sign language recognition assistant. ")
	b.WriteString("Identify the sign shown in the input and answer with exactly one item from this vocabulary: ")
	b.WriteString(strings.Join(vocabulary, ", "))
	b.WriteString(". Answer with the vocabulary item only, no punctuation and no explanation. ")
	b.WriteString("If you cannot identify the sign, answer with the single word unknown.")
	return b.String()
}

// StaticClient is a Client returning canned responses. It exists for
// tests and offline development.
type StaticClient struct {
	// Response is returned by every Describe call.
	Response string
	// Err, when set, is returned instead.
	Err error

	// Calls counts Describe invocations.
	Calls int
	// LastPrompt and LastPayload record the most recent call.
	LastPrompt  string
	LastPayload Payload
}

// Describe implements Client.
func (s *StaticClient) Describe(_ context.Context, payload Payload, prompt string) (string, error) {
	s.Calls++
	s.LastPrompt = prompt
	s.LastPayload = payload

	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

var _ Client = (*StaticClient)(nil)
