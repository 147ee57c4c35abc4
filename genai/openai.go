package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAI is a Client backed by an OpenAI-compatible chat completion
// API with vision support.
//
// Works with:
//   - OpenAI (cloud)
//   - Any OpenAI-compatible vision endpoint via BaseURL override
//     (LocalAI, vLLM, llama.cpp server)
type OpenAI struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	// APIKey authenticates against the service. Optional for local
	// endpoints.
	APIKey string

	// BaseURL overrides the API endpoint for compatible services
	// (e.g. "http://localhost:8080/v1"). Empty means the OpenAI cloud.
	BaseURL string

	// Model is the vision-capable chat model. Default "gpt-4o-mini".
	Model string

	// Timeout for HTTP requests (default: 30s). This is the only
	// deadline applied; the recognition pipeline adds none of its own.
	Timeout time.Duration

	// RequestsPerSecond enables a client-side limiter when > 0.
	// Zero disables limiting.
	RequestsPerSecond float64
}

// NewOpenAI creates a new OpenAI-compatible recognition client.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "dummy-key" // Local services don't need a real key
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	config := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		limiter: limiter,
	}
}

// Describe implements Client. It performs exactly one chat completion
// call; no retries.
func (o *OpenAI) Describe(ctx context.Context, payload Payload, prompt string) (string, error) {
	if payload.Empty() {
		return "", ErrEmptyPayload
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	if len(payload.Image) > 0 {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL(payload),
				Detail: openai.ImageURLDetailLow,
			},
		})
	}
	if payload.Text != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: payload.Text,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		MaxTokens: 32,
	})
	if err != nil {
		return "", fmt.Errorf("recognition API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("recognition API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func dataURL(p Payload) string {
	mime := p.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(p.Image))
}
