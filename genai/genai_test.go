package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"hello", "thanks", "yes"})

	assert.Contains(t, prompt, "hello, thanks, yes")
	assert.Contains(t, prompt, "unknown")
	assert.Contains(t, prompt, "vocabulary")
}

func TestPayloadEmpty(t *testing.T) {
	assert.True(t, Payload{}.Empty())
	assert.False(t, Payload{Text: "wave"}.Empty())
	assert.False(t, Payload{Image: []byte{0xFF}}.Empty())
}

func TestStaticClient(t *testing.T) {
	t.Run("Response", func(t *testing.T) {
		c := &StaticClient{Response: "hello"}

		got, err := c.Describe(context.Background(), Payload{Text: "wave"}, "prompt")
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
		assert.Equal(t, 1, c.Calls)
		assert.Equal(t, "prompt", c.LastPrompt)
		assert.Equal(t, "wave", c.LastPayload.Text)
	})

	t.Run("Error", func(t *testing.T) {
		sentinel := errors.New("down")
		c := &StaticClient{Err: sentinel}

		_, err := c.Describe(context.Background(), Payload{Text: "x"}, "p")
		require.ErrorIs(t, err, sentinel)
	})
}

func TestDataURL(t *testing.T) {
	t.Run("DefaultMIME", func(t *testing.T) {
		url := dataURL(Payload{Image: []byte{0x01}})
		assert.Contains(t, url, "data:image/jpeg;base64,")
	})

	t.Run("ExplicitMIME", func(t *testing.T) {
		url := dataURL(Payload{Image: []byte{0x01}, MIMEType: "image/png"})
		assert.Contains(t, url, "data:image/png;base64,")
	})
}

func TestOpenAIDescribeEmptyPayload(t *testing.T) {
	c := NewOpenAI(OpenAIConfig{})

	_, err := c.Describe(context.Background(), Payload{}, "prompt")
	require.ErrorIs(t, err, ErrEmptyPayload)
}
