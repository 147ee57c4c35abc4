package signmatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/signmatch/genai"
	"github.com/hupe1980/signmatch/model"
	"github.com/hupe1980/signmatch/refset"
)

func testSet(entries ...model.Entry) *refset.Set {
	return refset.New(entries)
}

func helloEntry() model.Entry {
	return model.Entry{
		ID:         "e1",
		Label:      "hello",
		Features:   []float32{0.8, 0.9, 0.7, 0.85, 0.92},
		Confidence: 0.95,
	}
}

func TestNew(t *testing.T) {
	set := testSet(helloEntry())

	t.Run("Defaults", func(t *testing.T) {
		r, err := New(&genai.StaticClient{}, set)
		require.NoError(t, err)
		assert.Equal(t, float32(DefaultThreshold), r.Threshold())
	})

	t.Run("NilClient", func(t *testing.T) {
		_, err := New(nil, set)
		require.ErrorIs(t, err, ErrNoClient)
	})

	t.Run("NilSet", func(t *testing.T) {
		_, err := New(&genai.StaticClient{}, nil)
		require.ErrorIs(t, err, ErrNoReferenceSet)
	})

	t.Run("InvalidThreshold", func(t *testing.T) {
		_, err := New(&genai.StaticClient{}, set, WithThreshold(1.5))
		var et *ErrInvalidThreshold
		require.ErrorAs(t, err, &et)
		assert.Equal(t, float32(1.5), et.Threshold)
	})

	t.Run("DegradedConfidenceOutOfRange", func(t *testing.T) {
		_, err := New(&genai.StaticClient{}, set, WithDegradedConfidence(0.5))
		var ec *ErrInvalidConfidence
		require.ErrorAs(t, err, &ec)
	})

	t.Run("SentinelFallbackLabel", func(t *testing.T) {
		_, err := New(&genai.StaticClient{}, set, WithFallbackLabel("no"))
		require.ErrorIs(t, err, ErrInvalidFallbackLabel)

		_, err = New(&genai.StaticClient{}, set, WithFallbackLabel(""))
		require.ErrorIs(t, err, ErrInvalidFallbackLabel)
	})
}

func TestRecognizeLocal(t *testing.T) {
	ctx := context.Background()
	client := &genai.StaticClient{Response: "should not be called"}

	r, err := New(client, testSet(helloEntry()))
	require.NoError(t, err)

	res := r.Recognize(ctx, []float32{0.8, 0.9, 0.7, 0.85, 0.92}, genai.Payload{Text: "wave"})

	assert.Equal(t, "hello", res.Text)
	assert.InDelta(t, 0.95, res.Confidence, 1e-6)
	assert.Equal(t, model.SourceLocal, res.Source)
	assert.False(t, res.LowConfidence)
	assert.False(t, res.Timestamp.IsZero())
	assert.Zero(t, client.Calls, "confident local match must not call the external service")
}

func TestRecognizeFallback(t *testing.T) {
	ctx := context.Background()

	// Weak reference entry: similarity is high but the static weight
	// caps the combined score at 0.5, below the 0.75 threshold.
	weak := model.Entry{ID: "w", Label: "yes", Features: []float32{0.5, 0.5, 0.5}, Confidence: 0.5}

	t.Run("RemoteAnswerUsed", func(t *testing.T) {
		client := &genai.StaticClient{Response: "Thanks!"}
		r, err := New(client, testSet(weak))
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.5, 0.5, 0.5}, genai.Payload{Text: "gesture"})

		assert.Equal(t, "thanks", res.Text)
		assert.Equal(t, model.SourceRemote, res.Source)
		assert.InDelta(t, DefaultRemoteConfidence, res.Confidence, 1e-6)
		assert.False(t, res.LowConfidence)
		assert.Equal(t, 1, client.Calls)
	})

	t.Run("PromptEnumeratesVocabulary", func(t *testing.T) {
		client := &genai.StaticClient{Response: "yes"}
		r, err := New(client, testSet(weak, helloEntry()))
		require.NoError(t, err)

		r.Recognize(ctx, []float32{0.1, 0.1, 0.1}, genai.Payload{Text: "gesture"})

		assert.Contains(t, client.LastPrompt, "hello")
		assert.Contains(t, client.LastPrompt, "yes")
	})

	t.Run("EmptyAnswerReplaced", func(t *testing.T) {
		client := &genai.StaticClient{Response: ""}
		r, err := New(client, testSet(weak))
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.5, 0.5, 0.5}, genai.Payload{Text: "gesture"})

		assert.Equal(t, "hello", res.Text)
		assert.Equal(t, model.SourceRemote, res.Source)
		assert.True(t, res.LowConfidence)
	})

	t.Run("SentinelAnswerReplaced", func(t *testing.T) {
		client := &genai.StaticClient{Response: "UNKNOWN!!"}
		r, err := New(client, testSet(weak))
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.5, 0.5, 0.5}, genai.Payload{Text: "gesture"})

		assert.Equal(t, "hello", res.Text)
		assert.True(t, res.LowConfidence)
	})

	t.Run("TransportErrorDegrades", func(t *testing.T) {
		client := &genai.StaticClient{Err: errors.New("connection refused")}
		r, err := New(client, testSet(weak))
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.5, 0.5, 0.5}, genai.Payload{Text: "gesture"})

		assert.Equal(t, "hello", res.Text)
		assert.Equal(t, model.SourceRemoteDegraded, res.Source)
		assert.True(t, res.LowConfidence)
		assert.GreaterOrEqual(t, res.Confidence, float32(0.75))
		assert.LessOrEqual(t, res.Confidence, float32(0.88))
	})

	t.Run("EmptyReferenceGoesRemote", func(t *testing.T) {
		client := &genai.StaticClient{Response: "hello"}
		r, err := New(client, testSet())
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.5, 0.5, 0.5}, genai.Payload{Text: "gesture"})

		assert.Equal(t, model.SourceRemote, res.Source)
		assert.Equal(t, 1, client.Calls)
	})

	t.Run("CustomFallbackLabel", func(t *testing.T) {
		client := &genai.StaticClient{Response: "unknown"}
		r, err := New(client, testSet(weak), WithFallbackLabel("thanks"))
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.5, 0.5, 0.5}, genai.Payload{Text: "gesture"})
		assert.Equal(t, "thanks", res.Text)
	})
}

func TestRecognizeLocalNeverSentinel(t *testing.T) {
	ctx := context.Background()

	// A reference entry labeled with a reserved non-answer must not
	// enter the set; a query landing exactly on its features has to go
	// remote instead of surfacing "no" from the local path.
	noLike := model.Entry{
		ID:         "custom-no",
		Label:      "no",
		Features:   []float32{0.1, 0.8, 0.85, 0.2, 0.15},
		Confidence: 0.92,
	}

	client := &genai.StaticClient{Err: errors.New("down")}
	r, err := New(client, testSet(noLike))
	require.NoError(t, err)

	res := r.Recognize(ctx, []float32{0.1, 0.8, 0.85, 0.2, 0.15}, genai.Payload{Text: "g"})

	assert.NotEqual(t, "no", res.Text)
	assert.NotEqual(t, model.SourceLocal, res.Source)
	assert.Equal(t, "hello", res.Text)

	// The bundled vocabulary must resolve those same features locally
	// without ever producing a sentinel.
	client2 := &genai.StaticClient{}
	r2, err := New(client2, refset.New(refset.Builtin()))
	require.NoError(t, err)

	res2 := r2.Recognize(ctx, []float32{0.1, 0.8, 0.85, 0.2, 0.15}, genai.Payload{Text: "g"})
	assert.Equal(t, model.SourceLocal, res2.Source)
	assert.Equal(t, "stop", res2.Text)
	assert.Zero(t, client2.Calls)
}

func TestRecognizeIn(t *testing.T) {
	ctx := context.Background()

	hello := helloEntry()
	yes := model.Entry{
		ID:         "e2",
		Label:      "yes",
		Features:   []float32{0.9, 0.2, 0.1, 0.15, 0.2},
		Confidence: 0.92,
	}

	t.Run("RestrictedLocalMatch", func(t *testing.T) {
		client := &genai.StaticClient{}
		r, err := New(client, testSet(hello, yes))
		require.NoError(t, err)

		res := r.RecognizeIn(ctx, hello.Features, genai.Payload{Text: "g"}, "hello")
		assert.Equal(t, "hello", res.Text)
		assert.Equal(t, model.SourceLocal, res.Source)
		assert.Zero(t, client.Calls)
	})

	t.Run("RestrictionExcludesBestEntry", func(t *testing.T) {
		// The query sits exactly on the hello entry, but the scan is
		// restricted to "yes": no confident candidate remains and the
		// prompt offers only the requested label.
		client := &genai.StaticClient{Response: "yes"}
		r, err := New(client, testSet(hello, yes))
		require.NoError(t, err)

		res := r.RecognizeIn(ctx, hello.Features, genai.Payload{Text: "g"}, "yes")
		assert.Equal(t, model.SourceRemote, res.Source)
		assert.Equal(t, "yes", res.Text)
		assert.Contains(t, client.LastPrompt, "yes")
		assert.NotContains(t, client.LastPrompt, "hello")
	})

	t.Run("NoLabelsBehavesLikeRecognize", func(t *testing.T) {
		client := &genai.StaticClient{}
		r, err := New(client, testSet(hello, yes))
		require.NoError(t, err)

		a := r.Recognize(ctx, hello.Features, genai.Payload{Text: "g"})
		b := r.RecognizeIn(ctx, hello.Features, genai.Payload{Text: "g"})
		assert.Equal(t, a.Text, b.Text)
		assert.Equal(t, a.Source, b.Source)
	})
}

func TestRecognizeThresholdBoundary(t *testing.T) {
	ctx := context.Background()

	// Exact match against an entry with confidence equal to the
	// threshold: combined == threshold must resolve locally.
	entry := model.Entry{ID: "b", Label: "please", Features: []float32{0.5, 0.5}, Confidence: 0.75}

	client := &genai.StaticClient{Response: "x"}
	r, err := New(client, testSet(entry))
	require.NoError(t, err)

	res := r.Recognize(ctx, []float32{0.5, 0.5}, genai.Payload{Text: "g"})
	assert.Equal(t, model.SourceLocal, res.Source)
	assert.Zero(t, client.Calls)
}

func TestRecognizeNeverEmpty(t *testing.T) {
	ctx := context.Background()

	clients := []*genai.StaticClient{
		{Response: ""},
		{Response: "?!..."},
		{Response: "no"},
		{Response: "UNKNOWN"},
		{Err: errors.New("boom")},
	}

	for _, client := range clients {
		r, err := New(client, testSet())
		require.NoError(t, err)

		res := r.Recognize(ctx, []float32{0.1}, genai.Payload{Text: "g"})
		assert.NotEmpty(t, res.Text)
		assert.NotEqual(t, "unknown", res.Text)
		assert.NotEqual(t, "no", res.Text)
	}
}

func TestRecognizeMetricsAndClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	metrics := &BasicMetricsCollector{}
	client := &genai.StaticClient{Err: errors.New("down")}

	r, err := New(client, testSet(),
		WithMetricsCollector(metrics),
		withClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)

	res := r.Recognize(ctx, []float32{0.5}, genai.Payload{Text: "g"})
	assert.Equal(t, fixed, res.Timestamp)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.MatchCount)
	assert.Equal(t, int64(0), stats.MatchAccepted)
	assert.Equal(t, int64(1), stats.FallbackCount)
	assert.Equal(t, int64(1), stats.FallbackErrors)
	assert.Equal(t, int64(1), stats.DegradedResults)

	// Local path.
	client2 := &genai.StaticClient{}
	r2, err := New(client2, testSet(helloEntry()), WithMetricsCollector(metrics))
	require.NoError(t, err)
	r2.Recognize(ctx, []float32{0.8, 0.9, 0.7, 0.85, 0.92}, genai.Payload{Text: "g"})

	stats = metrics.GetStats()
	assert.Equal(t, int64(1), stats.MatchAccepted)
	assert.Equal(t, int64(1), stats.LocalResults)
}

func TestRecognizeIdempotentLocal(t *testing.T) {
	ctx := context.Background()
	client := &genai.StaticClient{}

	r, err := New(client, testSet(helloEntry()))
	require.NoError(t, err)

	q := []float32{0.8, 0.9, 0.7, 0.85, 0.92}
	a := r.Recognize(ctx, q, genai.Payload{Text: "g"})
	b := r.Recognize(ctx, q, genai.Payload{Text: "g"})

	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, a.Confidence, b.Confidence)
	assert.Equal(t, a.Source, b.Source)
}

func TestRefreshAndVocabulary(t *testing.T) {
	ctx := context.Background()

	store := refset.NewMemoryStore()
	require.NoError(t, store.Put(ctx, []model.Entry{
		{ID: "r1", Label: "family", Features: []float32{0.2, 0.3}, Confidence: 0.7},
	}))

	set := refset.New([]model.Entry{helloEntry()}, refset.WithStore(store))
	r, err := New(&genai.StaticClient{}, set)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello"}, r.Vocabulary())
	require.NoError(t, r.Refresh(ctx))
	assert.Equal(t, []string{"family", "hello"}, r.Vocabulary())
}
