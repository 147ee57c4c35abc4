// Package signmatch implements the sign recognition pipeline: a fast
// local feature match over a small labeled reference set, with a
// fallback to an external vision-capable generative-AI call when no
// confident local match exists.
//
// # Quick Start
//
//	set := refset.New(refset.Builtin())
//	client := genai.NewOpenAI(genai.OpenAIConfig{APIKey: key})
//
//	r, err := signmatch.New(client, set)
//	if err != nil {
//	    panic(err)
//	}
//
//	result := r.Recognize(ctx, features, genai.Payload{Image: frame})
//	fmt.Println(result.Text, result.Confidence, result.Source)
//
// # Contract
//
// Recognize always returns a usable result: Text is never empty, never
// "unknown" or "no", and no error is ever surfaced. Transport failures
// on the fallback path are converted into a degraded-but-successful
// result carrying the fixed fallback label. Callers that need to
// distinguish a forced answer from a recognized one should check
// Result.LowConfidence.
//
// This "never say unknown" policy is deliberate product behavior, not
// an accident; see Result.LowConfidence for the escape hatch.
package signmatch

import (
	"context"
	"time"

	"github.com/hupe1980/signmatch/genai"
	"github.com/hupe1980/signmatch/label"
	"github.com/hupe1980/signmatch/matcher"
	"github.com/hupe1980/signmatch/model"
	"github.com/hupe1980/signmatch/refset"
	"github.com/hupe1980/signmatch/similarity"
)

const (
	// DefaultThreshold is the acceptance threshold for local matches.
	DefaultThreshold = 0.75

	// DefaultFallbackLabel is substituted for empty, sentinel, or
	// failed remote answers.
	DefaultFallbackLabel = "hello"

	// DefaultDegradedConfidence is reported when the external call
	// fails outright.
	DefaultDegradedConfidence = 0.8

	// DefaultRemoteConfidence is reported for answers the external
	// call produced; the external model reports no score of its own.
	DefaultRemoteConfidence = 0.9

	// Documented bounds for the degraded confidence constant.
	minDegradedConfidence = 0.75
	maxDegradedConfidence = 0.88
)

// Recognizer orchestrates the recognition pipeline.
//
// All collaborators are explicit constructor inputs; there is no global
// state. A Recognizer is immutable after construction and safe for
// concurrent use. Each Recognize call reads one reference snapshot and
// performs at most one outbound network call; there are no retries, no
// request coalescing, and no timeouts beyond the transport's own.
type Recognizer struct {
	client             genai.Client
	set                *refset.Set
	threshold          float32
	fallbackLabel      string
	degradedConfidence float32
	remoteConfidence   float32
	simFn              similarity.Func
	logger             *Logger
	metrics            MetricsCollector
	now                func() time.Time
}

// New creates a Recognizer from its two collaborators: the external
// recognition client and the reference set accessor.
func New(client genai.Client, set *refset.Set, optFns ...Option) (*Recognizer, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	if set == nil {
		return nil, ErrNoReferenceSet
	}

	o := applyOptions(optFns)

	if o.threshold < 0 || o.threshold > 1 {
		return nil, &ErrInvalidThreshold{Threshold: o.threshold}
	}
	if o.degradedConfidence < minDegradedConfidence || o.degradedConfidence > maxDegradedConfidence {
		return nil, &ErrInvalidConfidence{
			Name:       "degraded",
			Confidence: o.degradedConfidence,
			Min:        minDegradedConfidence,
			Max:        maxDegradedConfidence,
		}
	}
	if o.remoteConfidence < 0 || o.remoteConfidence > 1 {
		return nil, &ErrInvalidConfidence{
			Name:       "remote",
			Confidence: o.remoteConfidence,
			Min:        0,
			Max:        1,
		}
	}
	if clean := label.Sanitize(o.fallbackLabel); clean == "" || label.IsSentinel(clean) {
		return nil, ErrInvalidFallbackLabel
	}

	return &Recognizer{
		client:             client,
		set:                set,
		threshold:          o.threshold,
		fallbackLabel:      o.fallbackLabel,
		degradedConfidence: o.degradedConfidence,
		remoteConfidence:   o.remoteConfidence,
		simFn:              o.simFn,
		logger:             o.logger,
		metrics:            o.metricsCollector,
		now:                o.now,
	}, nil
}

// Recognize resolves the query features against the current reference
// snapshot, falling back to the external call when no local candidate
// reaches the acceptance threshold.
//
// Recognize never fails: every outcome, including a fallback transport
// error, produces a Result with a non-empty, non-sentinel Text.
func (r *Recognizer) Recognize(ctx context.Context, features []float32, payload genai.Payload) model.Result {
	return r.recognize(ctx, features, payload, nil)
}

// RecognizeIn is Recognize restricted to a subset of the vocabulary.
// The local pass scans only entries carrying one of the given labels,
// and the fallback prompt offers only those labels. With no labels it
// behaves exactly like Recognize.
func (r *Recognizer) RecognizeIn(ctx context.Context, features []float32, payload genai.Payload, labels ...string) model.Result {
	return r.recognize(ctx, features, payload, labels)
}

func (r *Recognizer) recognize(ctx context.Context, features []float32, payload genai.Payload, labels []string) model.Result {
	start := r.now()
	snap := r.set.Snapshot()

	c, ok := matcher.BestInFunc(features, snap, r.simFn, labels...)
	accepted := ok && c.Combined >= r.threshold
	r.metrics.RecordMatch(c.Combined, accepted, time.Since(start))
	if ok {
		r.logger.LogMatch(ctx, c.Entry.Label, c.Combined, accepted)
	}

	if accepted {
		res := model.Result{
			Text:       c.Entry.Label,
			Confidence: c.Combined,
			Source:     model.SourceLocal,
			Timestamp:  r.now(),
		}
		r.finish(ctx, res, start)
		return res
	}

	return r.fallback(ctx, snap, payload, labels, start)
}

// fallback performs the single outbound call and normalizes whatever
// comes back. Errors stop here.
func (r *Recognizer) fallback(ctx context.Context, snap *refset.Snapshot, payload genai.Payload, labels []string, start time.Time) model.Result {
	vocab := labels
	if len(vocab) == 0 {
		vocab = snap.Vocabulary()
	}
	prompt := genai.BuildPrompt(vocab)

	callStart := r.now()
	raw, err := r.client.Describe(ctx, payload, prompt)
	r.metrics.RecordFallback(time.Since(callStart), err)

	if err != nil {
		r.logger.LogFallback(ctx, r.fallbackLabel, err)
		res := model.Result{
			Text:          r.fallbackLabel,
			Confidence:    r.degradedConfidence,
			Source:        model.SourceRemoteDegraded,
			LowConfidence: true,
			Timestamp:     r.now(),
		}
		r.finish(ctx, res, start)
		return res
	}

	text, forced := label.Resolve(raw, r.fallbackLabel)
	r.logger.LogFallback(ctx, text, nil)

	res := model.Result{
		Text:          text,
		Confidence:    r.remoteConfidence,
		Source:        model.SourceRemote,
		LowConfidence: forced,
		Timestamp:     r.now(),
	}
	r.finish(ctx, res, start)
	return res
}

func (r *Recognizer) finish(ctx context.Context, res model.Result, start time.Time) {
	r.metrics.RecordRecognize(res.Source.String(), time.Since(start))
	r.logger.LogRecognize(ctx, res.Text, res.Source.String(), res.Confidence)
}

// Refresh reloads the reference set from its remote store. Convenience
// wrapper around the set's own Refresh.
func (r *Recognizer) Refresh(ctx context.Context) error {
	return r.set.Refresh(ctx)
}

// Vocabulary returns the distinct labels currently recognizable.
func (r *Recognizer) Vocabulary() []string {
	return r.set.Snapshot().Vocabulary()
}

// Threshold returns the configured acceptance threshold.
func (r *Recognizer) Threshold() float32 {
	return r.threshold
}
