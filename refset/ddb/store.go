// Package ddb implements a refset.Store backed by a DynamoDB table.
//
// Table schema:
//   - Partition key: id (string) - the opaque entry identifier
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name signmatch-entries \
//	  --attribute-definitions AttributeName=id,AttributeType=S \
//	  --key-schema AttributeName=id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package ddb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/signmatch/model"
)

// DynamoDB batches at most 25 write requests per call.
const batchSize = 25

const (
	// maxBatchAttempts bounds how often an unprocessed remainder is
	// resubmitted before Put gives up.
	maxBatchAttempts = 5

	defaultRetryBackoff = 50 * time.Millisecond
	maxRetryBackoff     = time.Second
)

// Client is the interface for the DynamoDB operations the store needs.
type Client interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Store implements refset.Store on a DynamoDB table.
type Store struct {
	client       Client
	tableName    string
	concurrency  int
	retryBackoff time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithConcurrency limits how many batch writes run in parallel during
// Put. Default 4.
func WithConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRetryBackoff sets the initial delay before resubmitting
// unprocessed items. The delay doubles per attempt, capped at one
// second. Default 50ms.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retryBackoff = d
		}
	}
}

// NewStore creates a new DynamoDB-backed entry store.
func NewStore(client Client, tableName string, opts ...Option) *Store {
	s := &Store{
		client:       client,
		tableName:    tableName,
		concurrency:  4,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns all stored entries by scanning the table.
func (s *Store) List(ctx context.Context) ([]model.Entry, error) {
	var (
		entries []model.Entry
		start   map[string]types.AttributeValue
	)

	for {
		resp, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.tableName, err)
		}

		for _, item := range resp.Items {
			e, err := unmarshalEntry(item)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}

		if resp.LastEvaluatedKey == nil {
			break
		}
		start = resp.LastEvaluatedKey
	}

	return entries, nil
}

// Put writes entries in batches of 25, with bounded parallelism.
// Existing items with the same id are replaced.
func (s *Store) Put(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := 0; i < len(entries); i += batchSize {
		batch := entries[i:min(i+batchSize, len(entries))]
		g.Go(func() error {
			return s.writeBatch(ctx, batch)
		})
	}

	return g.Wait()
}

func (s *Store) writeBatch(ctx context.Context, batch []model.Entry) error {
	requests := make([]types.WriteRequest, 0, len(batch))
	for _, e := range batch {
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: marshalEntry(e)},
		})
	}

	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.tableName: requests,
		},
	}

	// BatchWriteItem returns unprocessed items when the table
	// throttles; the SDK does not retry those. Resubmit with doubling
	// backoff until the batch drains or the attempt budget is spent.
	delay := s.retryBackoff
	for attempt := 1; ; attempt++ {
		resp, err := s.client.BatchWriteItem(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to batch write to %s: %w", s.tableName, err)
		}
		remaining, ok := resp.UnprocessedItems[s.tableName]
		if !ok || len(remaining) == 0 {
			return nil
		}
		if attempt >= maxBatchAttempts {
			return fmt.Errorf("%d items still unprocessed after %d attempts writing to %s", len(remaining), attempt, s.tableName)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryBackoff)

		input = &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: remaining,
			},
		}
	}
}

func marshalEntry(e model.Entry) map[string]types.AttributeValue {
	features := make([]types.AttributeValue, len(e.Features))
	for i, f := range e.Features {
		features[i] = &types.AttributeValueMemberN{
			Value: strconv.FormatFloat(float64(f), 'f', -1, 32),
		}
	}

	return map[string]types.AttributeValue{
		"id":         &types.AttributeValueMemberS{Value: e.ID},
		"label":      &types.AttributeValueMemberS{Value: e.Label},
		"features":   &types.AttributeValueMemberL{Value: features},
		"confidence": &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(e.Confidence), 'f', -1, 32)},
		"created_at": &types.AttributeValueMemberS{Value: e.CreatedAt.UTC().Format(time.RFC3339Nano)},
	}
}

func unmarshalEntry(item map[string]types.AttributeValue) (model.Entry, error) {
	var e model.Entry

	id, ok := item["id"].(*types.AttributeValueMemberS)
	if !ok {
		return e, fmt.Errorf("invalid id attribute in item")
	}
	e.ID = id.Value

	if lbl, ok := item["label"].(*types.AttributeValueMemberS); ok {
		e.Label = lbl.Value
	}

	if conf, ok := item["confidence"].(*types.AttributeValueMemberN); ok {
		v, err := strconv.ParseFloat(conf.Value, 32)
		if err != nil {
			return e, fmt.Errorf("failed to parse confidence for %s: %w", e.ID, err)
		}
		e.Confidence = float32(v)
	}

	if feats, ok := item["features"].(*types.AttributeValueMemberL); ok {
		e.Features = make([]float32, 0, len(feats.Value))
		for i, av := range feats.Value {
			n, ok := av.(*types.AttributeValueMemberN)
			if !ok {
				return e, fmt.Errorf("invalid feature %d for %s", i, e.ID)
			}
			v, err := strconv.ParseFloat(n.Value, 32)
			if err != nil {
				return e, fmt.Errorf("failed to parse feature %d for %s: %w", i, e.ID, err)
			}
			e.Features = append(e.Features, float32(v))
		}
	}

	if ts, ok := item["created_at"].(*types.AttributeValueMemberS); ok {
		t, err := time.Parse(time.RFC3339Nano, ts.Value)
		if err != nil {
			return e, fmt.Errorf("failed to parse created_at for %s: %w", e.ID, err)
		}
		e.CreatedAt = t
	}

	return e, nil
}
