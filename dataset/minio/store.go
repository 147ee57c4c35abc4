// Package minio stores dataset envelopes in MinIO and other
// S3-compatible object stores.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/signmatch/dataset"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store reads and writes dataset envelopes under a MinIO prefix.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO dataset store.
// rootPrefix is prepended to all keys (e.g. "datasets/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name+".sgds")
}

// Put uploads an encoded dataset envelope under the dataset's name.
func (s *Store) Put(ctx context.Context, name string, envelope []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name),
		bytes.NewReader(envelope), int64(len(envelope)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to upload dataset %q: %w", name, err)
	}
	return nil
}

// Get downloads and decodes the named dataset.
func (s *Store) Get(ctx context.Context, name string) (*dataset.Dataset, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset %q: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read dataset %q: %w", name, err)
	}

	return dataset.Decode(data)
}

// List returns the names of all stored datasets.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, s.prefix)
		name = strings.TrimPrefix(name, "/")
		if strings.HasSuffix(name, ".sgds") {
			names = append(names, strings.TrimSuffix(name, ".sgds"))
		}
	}

	return names, nil
}

// Delete removes the named dataset.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil
		}
		return err
	}
	return nil
}
