// Package s3 stores dataset envelopes in S3.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/signmatch/dataset"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store reads and writes dataset envelopes under an S3 prefix.
type Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewStore creates a new S3 dataset store.
// rootPrefix is prepended to all keys (e.g. "datasets/").
func NewStore(client *s3.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		prefix:     rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name+".sgds")
}

// Put uploads an encoded dataset envelope under the dataset's name.
func (s *Store) Put(ctx context.Context, name string, envelope []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   bytes.NewReader(envelope),
	})
	if err != nil {
		return fmt.Errorf("failed to upload dataset %q: %w", name, err)
	}
	return nil
}

// Get downloads and decodes the named dataset.
func (s *Store) Get(ctx context.Context, name string) (*dataset.Dataset, error) {
	buf := manager.NewWriteAtBuffer(nil)

	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download dataset %q: %w", name, err)
	}

	return dataset.Decode(buf.Bytes())
}

// List returns the names of all stored datasets.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(*obj.Key, s.prefix)
			name = strings.TrimPrefix(name, "/")
			if strings.HasSuffix(name, ".sgds") {
				names = append(names, strings.TrimSuffix(name, ".sgds"))
			}
		}
	}

	return names, nil
}

// Delete removes the named dataset.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}
