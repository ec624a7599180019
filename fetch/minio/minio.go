// Package minio provides a fetch.BlobSource for MinIO and other
// S3-compatible object stores.
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/boothline/rostercache/fetch"
	s3url "github.com/boothline/rostercache/fetch/s3"
)

// Source implements fetch.BlobSource for S3-compatible storage.
type Source struct {
	client *minio.Client
}

var _ fetch.BlobSource = (*Source)(nil)

// NewSource creates a Source using the given MinIO client.
func NewSource(client *minio.Client) *Source {
	return &Source{client: client}
}

// Fetch downloads the object behind an s3://bucket/key URL and
// transparently decompresses it.
func (s *Source) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	bucket, key, err := s3url.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return fetch.Decompress(data)
}
