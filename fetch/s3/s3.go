// Package s3 provides a fetch.BlobSource reading roster blobs straight
// from S3, for deployments where the backend hands out s3:// bucket URLs
// instead of signed HTTPS URLs.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/boothline/rostercache/fetch"
)

// Source implements fetch.BlobSource for S3.
type Source struct {
	downloader *manager.Downloader
}

var _ fetch.BlobSource = (*Source)(nil)

// NewSource creates a Source using the given S3 client.
func NewSource(client *s3.Client) *Source {
	return &Source{downloader: manager.NewDownloader(client)}
}

// NewSourceFromConfig creates a Source from the ambient AWS configuration
// (environment, shared config, instance role).
func NewSourceFromConfig(ctx context.Context) (*Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSource(s3.NewFromConfig(cfg)), nil
}

// Fetch downloads the object behind an s3://bucket/key URL and
// transparently decompresses it.
func (s *Source) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	bucket, key, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(nil)
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}
	return fetch.Decompress(buf.Bytes())
}

// ParseURL splits an s3://bucket/key URL into bucket and key.
func ParseURL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse blob url: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3 url: %q", rawURL)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 url %q has no object key", rawURL)
	}
	return u.Host, key, nil
}
