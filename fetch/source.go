package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// BlobSource fetches the raw roster blob behind a retrieval URL.
//
// The default is HTTPSource for signed URLs; the s3 and minio subpackages
// fetch directly from object storage when the backend hands out bucket
// URLs instead.
type BlobSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPSource fetches blobs with a plain GET against the signed URL.
type HTTPSource struct {
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client uses http.DefaultClient.
func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{Client: client}
}

// Fetch downloads the blob and transparently decompresses it.
func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ErrTransport{Stage: "blob", cause: err}
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &ErrTransport{Stage: "blob", cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ErrTransport{Stage: "blob", Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrTransport{Stage: "blob", cause: err}
	}
	return Decompress(data)
}

// Compression frame magic bytes.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Decompress detects gzip, zstd and lz4 frames by their magic bytes and
// inflates them; anything else passes through unchanged. Roster blobs are
// uploaded by several backend generations with different compression.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, magicGzip):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip blob: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip blob: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, magicZstd):
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd blob: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr.IOReadCloser())
		if err != nil {
			return nil, fmt.Errorf("zstd blob: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, magicLZ4):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 blob: %w", err)
		}
		return out, nil

	default:
		return data, nil
	}
}
