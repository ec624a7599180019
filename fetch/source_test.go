package fetch

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompress(t *testing.T) {
	payload := []byte(`{"voter_details":[{"voter_id":"V1"}]}`)

	t.Run("Plain", func(t *testing.T) {
		out, err := Decompress(payload)
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("Gzip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		out, err := Decompress(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("Zstd", func(t *testing.T) {
		zw, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		compressed := zw.EncodeAll(payload, nil)
		require.NoError(t, zw.Close())

		out, err := Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("LZ4", func(t *testing.T) {
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		_, err := zw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		out, err := Decompress(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("CorruptGzip", func(t *testing.T) {
		_, err := Decompress([]byte{0x1f, 0x8b, 0x00})
		assert.Error(t, err)
	})
}
