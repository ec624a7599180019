package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothline/rostercache/model"
	"github.com/boothline/rostercache/store"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(id string) model.Record {
	return model.Record{model.FieldVoterID: id, model.FieldGender: "F"}
}

func seed(t *testing.T, s *Store, n int) {
	t.Helper()
	batch := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, record(fmt.Sprintf("V%06d", i)))
	}
	require.NoError(t, s.PutBatch(context.Background(), batch))
}

func TestOpen(t *testing.T) {
	t.Run("EmptyPathRejected", func(t *testing.T) {
		_, err := Open("  ")
		assert.Error(t, err)
	})

	t.Run("ReopenPreservesRows", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "roster.db")

		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.PutBatch(ctx, []model.Record{record("V1")}))
		require.NoError(t, s.SetMeta(ctx, "voters_last_ingest_ts", "42"))
		require.NoError(t, s.Close())

		s, err = Open(path)
		require.NoError(t, err)
		defer s.Close()

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		v, ok, err := s.GetMeta(ctx, "voters_last_ingest_ts")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "42", v)
	})
}

func TestPutBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("UpsertIsIdempotent", func(t *testing.T) {
		s := openTemp(t)
		seed(t, s, 20)
		seed(t, s, 20)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, n)
	})

	t.Run("OverwriteReplacesWholeRecord", func(t *testing.T) {
		s := openTemp(t)
		require.NoError(t, s.PutBatch(ctx, []model.Record{
			{model.FieldVoterID: "V1", model.FieldReligion: "X"},
		}))
		require.NoError(t, s.PutBatch(ctx, []model.Record{
			{model.FieldVoterID: "V1", model.FieldGender: "M"},
		}))

		page, err := s.Page(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "M", page[0].Gender())
		assert.Empty(t, page[0].Religion())
	})

	t.Run("AtomicOnFailure", func(t *testing.T) {
		s := openTemp(t)
		err := s.PutBatch(ctx, []model.Record{record("V1"), {}})
		require.Error(t, err)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "failed batch must roll back entirely")
	})
}

func TestPage(t *testing.T) {
	ctx := context.Background()

	t.Run("KeyOrderedSlices", func(t *testing.T) {
		s := openTemp(t)
		seed(t, s, 25)

		page, err := s.Page(ctx, 2, 10)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, "V000010", page[0].ID())
		assert.Equal(t, "V000019", page[9].ID())
	})

	t.Run("ShortLastPageAndOutOfRange", func(t *testing.T) {
		s := openTemp(t)
		seed(t, s, 25)

		page, err := s.Page(ctx, 3, 10)
		require.NoError(t, err)
		assert.Len(t, page, 5)

		page, err = s.Page(ctx, 4, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("EmptyStoreDoesNotError", func(t *testing.T) {
		s := openTemp(t)
		page, err := s.Page(ctx, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		s := openTemp(t)
		_, err := s.Page(ctx, 0, 10)
		assert.ErrorIs(t, err, store.ErrInvalidPage)
		_, err = s.Page(ctx, 1, -1)
		assert.ErrorIs(t, err, store.ErrInvalidPage)
	})
}

func TestClearKeepsMeta(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	seed(t, s, 5)
	require.NoError(t, s.SetMeta(ctx, "k", "v"))

	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	v, ok, err := s.GetMeta(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
