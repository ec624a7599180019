package rostercache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothline/rostercache/model"
	"github.com/boothline/rostercache/store/memory"
)

// TestColdStartLifecycle walks the full pipeline from an empty store:
// fetch, chunked ingestion, pagination, staleness, refresh and fallback.
func TestColdStartLifecycle(t *testing.T) {
	ctx := context.Background()

	st := memory.New()
	fetcher := &stubFetcher{records: makeRoster(2500)}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rc, err := New(st, fetcher, testSession(t),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	// Cold start: empty store, no ingest timestamp.
	res, err := rc.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, 2500, res.TotalCount)
	assert.Empty(t, res.Warning)
	assert.False(t, res.Stale)

	// Page 1 holds records 1-50 of the key order.
	require.Len(t, res.Records, 50)
	assert.Equal(t, "V000000", res.Records[0].ID())
	assert.Equal(t, "V000049", res.Records[49].ID())

	// Page 50 holds records 2451-2500; page 51 is past the end.
	page, err := rc.Page(ctx, 50)
	require.NoError(t, err)
	require.Len(t, page, 50)
	assert.Equal(t, "V002450", page[0].ID())
	assert.Equal(t, "V002499", page[49].ID())

	page, err = rc.Page(ctx, 51)
	require.NoError(t, err)
	assert.Empty(t, page)

	count, err := rc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2500, count)

	// Within the staleness window: served from cache, no network.
	now = now.Add(3 * time.Hour)
	res, err = rc.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, 2500, res.TotalCount)

	// Past the window: one refresh attempt; a failure degrades gracefully.
	now = now.Add(4 * time.Hour)
	fetcher.err = fmt.Errorf("backend down")
	res, err = rc.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
	assert.True(t, res.Stale)
	assert.Equal(t, WarningSyncFailed, res.Warning)
	assert.Equal(t, 2500, res.TotalCount)

	// Recovery: the next expired load refreshes and re-stamps the clock.
	fetcher.err = nil
	fetcher.records = makeRoster(2600)
	res, err = rc.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.callCount())
	assert.Equal(t, 2600, res.TotalCount)
	assert.False(t, res.Stale)
}

// TestIngestionNormalizesRecords verifies drifted upstream shapes land in
// the store in canonical form.
func TestIngestionNormalizesRecords(t *testing.T) {
	ctx := context.Background()

	st := memory.New()
	fetcher := &stubFetcher{records: []model.Record{
		{
			"voterID":           "V1",
			"voter_firstname":   "Asha",
			"voter_lastname":    "Devi",
			model.FieldGender:   "F",
			model.FieldReligion: "Hindu",
		},
	}}

	rc, err := New(st, fetcher, testSession(t))
	require.NoError(t, err)

	res, err := rc.Load(ctx, false)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "V1", r.ID())
	assert.Equal(t, "Asha Devi", r.FullName())
	assert.False(t, r.Synthetic())
}
