package rostercache

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/boothline/rostercache/chunker"
	"github.com/boothline/rostercache/facet"
	"github.com/boothline/rostercache/model"
	"github.com/boothline/rostercache/session"
	"github.com/boothline/rostercache/store"
)

// Warning strings attached to degraded load results.
const (
	// WarningSyncFailed marks a load that attempted a refresh, failed, and
	// fell back to previously cached data.
	WarningSyncFailed = "failed to sync new data, showing cached data instead"

	// WarningNoNewData marks a refresh that succeeded but returned zero
	// records while cached data exists.
	WarningNoNewData = "no new voter data available, showing cached data instead"
)

// Fetcher is the remote boundary the orchestrator drives.
// *fetch.Adapter satisfies it.
type Fetcher interface {
	FetchRoster(ctx context.Context, sess *session.Session) ([]model.Record, error)
	FetchSupplemental(ctx context.Context, sess *session.Session, voterID string) (model.Record, error)
}

// LoadResult is what a load request hands the presentation layer.
type LoadResult struct {
	// TotalCount is the record count currently persisted.
	TotalCount int
	// Records is page 1 at the configured page size.
	Records []model.Record
	// Warning is non-empty when the result degraded to cached data.
	Warning string
	// Stale reports whether Records come from a cache that failed to
	// refresh, as opposed to fresh or deliberately reused data.
	Stale bool
}

// RosterCache decides whether to serve from the persistent store, trigger
// a refresh, or fall back to stale data on failure. It owns the staleness
// policy, the ingestion pipeline and pagination over the persisted store.
type RosterCache struct {
	store   store.KeyedStore
	fetcher Fetcher
	sess    *session.Session
	chunker *chunker.Chunker

	stalenessWindow time.Duration
	pageSize        int
	fetchTimeout    time.Duration
	now             func() time.Time
	logger          *Logger
	metrics         MetricsCollector

	loading atomic.Bool
}

// New creates a RosterCache over the given store and fetcher for the given
// authenticated session.
func New(st store.KeyedStore, fetcher Fetcher, sess *session.Session, optFns ...Option) (*RosterCache, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if !sess.Valid() {
		return nil, ErrIdentityMissing
	}

	o := applyOptions(optFns)
	ch, err := chunker.New(o.batchSize)
	if err != nil {
		return nil, err
	}

	return &RosterCache{
		store:           st,
		fetcher:         fetcher,
		sess:            sess,
		chunker:         ch,
		stalenessWindow: o.stalenessWindow,
		pageSize:        o.pageSize,
		fetchTimeout:    o.fetchTimeout,
		now:             o.now,
		logger:          o.logger.WithUserID(sess.UserID),
		metrics:         o.metrics,
	}, nil
}

// PageSize returns the configured page size.
func (rc *RosterCache) PageSize() int { return rc.pageSize }

// Load serves the roster view: from fresh cache when possible, otherwise
// via a full refresh, degrading to cached data on any recoverable failure.
// See the package documentation for the full decision flow.
//
// A Load arriving while another is in flight returns ErrLoadInProgress and
// performs no work.
func (rc *RosterCache) Load(ctx context.Context, forceRefresh bool) (*LoadResult, error) {
	if !rc.loading.CompareAndSwap(false, true) {
		return nil, ErrLoadInProgress
	}
	defer rc.loading.Store(false)

	start := time.Now()
	res, err := rc.load(ctx, forceRefresh)
	rc.metrics.RecordLoad(time.Since(start), err)

	total, warning := 0, ""
	if res != nil {
		total, warning = res.TotalCount, res.Warning
	}
	rc.logger.LogLoad(ctx, forceRefresh, total, warning, err)
	return res, translateError(err)
}

func (rc *RosterCache) load(ctx context.Context, forceRefresh bool) (*LoadResult, error) {
	count, err := rc.store.Count(ctx)
	if err != nil {
		return nil, &ErrStore{Op: "count", cause: err}
	}

	if !forceRefresh && count > 0 {
		fresh, err := rc.cacheIsFresh(ctx)
		if err != nil {
			return nil, err
		}
		if fresh {
			rc.metrics.RecordCacheHit()
			res, err := rc.serveCached(ctx, "")
			if err == nil {
				rc.logger.LogCacheHit(ctx, res.TotalCount)
			}
			return res, err
		}
	}

	fctx, cancel := context.WithTimeout(ctx, rc.fetchTimeout)
	records, fetchErr := rc.fetcher.FetchRoster(fctx, rc.sess)
	cancel()

	if fetchErr != nil {
		if errors.Is(fetchErr, session.ErrIdentityMissing) {
			return nil, fetchErr
		}
		return rc.fallback(ctx, count, "fetch failed", WarningSyncFailed, fetchErr)
	}
	if len(records) == 0 {
		if count > 0 {
			rc.metrics.RecordFallback()
			rc.logger.LogFallback(ctx, "empty refresh", nil)
			return rc.serveCached(ctx, WarningNoNewData)
		}
		return nil, ErrNoData
	}

	// Clear only now that new data is confirmed available, so a failed
	// refresh never destroys usable data.
	if forceRefresh && count > 0 {
		if err := rc.store.Clear(ctx); err != nil {
			return nil, &ErrStore{Op: "clear", cause: err}
		}
	}

	if err := rc.ingest(ctx, records); err != nil {
		var storeErr *ErrStore
		if errors.As(err, &storeErr) {
			return nil, err
		}
		remaining, countErr := rc.store.Count(ctx)
		if countErr != nil {
			return nil, err
		}
		return rc.fallback(ctx, remaining, "ingestion failed", WarningSyncFailed, err)
	}

	ts := strconv.FormatInt(rc.now().UnixMilli(), 10)
	if err := rc.store.SetMeta(ctx, MetaKeyLastIngest, ts); err != nil {
		return nil, &ErrStore{Op: "set meta", cause: err}
	}
	return rc.serveCached(ctx, "")
}

// cacheIsFresh reports whether the last ingestion is younger than the
// staleness window.
func (rc *RosterCache) cacheIsFresh(ctx context.Context) (bool, error) {
	raw, ok, err := rc.store.GetMeta(ctx, MetaKeyLastIngest)
	if err != nil {
		return false, &ErrStore{Op: "get meta", cause: err}
	}
	if !ok {
		return false, nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A garbled timestamp just forces a refresh.
		return false, nil
	}
	return rc.now().Sub(time.UnixMilli(millis)) < rc.stalenessWindow, nil
}

// ingest streams records through the chunker into the store. Batches are
// applied strictly in stream order; each is normalized first so the store's
// identifier invariant holds.
func (rc *RosterCache) ingest(ctx context.Context, records []model.Record) error {
	start := time.Now()
	stream := rc.chunker.Stream(ctx, records)
	defer stream.Close()
	batches := 0

	for {
		batch, err := stream.Next(ctx)
		if err != nil {
			ierr := &ErrIngestion{cause: err}
			rc.metrics.RecordIngest(batches, 0, time.Since(start), ierr)
			rc.logger.LogIngest(ctx, batches, 0, ierr)
			return ierr
		}
		if batch == nil {
			break
		}
		model.NormalizeAll(batch)
		if err := rc.store.PutBatch(ctx, batch); err != nil {
			serr := &ErrStore{Op: "put batch", cause: err}
			rc.metrics.RecordIngest(batches, 0, time.Since(start), serr)
			rc.logger.LogIngest(ctx, batches, 0, serr)
			return serr
		}
		batches++
	}

	rc.metrics.RecordIngest(batches, stream.Total(), time.Since(start), nil)
	rc.logger.LogIngest(ctx, batches, stream.Total(), nil)
	return nil
}

// fallback serves cached data with a warning when any exists, otherwise
// propagates cause.
func (rc *RosterCache) fallback(ctx context.Context, count int, reason, warning string, cause error) (*LoadResult, error) {
	if count <= 0 {
		return nil, cause
	}
	rc.metrics.RecordFallback()
	rc.logger.LogFallback(ctx, reason, cause)
	return rc.serveCached(ctx, warning)
}

func (rc *RosterCache) serveCached(ctx context.Context, warning string) (*LoadResult, error) {
	count, err := rc.store.Count(ctx)
	if err != nil {
		return nil, &ErrStore{Op: "count", cause: err}
	}
	page, err := rc.store.Page(ctx, 1, rc.pageSize)
	if err != nil {
		return nil, &ErrStore{Op: "page", cause: err}
	}
	return &LoadResult{
		TotalCount: count,
		Records:    page,
		Warning:    warning,
		Stale:      warning != "",
	}, nil
}

// Page returns the records of the given 1-based page straight from the
// persistent store. No network, no staleness check: callers get whatever is
// currently persisted.
func (rc *RosterCache) Page(ctx context.Context, page int) ([]model.Record, error) {
	records, err := rc.store.Page(ctx, page, rc.pageSize)
	if err != nil {
		if errors.Is(err, store.ErrInvalidPage) {
			return nil, err
		}
		return nil, &ErrStore{Op: "page", cause: err}
	}
	return records, nil
}

// TotalCount returns the persisted record count.
func (rc *RosterCache) TotalCount(ctx context.Context) (int, error) {
	count, err := rc.store.Count(ctx)
	if err != nil {
		return 0, &ErrStore{Op: "count", cause: err}
	}
	return count, nil
}

// FilterPage returns the records of the given 1-based page that match the
// query. Filtering happens after pagination, mirroring how the voter page
// narrows what is already on screen.
func (rc *RosterCache) FilterPage(ctx context.Context, page int, q facet.Query) ([]model.Record, error) {
	records, err := rc.Page(ctx, page)
	if err != nil {
		return nil, err
	}
	ix, err := facet.Build(ctx, records)
	if err != nil {
		return nil, err
	}
	return ix.Filter(q), nil
}

// Supplemental fetches one supplementary record by voter identifier,
// bounded by the fetch timeout.
func (rc *RosterCache) Supplemental(ctx context.Context, voterID string) (model.Record, error) {
	fctx, cancel := context.WithTimeout(ctx, rc.fetchTimeout)
	defer cancel()

	start := time.Now()
	record, err := rc.fetcher.FetchSupplemental(fctx, rc.sess, voterID)
	rc.metrics.RecordSupplemental(time.Since(start), err)
	rc.logger.LogSupplemental(ctx, voterID, err)
	if err != nil {
		return nil, translateError(err)
	}
	return model.Normalize(record), nil
}
