package rostercache

import (
	"log/slog"
	"time"

	"github.com/boothline/rostercache/chunker"
)

// Tunable defaults. All of them are overridable via options.
const (
	// DefaultStalenessWindow is how long cached data is served without a
	// refresh attempt.
	DefaultStalenessWindow = 6 * time.Hour

	// DefaultPageSize is the number of records per page.
	DefaultPageSize = 50

	// DefaultBatchSize is the ingestion batch size.
	DefaultBatchSize = chunker.DefaultBatchSize

	// DefaultFetchTimeout bounds each network operation.
	DefaultFetchTimeout = 30 * time.Second
)

// MetaKeyLastIngest is the metadata key holding the epoch-millisecond
// timestamp of the last successful ingestion.
const MetaKeyLastIngest = "voters_last_ingest_ts"

type options struct {
	stalenessWindow time.Duration
	pageSize        int
	batchSize       int
	fetchTimeout    time.Duration
	logger          *Logger
	metrics         MetricsCollector
	now             func() time.Time
}

// Option configures RosterCache constructor behavior.
type Option func(*options)

// WithStalenessWindow sets how long cached data is considered fresh.
// Non-positive values keep the default.
func WithStalenessWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.stalenessWindow = d
		}
	}
}

// WithPageSize sets the number of records per page.
// Non-positive values keep the default.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithBatchSize sets the ingestion batch size.
// Non-positive values keep the default.
func WithBatchSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// WithFetchTimeout bounds each network operation. On timeout the load
// falls back to cached data like any other transport failure.
// Non-positive values keep the default.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithClock overrides the time source used for staleness decisions and
// ingestion timestamps. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		stalenessWindow: DefaultStalenessWindow,
		pageSize:        DefaultPageSize,
		batchSize:       DefaultBatchSize,
		fetchTimeout:    DefaultFetchTimeout,
		logger:          NoopLogger(),
		metrics:         NoopMetricsCollector{},
		now:             time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
