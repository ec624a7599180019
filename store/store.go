// Package store defines the persistent keyed store abstraction backing the
// roster cache: one collection of records keyed by voter identifier and one
// collection of small scalar metadata entries.
package store

import (
	"context"
	"errors"

	"github.com/boothline/rostercache/model"
)

// ErrInvalidPage is returned for page numbers below 1 or non-positive
// page sizes.
var ErrInvalidPage = errors.New("page number and page size must be positive")

// KeyedStore is durable, transactional storage for roster records and
// cache metadata.
//
// Implementations must apply PutBatch atomically: on error, none of the
// batch is visible. Page ordering is the store's native key order, which
// must be stable between writes.
type KeyedStore interface {
	// PutBatch upserts each record keyed by its identifier inside one
	// atomic transaction. Records must already be normalized; a record
	// with an empty identifier is an error.
	PutBatch(ctx context.Context, batch []model.Record) error

	// Page returns the records at positions [(page-1)*size, page*size) of
	// the store's key ordering. The last page may be short; pages past the
	// end are empty, not an error. An empty store yields an empty page.
	Page(ctx context.Context, page, size int) ([]model.Record, error)

	// Count returns the total record count from a consistent snapshot.
	Count(ctx context.Context) (int, error)

	// Clear removes all records. Metadata entries are kept.
	Clear(ctx context.Context) error

	// GetMeta returns a scalar metadata value. ok is false if the key has
	// never been written.
	GetMeta(ctx context.Context, key string) (value string, ok bool, err error)

	// SetMeta writes a scalar metadata value.
	SetMeta(ctx context.Context, key, value string) error

	// Close releases the underlying resources.
	Close() error
}
