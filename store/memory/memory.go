// Package memory provides an in-memory KeyedStore implementation for tests
// and ephemeral use. It mirrors the sqlite store's semantics exactly,
// including key-ordered pagination.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/boothline/rostercache/model"
	"github.com/boothline/rostercache/store"
)

// Store is a mutex-guarded, key-ordered in-memory store.
// Thread-safe for concurrent readers and writers.
type Store struct {
	mu      sync.RWMutex
	records map[string]model.Record
	keys    []string // sorted; mirrors the sqlite primary-key order
	meta    map[string]string
}

var _ store.KeyedStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]model.Record),
		meta:    make(map[string]string),
	}
}

// PutBatch upserts the batch. The whole batch is validated before any
// record becomes visible, so a failed call applies nothing.
func (s *Store) PutBatch(ctx context.Context, batch []model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, r := range batch {
		if r.ID() == "" {
			return fmt.Errorf("record %d has no identifier", i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range batch {
		id := r.ID()
		if _, exists := s.records[id]; !exists {
			idx := sort.SearchStrings(s.keys, id)
			s.keys = append(s.keys, "")
			copy(s.keys[idx+1:], s.keys[idx:])
			s.keys[idx] = id
		}
		s.records[id] = r.Clone()
	}
	return nil
}

// Page returns the key-ordered slice for the given page.
func (s *Store) Page(ctx context.Context, page, size int) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || size < 1 {
		return nil, store.ErrInvalidPage
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := (page - 1) * size
	if start >= len(s.keys) {
		return []model.Record{}, nil
	}
	end := start + size
	if end > len(s.keys) {
		end = len(s.keys)
	}

	out := make([]model.Record, 0, end-start)
	for _, key := range s.keys[start:end] {
		out = append(out, s.records[key].Clone())
	}
	return out, nil
}

// Count returns the total record count.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys), nil
}

// Clear removes all records, keeping metadata.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]model.Record)
	s.keys = nil
	return nil
}

// GetMeta returns a metadata value.
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.meta[key]
	return v, ok, nil
}

// SetMeta writes a metadata value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
