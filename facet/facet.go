// Package facet implements the filtering contract consumed by the
// presentation layer: a search term plus categorical facets applied to the
// currently loaded page of records.
//
// Each facet field gets a posting list per distinct value, so combined
// filters are bitmap intersections instead of repeated record scans.
package facet

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/boothline/rostercache/model"
)

// DefaultFields are the facet fields the voter page exposes as dropdowns.
var DefaultFields = []string{model.FieldGender, model.FieldReligion}

// Index is a facet index over one page of records. Build once per page;
// an Index is immutable and safe for concurrent readers afterwards.
type Index struct {
	records  []model.Record
	postings map[string]map[string]*roaring.Bitmap
}

// Build indexes the given records on the given facet fields. Fields are
// indexed in parallel; a nil or empty field list uses DefaultFields.
func Build(ctx context.Context, records []model.Record, fields ...string) (*Index, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}

	ix := &Index{
		records:  records,
		postings: make(map[string]map[string]*roaring.Bitmap, len(fields)),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, field := range fields {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values := make(map[string]*roaring.Bitmap)
			for i, r := range records {
				v := r.String(field)
				if v == "" {
					continue
				}
				bm, ok := values[v]
				if !ok {
					bm = roaring.New()
					values[v] = bm
				}
				bm.Add(uint32(i))
			}
			mu.Lock()
			ix.postings[field] = values
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Values returns the distinct values of a facet field, sorted.
func (ix *Index) Values(field string) []string {
	values := ix.postings[field]
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Query selects records by a free-text search term and exact facet values.
// Zero-value fields match everything.
type Query struct {
	// Search matches case-insensitively against the display name and the
	// EPIC identifier.
	Search string
	// Equals maps facet fields to the single value they must carry.
	Equals map[string]string
}

// Filter returns the indexed records matching the query, in page order.
func (ix *Index) Filter(q Query) []model.Record {
	matched := roaring.New()
	matched.AddRange(0, uint64(len(ix.records)))

	for field, want := range q.Equals {
		if want == "" {
			continue
		}
		bm := ix.postings[field][want]
		if bm == nil {
			return nil
		}
		matched.And(bm)
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]model.Record, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		r := ix.records[it.Next()]
		if term != "" && !matchesTerm(r, term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesTerm(r model.Record, term string) bool {
	if strings.Contains(strings.ToLower(r.FullName()), term) {
		return true
	}
	return strings.Contains(strings.ToLower(r.EPIC()), term)
}
