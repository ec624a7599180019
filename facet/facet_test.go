package facet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothline/rostercache/model"
)

func page() []model.Record {
	return []model.Record{
		{
			model.FieldVoterID:         "V1",
			model.FieldFirstMiddleName: "Asha",
			model.FieldLastName:        "Devi",
			model.FieldEPIC:            "ABC0000001",
			model.FieldGender:          "F",
			model.FieldReligion:        "Hindu",
		},
		{
			model.FieldVoterID:         "V2",
			model.FieldFirstMiddleName: "Ravi",
			model.FieldLastName:        "Shankar",
			model.FieldEPIC:            "ABC0000002",
			model.FieldGender:          "M",
			model.FieldReligion:        "Hindu",
		},
		{
			model.FieldVoterID:         "V3",
			model.FieldFullName:        "Mary Thomas",
			model.FieldEPIC:            "XYZ0000003",
			model.FieldGender:          "F",
			model.FieldReligion:        "Christian",
		},
	}
}

func TestValues(t *testing.T) {
	ix, err := Build(context.Background(), page())
	require.NoError(t, err)

	assert.Equal(t, []string{"F", "M"}, ix.Values(model.FieldGender))
	assert.Equal(t, []string{"Christian", "Hindu"}, ix.Values(model.FieldReligion))
	assert.Empty(t, ix.Values("unindexed"))
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	ix, err := Build(ctx, page())
	require.NoError(t, err)

	ids := func(records []model.Record) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.ID())
		}
		return out
	}

	t.Run("EmptyQueryMatchesAll", func(t *testing.T) {
		assert.Equal(t, []string{"V1", "V2", "V3"}, ids(ix.Filter(Query{})))
	})

	t.Run("SingleFacet", func(t *testing.T) {
		got := ix.Filter(Query{Equals: map[string]string{model.FieldGender: "F"}})
		assert.Equal(t, []string{"V1", "V3"}, ids(got))
	})

	t.Run("FacetIntersection", func(t *testing.T) {
		got := ix.Filter(Query{Equals: map[string]string{
			model.FieldGender:   "F",
			model.FieldReligion: "Hindu",
		}})
		assert.Equal(t, []string{"V1"}, ids(got))
	})

	t.Run("UnknownValueMatchesNothing", func(t *testing.T) {
		got := ix.Filter(Query{Equals: map[string]string{model.FieldGender: "X"}})
		assert.Empty(t, got)
	})

	t.Run("SearchByName", func(t *testing.T) {
		got := ix.Filter(Query{Search: "asha"})
		assert.Equal(t, []string{"V1"}, ids(got))
	})

	t.Run("SearchByEPIC", func(t *testing.T) {
		got := ix.Filter(Query{Search: "xyz"})
		assert.Equal(t, []string{"V3"}, ids(got))
	})

	t.Run("SearchCombinesWithFacets", func(t *testing.T) {
		got := ix.Filter(Query{
			Search: "abc",
			Equals: map[string]string{model.FieldGender: "M"},
		})
		assert.Equal(t, []string{"V2"}, ids(got))
	})

	t.Run("EmptyFacetValueIgnored", func(t *testing.T) {
		got := ix.Filter(Query{Equals: map[string]string{model.FieldGender: ""}})
		assert.Len(t, got, 3)
	})
}

func TestBuildCustomFields(t *testing.T) {
	ix, err := Build(context.Background(), page(), model.FieldReligion)
	require.NoError(t, err)

	assert.Equal(t, []string{"Christian", "Hindu"}, ix.Values(model.FieldReligion))
	// Unindexed facets in a query match nothing rather than everything.
	got := ix.Filter(Query{Equals: map[string]string{model.FieldGender: "F"}})
	assert.Empty(t, got)
}
