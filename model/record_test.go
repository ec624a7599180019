package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccessors(t *testing.T) {
	t.Run("FullNameComposed", func(t *testing.T) {
		r := Record{
			FieldFirstMiddleName: "Asha Kumari",
			FieldLastName:        "Devi",
		}
		assert.Equal(t, "Asha Kumari Devi", r.FullName())
	})

	t.Run("FullNamePrecomposedWins", func(t *testing.T) {
		r := Record{
			FieldFullName:        "Asha Devi",
			FieldFirstMiddleName: "Asha Kumari",
		}
		assert.Equal(t, "Asha Devi", r.FullName())
	})

	t.Run("NonStringField", func(t *testing.T) {
		r := Record{FieldGender: 42}
		assert.Empty(t, r.Gender())
	})
}

func TestNormalize(t *testing.T) {
	t.Run("LegacyNameFields", func(t *testing.T) {
		r := Normalize(Record{
			FieldVoterID:      "V1",
			"voter_firstname": "Ravi",
			"voter_lastname":  "Shankar",
		})
		assert.Equal(t, "Ravi", r.String(FieldFirstMiddleName))
		assert.Equal(t, "Shankar", r.String(FieldLastName))
	})

	t.Run("CanonicalWinsOverLegacy", func(t *testing.T) {
		r := Normalize(Record{
			FieldVoterID:         "V1",
			FieldFirstMiddleName: "Ravi",
			"voter_firstname":    "Other",
		})
		assert.Equal(t, "Ravi", r.String(FieldFirstMiddleName))
	})

	t.Run("LegacyIDSpellings", func(t *testing.T) {
		r := Normalize(Record{"voterID": "V42"})
		assert.Equal(t, "V42", r.ID())
		assert.False(t, r.Synthetic())
	})

	t.Run("DerivedFromEPICIsDeterministic", func(t *testing.T) {
		a := Normalize(Record{FieldEPIC: "ABC1234567"})
		b := Normalize(Record{FieldEPIC: "ABC1234567"})
		require.NotEmpty(t, a.ID())
		assert.Equal(t, a.ID(), b.ID())
		assert.False(t, a.Synthetic())

		c := Normalize(Record{FieldEPIC: "XYZ0000001"})
		assert.NotEqual(t, a.ID(), c.ID())
	})

	t.Run("NoIdentifierAtAll", func(t *testing.T) {
		a := Normalize(Record{FieldGender: "F"})
		b := Normalize(Record{FieldGender: "F"})
		require.NotEmpty(t, a.ID())
		require.NotEmpty(t, b.ID())
		assert.True(t, a.Synthetic())
		assert.NotEqual(t, a.ID(), b.ID())
	})

	t.Run("ExistingIDUntouched", func(t *testing.T) {
		r := Normalize(Record{FieldVoterID: "V7", FieldEPIC: "ABC1234567"})
		assert.Equal(t, "V7", r.ID())
	})
}

func TestNormalizeAll(t *testing.T) {
	batch := []Record{
		{FieldVoterID: "V1"},
		{FieldEPIC: "ABC1234567"},
	}
	NormalizeAll(batch)
	for _, r := range batch {
		assert.NotEmpty(t, r.ID())
	}
}
