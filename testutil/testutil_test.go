package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}

	a.Reset()
	c := NewRNG(42)
	assert.Equal(t, c.Intn(1000), a.Intn(1000))
}

func TestGenerateRoster(t *testing.T) {
	roster := GenerateRoster(NewRNG(1), 10)
	require.Len(t, roster, 10)

	assert.Equal(t, "V000000", roster[0].ID())
	assert.Equal(t, "V000009", roster[9].ID())
	for _, r := range roster {
		assert.NotEmpty(t, r.FullName())
		assert.NotEmpty(t, r.Gender())
	}
}

func TestGenerateUnidentified(t *testing.T) {
	roster := GenerateUnidentified(NewRNG(1), 3)
	require.Len(t, roster, 3)
	for _, r := range roster {
		assert.Empty(t, r.ID())
		assert.NotEmpty(t, r.EPIC())
	}
}
