package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/boothline/rostercache/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Pick returns a pseudo-random element of choices.
func (r *RNG) Pick(choices []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return choices[r.rand.Intn(len(choices))]
}

var (
	firstNames = []string{"Asha", "Ravi", "Meena", "Suresh", "Lakshmi", "Arjun", "Priya", "Vikram"}
	lastNames  = []string{"Devi", "Shankar", "Kumar", "Reddy", "Patel", "Sharma", "Nair", "Das"}
	genders    = []string{"F", "M"}
	religions  = []string{"Hindu", "Muslim", "Christian", "Sikh"}
)

// GenerateRoster generates n records with sequential identifiers and
// seeded-random demographic fields. Identifiers are deterministic so
// pagination assertions can address records by position.
func GenerateRoster(rng *RNG, n int) []model.Record {
	out := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Record{
			model.FieldVoterID:         fmt.Sprintf("V%06d", i),
			model.FieldEPIC:            fmt.Sprintf("EPC%07d", i),
			model.FieldFirstMiddleName: rng.Pick(firstNames),
			model.FieldLastName:        rng.Pick(lastNames),
			model.FieldGender:          rng.Pick(genders),
			model.FieldReligion:        rng.Pick(religions),
		})
	}
	return out
}

// GenerateUnidentified generates n records that carry only an EPIC
// identifier, exercising identifier derivation paths.
func GenerateUnidentified(rng *RNG, n int) []model.Record {
	out := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Record{
			model.FieldEPIC:   fmt.Sprintf("EPC%07d", i),
			model.FieldGender: rng.Pick(genders),
		})
	}
	return out
}
