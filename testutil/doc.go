// Package testutil provides testing utilities for rostercache.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random number generator and
// deterministic roster generators.
//
//	rng := testutil.NewRNG(seed)
//	roster := testutil.GenerateRoster(rng, 2500)
package testutil
