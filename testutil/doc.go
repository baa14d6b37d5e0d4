// Package testutil provides seeded synthetic data for tests and benchmarks.
//
//	rng := testutil.NewRNG(42)
//	ds, labels := rng.ClusteredDataset(3, 50, 8, 0.1)
//	tokens := rng.TokenSets(100, 500, 12, 1.2)
package testutil
