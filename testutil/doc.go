// Package testutil provides testing utilities for molframe.
//
// This package is intended for use in tests and benchmarks only.
// It provides SMILES fixtures, a seeded RNG and frame builders.
//
// # Fixtures
//
//	df := testutil.SMILESFrame("smiles", testutil.DrugLike...)
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	smiles := rng.SMILES(100, 0.1) // 10% unparseable
//	df := rng.FloatFrame(10, 4, "x")
package testutil
