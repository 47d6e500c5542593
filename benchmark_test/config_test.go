package benchmark_test

import (
	"testing"

	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/frame"
	"github.com/hupe1980/molframe/testutil"
)

// Standard dataset sizes.
const (
	sizeSmall  = 1_000  // Quick iteration
	sizeMedium = 10_000 // Default CI
)

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

// benchSMILES returns n Zipf-skewed SMILES with the given share of invalid
// strings.
func benchSMILES(n int, invalidRate float64) []string {
	return testutil.NewRNG(benchSeed).SMILES(n, invalidRate)
}

// benchMols returns a parsed frame ready for featurization.
func benchMols(b *testing.B, n int) *frame.Frame {
	b.Helper()
	df, err := molframe.SMILES2Mol(frame.FromStrings("smiles", benchSMILES(n, 0)), "smiles", "mol")
	if err != nil {
		b.Fatal(err)
	}
	return df
}
