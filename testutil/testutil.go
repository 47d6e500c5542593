package testutil

import (
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/molframe/frame"
)

// DrugLike is a small set of valid SMILES covering aliphatic, aromatic,
// heteroaromatic, charged and ring-fused structures.
var DrugLike = []string{
	"CCO",
	"CC(=O)O",
	"c1ccccc1",
	"c1ccncc1",
	"Oc1ccccc1C(=O)N",
	"CC(=O)Oc1ccccc1C(=O)O",
	"CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
	"C1CCC(CC1)N",
	"c1ccc2ccccc2c1",
	"C[N+](C)(C)C",
	"O=C([O-])c1ccccc1",
	"FC(F)(F)c1ccc(Cl)cc1",
}

// Invalid holds strings no SMILES parser accepts.
var Invalid = []string{
	"not-a-smiles",
	"C(",
	"c1cccc",
	"C)C",
	"Xx",
}

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

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with values in [0, 1).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformMatrix returns rows x cols values in [0, 1).
func (r *RNG) UniformMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		r.FillUniform(m[i])
	}
	return m
}

// Zipf returns a Zipf-distributed value in [0,n) with exponent s.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var norm float64
	for k := 1; k <= n; k++ {
		norm += 1 / math.Pow(float64(k), s)
	}
	u := r.rand.Float64() * norm
	var acc float64
	for k := 1; k <= n; k++ {
		acc += 1 / math.Pow(float64(k), s)
		if u <= acc {
			return k - 1
		}
	}
	return n - 1
}

// SMILES draws n strings from DrugLike with a Zipf skew, replacing each with
// an entry of Invalid at the given rate.
func (r *RNG) SMILES(n int, invalidRate float64) []string {
	out := make([]string, n)
	for i := range out {
		if r.Float64() < invalidRate {
			out[i] = Invalid[r.Intn(len(Invalid))]
			continue
		}
		out[i] = DrugLike[r.Zipf(len(DrugLike), 1.1)]
	}
	return out
}

// NullMask returns n flags where true marks a present value; each is
// missing with probability missingRate.
func (r *RNG) NullMask(n int, missingRate float64) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = r.Float64() >= missingRate
	}
	return valid
}

// SMILESFrame builds a single string column frame.
func SMILESFrame(col string, smiles ...string) *frame.Frame {
	return frame.FromStrings(col, smiles)
}

// FloatFrame builds a frame of rows x cols uniform values with columns
// named prefix0..prefixN.
func (r *RNG) FloatFrame(rows, cols int, prefix string) *frame.Frame {
	m := r.UniformMatrix(rows, cols)
	names := make([]string, cols)
	columns := make([]frame.Column, cols)
	for j := range cols {
		values := make([]float64, rows)
		for i := range rows {
			values[i] = m[i][j]
		}
		names[j] = prefix + strconv.Itoa(j)
		columns[j] = frame.NewSeries(values)
	}
	f, err := frame.FromColumns(names, columns)
	if err != nil {
		panic(err)
	}
	return f
}
