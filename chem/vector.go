package chem

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// BitVector is a fixed-length explicit bit vector backed by a roaring bitmap.
type BitVector struct {
	n    int
	bits *roaring.Bitmap
}

// NewBitVector returns an all-zero vector of length n.
func NewBitVector(n int) *BitVector {
	return &BitVector{n: n, bits: roaring.New()}
}

// Len returns the vector length.
func (v *BitVector) Len() int { return v.n }

// Set turns bit i on. Out-of-range indices are ignored.
func (v *BitVector) Set(i int) {
	if i < 0 || i >= v.n {
		return
	}
	v.bits.Add(uint32(i))
}

// Get reports whether bit i is on.
func (v *BitVector) Get(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.bits.Contains(uint32(i))
}

// Count returns the number of on bits.
func (v *BitVector) Count() int { return int(v.bits.GetCardinality()) }

// OnBits returns the indices of the on bits in ascending order.
func (v *BitVector) OnBits() []int {
	out := make([]int, 0, v.bits.GetCardinality())
	it := v.bits.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// ToDense expands the vector into 0/1 floats.
func (v *BitVector) ToDense() []float64 {
	out := make([]float64, v.n)
	it := v.bits.Iterator()
	for it.HasNext() {
		out[it.Next()] = 1
	}
	return out
}

// Tanimoto returns the Tanimoto similarity |a∧b| / |a∨b|. Two empty vectors
// have similarity 0.
func (v *BitVector) Tanimoto(other *BitVector) float64 {
	inter := v.bits.AndCardinality(other.bits)
	union := v.bits.OrCardinality(other.bits)
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// CountVector is a fixed-length sparse vector of non-negative counts.
type CountVector struct {
	n      int
	counts map[int]uint32
}

// NewCountVector returns an all-zero count vector of length n.
func NewCountVector(n int) *CountVector {
	return &CountVector{n: n, counts: make(map[int]uint32)}
}

// Len returns the vector length.
func (v *CountVector) Len() int { return v.n }

// Add increments element i by delta. Out-of-range indices are ignored.
func (v *CountVector) Add(i int, delta uint32) {
	if i < 0 || i >= v.n {
		return
	}
	v.counts[i] += delta
}

// Get returns element i.
func (v *CountVector) Get(i int) uint32 { return v.counts[i] }

// NonZero returns the indices of the non-zero elements in ascending order.
func (v *CountVector) NonZero() []int {
	out := make([]int, 0, len(v.counts))
	for i, c := range v.counts {
		if c > 0 {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// ToDense expands the vector into floats.
func (v *CountVector) ToDense() []float64 {
	out := make([]float64, v.n)
	for i, c := range v.counts {
		out[i] = float64(c)
	}
	return out
}
