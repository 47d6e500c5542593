package chem

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

func hashCombine(seed, v uint32) uint32 {
	return seed ^ (v + 0x9e3779b9 + (seed << 6) + (seed >> 2))
}

func hashInt(seed uint32, v int) uint32 { return hashCombine(seed, uint32(int32(v))) }

// atomInvariant is the ECFP connectivity invariant of atom i.
func atomInvariant(m *Mol, i int) uint32 {
	a := &m.Atoms[i]
	deltaMass := 0
	if a.Isotope != 0 {
		deltaMass = a.Isotope - int(math.Round(a.Element.Mass))
	}
	var h uint32
	h = hashInt(h, a.AtomicNum())
	h = hashInt(h, m.TotalDegree(i))
	h = hashInt(h, a.TotalHs())
	h = hashInt(h, a.Charge)
	h = hashInt(h, deltaMass)
	h = hashInt(h, boolInt(m.IsAtomInRing(i)))
	return h
}

type morganEnv struct {
	atom  int
	hash  uint32
	bonds *roaring.Bitmap
	key   string
}

// morganIdentifiers returns the identifiers of all unique circular atom
// environments up to the given radius. An identifier appears once per
// occurrence, so repeated environments are counted.
func morganIdentifiers(m *Mol, radius int) []uint32 {
	n := len(m.Atoms)
	current := make([]uint32, n)
	hoods := make([]*roaring.Bitmap, n)
	dead := make([]bool, n)
	var ids []uint32
	seen := make(map[string]bool)

	for i := range m.Atoms {
		current[i] = atomInvariant(m, i)
		hoods[i] = roaring.New()
		ids = append(ids, current[i])
	}

	type nbrPair struct{ bond, inv uint32 }
	for layer := 0; layer < radius; layer++ {
		next := make([]uint32, n)
		nextHoods := make([]*roaring.Bitmap, n)
		var envs []morganEnv
		for i := range m.Atoms {
			next[i] = current[i]
			nextHoods[i] = hoods[i]
			if dead[i] {
				continue
			}
			bonds := m.Atoms[i].bonds
			if len(bonds) == 0 {
				dead[i] = true
				continue
			}
			hood := hoods[i].Clone()
			pairs := make([]nbrPair, 0, len(bonds))
			for _, b := range bonds {
				o := m.Bonds[b].Other(i)
				pairs = append(pairs, nbrPair{bond: uint32(m.Bonds[b].Order), inv: current[o]})
				hood.Add(uint32(b))
				hood.Or(hoods[o])
			}
			sort.Slice(pairs, func(x, y int) bool {
				if pairs[x].bond != pairs[y].bond {
					return pairs[x].bond < pairs[y].bond
				}
				return pairs[x].inv < pairs[y].inv
			})
			h := uint32(layer)
			h = hashCombine(h, current[i])
			for _, p := range pairs {
				h = hashCombine(h, p.bond)
				h = hashCombine(h, p.inv)
			}
			next[i] = h
			nextHoods[i] = hood
			envs = append(envs, morganEnv{atom: i, hash: h, bonds: hood, key: bondKey(toInts(hood))})
		}
		sort.SliceStable(envs, func(x, y int) bool {
			if envs[x].key != envs[y].key {
				return envs[x].key < envs[y].key
			}
			return envs[x].hash < envs[y].hash
		})
		for _, e := range envs {
			if seen[e.key] {
				dead[e.atom] = true
				continue
			}
			seen[e.key] = true
			ids = append(ids, e.hash)
		}
		current, hoods = next, nextHoods
	}
	return ids
}

func toInts(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// MorganFingerprint folds the circular environments of m into an explicit
// bit vector of nbits bits.
func MorganFingerprint(m *Mol, radius, nbits int) *BitVector {
	fp := NewBitVector(nbits)
	for _, id := range morganIdentifiers(m, radius) {
		fp.Set(int(id % uint32(nbits)))
	}
	return fp
}

// HashedMorganFingerprint folds the circular environments of m into a count
// vector of nbits elements.
func HashedMorganFingerprint(m *Mol, radius, nbits int) *CountVector {
	fp := NewCountVector(nbits)
	for _, id := range morganIdentifiers(m, radius) {
		fp.Add(int(id%uint32(nbits)), 1)
	}
	return fp
}
