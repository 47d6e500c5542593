package chem

import (
	"slices"
	"sort"
)

// symmetryClasses ranks atoms so that topologically equivalent atoms share a
// rank. Initial invariants are refined with sorted neighbor ranks until the
// number of classes stops growing.
func symmetryClasses(m *Mol) []int {
	n := len(m.Atoms)
	if n == 0 {
		return nil
	}
	keys := make([][]int, n)
	for i := range m.Atoms {
		a := &m.Atoms[i]
		keys[i] = []int{
			a.AtomicNum(),
			m.Degree(i),
			a.TotalHs(),
			a.Charge,
			a.Isotope,
			boolInt(a.Aromatic),
			boolInt(m.IsAtomInRing(i)),
		}
	}
	ranks, classes := rankKeys(keys)
	for iter := 0; iter < n; iter++ {
		for i := range m.Atoms {
			nbr := make([]int, 0, len(m.Atoms[i].bonds))
			for _, b := range m.Atoms[i].bonds {
				bond := &m.Bonds[b]
				nbr = append(nbr, ranks[bond.Other(i)]*16+int(bond.Order))
			}
			sort.Ints(nbr)
			keys[i] = append([]int{ranks[i]}, nbr...)
		}
		next, nextClasses := rankKeys(keys)
		if nextClasses == classes {
			break
		}
		ranks, classes = next, nextClasses
	}
	return ranks
}

// rankKeys assigns dense ranks to lexicographically sorted keys and returns
// the number of distinct ranks.
func rankKeys(keys [][]int) ([]int, int) {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return slices.Compare(keys[order[x]], keys[order[y]]) < 0
	})
	ranks := make([]int, len(keys))
	rank := 0
	for k, idx := range order {
		if k > 0 && slices.Compare(keys[order[k-1]], keys[idx]) != 0 {
			rank++
		}
		ranks[idx] = rank
	}
	return ranks, rank + 1
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
