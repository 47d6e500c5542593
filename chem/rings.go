package chem

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

type ringCandidate struct {
	atoms []int
	bonds []int
	key   string
}

// perceiveRings computes a smallest set of smallest rings. Candidate cycles
// are sorted by size and a GF(2) basis over their bond sets keeps the
// smallest independent ones until the cycle rank is reached.
func perceiveRings(m *Mol) {
	n, nb := len(m.Atoms), len(m.Bonds)
	m.rings, m.ringBonds = nil, nil
	m.atomRings = make([]int, n)
	m.bondRings = make([]int, nb)

	rank := nb - n + m.NumFragments()
	if rank <= 0 {
		return
	}

	cands := hortonCandidates(m)
	sort.SliceStable(cands, func(i, j int) bool {
		if len(cands[i].bonds) != len(cands[j].bonds) {
			return len(cands[i].bonds) < len(cands[j].bonds)
		}
		return cands[i].key < cands[j].key
	})

	basis := make(map[uint32]*roaring.Bitmap)
	for _, c := range cands {
		v := roaring.New()
		for _, b := range c.bonds {
			v.Add(uint32(b))
		}
		for !v.IsEmpty() {
			pivot := v.Maximum()
			row, ok := basis[pivot]
			if !ok {
				basis[pivot] = v
				break
			}
			v.Xor(row)
		}
		if v.IsEmpty() {
			continue
		}
		m.rings = append(m.rings, c.atoms)
		m.ringBonds = append(m.ringBonds, c.bonds)
		if len(m.rings) == rank {
			break
		}
	}

	for r, atoms := range m.rings {
		for _, a := range atoms {
			m.atomRings[a]++
		}
		for _, b := range m.ringBonds[r] {
			m.bondRings[b]++
		}
	}
}

func bondKey(sorted []int) string {
	var sb strings.Builder
	for i, b := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(b))
	}
	return sb.String()
}

// hortonCandidates builds Horton's candidate cycles: for every root atom
// and bond (x, y), the tree paths root..x and root..y plus the bond, when
// the two paths only meet at the root. The set contains a minimum cycle
// basis.
func hortonCandidates(m *Mol) []ringCandidate {
	seen := make(map[string]bool)
	var cands []ringCandidate
	for root := range m.Atoms {
		parent, via := bfsTree(m, root)
		for b := range m.Bonds {
			x, y := m.Bonds[b].Begin, m.Bonds[b].End
			if parent[x] == -2 || parent[y] == -2 {
				continue
			}
			px, bx := treePath(parent, via, x)
			py, by := treePath(parent, via, y)
			if !disjointPaths(px, py) || slices.Contains(bx, b) || slices.Contains(by, b) {
				continue
			}
			atoms := slices.Clone(px)
			slices.Reverse(atoms)
			atoms = append(atoms, py[:len(py)-1]...)
			if len(atoms) < 3 {
				continue
			}
			bonds := slices.Clone(bx)
			slices.Reverse(bonds)
			bonds = append(bonds, b)
			bonds = append(bonds, by...)

			sorted := slices.Clone(bonds)
			sort.Ints(sorted)
			key := bondKey(sorted)
			if seen[key] {
				continue
			}
			seen[key] = true
			cands = append(cands, ringCandidate{atoms: atoms, bonds: bonds, key: key})
		}
	}
	return cands
}

// bfsTree returns a shortest-path tree from root. parent is -1 for the
// root and -2 for unreachable atoms; via holds the tree bond to the parent.
func bfsTree(m *Mol, root int) (parent, via []int) {
	parent = make([]int, len(m.Atoms))
	via = make([]int, len(m.Atoms))
	for i := range parent {
		parent[i] = -2
	}
	parent[root] = -1
	queue := []int{root}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		for _, b := range m.Atoms[a].bonds {
			nb := m.Bonds[b].Other(a)
			if parent[nb] != -2 {
				continue
			}
			parent[nb] = a
			via[nb] = b
			queue = append(queue, nb)
		}
	}
	return parent, via
}

// treePath returns the atoms from a up to the root (inclusive) and the
// bonds between them.
func treePath(parent, via []int, a int) ([]int, []int) {
	atoms := []int{a}
	var bonds []int
	for parent[a] >= 0 {
		bonds = append(bonds, via[a])
		a = parent[a]
		atoms = append(atoms, a)
	}
	return atoms, bonds
}

// disjointPaths reports whether two root paths share only the root.
func disjointPaths(p, q []int) bool {
	for _, a := range p[:len(p)-1] {
		if slices.Contains(q[:len(q)-1], a) {
			return false
		}
	}
	return true
}

// clearNonRingAromaticBonds turns aromatic bonds outside rings (for example
// the implicit bond in "c1ccccc1c1ccccc1") into single bonds and rejects
// aromatic atoms that are not in a ring.
func clearNonRingAromaticBonds(m *Mol) error {
	for b := range m.Bonds {
		bond := &m.Bonds[b]
		if bond.Order == BondAromatic && m.bondRings[b] == 0 {
			bond.Order, bond.kekule = BondSingle, BondSingle
		}
	}
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic && m.atomRings[i] == 0 {
			return &ParseError{SMILES: m.smiles, Pos: -1, Reason: "non-ring atom " + strconv.Itoa(i) + " marked aromatic"}
		}
	}
	return nil
}
