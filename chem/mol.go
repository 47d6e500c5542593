package chem

import (
	"fmt"
)

// BondOrder is the type of a bond.
type BondOrder uint8

const (
	BondSingle    BondOrder = 1
	BondDouble    BondOrder = 2
	BondTriple    BondOrder = 3
	BondQuadruple BondOrder = 4
	BondAromatic  BondOrder = 12
)

func (o BondOrder) String() string {
	switch o {
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondQuadruple:
		return "quadruple"
	case BondAromatic:
		return "aromatic"
	default:
		return fmt.Sprintf("BondOrder(%d)", uint8(o))
	}
}

// Chirality is the tetrahedral chirality tag written in the SMILES.
type Chirality uint8

const (
	ChiralNone Chirality = iota
	ChiralCCW            // @
	ChiralCW             // @@
)

// Hybridization of an atom as far as the descriptors need it.
type Hybridization uint8

const (
	HybridUnknown Hybridization = iota
	HybridSP
	HybridSP2
	HybridSP3
)

// Atom is a heavy atom (or an explicit bracket hydrogen) of a Mol.
type Atom struct {
	Element   *Element
	Isotope   int
	Charge    int
	Aromatic  bool
	Chirality Chirality
	// ExplicitHs is the hydrogen count written inside brackets.
	ExplicitHs int
	// ImplicitHs is derived from the default valence for organic-subset atoms.
	ImplicitHs int
	// Bracket marks atoms written as [..]; they never get implicit hydrogens.
	Bracket bool

	bonds []int
}

// AtomicNum returns the atomic number.
func (a *Atom) AtomicNum() int { return a.Element.Number }

// Symbol returns the element symbol.
func (a *Atom) Symbol() string { return a.Element.Symbol }

// TotalHs returns explicit plus implicit hydrogens.
func (a *Atom) TotalHs() int { return a.ExplicitHs + a.ImplicitHs }

// Bond connects two atoms.
type Bond struct {
	Begin, End int
	Order      BondOrder
	// kekule is the localized order used for valence bookkeeping. Equal to
	// Order except for aromatic bonds, where it is 1 or 2.
	kekule BondOrder
}

// Other returns the atom on the other side of the bond.
func (b *Bond) Other(atom int) int {
	if b.Begin == atom {
		return b.End
	}
	return b.Begin
}

// IsAromatic reports whether the bond is aromatic.
func (b *Bond) IsAromatic() bool { return b.Order == BondAromatic }

// Valence returns the bond's contribution to atom valence after kekulization.
func (b *Bond) Valence() int { return int(b.kekule) }

// Mol is a parsed molecular graph. A Mol is immutable once returned by the
// parser and safe for concurrent reads.
type Mol struct {
	Atoms []Atom
	Bonds []Bond

	smiles    string
	rings     [][]int // SSSR, atoms in ring order
	ringBonds [][]int // same rings as bond indices
	atomRings []int   // number of SSSR rings per atom
	bondRings []int   // number of SSSR rings per bond
	ranks     []int   // symmetry classes
}

// SMILES returns the input string the molecule was parsed from.
func (m *Mol) SMILES() string { return m.smiles }

// String implements fmt.Stringer.
func (m *Mol) String() string { return m.smiles }

// NumAtoms returns the number of atoms in the graph (hydrogens are implicit).
func (m *Mol) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the number of bonds in the graph.
func (m *Mol) NumBonds() int { return len(m.Bonds) }

// AtomBonds returns the bond indices incident to atom i.
func (m *Mol) AtomBonds(i int) []int { return m.Atoms[i].bonds }

// Neighbors returns the atoms bonded to atom i.
func (m *Mol) Neighbors(i int) []int {
	bonds := m.Atoms[i].bonds
	out := make([]int, len(bonds))
	for k, b := range bonds {
		out[k] = m.Bonds[b].Other(i)
	}
	return out
}

// BondBetween returns the index of the bond between a and b, or -1.
func (m *Mol) BondBetween(a, b int) int {
	for _, bi := range m.Atoms[a].bonds {
		if m.Bonds[bi].Other(a) == b {
			return bi
		}
	}
	return -1
}

// Degree returns the number of explicit neighbors.
func (m *Mol) Degree(i int) int { return len(m.Atoms[i].bonds) }

// TotalDegree returns neighbors plus hydrogens.
func (m *Mol) TotalDegree(i int) int { return len(m.Atoms[i].bonds) + m.Atoms[i].TotalHs() }

// ExplicitValence returns the sum of localized bond orders at atom i.
func (m *Mol) ExplicitValence(i int) int {
	v := 0
	for _, b := range m.Atoms[i].bonds {
		v += m.Bonds[b].Valence()
	}
	return v
}

// TotalValence returns the explicit valence plus hydrogens.
func (m *Mol) TotalValence(i int) int { return m.ExplicitValence(i) + m.Atoms[i].TotalHs() }

// Rings returns the smallest set of smallest rings as atom cycles.
func (m *Mol) Rings() [][]int { return m.rings }

// RingBonds returns the same rings as Rings, expressed as bond indices.
func (m *Mol) RingBonds() [][]int { return m.ringBonds }

// IsAtomInRing reports whether atom i belongs to any ring.
func (m *Mol) IsAtomInRing(i int) bool { return m.atomRings[i] > 0 }

// IsBondInRing reports whether bond b belongs to any ring.
func (m *Mol) IsBondInRing(b int) bool { return m.bondRings[b] > 0 }

// NumAtomRings returns how many SSSR rings contain atom i.
func (m *Mol) NumAtomRings(i int) int { return m.atomRings[i] }

// NumFragments returns the number of disconnected components.
func (m *Mol) NumFragments() int {
	n := len(m.Atoms)
	seen := make([]bool, n)
	frags := 0
	stack := make([]int, 0, n)
	for s := 0; s < n; s++ {
		if seen[s] {
			continue
		}
		frags++
		seen[s] = true
		stack = append(stack[:0], s)
		for len(stack) > 0 {
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range m.Neighbors(a) {
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
	}
	return frags
}

// Hybridization returns a simple orbital hybridization for atom i based on
// its localized bonds.
func (m *Mol) Hybridization(i int) Hybridization {
	a := &m.Atoms[i]
	if a.Element.Number <= 1 {
		return HybridUnknown
	}
	doubles, triples := 0, 0
	for _, bi := range a.bonds {
		switch m.Bonds[bi].kekule {
		case BondDouble:
			doubles++
		case BondTriple:
			triples++
		}
	}
	switch {
	case triples > 0 || doubles > 1:
		return HybridSP
	case doubles == 1 || a.Aromatic:
		return HybridSP2
	}
	// Lone-pair donors next to a pi system (amide N, ester O) are planar.
	switch a.Element.Number {
	case 7, 8, 16:
		if m.TotalDegree(i) <= 3 && m.nextToPiSystem(i) {
			return HybridSP2
		}
	}
	return HybridSP3
}

func (m *Mol) nextToPiSystem(i int) bool {
	for _, nb := range m.Neighbors(i) {
		if m.Atoms[nb].Aromatic {
			return true
		}
		for _, b := range m.Atoms[nb].bonds {
			if k := m.Bonds[b].kekule; k == BondDouble || k == BondTriple {
				return true
			}
		}
	}
	return false
}

func (m *Mol) addBond(a, b int, order BondOrder) int {
	idx := len(m.Bonds)
	m.Bonds = append(m.Bonds, Bond{Begin: a, End: b, Order: order, kekule: order})
	m.Atoms[a].bonds = append(m.Atoms[a].bonds, idx)
	m.Atoms[b].bonds = append(m.Atoms[b].bonds, idx)
	return idx
}
