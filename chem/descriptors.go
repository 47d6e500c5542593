package chem

import (
	"sync"

	"github.com/samber/lo"
)

// Descriptor is a named scalar computed from a molecule.
type Descriptor struct {
	Name string
	Calc func(*Mol) float64
}

// descriptorCatalog is the fixed, ordered set of descriptors the built-in
// toolkit computes.
var descriptorCatalog = []Descriptor{
	{"Chi0n", chiN(0)},
	{"Chi0v", chiV(0)},
	{"Chi1n", chiN(1)},
	{"Chi1v", chiV(1)},
	{"Chi2n", chiN(2)},
	{"Chi2v", chiV(2)},
	{"Chi3n", chiN(3)},
	{"Chi3v", chiV(3)},
	{"Chi4n", chiN(4)},
	{"Chi4v", chiV(4)},
	{"ExactMolWt", exactMolWt},
	{"FractionCSP3", fractionCSP3},
	{"HallKierAlpha", hallKierAlpha},
	{"Kappa1", kappa1},
	{"Kappa2", kappa2},
	{"Kappa3", kappa3},
	{"LabuteASA", labuteASA},
	{"NumAliphaticCarbocycles", ringCounter(aliphaticRing, carbocycle)},
	{"NumAliphaticHeterocycles", ringCounter(aliphaticRing, heterocycle)},
	{"NumAliphaticRings", ringCounter(aliphaticRing)},
	{"NumAmideBonds", numAmideBonds},
	{"NumAromaticCarbocycles", ringCounter(aromaticRing, carbocycle)},
	{"NumAromaticHeterocycles", ringCounter(aromaticRing, heterocycle)},
	{"NumAromaticRings", ringCounter(aromaticRing)},
	{"NumAtomStereoCenters", numAtomStereoCenters},
	{"NumBridgeheadAtoms", numBridgeheadAtoms},
	{"NumHBA", numHBA},
	{"NumHBD", numHBD},
	{"NumHeteroatoms", numHeteroatoms},
	{"NumHeterocycles", ringCounter(heterocycle)},
	{"NumLipinskiHBA", numLipinskiHBA},
	{"NumLipinskiHBD", numLipinskiHBD},
	{"NumRings", func(m *Mol) float64 { return float64(len(m.rings)) }},
	{"NumSaturatedCarbocycles", ringCounter(saturatedRing, carbocycle)},
	{"NumSaturatedHeterocycles", ringCounter(saturatedRing, heterocycle)},
	{"NumSaturatedRings", ringCounter(saturatedRing)},
	{"NumSpiroAtoms", numSpiroAtoms},
	{"NumUnspecifiedAtomStereoCenters", numUnspecifiedAtomStereoCenters},
	{"TPSA", tpsa},
}

// Descriptors returns a copy of the descriptor catalog in output order.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptorCatalog...)
}

// DescriptorNames returns the catalog names in output order.
func DescriptorNames() []string {
	return lo.Map(descriptorCatalog, func(d Descriptor, _ int) string { return d.Name })
}

// ComputeDescriptors evaluates the whole catalog on m.
func ComputeDescriptors(m *Mol) []float64 {
	return lo.Map(descriptorCatalog, func(d Descriptor, _ int) float64 { return d.Calc(m) })
}

const electronMass = 0.00054857990946

func exactMolWt(m *Mol) float64 {
	h, _ := LookupElement("H")
	w := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Isotope != 0 {
			w += isotopeMass(a.AtomicNum(), a.Isotope)
		} else {
			w += a.Element.ExactMass
		}
		w += float64(a.TotalHs()) * h.ExactMass
		w -= float64(a.Charge) * electronMass
	}
	return w
}

func fractionCSP3(m *Mol) float64 {
	carbons, sp3 := 0, 0
	for i := range m.Atoms {
		if m.Atoms[i].AtomicNum() != 6 {
			continue
		}
		carbons++
		if m.Hybridization(i) == HybridSP3 {
			sp3++
		}
	}
	if carbons == 0 {
		return 0
	}
	return float64(sp3) / float64(carbons)
}

func numHeteroatoms(m *Mol) float64 {
	n := 0
	for i := range m.Atoms {
		if z := m.Atoms[i].AtomicNum(); z != 1 && z != 6 {
			n++
		}
	}
	return float64(n)
}

func numLipinskiHBA(m *Mol) float64 {
	n := 0
	for i := range m.Atoms {
		if z := m.Atoms[i].AtomicNum(); z == 7 || z == 8 {
			n++
		}
	}
	return float64(n)
}

func numLipinskiHBD(m *Mol) float64 {
	n := 0
	for i := range m.Atoms {
		if z := m.Atoms[i].AtomicNum(); z == 7 || z == 8 {
			n += m.Atoms[i].TotalHs()
		}
	}
	return float64(n)
}

var (
	patternsOnce sync.Once
	hbaPattern   *Pattern
	hbdPattern   *Pattern
	amidePattern *Pattern
)

func descriptorPatterns() {
	patternsOnce.Do(func() {
		hbaPattern = MustCompileSMARTS("[$([O,S;H1;v2]-[!$(*=[O,N,P,S])]),$([O,S;H0;v2]),$([O,S;-]),$([N;v3;!$(N-*=!@[O,N,P,S])]),$([nH0,o,s;+0]),$([F])]")
		hbdPattern = MustCompileSMARTS("[N&!H0&v3,N&!H0&+1&v4,O&H1&+0,S&H1&+0,n&H1&+0]")
		amidePattern = MustCompileSMARTS("C(=[O;!R])N")
	})
}

func numHBA(m *Mol) float64 {
	descriptorPatterns()
	return float64(hbaPattern.CountMatches(m))
}

func numHBD(m *Mol) float64 {
	descriptorPatterns()
	return float64(hbdPattern.CountMatches(m))
}

func numAmideBonds(m *Mol) float64 {
	descriptorPatterns()
	return float64(amidePattern.CountMatches(m))
}

type ringFilter func(m *Mol, r int) bool

func aromaticRing(m *Mol, r int) bool { return allAromatic(m, m.ringBonds[r]) }

func aliphaticRing(m *Mol, r int) bool { return !aromaticRing(m, r) }

func saturatedRing(m *Mol, r int) bool {
	for _, b := range m.ringBonds[r] {
		if m.Bonds[b].Order != BondSingle {
			return false
		}
	}
	return true
}

func heterocycle(m *Mol, r int) bool {
	for _, a := range m.rings[r] {
		if m.Atoms[a].AtomicNum() != 6 {
			return true
		}
	}
	return false
}

func carbocycle(m *Mol, r int) bool { return !heterocycle(m, r) }

func ringCounter(filters ...ringFilter) func(*Mol) float64 {
	return func(m *Mol) float64 {
		n := 0
		for r := range m.rings {
			if lo.EveryBy(filters, func(f ringFilter) bool { return f(m, r) }) {
				n++
			}
		}
		return float64(n)
	}
}

func sharedBonds(m *Mol, r1, r2 int) []int {
	return lo.Intersect(m.ringBonds[r1], m.ringBonds[r2])
}

func sharedAtoms(m *Mol, r1, r2 int) []int {
	return lo.Intersect(m.rings[r1], m.rings[r2])
}

// numSpiroAtoms counts atoms that are the only atom shared by two rings.
func numSpiroAtoms(m *Mol) float64 {
	spiro := make(map[int]bool)
	for r1 := range m.rings {
		for r2 := r1 + 1; r2 < len(m.rings); r2++ {
			if shared := sharedAtoms(m, r1, r2); len(shared) == 1 {
				spiro[shared[0]] = true
			}
		}
	}
	return float64(len(spiro))
}

// numBridgeheadAtoms counts the ends of bond paths shared by two rings that
// have more than one bond in common.
func numBridgeheadAtoms(m *Mol) float64 {
	heads := make(map[int]bool)
	for r1 := range m.rings {
		for r2 := r1 + 1; r2 < len(m.rings); r2++ {
			shared := sharedBonds(m, r1, r2)
			if len(shared) < 2 {
				continue
			}
			deg := make(map[int]int)
			for _, b := range shared {
				deg[m.Bonds[b].Begin]++
				deg[m.Bonds[b].End]++
			}
			for a, d := range deg {
				if d == 1 {
					heads[a] = true
				}
			}
		}
	}
	return float64(len(heads))
}
