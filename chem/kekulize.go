package chem

import "fmt"

// maxKekuleSteps bounds the matching search on pathological inputs.
const maxKekuleSteps = 1 << 20

// kekulize localizes aromatic bonds into alternating single and double bonds.
// Every aromatic atom whose valence cannot be satisfied by its sigma bonds
// must receive exactly one double bond; this is a perfect matching over the
// aromatic bonds between such atoms.
func kekulize(m *Mol) error {
	n := len(m.Atoms)
	needs := make([]bool, n)
	found := false
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic && needsPiBond(m, i) {
			needs[i] = true
			found = true
		}
	}
	for b := range m.Bonds {
		if m.Bonds[b].Order == BondAromatic {
			m.Bonds[b].kekule = BondSingle
		}
	}
	if !found {
		return nil
	}

	matched := make([]int, n)
	for i := range matched {
		matched[i] = -1
	}
	available := func(a int) []int {
		var out []int
		for _, b := range m.Atoms[a].bonds {
			bond := &m.Bonds[b]
			if bond.Order != BondAromatic {
				continue
			}
			o := bond.Other(a)
			if needs[o] && matched[o] < 0 {
				out = append(out, b)
			}
		}
		return out
	}

	steps := 0
	var solve func() bool
	solve = func() bool {
		steps++
		if steps > maxKekuleSteps {
			return false
		}
		best, bestBonds := -1, []int(nil)
		for i := 0; i < n; i++ {
			if !needs[i] || matched[i] >= 0 {
				continue
			}
			bonds := available(i)
			if best < 0 || len(bonds) < len(bestBonds) {
				best, bestBonds = i, bonds
				if len(bonds) == 0 {
					break
				}
			}
		}
		if best < 0 {
			return true
		}
		for _, b := range bestBonds {
			o := m.Bonds[b].Other(best)
			matched[best], matched[o] = b, b
			if solve() {
				return true
			}
			matched[best], matched[o] = -1, -1
		}
		return false
	}
	if !solve() {
		return &ParseError{SMILES: m.smiles, Pos: -1, Reason: "can't kekulize aromatic system"}
	}
	for i, b := range matched {
		if needs[i] && b >= 0 {
			m.Bonds[b].kekule = BondDouble
		}
	}
	return nil
}

// needsPiBond reports whether aromatic atom i needs a double bond to reach
// its smallest allowed valence.
func needsPiBond(m *Mol, i int) bool {
	a := &m.Atoms[i]
	allowed := a.Element.allowedValences(a.Charge)
	if len(allowed) == 0 {
		return false
	}
	base := a.ExplicitHs
	for _, b := range a.bonds {
		bond := &m.Bonds[b]
		if bond.Order == BondAromatic {
			base++
		} else {
			base += int(bond.Order)
		}
	}
	for _, v := range allowed {
		if v >= base {
			return base < v
		}
	}
	return false
}

// assignHydrogens sets implicit hydrogen counts on organic-subset atoms and
// checks bracket atoms against their allowed valences.
func assignHydrogens(m *Mol) error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		allowed := a.Element.allowedValences(a.Charge)
		ev := m.ExplicitValence(i)
		if a.Bracket {
			if len(allowed) > 0 && ev+a.ExplicitHs > allowed[len(allowed)-1] {
				return valenceError(m, i, ev+a.ExplicitHs)
			}
			continue
		}
		if len(allowed) == 0 {
			continue
		}
		assigned := false
		for _, v := range allowed {
			if v >= ev {
				a.ImplicitHs = v - ev
				assigned = true
				break
			}
		}
		if !assigned {
			return valenceError(m, i, ev)
		}
	}
	return nil
}

func valenceError(m *Mol, i, valence int) error {
	return &ParseError{
		SMILES: m.smiles,
		Pos:    -1,
		Reason: fmt.Sprintf("explicit valence %d for atom %d %s is greater than permitted", valence, i, m.Atoms[i].Symbol()),
	}
}
