package chem

// perceiveAromaticity sets the aromatic flags on atoms and bonds from the
// kekulized structure using Hückel's 4n+2 rule. Single SSSR rings are tried
// first, then envelopes of two rings fused on one bond (azulene), repeating
// until nothing changes so exocyclic double bonds into an aromatic ring can
// count.
func perceiveAromaticity(m *Mol) {
	aromatic := make([]bool, len(m.Atoms))
	ringDone := make([]bool, len(m.rings))
	inCycle := make([]bool, len(m.Atoms))

	check := func(atoms []int) bool {
		for _, a := range atoms {
			inCycle[a] = true
		}
		defer func() {
			for _, a := range atoms {
				inCycle[a] = false
			}
		}()
		total := 0
		for _, a := range atoms {
			e := piElectrons(m, a, inCycle, aromatic)
			if e < 0 {
				return false
			}
			total += e
		}
		return total%4 == 2
	}
	mark := func(atoms []int) {
		for _, a := range atoms {
			aromatic[a] = true
		}
	}

	for changed := true; changed; {
		changed = false
		for r, atoms := range m.rings {
			if ringDone[r] || !check(atoms) {
				continue
			}
			ringDone[r] = true
			mark(atoms)
			changed = true
		}
		if changed {
			continue
		}
		for r1 := range m.rings {
			for r2 := r1 + 1; r2 < len(m.rings); r2++ {
				if ringDone[r1] && ringDone[r2] {
					continue
				}
				env, ok := fusedEnvelope(m, r1, r2)
				if !ok || !check(env) {
					continue
				}
				ringDone[r1], ringDone[r2] = true, true
				mark(env)
				changed = true
			}
		}
	}

	for i := range m.Atoms {
		m.Atoms[i].Aromatic = aromatic[i]
	}
	for r, bonds := range m.ringBonds {
		if !ringDone[r] {
			continue
		}
		for _, b := range bonds {
			m.Bonds[b].Order = BondAromatic
		}
	}
	for b := range m.Bonds {
		bond := &m.Bonds[b]
		if bond.Order != BondAromatic {
			continue
		}
		if !aromatic[bond.Begin] || !aromatic[bond.End] || !inAromaticRing(m, b, ringDone) {
			bond.Order = bond.kekule
		}
	}
}

func inAromaticRing(m *Mol, bond int, ringDone []bool) bool {
	for r, bonds := range m.ringBonds {
		if !ringDone[r] {
			continue
		}
		for _, b := range bonds {
			if b == bond {
				return true
			}
		}
	}
	return false
}

// fusedEnvelope returns the atoms of two rings that share exactly one bond.
func fusedEnvelope(m *Mol, r1, r2 int) ([]int, bool) {
	shared := 0
	for _, b1 := range m.ringBonds[r1] {
		for _, b2 := range m.ringBonds[r2] {
			if b1 == b2 {
				shared++
			}
		}
	}
	if shared != 1 {
		return nil, false
	}
	seen := make(map[int]bool, len(m.rings[r1])+len(m.rings[r2]))
	var env []int
	for _, ring := range [][]int{m.rings[r1], m.rings[r2]} {
		for _, a := range ring {
			if !seen[a] {
				seen[a] = true
				env = append(env, a)
			}
		}
	}
	return env, true
}

// piElectrons returns the number of electrons atom i donates to the cycle
// marked in inCycle, or -1 when the atom breaks conjugation.
func piElectrons(m *Mol, i int, inCycle, aromatic []bool) int {
	a := &m.Atoms[i]
	double := -1
	for _, b := range a.bonds {
		switch m.Bonds[b].kekule {
		case BondTriple, BondQuadruple:
			return -1
		case BondDouble:
			if double >= 0 {
				return -1
			}
			double = m.Bonds[b].Other(i)
		}
	}
	z := a.AtomicNum()
	if double >= 0 {
		if inCycle[double] || aromatic[double] {
			return 1
		}
		switch m.Atoms[double].AtomicNum() {
		case 7, 8, 16:
			// exocyclic C=O, C=N, C=S: the ring atom's p orbital is empty
			return 0
		}
		return -1
	}
	degree := m.TotalDegree(i)
	switch z {
	case 6:
		switch a.Charge {
		case -1:
			return 2
		case 1:
			return 0
		}
		return -1
	case 5:
		if a.Charge == 0 && degree <= 3 {
			return 0
		}
		return -1
	case 7, 15, 33:
		if degree <= 3 && a.Charge <= 0 {
			return 2
		}
		return -1
	case 8, 16, 34, 52:
		if degree == 2 && a.Charge == 0 {
			return 2
		}
		return -1
	}
	return -1
}
