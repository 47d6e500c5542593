package chem

// stereoCandidate reports whether atom i is a tetrahedral stereocenter: four
// connections (at most one hydrogen), not aromatic, and four substituents
// that are pairwise distinct by symmetry class.
func stereoCandidate(m *Mol, i int) bool {
	a := &m.Atoms[i]
	if a.Aromatic || m.TotalDegree(i) != 4 || a.TotalHs() > 1 {
		return false
	}
	switch a.AtomicNum() {
	case 6, 7, 14, 15, 16:
	default:
		return false
	}
	if a.AtomicNum() == 7 && a.Charge != 1 {
		return false
	}
	seen := make(map[int]bool, 4)
	for _, nb := range m.Neighbors(i) {
		r := m.ranks[nb]
		if seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

// StereoCenters returns the tetrahedral stereocenters of m and, for each,
// whether the SMILES specified its configuration.
func StereoCenters(m *Mol) (centers []int, specified []bool) {
	for i := range m.Atoms {
		if !stereoCandidate(m, i) {
			continue
		}
		centers = append(centers, i)
		specified = append(specified, m.Atoms[i].Chirality != ChiralNone)
	}
	return centers, specified
}

func numAtomStereoCenters(m *Mol) float64 {
	centers, _ := StereoCenters(m)
	return float64(len(centers))
}

func numUnspecifiedAtomStereoCenters(m *Mol) float64 {
	_, specified := StereoCenters(m)
	n := 0
	for _, s := range specified {
		if !s {
			n++
		}
	}
	return float64(n)
}
