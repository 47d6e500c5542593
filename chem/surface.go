package chem

import "math"

// labuteRadii are the bond radii of Labute's surface model. Elements
// missing here fall back to their covalent radius.
var labuteRadii = map[int]float64{
	1: 0.33, 3: 1.23, 4: 0.90, 5: 0.82, 6: 0.77, 7: 0.70, 8: 0.66, 9: 0.611,
	11: 1.54, 12: 1.36, 13: 1.18, 14: 0.937, 15: 0.89, 16: 1.04, 17: 0.997,
	19: 2.03, 20: 1.74, 33: 1.21, 34: 1.17, 35: 1.141, 53: 1.333,
}

func labuteRadius(e *Element) float64 {
	if r, ok := labuteRadii[e.Number]; ok {
		return r
	}
	return e.CovalentRadius
}

// labuteBondShrink shortens the reference bond length by bond type.
func labuteBondShrink(b *Bond) float64 {
	switch {
	case b.IsAromatic():
		return 0.1
	case b.Order == BondDouble:
		return 0.2
	case b.Order == BondTriple:
		return 0.3
	}
	return 0
}

// labuteOverlap is the area of sphere i hidden by sphere j, divided by pi*ri.
// dij is clamped so the spheres neither nest nor separate.
func labuteOverlap(ri, rj, dij float64) float64 {
	dij = math.Min(math.Max(math.Abs(ri-rj), dij), ri+rj)
	if dij == 0 {
		return 0
	}
	return rj*rj - (ri-dij)*(ri-dij)/dij
}

// labuteASA is Labute's approximate surface area. Every heavy atom is
// treated as carrying exactly one hydrogen sphere, whatever its real
// hydrogen count, and all hydrogen spheres are pooled into one.
func labuteASA(m *Mol) float64 {
	h, _ := LookupElement("H")
	rh := labuteRadius(h)

	radii := make([]float64, len(m.Atoms))
	for i := range m.Atoms {
		radii[i] = labuteRadius(m.Atoms[i].Element)
	}
	hidden := make([]float64, len(m.Atoms))
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		ri, rj := radii[b.Begin], radii[b.End]
		dij := ri + rj - labuteBondShrink(b)
		hidden[b.Begin] += labuteOverlap(ri, rj, dij)
		hidden[b.End] += labuteOverlap(rj, ri, dij)
	}

	hHidden := 0.0
	total := 0.0
	for i, ri := range radii {
		hidden[i] += labuteOverlap(ri, rh, ri+rh)
		hHidden += labuteOverlap(rh, ri, ri+rh)
		total += math.Pi * ri * (4*ri - hidden[i])
	}
	if len(radii) > 0 {
		total += math.Pi * rh * (4*rh - hHidden)
	}
	return total
}

// polarContribution returns the Ertl TPSA contribution of a nitrogen or
// oxygen atom, keyed by charge, hydrogens and bond pattern.
func polarContribution(m *Mol, i int) float64 {
	a := &m.Atoms[i]
	var single, double, triple, arom int
	for _, b := range a.bonds {
		switch m.Bonds[b].Order {
		case BondSingle:
			single++
		case BondDouble:
			double++
		case BondTriple:
			triple++
		case BondAromatic:
			arom++
		}
	}
	hs := a.TotalHs()
	q := a.Charge
	in3 := m.inRingOfSize(i, 3)

	switch a.AtomicNum() {
	case 7:
		switch {
		case q == 0 && hs == 0 && single == 3 && arom == 0:
			if in3 {
				return 3.01
			}
			return 3.24
		case q == 0 && hs == 0 && single == 1 && double == 1:
			return 12.36
		case q == 0 && hs == 0 && triple == 1:
			return 23.79
		case q == 0 && hs == 0 && single == 1 && double == 2:
			return 11.68
		case q == 0 && hs == 0 && double == 1 && triple == 1:
			return 13.60
		case q == 0 && hs == 1 && single == 2:
			if in3 {
				return 21.94
			}
			return 12.03
		case q == 0 && hs == 1 && double == 1:
			return 23.85
		case q == 0 && hs == 2 && single == 1:
			return 26.02
		case q == 1 && hs == 0 && single == 4:
			return 0
		case q == 1 && hs == 0 && single == 2 && double == 1:
			return 3.01
		case q == 1 && hs == 0 && single == 1 && triple == 1:
			return 4.36
		case q == 1 && hs == 1 && single == 3:
			return 4.44
		case q == 1 && hs == 1 && single == 1 && double == 1:
			return 13.97
		case q == 1 && hs == 2 && single == 2:
			return 16.61
		case q == 1 && hs == 2 && double == 1:
			return 25.59
		case q == 1 && hs == 3 && single == 1:
			return 27.64
		case q == 0 && hs == 0 && arom == 2 && single == 0 && double == 0:
			return 12.89
		case q == 0 && hs == 0 && arom == 3:
			return 4.41
		case q == 0 && hs == 0 && arom == 2 && single == 1:
			return 4.93
		case q == 0 && hs == 0 && arom == 2 && double == 1:
			return 8.39
		case q == 0 && hs == 1 && arom == 2:
			return 15.79
		case q == 1 && hs == 0 && arom == 3:
			return 4.10
		case q == 1 && hs == 0 && arom == 2 && single == 1:
			return 3.88
		case q == 1 && hs == 1 && arom == 2:
			return 14.14
		}
		return nitrogenFallback(hs)
	case 8:
		switch {
		case q == 0 && hs == 0 && single == 2:
			if in3 {
				return 12.53
			}
			return 9.23
		case q == 0 && hs == 0 && double == 1:
			return 17.07
		case q == 0 && hs == 1 && single == 1:
			return 20.23
		case q == -1 && hs == 0 && single == 1:
			return 23.06
		case q == 0 && hs == 0 && arom == 2:
			return 13.14
		}
		if hs > 0 {
			return 20.23
		}
		return 9.23
	}
	return 0
}

func nitrogenFallback(hs int) float64 {
	switch hs {
	case 0:
		return 3.24
	case 1:
		return 12.03
	case 2:
		return 26.02
	default:
		return 27.64
	}
}

func tpsa(m *Mol) float64 {
	sum := 0.0
	for i := range m.Atoms {
		sum += polarContribution(m, i)
	}
	return sum
}
