package chem

import "math"

// valenceDelta is the Kier-Hall valence delta (Zv - h) / (Z - Zv - 1).
func valenceDelta(m *Mol, i int) float64 {
	a := &m.Atoms[i]
	z := a.AtomicNum()
	zv := a.Element.Outer - a.Charge
	d := float64(zv - a.TotalHs())
	if den := z - zv - 1; den > 0 {
		d /= float64(den)
	}
	return d
}

// simpleDelta is the count of valence electrons not bound to hydrogen.
func simpleDelta(m *Mol, i int) float64 {
	a := &m.Atoms[i]
	return float64(a.Element.Outer - a.Charge - a.TotalHs())
}

// invSqrtDeltas returns 1/sqrt(delta) per atom, 0 for hydrogens and atoms
// whose delta is not positive.
func invSqrtDeltas(m *Mol, delta func(*Mol, int) float64) []float64 {
	out := make([]float64, len(m.Atoms))
	for i := range m.Atoms {
		if m.Atoms[i].AtomicNum() <= 1 {
			continue
		}
		if d := delta(m, i); d > 0 {
			out[i] = 1 / math.Sqrt(d)
		}
	}
	return out
}

// atomPaths calls fn for every simple path of exactly n bonds, each path
// reported once regardless of direction.
func atomPaths(m *Mol, n int, fn func(path []int)) {
	if n == 0 {
		for i := range m.Atoms {
			fn([]int{i})
		}
		return
	}
	path := make([]int, 0, n+1)
	onPath := make([]bool, len(m.Atoms))
	var walk func(a int)
	walk = func(a int) {
		path = append(path, a)
		onPath[a] = true
		if len(path) == n+1 {
			if path[0] < path[n] {
				fn(path)
			}
		} else {
			for _, nb := range m.Neighbors(a) {
				if !onPath[nb] {
					walk(nb)
				}
			}
		}
		onPath[a] = false
		path = path[:len(path)-1]
	}
	for i := range m.Atoms {
		walk(i)
	}
}

func countPaths(m *Mol, n int) int {
	c := 0
	atomPaths(m, n, func([]int) { c++ })
	return c
}

func chi(m *Mol, order int, delta func(*Mol, int) float64) float64 {
	d := invSqrtDeltas(m, delta)
	sum := 0.0
	atomPaths(m, order, func(path []int) {
		p := 1.0
		for _, a := range path {
			p *= d[a]
		}
		sum += p
	})
	return sum
}

func chiN(order int) func(*Mol) float64 {
	return func(m *Mol) float64 { return chi(m, order, simpleDelta) }
}

func chiV(order int) func(*Mol) float64 {
	return func(m *Mol) float64 { return chi(m, order, valenceDelta) }
}

// hallKierAlphas holds the per-hybridization corrections indexed by sp, sp2,
// sp3. Missing entries (NaN) fall back to the covalent radius ratio.
var hallKierAlphas = map[int][3]float64{
	6:  {-0.22, -0.13, 0},
	7:  {-0.29, -0.20, -0.04},
	8:  {math.NaN(), -0.20, -0.04},
	9:  {math.NaN(), math.NaN(), -0.07},
	15: {math.NaN(), 0.30, 0.43},
	16: {math.NaN(), 0.22, 0.35},
	17: {math.NaN(), math.NaN(), 0.29},
	35: {math.NaN(), math.NaN(), 0.48},
	53: {math.NaN(), math.NaN(), 0.73},
}

const carbonSP3Radius = 0.77

func hallKierAlpha(m *Mol) float64 {
	alpha := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.AtomicNum() == 1 {
			continue
		}
		v := math.NaN()
		if row, ok := hallKierAlphas[a.AtomicNum()]; ok {
			switch m.Hybridization(i) {
			case HybridSP:
				v = row[0]
			case HybridSP2:
				v = row[1]
			case HybridSP3:
				v = row[2]
			}
		}
		if math.IsNaN(v) {
			v = a.Element.CovalentRadius/carbonSP3Radius - 1
		}
		alpha += v
	}
	return alpha
}

func heavyAtomCount(m *Mol) int {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].AtomicNum() > 1 {
			n++
		}
	}
	return n
}

func kappa1(m *Mol) float64 {
	alpha := hallKierAlpha(m)
	p1 := float64(len(m.Bonds)) + alpha
	a := float64(heavyAtomCount(m)) + alpha
	if p1 == 0 {
		return 0
	}
	return a * (a - 1) * (a - 1) / (p1 * p1)
}

func kappa2(m *Mol) float64 {
	alpha := hallKierAlpha(m)
	p2 := float64(countPaths(m, 2)) + alpha
	a := float64(heavyAtomCount(m)) + alpha
	if p2 == 0 {
		return 0
	}
	return (a - 1) * (a - 2) * (a - 2) / (p2 * p2)
}

func kappa3(m *Mol) float64 {
	alpha := hallKierAlpha(m)
	p3 := float64(countPaths(m, 3)) + alpha
	n := heavyAtomCount(m)
	a := float64(n) + alpha
	if p3 == 0 {
		return 0
	}
	if n%2 == 1 {
		return (a - 1) * (a - 3) * (a - 3) / (p3 * p3)
	}
	return (a - 3) * (a - 2) * (a - 2) / (p3 * p3)
}
