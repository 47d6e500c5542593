package chem

import "strings"

// Element holds the periodic-table data the toolkit needs.
type Element struct {
	Symbol    string
	Number    int
	Mass      float64 // standard atomic weight
	ExactMass float64 // mass of the most abundant isotope
	Outer     int     // outer shell electrons
	// Valences lists the allowed total valences of the neutral atom, smallest
	// first. A nil slice disables valence checking and implicit hydrogens.
	Valences []int
	// CovalentRadius is the single-bond covalent radius.
	CovalentRadius float64
}

var elements = []Element{
	{"*", 0, 0, 0, 0, nil, 0},
	{"H", 1, 1.008, 1.0078250319, 1, []int{1}, 0.31},
	{"He", 2, 4.002602, 4.0026032, 2, []int{0}, 0.28},
	{"Li", 3, 6.941, 7.016004, 1, []int{1}, 1.28},
	{"Be", 4, 9.012182, 9.0121821, 2, []int{2}, 0.96},
	{"B", 5, 10.811, 11.0093055, 3, []int{3}, 0.84},
	{"C", 6, 12.011, 12.0, 4, []int{4}, 0.77},
	{"N", 7, 14.007, 14.0030740052, 5, []int{3}, 0.70},
	{"O", 8, 15.999, 15.9949146221, 6, []int{2}, 0.66},
	{"F", 9, 18.9984032, 18.9984032, 7, []int{1}, 0.64},
	{"Ne", 10, 20.1797, 19.9924401759, 8, []int{0}, 0.58},
	{"Na", 11, 22.98977, 22.98976966, 1, []int{1}, 1.66},
	{"Mg", 12, 24.305, 23.98504187, 2, []int{2}, 1.41},
	{"Al", 13, 26.981538, 26.98153841, 3, []int{3}, 1.21},
	{"Si", 14, 28.0855, 27.97692649, 4, []int{4}, 1.17},
	{"P", 15, 30.973761, 30.97376151, 5, []int{3, 5}, 1.10},
	{"S", 16, 32.065, 31.97207069, 6, []int{2, 4, 6}, 1.04},
	{"Cl", 17, 35.453, 34.96885271, 7, []int{1}, 0.99},
	{"Ar", 18, 39.948, 39.962383, 8, []int{0}, 1.06},
	{"K", 19, 39.0983, 38.9637069, 1, []int{1}, 2.03},
	{"Ca", 20, 40.078, 39.9625912, 2, []int{2}, 1.76},
	{"Sc", 21, 44.95591, 44.9559102, 3, nil, 1.70},
	{"Ti", 22, 47.867, 47.9479471, 4, nil, 1.60},
	{"V", 23, 50.9415, 50.9439637, 5, nil, 1.53},
	{"Cr", 24, 51.9961, 51.9405119, 6, nil, 1.39},
	{"Mn", 25, 54.938049, 54.9380496, 7, nil, 1.39},
	{"Fe", 26, 55.845, 55.9349421, 8, nil, 1.32},
	{"Co", 27, 58.9332, 58.9332002, 9, nil, 1.26},
	{"Ni", 28, 58.6934, 57.9353479, 10, nil, 1.24},
	{"Cu", 29, 63.546, 62.9296011, 11, nil, 1.32},
	{"Zn", 30, 65.39, 63.9291466, 2, nil, 1.22},
	{"Ga", 31, 69.723, 68.925581, 3, []int{3}, 1.22},
	{"Ge", 32, 72.64, 73.9211782, 4, []int{4}, 1.20},
	{"As", 33, 74.9216, 74.9215964, 5, []int{3, 5}, 1.19},
	{"Se", 34, 78.96, 79.9165218, 6, []int{2, 4, 6}, 1.20},
	{"Br", 35, 79.904, 78.9183376, 7, []int{1}, 1.14},
	{"Kr", 36, 83.8, 83.911507, 8, []int{0}, 1.16},
	{"Rb", 37, 85.4678, 84.9117893, 1, []int{1}, 2.20},
	{"Sr", 38, 87.62, 87.9056143, 2, []int{2}, 1.95},
	{"Y", 39, 88.90585, 88.9058479, 3, nil, 1.90},
	{"Zr", 40, 91.224, 89.9047037, 4, nil, 1.75},
	{"Nb", 41, 92.90638, 92.9063775, 5, nil, 1.64},
	{"Mo", 42, 95.94, 97.9054078, 6, nil, 1.54},
	{"Tc", 43, 98, 97.907216, 7, nil, 1.47},
	{"Ru", 44, 101.07, 101.9043495, 8, nil, 1.46},
	{"Rh", 45, 102.9055, 102.905504, 9, nil, 1.42},
	{"Pd", 46, 106.42, 105.903483, 10, nil, 1.39},
	{"Ag", 47, 107.8682, 106.905093, 11, nil, 1.45},
	{"Cd", 48, 112.411, 113.903357, 2, nil, 1.44},
	{"In", 49, 114.818, 114.903878, 3, []int{3}, 1.42},
	{"Sn", 50, 118.71, 119.9021966, 4, []int{2, 4}, 1.39},
	{"Sb", 51, 121.76, 120.903818, 5, []int{3, 5}, 1.39},
	{"Te", 52, 127.6, 129.9062228, 6, []int{2, 4, 6}, 1.38},
	{"I", 53, 126.90447, 126.904468, 7, []int{1, 3, 5}, 1.33},
	{"Xe", 54, 131.293, 131.904154, 8, []int{0, 2, 4, 6}, 1.40},
	{"Cs", 55, 132.90545, 132.905447, 1, []int{1}, 2.44},
	{"Ba", 56, 137.327, 137.905241, 2, []int{2}, 2.15},
	{"La", 57, 138.9055, 138.906348, 3, nil, 2.07},
	{"Gd", 64, 157.25, 157.924101, 3, nil, 1.96},
	{"Lu", 71, 174.967, 174.9407679, 3, nil, 1.87},
	{"Hf", 72, 178.49, 179.9465488, 4, nil, 1.75},
	{"Ta", 73, 180.9479, 180.947996, 5, nil, 1.70},
	{"W", 74, 183.84, 183.9509326, 6, nil, 1.62},
	{"Re", 75, 186.207, 186.9557508, 7, nil, 1.51},
	{"Os", 76, 190.23, 191.961479, 8, nil, 1.44},
	{"Ir", 77, 192.217, 192.962924, 9, nil, 1.41},
	{"Pt", 78, 195.078, 194.964774, 10, nil, 1.36},
	{"Au", 79, 196.96655, 196.966552, 11, nil, 1.36},
	{"Hg", 80, 200.59, 201.970626, 2, nil, 1.32},
	{"Tl", 81, 204.3833, 204.974412, 3, []int{1, 3}, 1.45},
	{"Pb", 82, 207.2, 207.976636, 4, []int{2, 4}, 1.46},
	{"Bi", 83, 208.98038, 208.980383, 5, []int{3, 5}, 1.48},
	{"Po", 84, 209, 208.9824158, 6, []int{2, 4, 6}, 1.40},
	{"At", 85, 210, 209.987131, 7, []int{1}, 1.50},
	{"Rn", 86, 222, 222.0175705, 8, []int{0}, 1.50},
	{"Fr", 87, 223, 223.0197307, 1, []int{1}, 2.60},
	{"Ra", 88, 226, 226.0254026, 2, []int{2}, 2.21},
	{"Ac", 89, 227, 227.027747, 3, nil, 2.15},
	{"Th", 90, 232.0381, 232.0380495, 4, nil, 2.06},
	{"U", 92, 238.02891, 238.0507826, 6, nil, 1.96},
}

var (
	elementsBySymbol = make(map[string]*Element, len(elements))
	elementsByNumber = make(map[int]*Element, len(elements))
)

func init() {
	for i := range elements {
		e := &elements[i]
		elementsBySymbol[e.Symbol] = e
		elementsByNumber[e.Number] = e
	}
}

// LookupElement returns the element with the given symbol.
func LookupElement(symbol string) (*Element, bool) {
	e, ok := elementsBySymbol[symbol]
	return e, ok
}

// ElementByNumber returns the element with the given atomic number.
func ElementByNumber(z int) (*Element, bool) {
	e, ok := elementsByNumber[z]
	return e, ok
}

// mainGroup reports whether valences follow the octet rule and shift with
// formal charge (isoelectronic substitution).
func (e *Element) mainGroup() bool {
	switch e.Number {
	case 5, 6, 7, 8, 9, 14, 15, 16, 17, 33, 34, 35, 52, 53:
		return true
	}
	return false
}

// allowedValences returns the allowed valences for the element carrying the
// given formal charge, or nil when the toolkit does not check valence.
func (e *Element) allowedValences(charge int) []int {
	if charge == 0 || e.Number == 0 {
		return e.Valences
	}
	if e.Number == 1 {
		return []int{0}
	}
	if !e.mainGroup() {
		return nil
	}
	period2 := e.Number <= 10
	switch e.Outer - charge {
	case 2:
		return []int{2}
	case 3:
		return []int{3}
	case 4:
		return []int{4}
	case 5:
		if period2 {
			return []int{3}
		}
		return []int{3, 5}
	case 6:
		if period2 {
			return []int{2}
		}
		return []int{2, 4, 6}
	case 7:
		return []int{1}
	case 8:
		return []int{0}
	}
	return nil
}

// isotopeMasses lists exact masses for isotopes commonly written in SMILES.
var isotopeMasses = map[[2]int]float64{
	{1, 2}:    2.0141017778,
	{1, 3}:    3.0160492777,
	{6, 13}:   13.0033548378,
	{6, 14}:   14.003241989,
	{7, 15}:   15.0001088982,
	{8, 17}:   16.99913170,
	{8, 18}:   17.9991610,
	{9, 18}:   18.0009380,
	{15, 32}:  31.97390727,
	{16, 34}:  33.96786690,
	{17, 37}:  36.96590259,
	{35, 81}:  80.9162906,
	{53, 125}: 124.9046302,
	{53, 131}: 130.9061246,
}

func isotopeMass(z, isotope int) float64 {
	if m, ok := isotopeMasses[[2]int{z, isotope}]; ok {
		return m
	}
	return float64(isotope)
}

var periodicSymbols = strings.Fields(`* H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca Sc Ti V Cr Mn Fe Co
Ni Cu Zn Ga Ge As Se Br Kr Rb Sr Y Zr Nb Mo Tc Ru Rh Pd Ag Cd In Sn Sb Te I Xe Cs Ba La Ce Pr Nd
Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W Re Os Ir Pt Au Hg Tl Pb Bi Po At Rn Fr Ra Ac Th Pa U Np
Pu Am Cm Bk Cf Es Fm Md No Lr Rf Db Sg Bh Hs Mt Ds Rg Cn Nh Fl Mc Lv Ts Og`)

// symbolNumber maps any periodic-table symbol to its atomic number, including
// elements the toolkit has no property data for.
func symbolNumber(symbol string) (int, bool) {
	for z, s := range periodicSymbols {
		if s == symbol {
			return z, true
		}
	}
	return 0, false
}
