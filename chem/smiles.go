package chem

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSMILES is the sentinel wrapped by every *ParseError.
var ErrInvalidSMILES = errors.New("invalid SMILES")

// ParseError reports why a SMILES string could not be turned into a Mol.
type ParseError struct {
	SMILES string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("invalid SMILES %q at position %d: %s", e.SMILES, e.Pos, e.Reason)
	}
	return fmt.Sprintf("invalid SMILES %q: %s", e.SMILES, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidSMILES }

type ringOpening struct {
	atom  int
	order BondOrder // 0 when unspecified
	pos   int
}

type smilesParser struct {
	src     string
	pos     int
	mol     *Mol
	prev    int
	pending BondOrder
	branch  []int
	rings   map[int]ringOpening
}

// ParseSMILES parses a SMILES string into a Mol. The returned molecule has
// implicit hydrogens assigned, rings perceived and aromaticity set.
//
// The empty string yields an empty molecule, not an error.
func ParseSMILES(smiles string) (*Mol, error) {
	p := &smilesParser{
		src:   smiles,
		mol:   &Mol{smiles: smiles},
		prev:  -1,
		rings: make(map[int]ringOpening),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	m := p.mol
	perceiveRings(m)
	if err := clearNonRingAromaticBonds(m); err != nil {
		return nil, err
	}
	if err := kekulize(m); err != nil {
		return nil, err
	}
	if err := assignHydrogens(m); err != nil {
		return nil, err
	}
	perceiveAromaticity(m)
	m.ranks = symmetryClasses(m)
	return m, nil
}

// MustParseSMILES is like ParseSMILES but panics on error. Intended for
// tests and package-level fixtures.
func MustParseSMILES(smiles string) *Mol {
	m, err := ParseSMILES(smiles)
	if err != nil {
		panic(err)
	}
	return m
}

func (p *smilesParser) fail(pos int, format string, args ...any) error {
	return &ParseError{SMILES: p.src, Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' {
			// Anything after whitespace is a title.
			break
		}
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail(p.pos, "branch without a preceding atom")
			}
			if p.pending != 0 {
				return p.fail(p.pos, "bond before branch")
			}
			p.branch = append(p.branch, p.prev)
			p.pos++
		case c == ')':
			if len(p.branch) == 0 {
				return p.fail(p.pos, "unbalanced ')'")
			}
			if p.pending != 0 {
				return p.fail(p.pos, "dangling bond before ')'")
			}
			p.prev = p.branch[len(p.branch)-1]
			p.branch = p.branch[:len(p.branch)-1]
			p.pos++
		case c == '.':
			if p.pending != 0 {
				return p.fail(p.pos, "bond before '.'")
			}
			p.prev = -1
			p.pos++
		case isBondChar(c):
			if p.pending != 0 {
				return p.fail(p.pos, "two consecutive bonds")
			}
			if p.prev < 0 {
				return p.fail(p.pos, "bond without a preceding atom")
			}
			p.pending = bondFromChar(c)
			p.pos++
		case c >= '0' && c <= '9':
			if err := p.ringClosure(int(c-'0'), p.pos); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			start := p.pos
			if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
				return p.fail(start, "'%%' must be followed by two digits")
			}
			n := int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
			if err := p.ringClosure(n, start); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}
	if p.pending != 0 {
		return p.fail(len(p.src), "dangling bond at end of input")
	}
	if len(p.branch) > 0 {
		return p.fail(len(p.src), "unclosed branch")
	}
	for n, open := range p.rings {
		return p.fail(open.pos, "unclosed ring %d", n)
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBondChar(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

func bondFromChar(c byte) BondOrder {
	switch c {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	default:
		// '-', '/' and '\' are all single bonds; directional bonds only
		// carry double-bond geometry, which no feature here uses.
		return BondSingle
	}
}

func (p *smilesParser) defaultOrder(a, b int) BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func (p *smilesParser) ringClosure(n, pos int) error {
	if p.prev < 0 {
		return p.fail(pos, "ring bond without a preceding atom")
	}
	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringOpening{atom: p.prev, order: p.pending, pos: pos}
		p.pending = 0
		return nil
	}
	delete(p.rings, n)
	if open.atom == p.prev {
		return p.fail(pos, "ring %d closes on itself", n)
	}
	if p.mol.BondBetween(open.atom, p.prev) >= 0 {
		return p.fail(pos, "duplicate bond via ring %d", n)
	}
	order := p.pending
	switch {
	case order == 0:
		order = open.order
	case open.order != 0 && open.order != order:
		return p.fail(pos, "conflicting bond orders for ring %d", n)
	}
	if order == 0 {
		order = p.defaultOrder(open.atom, p.prev)
	}
	p.mol.addBond(open.atom, p.prev, order)
	p.pending = 0
	return nil
}

func (p *smilesParser) attach(atom Atom) {
	m := p.mol
	idx := len(m.Atoms)
	m.Atoms = append(m.Atoms, atom)
	if p.prev >= 0 {
		order := p.pending
		if order == 0 {
			order = p.defaultOrder(p.prev, idx)
		}
		m.addBond(p.prev, idx, order)
	}
	p.pending = 0
	p.prev = idx
}

var aromaticOrganic = map[byte]string{'b': "B", 'c': "C", 'n': "N", 'o': "O", 'p': "P", 's': "S"}

func (p *smilesParser) organicAtom() error {
	start := p.pos
	rest := p.src[p.pos:]
	var sym string
	aromatic := false
	switch {
	case strings.HasPrefix(rest, "Cl"):
		sym = "Cl"
	case strings.HasPrefix(rest, "Br"):
		sym = "Br"
	default:
		c := rest[0]
		switch c {
		case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
			sym = string(c)
		case '*':
			sym = "*"
		default:
			s, ok := aromaticOrganic[c]
			if !ok {
				return p.fail(start, "unexpected character %q", c)
			}
			sym, aromatic = s, true
		}
	}
	el, _ := LookupElement(sym)
	p.pos += len(sym)
	p.attach(Atom{Element: el, Aromatic: aromatic})
	return nil
}

func (p *smilesParser) bracketAtom() error {
	start := p.pos
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return p.fail(start, "unclosed bracket atom")
	}
	body := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1

	i := 0
	readInt := func() (int, bool) {
		j := i
		for j < len(body) && isDigit(body[j]) {
			j++
		}
		if j == i {
			return 0, false
		}
		n := 0
		for _, d := range body[i:j] {
			n = n*10 + int(d-'0')
		}
		i = j
		return n, true
	}

	atom := Atom{Bracket: true}
	if iso, ok := readInt(); ok {
		atom.Isotope = iso
	}

	if i >= len(body) {
		return p.fail(start, "missing element symbol")
	}
	switch {
	case body[i] == '*':
		atom.Element, _ = LookupElement("*")
		i++
	case body[i] >= 'A' && body[i] <= 'Z':
		sym := body[i : i+1]
		if i+1 < len(body) && body[i+1] >= 'a' && body[i+1] <= 'z' {
			if _, ok := LookupElement(body[i : i+2]); ok {
				sym = body[i : i+2]
			}
		}
		el, ok := LookupElement(sym)
		if !ok {
			return p.fail(start, "unknown element %q", sym)
		}
		atom.Element = el
		i += len(sym)
	case body[i] >= 'a' && body[i] <= 'z':
		if strings.HasPrefix(body[i:], "se") || strings.HasPrefix(body[i:], "as") || strings.HasPrefix(body[i:], "te") {
			el, _ := LookupElement(strings.ToUpper(body[i:i+1]) + body[i+1:i+2])
			atom.Element = el
			i += 2
		} else {
			sym, ok := aromaticOrganic[body[i]]
			if !ok {
				return p.fail(start, "unknown aromatic element %q", body[i])
			}
			atom.Element, _ = LookupElement(sym)
			i++
		}
		atom.Aromatic = true
	default:
		return p.fail(start, "missing element symbol")
	}

	if i < len(body) && body[i] == '@' {
		atom.Chirality = ChiralCCW
		i++
		if i < len(body) && body[i] == '@' {
			atom.Chirality = ChiralCW
			i++
		}
		// Extended classes (@TH1, @SP2, ...) are accepted and treated as @.
		for i < len(body) && body[i] >= 'A' && body[i] <= 'Z' && body[i] != 'H' {
			i++
		}
		readInt()
	}

	if i < len(body) && body[i] == 'H' {
		i++
		if n, ok := readInt(); ok {
			atom.ExplicitHs = n
		} else {
			atom.ExplicitHs = 1
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		c := body[i]
		i++
		if n, ok := readInt(); ok {
			atom.Charge = sign * n
		} else {
			atom.Charge = sign
			for i < len(body) && body[i] == c {
				atom.Charge += sign
				i++
			}
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		if _, ok := readInt(); !ok {
			return p.fail(start, "atom class without digits")
		}
	}

	if i != len(body) {
		return p.fail(start, "unexpected %q in bracket atom", body[i:])
	}
	p.attach(atom)
	return nil
}
