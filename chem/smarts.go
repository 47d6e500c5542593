package chem

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSMARTS is the sentinel wrapped by SMARTS compile errors.
var ErrInvalidSMARTS = errors.New("invalid SMARTS")

type atomPred func(m *Mol, i int) bool

type bondPred func(m *Mol, b int) bool

type patternBond struct {
	a, b int
	pred bondPred
}

// Pattern is a compiled SMARTS query. It supports the subset of SMARTS used
// by structural keys and hydrogen-bond rules: element and aromaticity
// primitives, atomic number, H count, degree, connectivity, valence, charge,
// ring membership and size, recursive $(...) environments, logical
// operators, bond orders, ring bonds and ring closures.
type Pattern struct {
	src    string
	atoms  []atomPred
	bonds  []patternBond
	adj    [][]int // pattern bond indices per pattern atom
	parent []int   // bond linking atom k to an earlier atom, -1 for a component root
}

// String returns the SMARTS source.
func (p *Pattern) String() string { return p.src }

// NumAtoms returns the number of query atoms.
func (p *Pattern) NumAtoms() int { return len(p.atoms) }

// CompileSMARTS compiles a SMARTS string.
func CompileSMARTS(smarts string) (*Pattern, error) {
	c := &smartsCompiler{src: smarts, prev: -1, rings: make(map[int]smartsRing)}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return c.pat, nil
}

// MustCompileSMARTS is like CompileSMARTS but panics on error.
func MustCompileSMARTS(smarts string) *Pattern {
	p, err := CompileSMARTS(smarts)
	if err != nil {
		panic(err)
	}
	return p
}

type smartsRing struct {
	atom int
	pred bondPred
}

type smartsCompiler struct {
	src     string
	pos     int
	pat     *Pattern
	prev    int
	pending bondPred
	branch  []int
	rings   map[int]smartsRing
}

func (c *smartsCompiler) fail(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidSMARTS, "%q at position %d: %s", c.src, c.pos, fmt.Sprintf(format, args...))
}

func (c *smartsCompiler) compile() error {
	c.pat = &Pattern{src: c.src}
	if c.src == "" {
		return c.fail("empty pattern")
	}
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		switch {
		case ch == '(':
			if c.prev < 0 {
				return c.fail("branch without a preceding atom")
			}
			c.branch = append(c.branch, c.prev)
			c.pos++
		case ch == ')':
			if len(c.branch) == 0 {
				return c.fail("unbalanced ')'")
			}
			c.prev = c.branch[len(c.branch)-1]
			c.branch = c.branch[:len(c.branch)-1]
			c.pos++
		case ch == '.':
			c.prev = -1
			c.pos++
		case strings.IndexByte("-=#:~@!/\\", ch) >= 0:
			if c.prev < 0 {
				return c.fail("bond without a preceding atom")
			}
			pred, err := c.bondExpr()
			if err != nil {
				return err
			}
			c.pending = pred
		case isDigit(ch) || ch == '%':
			n := int(ch - '0')
			if ch == '%' {
				if c.pos+2 >= len(c.src) || !isDigit(c.src[c.pos+1]) || !isDigit(c.src[c.pos+2]) {
					return c.fail("'%%' must be followed by two digits")
				}
				n = int(c.src[c.pos+1]-'0')*10 + int(c.src[c.pos+2]-'0')
				c.pos += 2
			}
			c.pos++
			if err := c.ringClosure(n); err != nil {
				return err
			}
		case ch == '[':
			end := matchingBracket(c.src, c.pos)
			if end < 0 {
				return c.fail("unclosed '['")
			}
			body := c.src[c.pos+1 : end]
			ep := &exprParser{src: body}
			pred, err := ep.lowAnd()
			if err != nil {
				return c.fail("%v", err)
			}
			if ep.pos != len(body) {
				return c.fail("unexpected %q in bracket atom", body[ep.pos:])
			}
			c.pos = end + 1
			c.addAtom(pred)
		default:
			pred, n, ok := organicSMARTS(c.src[c.pos:])
			if !ok {
				return c.fail("unexpected character %q", ch)
			}
			c.pos += n
			c.addAtom(pred)
		}
	}
	if len(c.branch) > 0 {
		return c.fail("unclosed branch")
	}
	if len(c.rings) > 0 {
		return c.fail("unclosed ring")
	}
	return nil
}

func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (c *smartsCompiler) addAtom(pred atomPred) {
	p := c.pat
	idx := len(p.atoms)
	p.atoms = append(p.atoms, pred)
	p.adj = append(p.adj, nil)
	p.parent = append(p.parent, -1)
	if c.prev >= 0 {
		p.parent[idx] = c.addBond(c.prev, idx, c.pending)
	}
	c.pending = nil
	c.prev = idx
}

func (c *smartsCompiler) addBond(a, b int, pred bondPred) int {
	if pred == nil {
		pred = defaultBond
	}
	p := c.pat
	bi := len(p.bonds)
	p.bonds = append(p.bonds, patternBond{a: a, b: b, pred: pred})
	p.adj[a] = append(p.adj[a], bi)
	p.adj[b] = append(p.adj[b], bi)
	return bi
}

func (c *smartsCompiler) ringClosure(n int) error {
	if c.prev < 0 {
		return c.fail("ring bond without a preceding atom")
	}
	open, ok := c.rings[n]
	if !ok {
		c.rings[n] = smartsRing{atom: c.prev, pred: c.pending}
		c.pending = nil
		return nil
	}
	delete(c.rings, n)
	pred := c.pending
	if pred == nil {
		pred = open.pred
	}
	c.addBond(open.atom, c.prev, pred)
	c.pending = nil
	return nil
}

// bondExpr parses a bond expression such as "=", "!@", "=;@" or "!:".
func (c *smartsCompiler) bondExpr() (bondPred, error) {
	start := c.pos
	for c.pos < len(c.src) && strings.IndexByte("-=#:~@!/\\&,;", c.src[c.pos]) >= 0 {
		c.pos++
	}
	ep := &exprParser{src: c.src[start:c.pos]}
	pred, err := ep.bondLowAnd()
	if err != nil {
		return nil, c.fail("%v", err)
	}
	return pred, nil
}

func defaultBond(m *Mol, b int) bool {
	o := m.Bonds[b].Order
	return o == BondSingle || o == BondAromatic
}

// organicSMARTS parses an unbracketed SMARTS atom.
func organicSMARTS(s string) (atomPred, int, bool) {
	switch {
	case strings.HasPrefix(s, "Cl"):
		return elementPred(17, aliphaticOnly), 2, true
	case strings.HasPrefix(s, "Br"):
		return elementPred(35, aliphaticOnly), 2, true
	}
	switch s[0] {
	case '*':
		return anyAtom, 1, true
	case 'a':
		return isAromaticAtom, 1, true
	case 'A':
		return isAliphaticAtom, 1, true
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		el, _ := LookupElement(s[:1])
		return elementPred(el.Number, aliphaticOnly), 1, true
	case 'b', 'c', 'n', 'o', 'p', 's':
		el, _ := LookupElement(strings.ToUpper(s[:1]))
		return elementPred(el.Number, aromaticOnly), 1, true
	}
	return nil, 0, false
}

type aromaticity uint8

const (
	eitherAromaticity aromaticity = iota
	aliphaticOnly
	aromaticOnly
)

func anyAtom(*Mol, int) bool { return true }

func isAromaticAtom(m *Mol, i int) bool { return m.Atoms[i].Aromatic }

func isAliphaticAtom(m *Mol, i int) bool { return !m.Atoms[i].Aromatic }

func elementPred(z int, arom aromaticity) atomPred {
	return func(m *Mol, i int) bool {
		a := &m.Atoms[i]
		if a.AtomicNum() != z {
			return false
		}
		switch arom {
		case aliphaticOnly:
			return !a.Aromatic
		case aromaticOnly:
			return a.Aromatic
		}
		return true
	}
}

// exprParser parses bracket atom expressions and bond expressions with the
// SMARTS operator precedence: '!' binds tightest, then '&' (or implicit
// conjunction), then ',', then ';'.
type exprParser struct {
	src string
	pos int
}

func (e *exprParser) peek() byte {
	if e.pos < len(e.src) {
		return e.src[e.pos]
	}
	return 0
}

func (e *exprParser) lowAnd() (atomPred, error) {
	left, err := e.or()
	if err != nil {
		return nil, err
	}
	for e.peek() == ';' {
		e.pos++
		right, err := e.or()
		if err != nil {
			return nil, err
		}
		left = andAtom(left, right)
	}
	return left, nil
}

func (e *exprParser) or() (atomPred, error) {
	left, err := e.highAnd()
	if err != nil {
		return nil, err
	}
	for e.peek() == ',' {
		e.pos++
		right, err := e.highAnd()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(m *Mol, i int) bool { return l(m, i) || r(m, i) }
	}
	return left, nil
}

func (e *exprParser) highAnd() (atomPred, error) {
	left, err := e.not()
	if err != nil {
		return nil, err
	}
	for {
		ch := e.peek()
		if ch == '&' {
			e.pos++
		} else if ch == 0 || ch == ';' || ch == ',' {
			return left, nil
		}
		right, err := e.not()
		if err != nil {
			return nil, err
		}
		left = andAtom(left, right)
	}
}

func andAtom(l, r atomPred) atomPred {
	return func(m *Mol, i int) bool { return l(m, i) && r(m, i) }
}

func (e *exprParser) not() (atomPred, error) {
	if e.peek() == '!' {
		e.pos++
		inner, err := e.not()
		if err != nil {
			return nil, err
		}
		return func(m *Mol, i int) bool { return !inner(m, i) }, nil
	}
	return e.primitive()
}

func (e *exprParser) number(def int) int {
	start := e.pos
	n := 0
	for e.pos < len(e.src) && isDigit(e.src[e.pos]) {
		n = n*10 + int(e.src[e.pos]-'0')
		e.pos++
	}
	if e.pos == start {
		return def
	}
	return n
}

func (e *exprParser) hasNumber() bool { return isDigit(e.peek()) }

func (e *exprParser) primitive() (atomPred, error) {
	if e.pos >= len(e.src) {
		return nil, errors.New("missing atom primitive")
	}
	ch := e.src[e.pos]
	rest := e.src[e.pos:]

	if strings.HasPrefix(rest, "$(") {
		depth, end := 0, -1
		for i := e.pos + 1; i < len(e.src); i++ {
			if e.src[i] == '(' {
				depth++
			} else if e.src[i] == ')' {
				depth--
				if depth == 0 {
					end = i
					break
				}
			}
		}
		if end < 0 {
			return nil, errors.New("unclosed recursive SMARTS")
		}
		sub, err := CompileSMARTS(e.src[e.pos+2 : end])
		if err != nil {
			return nil, err
		}
		e.pos = end + 1
		return func(m *Mol, i int) bool { return sub.MatchesAt(m, i) }, nil
	}

	// Two-letter element symbols win over single-letter primitives.
	if ch >= 'A' && ch <= 'Z' && e.pos+1 < len(e.src) {
		if z, ok := symbolNumber(rest[:2]); ok {
			e.pos += 2
			return elementPred(z, aliphaticOnly), nil
		}
	}

	switch ch {
	case '*':
		e.pos++
		return anyAtom, nil
	case 'a':
		e.pos++
		return isAromaticAtom, nil
	case 'A':
		e.pos++
		return isAliphaticAtom, nil
	case '#':
		e.pos++
		if !e.hasNumber() {
			return nil, errors.New("'#' without atomic number")
		}
		z := e.number(0)
		return elementPred(z, eitherAromaticity), nil
	case 'H':
		e.pos++
		n := e.number(1)
		return func(m *Mol, i int) bool { return m.Atoms[i].TotalHs() == n }, nil
	case 'D':
		e.pos++
		n := e.number(1)
		return func(m *Mol, i int) bool { return m.Degree(i) == n }, nil
	case 'X':
		e.pos++
		n := e.number(1)
		return func(m *Mol, i int) bool { return m.TotalDegree(i) == n }, nil
	case 'v':
		e.pos++
		n := e.number(1)
		return func(m *Mol, i int) bool { return m.TotalValence(i) == n }, nil
	case 'R':
		e.pos++
		if !e.hasNumber() {
			return func(m *Mol, i int) bool { return m.IsAtomInRing(i) }, nil
		}
		n := e.number(0)
		return func(m *Mol, i int) bool { return m.NumAtomRings(i) == n }, nil
	case 'r':
		e.pos++
		if !e.hasNumber() {
			return func(m *Mol, i int) bool { return m.IsAtomInRing(i) }, nil
		}
		n := e.number(0)
		return func(m *Mol, i int) bool { return m.inRingOfSize(i, n) }, nil
	case 'x':
		e.pos++
		n := e.number(1)
		return func(m *Mol, i int) bool { return m.ringConnectivity(i) == n }, nil
	case '+', '-':
		sign := 1
		if ch == '-' {
			sign = -1
		}
		e.pos++
		var n int
		if e.hasNumber() {
			n = e.number(0)
		} else {
			n = 1
			for e.peek() == ch {
				n++
				e.pos++
			}
		}
		charge := sign * n
		return func(m *Mol, i int) bool { return m.Atoms[i].Charge == charge }, nil
	case '@':
		// Chirality never constrains these queries.
		for e.peek() == '@' {
			e.pos++
		}
		return anyAtom, nil
	}

	if ch >= 'A' && ch <= 'Z' {
		if z, ok := symbolNumber(rest[:1]); ok {
			e.pos++
			return elementPred(z, aliphaticOnly), nil
		}
	}
	if ch >= 'a' && ch <= 'z' {
		for _, sym := range []string{"se", "as", "te"} {
			if strings.HasPrefix(rest, sym) {
				z, _ := symbolNumber(strings.ToUpper(sym[:1]) + sym[1:])
				e.pos += 2
				return elementPred(z, aromaticOnly), nil
			}
		}
		if s, ok := aromaticOrganic[ch]; ok {
			z, _ := symbolNumber(s)
			e.pos++
			return elementPred(z, aromaticOnly), nil
		}
	}
	return nil, errors.Newf("unknown atom primitive %q", ch)
}

func (e *exprParser) bondLowAnd() (bondPred, error) {
	left, err := e.bondOr()
	if err != nil {
		return nil, err
	}
	for e.peek() == ';' {
		e.pos++
		right, err := e.bondOr()
		if err != nil {
			return nil, err
		}
		left = andBond(left, right)
	}
	return left, nil
}

func (e *exprParser) bondOr() (bondPred, error) {
	left, err := e.bondHighAnd()
	if err != nil {
		return nil, err
	}
	for e.peek() == ',' {
		e.pos++
		right, err := e.bondHighAnd()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(m *Mol, b int) bool { return l(m, b) || r(m, b) }
	}
	return left, nil
}

func (e *exprParser) bondHighAnd() (bondPred, error) {
	left, err := e.bondNot()
	if err != nil {
		return nil, err
	}
	for {
		ch := e.peek()
		if ch == '&' {
			e.pos++
		} else if ch == 0 || ch == ';' || ch == ',' {
			return left, nil
		}
		right, err := e.bondNot()
		if err != nil {
			return nil, err
		}
		left = andBond(left, right)
	}
}

func andBond(l, r bondPred) bondPred {
	return func(m *Mol, b int) bool { return l(m, b) && r(m, b) }
}

func (e *exprParser) bondNot() (bondPred, error) {
	if e.peek() == '!' {
		e.pos++
		inner, err := e.bondNot()
		if err != nil {
			return nil, err
		}
		return func(m *Mol, b int) bool { return !inner(m, b) }, nil
	}
	if e.pos >= len(e.src) {
		return nil, errors.New("missing bond primitive")
	}
	ch := e.src[e.pos]
	e.pos++
	switch ch {
	case '-', '/', '\\':
		return orderPred(BondSingle), nil
	case '=':
		return orderPred(BondDouble), nil
	case '#':
		return orderPred(BondTriple), nil
	case ':':
		return orderPred(BondAromatic), nil
	case '~':
		return func(*Mol, int) bool { return true }, nil
	case '@':
		return func(m *Mol, b int) bool { return m.IsBondInRing(b) }, nil
	}
	return nil, errors.Newf("unknown bond primitive %q", ch)
}

func orderPred(o BondOrder) bondPred {
	return func(m *Mol, b int) bool { return m.Bonds[b].Order == o }
}

func (m *Mol) inRingOfSize(i, size int) bool {
	for _, ring := range m.rings {
		if len(ring) != size {
			continue
		}
		for _, a := range ring {
			if a == i {
				return true
			}
		}
	}
	return false
}

func (m *Mol) ringConnectivity(i int) int {
	n := 0
	for _, b := range m.Atoms[i].bonds {
		if m.IsBondInRing(b) {
			n++
		}
	}
	return n
}
