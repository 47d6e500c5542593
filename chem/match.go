package chem

import "sort"

// maxMatches caps CountMatches the same way substructure counting is capped
// in common toolkits.
const maxMatches = 1000

// Matches reports whether p occurs anywhere in m.
func (p *Pattern) Matches(m *Mol) bool {
	found := false
	p.search(m, -1, func([]int) bool {
		found = true
		return false
	})
	return found
}

// MatchesAt reports whether p matches with its first query atom on atom i.
func (p *Pattern) MatchesAt(m *Mol, i int) bool {
	found := false
	p.search(m, i, func([]int) bool {
		found = true
		return false
	})
	return found
}

// FindMatches returns the matches of p in m with distinct atom sets. Each
// match maps query atom k to molecule atom match[k].
func (p *Pattern) FindMatches(m *Mol) [][]int {
	seen := make(map[string]bool)
	var out [][]int
	p.search(m, -1, func(mapping []int) bool {
		key := atomSetKey(mapping)
		if !seen[key] {
			seen[key] = true
			out = append(out, append([]int(nil), mapping...))
		}
		return len(out) < maxMatches
	})
	return out
}

// CountMatches returns the number of matches with distinct atom sets.
func (p *Pattern) CountMatches(m *Mol) int { return len(p.FindMatches(m)) }

func atomSetKey(mapping []int) string {
	sorted := append([]int(nil), mapping...)
	sort.Ints(sorted)
	return bondKey(sorted)
}

// search enumerates embeddings of p in m by backtracking in query order.
// Every query atom after a component root hangs off an earlier atom, so
// candidates come from the neighbors of an already mapped atom. visit
// returns false to stop the search.
func (p *Pattern) search(m *Mol, anchor int, visit func([]int) bool) {
	n := len(p.atoms)
	if n == 0 || len(m.Atoms) == 0 {
		return
	}
	mapping := make([]int, n)
	used := make([]bool, len(m.Atoms))

	var extend func(k int) bool
	extend = func(k int) bool {
		if k == n {
			return visit(mapping)
		}
		try := func(c int) bool {
			if used[c] || !p.atoms[k](m, c) || !p.closuresMatch(m, k, c, mapping) {
				return true
			}
			mapping[k] = c
			used[c] = true
			cont := extend(k + 1)
			used[c] = false
			return cont
		}
		if pb := p.parent[k]; pb >= 0 {
			qb := p.bonds[pb]
			from := mapping[qb.a]
			for _, b := range m.Atoms[from].bonds {
				if !qb.pred(m, b) {
					continue
				}
				if !try(m.Bonds[b].Other(from)) {
					return false
				}
			}
			return true
		}
		if k == 0 && anchor >= 0 {
			return try(anchor)
		}
		for c := range m.Atoms {
			if !try(c) {
				return false
			}
		}
		return true
	}
	extend(0)
}

// closuresMatch checks query bonds from atom k back to earlier query atoms
// other than the parent bond.
func (p *Pattern) closuresMatch(m *Mol, k, c int, mapping []int) bool {
	for _, bi := range p.adj[k] {
		if bi == p.parent[k] {
			continue
		}
		qb := p.bonds[bi]
		j := qb.a
		if j == k {
			j = qb.b
		}
		if j > k {
			continue
		}
		mb := m.BondBetween(c, mapping[j])
		if mb < 0 || !qb.pred(m, mb) {
			return false
		}
	}
	return true
}
