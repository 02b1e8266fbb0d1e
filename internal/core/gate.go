package core

// Gate implements spec.md §4.9's discovered-structure record: the set of
// clauses that together encode pivot ≡ <boolean function of the marked
// variables>, found instead of having bve.go try every resolvent pair.
type Gate struct {
	Kind    string // "equiv", "and", "ite", "xor"
	Pivot   Var
	Clauses []ClauseRef
}

// occurrences is the per-literal clause index bve.go builds once per
// elimination round and gate extraction reads; it is never mutated by
// the extractor itself.
type occurrences map[Lit][]ClauseRef

// reducedLits returns c's literals with root-falsified ones dropped, and
// whether c is already satisfied at the root (spec.md §4.9's "after
// dropping false literals").
func (s *Solver) reducedLits(c *Clause) (lits []Lit, satisfied bool) {
	out := make([]Lit, 0, len(c.Lits))
	for _, l := range c.Lits {
		switch {
		case s.Vars.Value(l) > 0:
			return nil, true
		case s.Vars.Value(l) < 0:
			continue
		default:
			out = append(out, l)
		}
	}
	return out, false
}

// extractGate runs spec.md §4.9 for pivot p: shared binary-partner
// marking, then the four gate kinds in fixed order, first match wins.
// Returns nil if no gate was found (bve.go should fall back to plain
// resolution for p) or if hyper-unary resolution forced a value for p
// (in which case the caller should re-simplify and retry).
func (s *Solver) extractGate(p Var, occ occurrences) *Gate {
	marked, forced := s.markBinaryPartners(NewLit(p, false), occ)
	if forced {
		return nil
	}
	markedNeg, forced := s.markBinaryPartners(NewLit(p, true), occ)
	if forced {
		return nil
	}

	if g := s.extractEquivalence(p, occ, marked); g != nil {
		return g
	}
	if g := s.extractAnd(p, occ, marked, false); g != nil {
		return g
	}
	if g := s.extractAnd(p, occ, markedNeg, true); g != nil {
		return g
	}
	if g := s.extractIte(p, occ); g != nil {
		return g
	}
	if g := s.extractXor(p, occ); g != nil {
		return g
	}
	return nil
}

// markBinaryPartners scans every non-garbage clause containing literal
// pl that reduces to exactly {pl, x}, marking x (signed, +1 for {pl,x},
// -1 for {pl,-x}). A duplicate {pl,x} is marked garbage; seeing both
// {pl,x} and {pl,-x} is hyper-unary resolution forcing pl, which is
// derived and propagated immediately.
func (s *Solver) markBinaryPartners(pl Lit, occ occurrences) (marked map[Var]int8, forced bool) {
	marked = make(map[Var]int8)
	p := pl.Var()
	for _, ref := range occ[pl] {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		lits, sat := s.reducedLits(c)
		if sat || len(lits) != 2 {
			continue
		}
		x := lits[0]
		if x.Var() == p {
			x = lits[1]
		}
		if x.Var() == p {
			continue // {p, p} or {p, -p}: not a useful binary partner
		}
		sign := int8(1)
		if x.Sign() {
			sign = -1
		}
		if have, ok := marked[x.Var()]; ok {
			if have == sign {
				s.Alloc.MarkGarbage(ref) // duplicate {p, x}
				continue
			}
			s.Trail.PushImplication(pl, RefNone)
			if conflict := s.Propagate(); conflict != RefNone {
				s.conflict = conflict
			}
			return marked, true
		}
		marked[x.Var()] = sign
	}
	return marked, false
}

// extractEquivalence implements spec.md §4.9's equivalence gate: a
// binary clause {-p, y} where y is marked opposite the sign recorded for
// {p, x} (x = -y) witnesses p ≡ -x; same sign witnesses a plain unit.
func (s *Solver) extractEquivalence(p Var, occ occurrences, marked map[Var]int8) *Gate {
	npl := NewLit(p, true)
	for _, ref := range occ[npl] {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		lits, sat := s.reducedLits(c)
		if sat || len(lits) != 2 {
			continue
		}
		y := lits[0]
		if y.Var() == p {
			y = lits[1]
		}
		if y.Var() == p {
			continue
		}
		sign, ok := marked[y.Var()]
		if !ok {
			continue
		}
		ySign := int8(1)
		if y.Sign() {
			ySign = -1
		}
		if sign == ySign {
			// {p,y} and {-p,y} resolve to the unit y.
			s.Trail.PushImplication(y, RefNone)
			if conflict := s.Propagate(); conflict != RefNone {
				s.conflict = conflict
			}
			continue
		}
		binary := s.findBinary(occ, p, y.Var(), true)
		if binary == RefNone {
			continue
		}
		s.markGate(binary)
		s.markGate(ref)
		return &Gate{Kind: "equiv", Pivot: p, Clauses: []ClauseRef{binary, ref}}
	}
	return nil
}

// extractAnd implements spec.md §4.9's AND gate: a clause C containing
// -pivot (or pivot, when negated is true) of size >= 3 whose every other
// literal -xi is marked in the binary scan witnesses
// -pivot-or-pivot ≡ x1 ∧ x2 ∧ ....
func (s *Solver) extractAnd(p Var, occ occurrences, marked map[Var]int8, negated bool) *Gate {
	target := NewLit(p, !negated)
	for _, ref := range occ[target] {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		lits, sat := s.reducedLits(c)
		if sat || len(lits) < 3 {
			continue
		}
		parts := make([]ClauseRef, 1, len(lits))
		parts[0] = ref
		ok := true
		for _, l := range lits {
			if l.Var() == p {
				continue
			}
			x := l.Neg() // C contains -xi; xi is the marked literal
			sign, known := marked[x.Var()]
			xSign := int8(1)
			if x.Sign() {
				xSign = -1
			}
			if !known || sign != xSign {
				ok = false
				break
			}
			bref := s.findBinary(occ, p, x.Var(), !negated)
			if bref == RefNone {
				ok = false
				break
			}
			parts = append(parts, bref)
		}
		if !ok {
			continue
		}
		for _, r := range parts {
			s.markGate(r)
		}
		return &Gate{Kind: "and", Pivot: p, Clauses: parts}
	}
	return nil
}

// extractIte implements spec.md §4.9's if-then-else gate: the quartet
// {p,b,c}, {p,-b,c'}, {-p,b,-c}, {-p,-b,-c'} encodes p ≡ (-b ? -c : -c').
func (s *Solver) extractIte(p Var, occ occurrences) *Gate {
	pl, npl := NewLit(p, false), NewLit(p, true)
	for _, r1 := range occ[pl] {
		c1, ok1 := s.ternary(r1)
		if !ok1 {
			continue
		}
		b, c := otherTwo(c1, pl)
		for _, r2 := range occ[pl] {
			if r2 == r1 {
				continue
			}
			c2, ok2 := s.ternary(r2)
			if !ok2 {
				continue
			}
			b2, cp := otherTwo(c2, pl)
			if b2 != b.Neg() {
				continue
			}
			r3 := s.findTernary(occ, npl, b, c.Neg())
			r4 := s.findTernary(occ, npl, b2, cp.Neg())
			if r3 == RefNone || r4 == RefNone {
				continue
			}
			for _, r := range []ClauseRef{r1, r2, r3, r4} {
				s.markGate(r)
			}
			return &Gate{Kind: "ite", Pivot: p, Clauses: []ClauseRef{r1, r2, r3, r4}}
		}
	}
	return nil
}

// extractXor implements spec.md §4.9's XOR gate: for a clause D
// containing p of size s, arity = s-1; every even-parity sign pattern
// over the other arity literals must also occur as a clause for the
// gate to hold.
func (s *Solver) extractXor(p Var, occ occurrences) *Gate {
	pl := NewLit(p, false)
	for _, d := range occ[pl] {
		c := s.Alloc.Clause(d)
		if c.Garbage {
			continue
		}
		lits, sat := s.reducedLits(c)
		if sat || len(lits) < 3 || len(lits) > 1+s.Opts.ElimXorLim {
			continue
		}
		others := make([]Lit, 0, len(lits)-1)
		for _, l := range lits {
			if l.Var() != p {
				others = append(others, l)
			}
		}
		arity := len(others)
		clauses := make([]ClauseRef, 0, 1<<uint(arity))
		ok := true
		for mask := 0; mask < 1<<uint(arity); mask++ {
			if popcount(mask)%2 != 0 {
				continue
			}
			want := make([]Lit, arity+1)
			want[0] = pl
			for i, l := range others {
				if mask&(1<<uint(i)) != 0 {
					want[i+1] = l.Neg()
				} else {
					want[i+1] = l
				}
			}
			ref := s.findClauseContaining(occ, want)
			if ref == RefNone {
				ok = false
				break
			}
			clauses = append(clauses, ref)
		}
		if !ok {
			continue
		}
		for _, r := range clauses {
			s.markGate(r)
		}
		return &Gate{Kind: "xor", Pivot: p, Clauses: clauses}
	}
	return nil
}

func popcount(x int) int {
	n := 0
	for x != 0 {
		n += x & 1
		x >>= 1
	}
	return n
}

func (s *Solver) markGate(ref ClauseRef) {
	c := s.Alloc.Clause(ref)
	if !c.Gate {
		c.Gate = true
		s.Stats.GatesFound++
	}
}

// findBinary returns the reference of a live clause that reduces to two
// literals: p (positive when pPositive, negative otherwise) and a literal
// of x of either sign. Returns RefNone if there is none.
func (s *Solver) findBinary(occ occurrences, p, x Var, pPositive bool) ClauseRef {
	pl := NewLit(p, !pPositive)
	for _, ref := range occ[pl] {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		lits, sat := s.reducedLits(c)
		if sat || len(lits) != 2 {
			continue
		}
		for _, l := range lits {
			if l.Var() == x {
				return ref
			}
		}
	}
	return RefNone
}

func (s *Solver) ternary(ref ClauseRef) (*Clause, bool) {
	c := s.Alloc.Clause(ref)
	if c.Garbage {
		return nil, false
	}
	lits, sat := s.reducedLits(c)
	if sat || len(lits) != 3 {
		return nil, false
	}
	return &Clause{Lits: lits}, true
}

// otherTwo returns the two literals of a reduced ternary clause other
// than pl, in clause order.
func otherTwo(c *Clause, pl Lit) (Lit, Lit) {
	out := make([]Lit, 0, 2)
	for _, l := range c.Lits {
		if l != pl {
			out = append(out, l)
		}
	}
	return out[0], out[1]
}

func (s *Solver) findTernary(occ occurrences, anchor, b, c Lit) ClauseRef {
	return s.findClauseContaining(occ, []Lit{anchor, b, c})
}

// findClauseContaining returns a live clause (reduced at the root) whose
// literal set equals want exactly, searching the shortest occurrence
// list among want's literals (spec.md §4.9 XOR: "look it up via the
// shortest occurrence list").
func (s *Solver) findClauseContaining(occ occurrences, want []Lit) ClauseRef {
	shortest := want[0]
	for _, l := range want[1:] {
		if len(occ[l]) < len(occ[shortest]) {
			shortest = l
		}
	}
	for _, ref := range occ[shortest] {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		lits, sat := s.reducedLits(c)
		if sat || len(lits) != len(want) {
			continue
		}
		if sameLiteralSet(lits, want) {
			return ref
		}
	}
	return RefNone
}

func sameLiteralSet(a, b []Lit) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[Lit]bool, len(a))
	for _, l := range a {
		seen[l] = true
	}
	for _, l := range b {
		if !seen[l] {
			return false
		}
	}
	return true
}
