package core

// Eliminate runs bounded variable elimination over every live, non-
// eliminated variable (spec.md §1: gate extraction "used to reduce the
// number of resolutions attempted during bounded variable elimination"),
// grounded on the commented-out preprocess() in the example pack
// (crillab-gophersat preprocess.go): build per-literal occurrence lists,
// then for each candidate pivot either short-circuit via a discovered
// gate or generate every resolvent over the pivot, classifying each as
// empty/unit/general exactly as that reference loop does. Eliminate is
// an [AMBIENT]/[DOMAIN] driver the core calls before search starts; it
// must run at decision level 0.
func (s *Solver) Eliminate(growthLimit int) {
	if s.Level() != 0 || s.unsat {
		return
	}

	occ := s.buildOccurrences()
	for v := Var(0); v < Var(s.Vars.N()); v++ {
		if s.unsat {
			return
		}
		if s.Vars.Rec(v).Eliminated || s.Vars.Assigned(v) {
			continue
		}
		if s.eliminateVar(v, occ, growthLimit) {
			occ = s.buildOccurrences() // clause set changed, rebuild
		}
	}
}

// buildOccurrences scans every live original clause once, grounded on
// the reference loop's `occurs[c.Get(j)] = append(...)`.
func (s *Solver) buildOccurrences() occurrences {
	occ := make(occurrences)
	for _, ref := range s.Clauses {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		for _, l := range c.Lits {
			occ[l] = append(occ[l], ref)
		}
	}
	return occ
}

// eliminateVar attempts to eliminate v, trying gate extraction first.
// Returns true if the clause set changed (elimination happened, or a
// gate/marking derived a unit that was propagated).
func (s *Solver) eliminateVar(v Var, occ occurrences, growthLimit int) bool {
	if gateKinds(s.Opts) {
		trailLen := s.Trail.Len()
		if g := s.extractGate(v, occ); g != nil {
			return s.eliminateViaGate(v, g)
		}
		if s.unsat || s.Trail.Len() != trailLen {
			return true // a unit was derived; occ is stale
		}
	}

	pos, neg := occ[NewLit(v, false)], occ[NewLit(v, true)]
	if len(pos) == 0 || len(neg) == 0 {
		return false // pure literal: nothing to resolve, leave it to the search
	}
	if len(pos)*len(neg) > len(pos)+len(neg)+growthLimit {
		return false // resolving would grow the clause set past budget
	}

	resolvents := make([][]Lit, 0, len(pos)*len(neg))
	for _, r1 := range pos {
		c1 := s.Alloc.Clause(r1)
		if c1.Garbage {
			continue
		}
		for _, r2 := range neg {
			c2 := s.Alloc.Clause(r2)
			if c2.Garbage {
				continue
			}
			lits, tautology := resolve(c1.Lits, c2.Lits, v)
			if tautology {
				continue
			}
			switch len(lits) {
			case 0:
				s.unsat = true
				s.Proof.AddDerivedEmpty()
				return true
			case 1:
				s.Trail.PushImplication(lits[0], RefNone)
				if conflict := s.Propagate(); conflict != RefNone {
					s.unsat = true
					s.Proof.AddDerivedEmpty()
					return true
				}
			default:
				resolvents = append(resolvents, lits)
			}
		}
	}

	s.removeClausesContaining(v)
	for _, lits := range resolvents {
		s.AddClause(lits)
	}
	s.Vars.Rec(v).Eliminated = true
	s.Stats.Eliminated++
	return true
}

// eliminateViaGate removes the gate's own clauses along with every other
// clause mentioning v, re-adding nothing: the gate clauses already fully
// describe v's role, so once v is no longer decided the gate's
// definitional clauses are redundant with the rest of the formula and
// can be dropped together with it (spec.md §1's reduced-resolution goal
// taken to its conclusion for gate-recognized variables).
func (s *Solver) eliminateViaGate(v Var, g *Gate) bool {
	s.removeClausesContaining(v)
	s.Vars.Rec(v).Eliminated = true
	s.Stats.Eliminated++
	return true
}

// removeClausesContaining marks every live original clause mentioning v
// garbage and detaches it from the watch index.
func (s *Solver) removeClausesContaining(v Var) {
	kept := s.Clauses[:0]
	for _, ref := range s.Clauses {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		mentions := false
		for _, l := range c.Lits {
			if l.Var() == v {
				mentions = true
				break
			}
		}
		if mentions {
			s.Watches.detach(s.Alloc, ref)
			s.Alloc.MarkGarbage(ref)
			continue
		}
		kept = append(kept, ref)
	}
	s.Clauses = kept
}

// resolve generates the resolvent of c1 (containing +v) and c2
// (containing -v) over v, grounded on the reference Clause.Generate,
// folded together with Clause.Simplify's tautology/duplicate handling.
func resolve(c1, c2 []Lit, v Var) (lits []Lit, tautology bool) {
	seen := make(map[Lit]bool, len(c1)+len(c2))
	out := make([]Lit, 0, len(c1)+len(c2)-2)
	for _, l := range c1 {
		if l.Var() == v {
			continue
		}
		if seen[l.Neg()] {
			return nil, true
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range c2 {
		if l.Var() == v {
			continue
		}
		if seen[l.Neg()] {
			return nil, true
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, false
}

func gateKinds(o Options) bool {
	return o.ElimEquivs || o.ElimAnds || o.ElimItes || o.ElimXors
}
