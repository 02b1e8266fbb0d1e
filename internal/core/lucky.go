package core

// LuckyPhases implements spec.md §4.10: eight cheap sufficient conditions
// for satisfiability, tried in fixed order at the root, stopping at the
// first success. Each attempt is transactional — any propagation
// conflict inside an attempt backtracks to the root and falls through to
// the next one — grounded on the teacher's own root-level "easy" checks
// being generalized into the full eight-strategy table the spec lists.
// Returns StatusSat with a captured model on success, StatusUnknown if
// every attempt failed (the caller should fall back to real search).
func (s *Solver) LuckyPhases() Status {
	if s.Level() != 0 {
		panic("core: LuckyPhases called above the root level")
	}

	names := []string{
		"trivially-false", "trivially-true", "forward-true", "forward-false",
		"backward-false", "backward-true", "positive-horn", "negative-horn",
	}
	attempts := []func() bool{
		s.luckyTriviallyFalse,
		s.luckyTriviallyTrue,
		s.luckyForwardTrue,
		s.luckyForwardFalse,
		s.luckyBackwardFalse,
		s.luckyBackwardTrue,
		s.luckyPositiveHorn,
		s.luckyNegativeHorn,
	}
	res := StatusUnknown
	for i, attempt := range attempts {
		if s.Reporter != nil {
			s.Reporter.Phase("lucky: trying %s", names[i])
		}
		if attempt() {
			s.Stats.LuckyHit = i
			s.captureModel()
			s.Backtrack(0)
			res = StatusSat
			break
		}
		s.Backtrack(0)
	}
	if s.Reporter != nil {
		if res == StatusSat {
			s.Reporter.Log("lucky: %s satisfied the formula", names[s.Stats.LuckyHit])
		}
		// res==0 (no lucky attempt succeeded) exactly matches the
		// original's `report('l', !res)`, fired once for the whole
		// batch of attempts (original_source/src/lucky.cpp:316).
		s.Reporter.Report('l')
	}
	return res
}

// clauseHasUnassignedLit reports whether c contains an unassigned literal
// of the given sign, and is otherwise used to test the trivially-*/horn
// preconditions.
func clauseHasUnassignedLit(s *Solver, c *Clause, negative bool) (Lit, bool) {
	for _, l := range c.Lits {
		if l.Sign() != negative {
			continue
		}
		if s.Vars.Value(l) == 0 {
			return l, true
		}
	}
	return LitUndef, false
}

// luckyAllClausesOk reports whether every live original clause either is
// already satisfied or contains an unassigned literal of the given sign
// (the shared precondition of attempts 1 and 2).
func (s *Solver) luckyAllClausesOk(negative bool) bool {
	for _, ref := range s.Clauses {
		c := s.Alloc.Clause(ref)
		if c.Garbage || s.clauseSatisfied(c) {
			continue
		}
		if _, ok := clauseHasUnassignedLit(s, c, negative); !ok {
			return false
		}
	}
	return true
}

// luckyAssignAll decides every currently unassigned variable to the given
// sign in index order, propagating after each decision; it stops and
// reports false on the first conflict.
func (s *Solver) luckyAssignAll(negative bool) bool {
	for v := Var(0); v < Var(s.Vars.N()); v++ {
		if s.Vars.Rec(v).Eliminated || s.Vars.Assigned(v) {
			continue
		}
		s.Trail.PushDecision(NewLit(v, negative))
		if conflict := s.Propagate(); conflict != RefNone {
			return false
		}
	}
	return true
}

func (s *Solver) luckyTriviallyFalse() bool {
	return s.luckyAllClausesOk(true) && s.luckyAssignAll(true)
}

func (s *Solver) luckyTriviallyTrue() bool {
	return s.luckyAllClausesOk(false) && s.luckyAssignAll(false)
}

// luckyDecideRange decides variable i (1-based DIMACS index order) to the
// given sign, skipping already-assigned variables, from `from` to `to`
// inclusive, propagating after each decision.
func (s *Solver) luckyDecideRange(negative bool, from, to, step int) bool {
	for i := from; i != to+step; i += step {
		v := VarOfDimacs(i)
		if int(v) >= s.Vars.N() || s.Vars.Rec(v).Eliminated || s.Vars.Assigned(v) {
			continue
		}
		s.Trail.PushDecision(NewLit(v, negative))
		if conflict := s.Propagate(); conflict != RefNone {
			return false
		}
	}
	return s.Satisfied()
}

func (s *Solver) luckyForwardTrue() bool {
	return s.luckyDecideRange(false, 1, s.Vars.N(), 1)
}

func (s *Solver) luckyForwardFalse() bool {
	return s.luckyDecideRange(true, 1, s.Vars.N(), 1)
}

func (s *Solver) luckyBackwardFalse() bool {
	return s.luckyDecideRange(true, s.Vars.N(), 1, -1)
}

func (s *Solver) luckyBackwardTrue() bool {
	return s.luckyDecideRange(false, s.Vars.N(), 1, -1)
}

// luckyHorn implements attempts 7 and 8: every unsatisfied clause must
// contain an unassigned literal of the given sign; decide that literal
// per clause (propagating), then sweep remaining unassigned variables to
// the opposite sign.
func (s *Solver) luckyHorn(positive bool) bool {
	for _, ref := range s.Clauses {
		c := s.Alloc.Clause(ref)
		if c.Garbage || s.clauseSatisfied(c) {
			continue
		}
		lit, ok := clauseHasUnassignedLit(s, c, !positive)
		if !ok {
			return false
		}
		if s.Vars.Value(lit) != 0 {
			continue // satisfied by an earlier decision in this sweep
		}
		s.Trail.PushDecision(lit)
		if conflict := s.Propagate(); conflict != RefNone {
			return false
		}
	}
	return s.luckyAssignAll(positive)
}

func (s *Solver) luckyPositiveHorn() bool { return s.luckyHorn(true) }
func (s *Solver) luckyNegativeHorn() bool { return s.luckyHorn(false) }
