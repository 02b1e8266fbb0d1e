package core

// Solve implements spec.md §4.11/§6's top-level entry point, generalizing
// the teacher's Solver.Solve (togatoga-gatosat/solver.go): optionally try
// the lucky pre-solver, then loop search() across growing restart
// budgets until a definite result is reached. The restart/reduce policy
// itself belongs to the [AMBIENT] scheduling hooks in schedule.go, not to
// the core (spec.md §1 Non-goals): Solve only calls them.
func (s *Solver) Solve() Status {
	if s.unsat {
		return StatusUnsat
	}

	if s.Opts.Elim {
		s.Eliminate(s.Opts.ElimGrowth)
		if s.unsat {
			return StatusUnsat
		}
	}

	if s.Opts.Lucky {
		s.Stats.LuckyAttempts++
		if st := s.LuckyPhases(); st != StatusUnknown {
			return st
		}
	}

	maxLearnt := s.Opts.MaxLearntInit
	restart := 0
	var status Status
	for {
		if s.abort != nil && s.abort() {
			return StatusUnknown
		}
		status = s.search(s.restartLimit(restart), &maxLearnt)
		if status != StatusUnknown {
			break
		}
		restart++
		s.Stats.Restarts++
		if s.Reporter != nil {
			s.Reporter.Phase("restart %d (conflict limit %d)", restart, s.restartLimit(restart))
		}
	}

	if status == StatusSat {
		s.captureModel()
	}
	s.Backtrack(0)
	return status
}

// search runs propagate/analyze/decide until either a definite result is
// reached or maxConflicts conflicts have been charged against this
// restart's budget, in which case it backs off to level 0 and returns
// StatusUnknown so Solve() can pick the next restart budget.
func (s *Solver) search(maxConflicts int, maxLearnt *float64) Status {
	conflicts := 0
	for {
		if s.abort != nil && s.abort() {
			return StatusUnknown
		}

		if conflict := s.Propagate(); conflict != RefNone {
			s.conflict = conflict
			s.Stats.Conflicts++
			conflicts++
			if st := s.Analyze(); st == StatusUnsat {
				return StatusUnsat
			}
			continue
		}

		if maxConflicts >= 0 && conflicts >= maxConflicts {
			s.Backtrack(0)
			return StatusUnknown
		}

		if s.shouldReduce(*maxLearnt) {
			s.reduceDB()
			*maxLearnt *= s.Opts.MaxLearntGrowth
		}

		switch st := s.Decide(); st {
		case StatusUnsat:
			return StatusUnsat
		case StatusSat:
			return StatusSat
		}
	}
}

// captureModel snapshots the current total assignment as a signed DIMACS
// model, grounded on the teacher's Solve() building s.Model from each
// variable's value once every variable is assigned
// (togatoga-gatosat/solver.go).
func (s *Solver) captureModel() {
	s.model = s.model[:0]
	for v := Var(0); v < Var(s.Vars.N()); v++ {
		lit := NewLit(v, false)
		val := s.Vars.Value(lit)
		switch {
		case val > 0:
			s.model = append(s.model, lit.Dimacs())
		case val < 0:
			s.model = append(s.model, lit.Neg().Dimacs())
		default:
			// Unassigned (e.g. eliminated by bounded variable elimination):
			// report an arbitrary polarity, per spec.md §4.12's substitution
			// contract for eliminated variables.
			s.model = append(s.model, lit.Dimacs())
		}
	}
}

// Model returns the signed DIMACS assignment captured by the most recent
// StatusSat Solve call, or nil if none has succeeded yet.
func (s *Solver) Model() []int {
	return s.model
}
