package core

// Decide implements spec.md §4.8: first services any pending
// assumption, then picks a branching variable from whichever decision
// structure Options.Stable selects, and pushes a decision frame.
// Returns StatusUnsat if an assumption was found already false
// ("failing"), StatusSat if every variable is already assigned (no
// branching variable remains), StatusUnknown otherwise (a real decision
// or assumption pseudo-decision was pushed).
func (s *Solver) Decide() Status {
	if st, handled := s.decideAssumption(); handled {
		return st
	}

	v := s.pickVar()
	if v == VarUndef {
		return StatusSat
	}
	phase := s.pickPhase(v)
	s.Stats.Decisions++
	s.Trail.PushDecision(NewLit(v, phase < 0))
	return StatusUnknown
}

// decideAssumption services spec.md §4.8's assumption handling. handled
// is true if it consumed this Decide() call (either by failing, or by
// pushing a pseudo-decision frame for an already-true assumption).
func (s *Solver) decideAssumption() (Status, bool) {
	used := int(s.Level())
	if used >= len(s.assumptions) {
		return StatusUnknown, false
	}
	lit := s.assumptions[used]
	switch s.Vars.Value(lit) {
	case -1:
		s.failed = append(s.failed, lit)
		s.failedLit = lit
		s.unsat = true
		return StatusUnsat, true
	case 1:
		s.Trail.PushDecision(lit) // pseudo-decision: already satisfied
		return StatusUnknown, true
	default:
		s.Trail.PushDecision(lit)
		return StatusUnknown, true
	}
}

// pickVar selects the next unassigned variable from VMTF or EVSIDS
// depending on Options.Stable, skipping eliminated variables.
func (s *Solver) pickVar() Var {
	if s.Opts.Stable {
		for {
			v := s.VMTF.NextUnassigned()
			if v == VarUndef {
				return VarUndef
			}
			if !s.Vars.Rec(v).Eliminated {
				return v
			}
			// An eliminated variable can't be decided; treat as assigned
			// for the purposes of the hint by moving the hint past it.
			s.VMTF.Unassigned = s.VMTF.prev[v]
		}
	}
	for {
		v := s.EVSIDS.NextUnassignedTop()
		if v == VarUndef {
			return VarUndef
		}
		if !s.Vars.Rec(v).Eliminated {
			return v
		}
		s.EVSIDS.Pop()
	}
}

// pickPhase implements the phase-selection priority of spec.md §4.8.
func (s *Solver) pickPhase(v Var) int8 {
	r := s.Vars.Rec(v)
	switch {
	case s.Opts.ForceSavedPhase:
		return defaultIfZero(r.SavedPhase, s.initialPhase())
	case s.Opts.ForcePhase:
		return s.initialPhase()
	case s.Opts.StabilizePhase:
		return defaultIfZero(r.TargetPhase, s.initialPhase())
	default:
		return defaultIfZero(r.SavedPhase, s.initialPhase())
	}
}

func (s *Solver) initialPhase() int8 {
	if s.Opts.Phase {
		return 1
	}
	return -1
}

func defaultIfZero(v, fallback int8) int8 {
	if v == 0 {
		return fallback
	}
	return v
}

// Assume installs the assumption set used by the next Solve/Decide
// cycle, clearing any previous failure state.
func (s *Solver) Assume(lits []Lit) {
	s.assumptions = append(s.assumptions[:0], lits...)
	s.failed = s.failed[:0]
	s.failedLit = LitUndef
}

// Failed reports whether lit is the assumption that Decide found already
// false during the most recent unsuccessful Solve under assumptions.
func (s *Solver) Failed(lit Lit) bool {
	for _, f := range s.failed {
		if f == lit {
			return true
		}
	}
	return false
}
