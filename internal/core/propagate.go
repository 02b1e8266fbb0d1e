package core

// propagated is implemented as a field on Solver (qhead) rather than on
// Trail, since it is propagation-specific bookkeeping, not part of the
// trail/control-stack invariant spec.md §4.2 owns.
//
// qhead is left out of NewSolver's struct literal: its zero value (0) is
// correct on construction, and Backtrack clamps it back to the trail
// length whenever the trail shrinks below it.

// Propagate extends the current assignment to fixpoint by walking the
// watch lists of newly-true literals (spec.md §4.6). It returns the
// conflicting clause, or RefNone if a fixpoint was reached without one.
func (s *Solver) Propagate() ClauseRef {
	conflict := RefNone
	for s.qhead < s.Trail.Len() && conflict == RefNone {
		l := s.Trail.At(s.qhead)
		s.qhead++
		conflict = s.propagateLit(l)
	}
	return conflict
}

// propagateLit scans the watch list of -l (the literal that just became
// false) and returns a conflicting clause, if any.
func (s *Solver) propagateLit(l Lit) ClauseRef {
	falseLit := l.Neg()
	list := s.Watches.lists[falseLit]
	keep := 0
	conflict := RefNone

	for i := 0; i < len(list); i++ {
		w := list[i]
		s.Stats.Propagations++

		if s.Vars.Value(w.Blocker) > 0 {
			list[keep] = w
			keep++
			continue
		}

		if w.Binary {
			if s.Vars.Value(w.Blocker) < 0 {
				conflict = w.Ref
				list[keep] = w
				keep++
				i++
				for ; i < len(list); i++ {
					list[keep] = list[i]
					keep++
				}
				break
			}
			s.assignForced(w.Blocker, w.Ref, []Lit{falseLit})
			list[keep] = w
			keep++
			continue
		}

		c := s.Alloc.Clause(w.Ref)
		if c.Garbage {
			continue // drop the watch
		}

		if c.Lits[0] == falseLit {
			c.Lits[0], c.Lits[1] = c.Lits[1], c.Lits[0]
		}
		other := c.Lits[0]
		u := s.Vars.Value(other)

		if u > 0 {
			list[keep] = Watch{Ref: w.Ref, Blocker: other, Binary: false}
			keep++
			continue
		}

		replaced := false
		n := len(c.Lits)
		pos := int(c.Pos)
		if pos < 2 || pos >= n {
			pos = 2
		}
		for step := 0; step < n-2; step++ {
			idx := pos + step
			if idx >= n {
				idx = 2 + (idx - n)
			}
			if s.Vars.Value(c.Lits[idx]) != -1 {
				if s.Vars.Value(c.Lits[idx]) > 0 {
					c.Pos = int32(idx)
					list[keep] = Watch{Ref: w.Ref, Blocker: c.Lits[idx], Binary: false}
					keep++
					replaced = true
					break
				}
				c.Lits[1], c.Lits[idx] = c.Lits[idx], c.Lits[1]
				c.Pos = int32(idx)
				s.Watches.Add(c.Lits[1], w.Ref, falseLit, false)
				replaced = true
				break
			}
		}
		if replaced {
			continue
		}

		// No replacement found: all remaining literals are false.
		if u == 0 {
			s.assignForced(other, w.Ref, c.Lits[1:])
			list[keep] = w
			keep++
		} else {
			conflict = w.Ref
			list[keep] = w
			keep++
			i++
			for ; i < len(list); i++ {
				list[keep] = list[i]
				keep++
			}
			break
		}
	}
	s.Watches.lists[falseLit] = list[:keep]
	return conflict
}

// assignForced pushes a unit implication, computing the assignment
// level per spec.md §4.6: under chronological backtracking the level is
// the maximum level among the other literals of the reason, which may
// be below the current decision level; otherwise it is always the
// current decision level.
func (s *Solver) assignForced(lit Lit, reason ClauseRef, others []Lit) {
	level := s.Trail.Level()
	if s.Opts.Chrono {
		max := int32(0)
		for _, o := range others {
			if o.Var() == lit.Var() {
				continue
			}
			if lv := s.Vars.Level(o.Var()); lv > max {
				max = lv
			}
		}
		level = max
	}
	s.Trail.PushImplicationAt(lit, reason, level)
}
