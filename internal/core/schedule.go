package core

import "math"

// luby computes the Luby restart sequence value for index x, grounded
// on the teacher's Solver.luby (togatoga-gatosat/solver.go). The core
// only calls this hook to decide when to return from Search for a
// restart; the policy itself is out of scope per spec.md §1 Non-goals.
func luby(y float64, x int) float64 {
	var seq, size int
	for size, seq = 1, 0; size < x+1; seq, size = seq+1, 2*size+1 {
	}
	for size-1 != x {
		size = (size - 1) >> 1
		seq--
		x = x % size
	}
	return math.Pow(y, float64(seq))
}

// restartLimit returns the conflict budget for restart attempt n.
func (s *Solver) restartLimit(n int) int {
	base := luby(s.Opts.RestartIncreaseRatio, n)
	return int(base) * s.Opts.RestartFirst
}

// shouldReduce reports whether the learned-clause database has grown
// past maxLearnt, mirroring the teacher's Search reduce trigger.
func (s *Solver) shouldReduce(maxLearnt float64) bool {
	return float64(len(s.Learned)-s.Trail.Len()) >= maxLearnt
}

// reduceDB implements a glue/activity-guided learned-clause reduction:
// kept clauses (spec.md §3 Keep flag) and clauses currently serving as a
// reason are never removed; among the rest, the half with the weakest
// glue is discarded, grounded on the teacher's reduceDB (sorting learnt
// clauses and dropping the bottom half unless locked).
func (s *Solver) reduceDB() {
	sortByQuality(s.Alloc, s.Learned)
	half := len(s.Learned) / 2
	kept := s.Learned[:0]
	for i, ref := range s.Learned {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		if c.Keep || c.Hyper || s.locked(ref) || i >= half {
			kept = append(kept, ref)
			continue
		}
		s.Watches.detach(s.Alloc, ref)
		s.deleteLearned(ref)
		s.Stats.Removed++
	}
	removed := len(s.Learned) - len(kept)
	s.Learned = kept
	s.Stats.ReduceDBs++
	s.Alloc.Compact()
	if s.Reporter != nil {
		s.Reporter.Phase("reduceDB #%d: removed %d of %d learned clauses", s.Stats.ReduceDBs, removed, removed+len(kept))
	}
}

// locked reports whether ref is currently serving as some variable's
// assignment reason (removing it would break that invariant).
func (s *Solver) locked(ref ClauseRef) bool {
	c := s.Alloc.Clause(ref)
	for _, l := range c.Lits {
		if s.Vars.Value(l) > 0 && s.Vars.Reason(l.Var()) == ref {
			return true
		}
	}
	return false
}

// deleteLearned marks ref garbage, deferring proof deletion for binary
// clauses per spec.md §5/§9.
func (s *Solver) deleteLearned(ref ClauseRef) {
	c := s.Alloc.Clause(ref)
	if len(c.Lits) == 2 {
		s.Proof.DeferDelete(ref, append([]Lit(nil), c.Lits...))
	}
	s.Alloc.MarkGarbage(ref)
}

func sortByQuality(a *Allocator, refs []ClauseRef) {
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && lessQuality(a, refs[j], refs[j-1]); j-- {
			refs[j-1], refs[j] = refs[j], refs[j-1]
		}
	}
}

// lessQuality orders a before b when a is a weaker clause (worse, i.e.
// should be reduced first): larger size beats size 2 (binaries are
// never discarded) and otherwise higher glue is weaker.
func lessQuality(a *Allocator, x, y ClauseRef) bool {
	cx, cy := a.Clause(x), a.Clause(y)
	if len(cx.Lits) <= 2 {
		return false
	}
	if len(cy.Lits) <= 2 {
		return true
	}
	return cx.Glue > cy.Glue
}
