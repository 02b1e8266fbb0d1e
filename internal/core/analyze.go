package core

// Analyze runs the full conflict-analysis pipeline of spec.md §4.7
// (Stages 1-9) against the conflict clause set by the most recent
// failing Propagate call. It leaves the solver backtracked to the
// chosen level and either asserts the driving literal or marks the
// formula UNSAT. Returns StatusUnsat if the empty clause was derived,
// StatusUnknown otherwise (search should resume).
func (s *Solver) Analyze() Status {
	if s.conflict == RefNone {
		panic("core: Analyze called without a pending conflict")
	}

	// Stage 1: chronological conflict-level detour.
	if s.Opts.Chrono {
		if st := s.chronoConflictLevel(); st != StatusUnknown || s.conflict == RefNone {
			return st
		}
	}

	// Stage 2: unsatisfiable at root.
	if s.Level() == 0 {
		s.unsat = true
		s.Proof.AddDerivedEmpty()
		s.conflict = RefNone
		return StatusUnsat
	}

	level := s.Level()
	learned, uip := s.deriveFirstUIP(level)

	// Stage 5: minimize.
	if s.Opts.Minimize && s.Minimizer != nil {
		learned = s.Minimizer.Minimize(s, learned)
	}

	// Stage 6: build driving clause.
	jumpLevel, driving, glue := s.buildDrivingClause(learned)

	// Stage 7: determine backtrack level.
	backLevel := s.chooseBacktrackLevel(level, jumpLevel)

	// Stage 8: apply.
	s.Backtrack(backLevel)
	s.conflict = RefNone
	if uip != LitUndef {
		assertLit := uip.Neg()
		if driving == RefNone {
			if err := s.Checker.CheckLearnedUnit(assertLit); err != nil {
				panic(err)
			}
			s.Proof.AddDerivedUnit(assertLit)
			s.Trail.PushImplicationAt(assertLit, RefNone, 0)
			// A unit learned at level 0 is what the original calls
			// "iterating": report it the moment it lands on the trail,
			// before the next Propagate call processes it
			// (original_source/src/analyze.cpp:760).
			if s.Reporter != nil {
				s.Reporter.Report('i')
			}
		} else {
			s.Trail.PushImplicationAt(assertLit, driving, jumpLevel)
			_ = glue
		}
	} else {
		s.unsat = true
		if err := s.Checker.CheckLearnedEmpty(); err != nil {
			panic(err)
		}
		s.Proof.AddDerivedEmpty()
		return StatusUnsat
	}

	// Stage 9: optional eager subsumption.
	if s.Opts.EagerSubsume && driving != RefNone {
		s.eagerSubsume(driving)
	}

	return StatusUnknown
}

// chronoConflictLevel implements Stage 1. It returns StatusUnknown
// always; callers must re-check s.conflict, since a resolved
// single-forced-literal conflict clears it without further analysis.
func (s *Solver) chronoConflictLevel() Status {
	c := s.Alloc.Clause(s.conflict)
	i0 := 0
	for i, l := range c.Lits {
		if s.Vars.Level(l.Var()) > s.Vars.Level(c.Lits[i0].Var()) {
			i0 = i
		}
	}
	maxLevel := s.Vars.Level(c.Lits[i0].Var())
	i1 := -1
	for i := range c.Lits {
		if i == i0 {
			continue
		}
		if i1 == -1 || s.Vars.Level(c.Lits[i].Var()) > s.Vars.Level(c.Lits[i1].Var()) {
			i1 = i
		}
	}
	count := 0
	for _, l := range c.Lits {
		if s.Vars.Level(l.Var()) == maxLevel {
			count++
		}
	}
	if count == 1 {
		forced := c.Lits[i0]
		ref := s.conflict
		s.Backtrack(maxLevel - 1)
		s.assignForced(forced, ref, c.Lits)
		s.conflict = RefNone
		return StatusUnknown
	}
	if len(c.Lits) >= 2 && i0 != -1 && i1 != -1 {
		lo, hi := i0, i1
		if lo > hi {
			lo, hi = hi, lo
		}
		s.Watches.detach(s.Alloc, s.conflict)
		moveToFront2(c.Lits, lo, hi)
		s.Watches.attach(s.Alloc, s.conflict)
	}
	s.Backtrack(maxLevel)
	return StatusUnknown
}

func moveToFront2(lits []Lit, i, j int) {
	if i != 0 {
		lits[0], lits[i] = lits[i], lits[0]
		if j == 0 {
			j = i
		}
	}
	if j != 1 {
		lits[1], lits[j] = lits[j], lits[1]
	}
}

// deriveFirstUIP implements Stage 3 (and folds in Stage 3a/4 bumping).
// It returns the learned-clause literal buffer (not yet containing
// -uip, which is appended before return) and the UIP literal itself.
func (s *Solver) deriveFirstUIP(level int32) ([]Lit, Lit) {
	s.learnBuf = s.learnBuf[:0]
	analyzed := s.seen[:0]

	open := 0
	reason := s.conflict
	pivotVar := VarUndef
	idx := s.Trail.Len() - 1
	var uip Lit = LitUndef

	for {
		c := s.Alloc.Clause(reason)
		s.bumpReasonClause(reason)

		for _, lit := range c.Lits {
			if lit.Var() == pivotVar {
				continue
			}
			r := s.Vars.Rec(lit.Var())
			if r.Seen || s.Vars.Level(lit.Var()) == 0 {
				continue
			}
			r.Seen = true
			analyzed = append(analyzed, lit.Var())
			if s.Vars.Level(lit.Var()) == level {
				open++
			} else {
				s.learnBuf = append(s.learnBuf, lit)
			}
		}

		for {
			uip = s.Trail.At(idx)
			idx--
			if s.Vars.Rec(uip.Var()).Seen {
				break
			}
		}
		pivotVar = uip.Var()
		open--
		if open == 0 {
			break
		}
		reason = s.Vars.Reason(uip.Var())
	}

	// Stage 3a: reason-side bumping, transitively up to BumpReasonDepth.
	if s.Opts.Bump && s.Opts.BumpReason {
		analyzed = s.extendAnalyzedWithReasons(analyzed, s.Opts.BumpReasonDepth)
	}

	// Stage 4: bump variables.
	if s.Opts.Bump {
		s.bumpAnalyzed(analyzed)
	}

	for _, v := range analyzed {
		s.Vars.Rec(v).Seen = false
	}
	s.seen = analyzed[:0]

	s.learnBuf = append(s.learnBuf, uip.Neg())
	return s.learnBuf, uip
}

// extendAnalyzedWithReasons marks, transitively up to depth, the
// literals in the immediate reason clauses of each already-analyzed
// variable, so Stage 4 bumps them too.
func (s *Solver) extendAnalyzedWithReasons(analyzed []Var, depth int) []Var {
	frontier := append([]Var(nil), analyzed...)
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []Var
		for _, v := range frontier {
			ref := s.Vars.Reason(v)
			if ref == RefNone || ref == RefDecision {
				continue
			}
			for _, lit := range s.Alloc.Clause(ref).Lits {
				rv := lit.Var()
				r := s.Vars.Rec(rv)
				if !r.Seen {
					r.Seen = true
					analyzed = append(analyzed, rv)
					next = append(next, rv)
				}
			}
		}
		frontier = next
	}
	return analyzed
}

// bumpAnalyzed implements Stage 4: in VMTF mode, sort analyzed by
// ascending BumpedTS (preserving relative order) before bumping; in
// EVSIDS mode, bump scores directly and grow Scinc.
func (s *Solver) bumpAnalyzed(analyzed []Var) {
	if !s.Opts.Stable {
		for _, v := range analyzed {
			s.EVSIDS.Bump(v)
		}
		s.EVSIDS.BumpScinc(s.Opts.ScoreFactor)
		return
	}
	ordered := append([]Var(nil), analyzed...)
	insertionSortByTS(s.Vars, ordered)
	for _, v := range ordered {
		s.VMTF.Bump(v)
	}
}

func insertionSortByTS(vs *Vars, vars []Var) {
	for i := 1; i < len(vars); i++ {
		for j := i; j > 0 && vs.Rec(vars[j-1]).BumpedTS > vs.Rec(vars[j]).BumpedTS; j-- {
			vars[j-1], vars[j] = vars[j], vars[j-1]
		}
	}
}

// tier2UsedGlue is the secondary ("tier-2") promotion threshold used in
// §4.7.1; spec.md leaves its exact relation to ReduceTier2Glue
// unspecified beyond "tier-2 threshold", so it is fixed here at twice
// the keep threshold (see DESIGN.md).
func (s *Solver) tier2UsedGlue() int32 { return 2 * s.Opts.ReduceTier2Glue }

// bumpReasonClause implements §4.7.1.
func (s *Solver) bumpReasonClause(ref ClauseRef) {
	if ref == RefNone || ref == RefDecision {
		return
	}
	c := s.Alloc.Clause(ref)
	prevUsed := c.Used
	c.Used = 1
	if c.Keep || c.Hyper || !c.Redundant {
		return
	}
	newGlue := s.computeGlue(c.Lits)
	if newGlue < c.Glue {
		c.Glue = newGlue
		if newGlue <= s.Opts.ReduceTier2Glue {
			c.Keep = true
		}
	} else if prevUsed != 0 && newGlue <= s.tier2UsedGlue() {
		c.Used = 2
	}
}

// computeGlue returns the number of distinct decision levels
// represented in lits, excluding level 0.
func (s *Solver) computeGlue(lits []Lit) int32 {
	var seenLevels map[int32]bool
	seenLevels = make(map[int32]bool, len(lits))
	n := int32(0)
	for _, l := range lits {
		lv := s.Vars.Level(l.Var())
		if lv == 0 || seenLevels[lv] {
			continue
		}
		seenLevels[lv] = true
		n++
	}
	return n
}

// buildDrivingClause implements Stage 6.
func (s *Solver) buildDrivingClause(learned []Lit) (jumpLevel int32, ref ClauseRef, glue int32) {
	switch len(learned) {
	case 0:
		return 0, RefNone, 0
	case 1:
		return 0, RefNone, 0
	}
	sortLearnedDescending(s.Vars, learned)
	jumpLevel = s.Vars.Level(learned[1].Var())
	glue = s.computeGlue(learned)
	ref = s.Alloc.Alloc(learned, true, glue)
	c := s.Alloc.Clause(ref)
	if glue <= s.Opts.ReduceTier2Glue {
		c.Keep = true
	}
	s.Learned = append(s.Learned, ref)
	s.recentLearned = append(s.recentLearned, ref)
	if len(s.recentLearned) > s.Opts.EagerSubsumeLim {
		s.recentLearned = s.recentLearned[1:]
	}
	s.Watches.attach(s.Alloc, ref)
	s.Stats.NumLearnts++
	return jumpLevel, ref, glue
}

// sortLearnedDescending orders lits by descending (level, trail
// position) so lits[0] is -uip and lits[1] has the next-highest level;
// this is a small buffer so a simple insertion sort suffices regardless
// of Options.RadixSortLim.
func sortLearnedDescending(vs *Vars, lits []Lit) {
	key := func(l Lit) (int32, int32) { return vs.Level(l.Var()), vs.TrailPos(l.Var()) }
	for i := 1; i < len(lits); i++ {
		for j := i; j > 0; j-- {
			lv, tp := key(lits[j-1])
			lv2, tp2 := key(lits[j])
			if lv > lv2 || (lv == lv2 && tp > tp2) {
				break
			}
			lits[j-1], lits[j] = lits[j], lits[j-1]
		}
	}
}

// chooseBacktrackLevel implements Stage 7, counting every branch's
// decision in Stats.ChronoJumps/NonChronoJumps so the two counters this
// stage exists to track are never silently zero.
func (s *Solver) chooseBacktrackLevel(level, jump int32) int32 {
	if !s.Opts.Chrono {
		s.Stats.NonChronoJumps++
		return jump
	}
	if s.Opts.ChronoAlways {
		s.Stats.ChronoJumps++
		return level - 1
	}
	if jump == level-1 {
		// Chronological and non-chronological backtrack coincide here
		// (jumping one level back is always "chronological"); count it
		// as chronological since Stage 7's chrono path is what selected it.
		s.Stats.ChronoJumps++
		return jump
	}
	if int(jump) < len(s.assumptions) {
		s.Stats.NonChronoJumps++
		return jump
	}
	if level-jump > s.Opts.ChronoLevelim {
		s.Stats.ChronoJumps++
		return level - 1
	}
	if s.Opts.ChronoReuseTrail {
		s.Stats.ChronoJumps++
		return s.reuseTrailLevel(jump)
	}
	s.Stats.NonChronoJumps++
	return jump
}

// reuseTrailLevel picks, among trail entries above the jump frame, the
// variable with maximal decision priority, and returns its level.
func (s *Solver) reuseTrailLevel(jump int32) int32 {
	base := int(s.Trail.Frame(jump + 1).TrailBase)
	best := Var(VarUndef)
	for i := base; i < s.Trail.Len(); i++ {
		v := s.Trail.At(i).Var()
		if best == VarUndef || s.priorityGreater(v, best) {
			best = v
		}
	}
	if best == VarUndef {
		return jump
	}
	return s.Vars.Level(best)
}

func (s *Solver) priorityGreater(a, b Var) bool {
	if s.Opts.Stable {
		return s.Vars.Rec(a).BumpedTS > s.Vars.Rec(b).BumpedTS
	}
	return s.Vars.Rec(a).Score > s.Vars.Rec(b).Score
}

// eagerSubsume implements Stage 9: scan recently allocated redundant
// clauses and garbage-collect any whose literal set is a superset of
// the new clause's.
func (s *Solver) eagerSubsume(newRef ClauseRef) {
	newClause := s.Alloc.Clause(newRef)
	newSet := make(map[Lit]bool, len(newClause.Lits))
	for _, l := range newClause.Lits {
		newSet[l] = true
	}
	attempts := 0
	for i := len(s.recentLearned) - 1; i >= 0 && attempts < s.Opts.EagerSubsumeLim; i-- {
		attempts++
		ref := s.recentLearned[i]
		if ref == newRef {
			continue
		}
		c := s.Alloc.Clause(ref)
		if c.Garbage || len(c.Lits) < len(newClause.Lits) {
			continue
		}
		if supersetOf(c.Lits, newSet) {
			s.Watches.detach(s.Alloc, ref)
			s.Alloc.MarkGarbage(ref)
			s.Stats.EagerSubsumed++
		}
	}
}

func supersetOf(lits []Lit, set map[Lit]bool) bool {
	for k := range set {
		found := false
		for _, l := range lits {
			if l == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
