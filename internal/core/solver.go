package core

import "github.com/satcore/lucid/internal/stats"

// Status is the three-valued result spec.md §6 defines for Solve.
type Status int

const (
	StatusUnknown Status = 0
	StatusSat     Status = 10
	StatusUnsat   Status = 20
)

// Solver ties together the variable store, trail, watch index, the two
// decision structures, the clause arena, and the external collaborators
// (spec.md §2). It is exclusively owned by its caller: one instance
// must not be reentered (spec.md §5).
type Solver struct {
	Opts Options

	Vars    *Vars
	Trail   *Trail
	Watches *Watches
	Alloc   *Allocator
	VMTF    *VMTF
	EVSIDS  *EVSIDS

	Clauses []ClauseRef
	Learned []ClauseRef

	Proof     ProofSink
	Checker   ExternalChecker
	Minimizer Minimizer
	Reporter  Reporter

	Stats *stats.Stats

	unsat    bool
	conflict ClauseRef // current conflicting clause, or RefNone

	assumptions  []Lit
	testLevels   []int32
	assumeLevel  int32
	failed       []Lit
	failedLit    Lit

	seen     []Var // cleared after each analyze call
	learnBuf []Lit

	recentLearned []ClauseRef // ring of recently allocated redundant clauses, for eager subsumption

	qhead int // next trail index to process (spec.md §4.6 "propagated")

	abort func() bool // polled between decisions (spec.md §5 Cancellation)

	model []int // signed DIMACS assignment, captured by captureModel
}

// NewSolver creates an empty solver with the given options.
func NewSolver(opts Options) *Solver {
	vars := NewVars(0)
	s := &Solver{
		Opts:      opts,
		Vars:      vars,
		Trail:     NewTrail(vars),
		Watches:   NewWatches(0),
		Alloc:     NewAllocator(),
		VMTF:      NewVMTF(vars, 0, opts.Reverse),
		EVSIDS:    NewEVSIDS(vars, 1.0),
		Proof:     NopProofSink{},
		Checker:   NopChecker{},
		Minimizer: defaultMinimizer{},
		Reporter:  newLogReporter(opts.Logger),
		Stats:     stats.New(),
		conflict:  RefNone,
	}
	return s
}

// NumVars returns the number of variables created so far.
func (s *Solver) NumVars() int { return s.Vars.N() }

// NewVar allocates a fresh variable and registers it with the watch
// index, VMTF queue and EVSIDS heap.
func (s *Solver) NewVar() Var {
	v := Var(s.Vars.N())
	old := s.Vars.N()
	s.Vars.Grow(old + 1)
	s.Watches.Grow(old + 1)
	s.VMTF.Init(old, old+1, false)
	s.EVSIDS.Grow(old + 1)
	s.EVSIDS.Push(v)
	return v
}

// ensureVars grows the solver to hold at least n variables (1-based
// DIMACS count).
func (s *Solver) ensureVars(n int) {
	for s.Vars.N() < n {
		s.NewVar()
	}
}

// Value returns the current tri-valued assignment of l.
func (s *Solver) Value(l Lit) int8 { return s.Vars.Value(l) }

// Level returns the current decision level.
func (s *Solver) Level() int32 { return s.Trail.Level() }

// Satisfied reports whether every original clause is currently true.
func (s *Solver) Satisfied() bool {
	for _, ref := range s.Clauses {
		c := s.Alloc.Clause(ref)
		if c.Garbage {
			continue
		}
		if !s.clauseSatisfied(c) {
			return false
		}
	}
	return true
}

func (s *Solver) clauseSatisfied(c *Clause) bool {
	for _, l := range c.Lits {
		if s.Vars.Value(l) > 0 {
			return true
		}
	}
	return false
}

// Unsat reports whether the solver has derived the empty clause.
func (s *Solver) Unsat() bool { return s.unsat }

// SetAbort installs a callback polled between decisions (spec.md §5).
func (s *Solver) SetAbort(f func() bool) { s.abort = f }

// onUnassign is the narrow hook Design Notes §9 calls for: every
// unassign funnels through here so VMTF and EVSIDS stay consistent with
// variable state regardless of which one is driving decisions.
func (s *Solver) onUnassign(v Var) {
	s.VMTF.UpdateOnUnassign(v)
	if !s.Vars.Rec(v).Eliminated && !s.EVSIDS.Contains(v) {
		s.EVSIDS.Push(v)
	}
}

// Backtrack truncates the trail to decision level newLevel (spec.md
// §4.2 backtrack_to), maintaining both decision structures.
func (s *Solver) Backtrack(newLevel int32) {
	s.Trail.BacktrackTo(newLevel, s.onUnassign)
	if s.qhead > s.Trail.Len() {
		s.qhead = s.Trail.Len()
	}
}

// AddClauseDimacs installs an original (non-redundant) clause from signed
// DIMACS literals, growing the variable store as needed. Returns false
// if the clause's addition makes the formula UNSAT.
func (s *Solver) AddClauseDimacs(dimacsLits []int) bool {
	lits := make([]Lit, len(dimacsLits))
	for i, x := range dimacsLits {
		v := x
		if v < 0 {
			v = -v
		}
		s.ensureVars(v)
		lits[i] = LitOfDimacs(x)
	}
	return s.AddClause(lits)
}

// EnsureVar grows the solver to contain a variable for the given
// 1-based DIMACS index; it implements dimacs.Builder.
func (s *Solver) EnsureVar(dimacsVar int) { s.ensureVars(dimacsVar) }

// AddClause installs an already-internal clause; AddClauseDimacs is the
// dimacs.Builder-facing entry point (see cmd/lucid's builder adapter).
func (s *Solver) AddClause(lits []Lit) bool {
	if s.Level() != 0 {
		panic("core: AddClause called above the root level")
	}
	if s.unsat {
		return false
	}
	lits = simplifyInputClause(s, lits)
	if lits == nil {
		return true // trivially satisfied
	}
	switch len(lits) {
	case 0:
		s.unsat = true
		s.Proof.AddDerivedEmpty()
		return false
	case 1:
		s.Trail.PushImplication(lits[0], RefNone)
		if conf := s.Propagate(); conf != RefNone {
			s.unsat = true
			s.Proof.AddDerivedEmpty()
			return false
		}
	default:
		ref := s.Alloc.Alloc(lits, false, 0)
		s.Clauses = append(s.Clauses, ref)
		s.Watches.attach(s.Alloc, ref)
		s.Stats.NumClauses++
	}
	return true
}

// simplifyInputClause drops falsified/duplicate literals and detects a
// trivially satisfied or empty clause, mirroring the teacher's addClause
// simplification loop (togatoga-gatosat/solver.go).
func simplifyInputClause(s *Solver, lits []Lit) []Lit {
	out := make([]Lit, 0, len(lits))
	seen := make(map[Lit]bool, len(lits))
	for _, l := range lits {
		if seen[l.Neg()] {
			return nil // l and -l both present: tautology
		}
		if s.Vars.Value(l) > 0 {
			return nil // already satisfied at the root
		}
		if s.Vars.Value(l) < 0 || seen[l] {
			continue // falsified at the root, or duplicate
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
