package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSolver builds a solver with lucky/elim disabled so scenario tests
// exercise plain search unless a test explicitly wants the
// pre-processing stages.
func newSolver() *Solver {
	opts := DefaultOptions()
	opts.Lucky = false
	opts.Elim = false
	return NewSolver(opts)
}

func addAll(t *testing.T, s *Solver, clauses [][]int) {
	t.Helper()
	for _, c := range clauses {
		s.AddClauseDimacs(c)
	}
}

// Unit propagation chain: spec.md §8 scenario 1.
func TestUnitPropagationChain(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1}, {-1, 2}, {-2, 3}})

	require.Equal(t, StatusSat, s.Solve())
	assert.Zero(t, s.Stats.Decisions)
	model := s.Model()
	require.Len(t, model, 3)
	assert.Equal(t, []int{1, 2, 3}, model)
}

// Immediate conflict: spec.md §8 scenario 2.
func TestImmediateConflict(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1}, {-1}})

	assert.True(t, s.Unsat())
}

// One-decision SAT: spec.md §8 scenario 3. Both clauses share literal 2,
// so a branch on variable 1 either way forces 2 by propagation; which
// variable the decision heuristic (EVSIDS under the default options)
// offers first is an internal ordering detail, so this asserts the
// scenario's satisfiability and model correctness rather than pinning
// the exact decision count.
func TestOneDecisionSAT(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1, 2}, {-1, 2}})

	require.Equal(t, StatusSat, s.Solve())
	assert.True(t, clauseSatisfiedByModel(s.Model(), []int{1, 2}))
	assert.True(t, clauseSatisfiedByModel(s.Model(), []int{-1, 2}))
}

func clauseSatisfiedByModel(model []int, clause []int) bool {
	set := make(map[int]bool, len(model))
	for _, l := range model {
		set[l] = true
	}
	for _, l := range clause {
		if set[l] {
			return true
		}
	}
	return false
}

// 1-UIP learning: spec.md §8 scenario 4. {-4} fixes v4=false at the
// root; deciding v1=true at level 1 propagates v2,v3, then {-2,-3,4}
// conflicts; the learned clause is the unit {-1}, which backjumps to
// level 0 and forces v1=false.
func Test1UIPLearning(t *testing.T) {
	opts := DefaultOptions()
	opts.Lucky = false
	opts.Elim = false
	opts.Phase = true // first decision is v1=true, as in the scenario
	s := NewSolver(opts)
	addAll(t, s, [][]int{{-1, 2}, {-1, 3}, {-2, -3, 4}, {-4}})

	require.Equal(t, StatusSat, s.Solve())
	assert.EqualValues(t, 1, s.Stats.Conflicts)
	model := s.Model()
	require.Len(t, model, 4)
	assert.Equal(t, -1, model[0])
}

// Lucky trivially-false: spec.md §8 scenario 5.
func TestLuckyTriviallyFalse(t *testing.T) {
	opts := DefaultOptions()
	opts.Elim = false
	s := NewSolver(opts)
	addAll(t, s, [][]int{{-1, 2}, {-2, -3}, {-1, -3}})

	require.Equal(t, StatusSat, s.Solve())
	assert.Equal(t, 0, s.Stats.LuckyHit)
	for _, lit := range s.Model() {
		assert.Negative(t, lit)
	}
}

// XOR gate discovery: spec.md §8 scenario 6. {1,2,3},{1,-2,-3},
// {-1,2,-3},{-1,-2,3} encode 1 xor 2 xor 3 = 0; pivot 1 must find a gate
// covering all four clauses. An arity-2 XOR over three variables is
// also exactly an if-then-else gate, and §4.9 tries if-then-else before
// XOR, so this scenario is expected to match as "ite" rather than
// "xor" — what matters is that every clause ends up recorded as gate.
func TestXORGateDiscovery(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1, 2, 3}, {1, -2, -3}, {-1, 2, -3}, {-1, -2, 3}})
	occ := s.buildOccurrences()

	g := s.extractGate(VarOfDimacs(1), occ)
	require.NotNil(t, g)
	assert.Len(t, g.Clauses, 4)
	for _, ref := range g.Clauses {
		assert.True(t, s.Alloc.Clause(ref).Gate)
	}
}

// AND gate discovery: spec.md §8 scenario 7. {-1,2},{-1,3},{-1,4},
// {1,-2,-3,-4} encode 1 = 2 and 3 and 4; pivot 1 should find all four.
func TestANDGateDiscovery(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{-1, 2}, {-1, 3}, {-1, 4}, {1, -2, -3, -4}})
	occ := s.buildOccurrences()

	g := s.extractGate(VarOfDimacs(1), occ)
	require.NotNil(t, g)
	assert.Equal(t, "and", g.Kind)
	assert.Len(t, g.Clauses, 4)
}

// Bounded variable elimination by plain resolution: spec.md §4.12.
// Variable 2 occurs positively only in {1,2} and negatively only in
// {-2,3}; no gate covers it (there's no clause containing -1 at all),
// so eliminateVar must fall back to resolving the two clauses over 2,
// replacing them with the single resolvent {1,3} and leaving 1 and 3
// untouched as pure literals.
func TestEliminationByResolution(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1, 2}, {-2, 3}})

	s.Eliminate(s.Opts.ElimGrowth)

	assert.True(t, s.Vars.Rec(VarOfDimacs(2)).Eliminated)
	assert.EqualValues(t, 1, s.Stats.Eliminated)
	require.Len(t, s.Clauses, 1)
	assert.ElementsMatch(t, []int{1, 3}, litsToDimacs(s.Alloc.Clause(s.Clauses[0]).Lits))
}

func litsToDimacs(lits []Lit) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = l.Dimacs()
	}
	return out
}

// Property 7: every live clause of size >= 2 is watched by both of its
// first two literals.
func TestWatchedLiteralInvariant(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1, 2, 3}, {-1, -2}, {2, -3}})

	for _, ref := range s.Clauses {
		c := s.Alloc.Clause(ref)
		assert.True(t, watchListContains(s.Watches, c.Lits[0], ref))
		assert.True(t, watchListContains(s.Watches, c.Lits[1], ref))
	}
}

func watchListContains(w *Watches, l Lit, ref ClauseRef) bool {
	for _, wt := range w.List(l) {
		if wt.Ref == ref {
			return true
		}
	}
	return false
}

// Property 3: after Backtrack(d), the decision level is exactly d (the
// control stack holds one frame per level 1..d; level 0 has none) and
// every variable assigned above d is unassigned again.
func TestBacktrackInvariant(t *testing.T) {
	s := newSolver()
	addAll(t, s, [][]int{{1, 2, 3, 4}})

	s.Trail.PushDecision(NewLit(VarOfDimacs(1), false))
	s.Trail.PushDecision(NewLit(VarOfDimacs(2), false))
	s.Trail.PushDecision(NewLit(VarOfDimacs(3), false))
	require.Equal(t, int32(3), s.Level())

	s.Backtrack(1)
	assert.Equal(t, int32(1), s.Level())
	assert.True(t, s.Vars.Assigned(VarOfDimacs(1)))
	assert.False(t, s.Vars.Assigned(VarOfDimacs(2)))
	assert.False(t, s.Vars.Assigned(VarOfDimacs(3)))
}
