package core

// Frame is one entry of the control stack: the decision literal of a
// live decision level and the trail length immediately before it.
type Frame struct {
	Decision  Lit
	TrailBase int32
}

// Trail is the append-only assignment log, partitioned into decision
// frames (spec.md §4.2). Literals are appended on assignment and
// logically truncated (not physically shrunk below capacity) on
// backtrack; Vars.Unassign clears the corresponding variable state.
type Trail struct {
	lits    []Lit
	control []Frame
	vars    *Vars
}

// NewTrail creates an empty trail bound to vs.
func NewTrail(vs *Vars) *Trail {
	return &Trail{vars: vs}
}

// Level returns the current decision level (number of live frames).
func (t *Trail) Level() int32 { return int32(len(t.control)) }

// Len returns the number of literals currently on the trail.
func (t *Trail) Len() int { return len(t.lits) }

// At returns the literal at trail position i.
func (t *Trail) At(i int) Lit { return t.lits[i] }

// Frame returns the control frame for decision level d (1-based levels;
// Frame(0) is meaningless and never stored).
func (t *Trail) Frame(d int32) Frame { return t.control[d-1] }

// PushDecision begins a new decision level and assigns lit as a decision.
func (t *Trail) PushDecision(lit Lit) {
	t.control = append(t.control, Frame{Decision: lit, TrailBase: int32(len(t.lits))})
	t.vars.Assign(lit, RefDecision, t.Level(), int32(len(t.lits)))
	t.lits = append(t.lits, lit)
}

// PushImplication appends an implied literal to the trail without
// opening a new decision level.
func (t *Trail) PushImplication(lit Lit, reason ClauseRef) {
	t.PushImplicationAt(lit, reason, t.Level())
}

// PushImplicationAt appends an implied literal whose assignment level
// is explicitly given, distinct from the control stack depth. Under
// chronological backtracking a forced literal's assignment level can be
// lower than the current decision level (spec.md §4.6 "Assignment
// level", Design Notes §9); the control stack itself is never touched
// here, only var.Level.
func (t *Trail) PushImplicationAt(lit Lit, reason ClauseRef, level int32) {
	t.vars.Assign(lit, reason, level, int32(len(t.lits)))
	t.lits = append(t.lits, lit)
}

// BacktrackTo pops trail entries down to decision level newLevel,
// unassigning each popped variable and invoking onUnassign (if non-nil)
// for VMTF hint and EVSIDS heap maintenance, then truncates the control
// stack to newLevel frames.
func (t *Trail) BacktrackTo(newLevel int32, onUnassign func(Var)) {
	if t.Level() <= newLevel {
		return
	}
	base := t.control[newLevel].TrailBase
	for i := len(t.lits) - 1; i >= int(base); i-- {
		v := t.lits[i].Var()
		t.vars.Unassign(v)
		if onUnassign != nil {
			onUnassign(v)
		}
	}
	t.lits = t.lits[:base]
	t.control = t.control[:newLevel]
}
