package core

// VarRec is the per-variable record described in spec.md §3.
type VarRec struct {
	Level       int32     // decision level at which assigned (0 = root)
	TrailPos    int32     // position in the trail when assigned
	Reason      ClauseRef // RefNone, RefDecision, or a real clause
	value       int8      // tri-valued {-1,0,+1}, value of the positive literal
	SavedPhase  int8      // last value assigned during search
	TargetPhase int8      // best phase seen during stable mode
	BumpedTS    uint64    // last VMTF bump timestamp
	Score       float64   // EVSIDS score

	Seen      bool
	Keep      bool
	Poison    bool
	Removable bool
	Eliminated bool
	Gate      bool
}

// Vars is the exclusive owner of all per-variable assignment state.
type Vars struct {
	recs []VarRec
}

// NewVars creates a variable store with capacity for n variables.
func NewVars(n int) *Vars {
	return &Vars{recs: make([]VarRec, n)}
}

// Grow ensures the store has at least n variables, extending with
// zero-valued (unassigned, phase 0) records.
func (vs *Vars) Grow(n int) {
	for len(vs.recs) < n {
		vs.recs = append(vs.recs, VarRec{})
	}
}

// N returns the number of variables currently tracked.
func (vs *Vars) N() int { return len(vs.recs) }

// Rec returns the mutable record for v.
func (vs *Vars) Rec(v Var) *VarRec { return &vs.recs[v] }

// Value returns the tri-valued assignment of literal l: -1, 0, or +1.
// Positive and negative literals are looked up symmetrically off the
// same per-variable value so the cost is a branch, not a second array.
func (vs *Vars) Value(l Lit) int8 {
	v := vs.recs[l.Var()].value
	if l.Sign() {
		return -v
	}
	return v
}

// Level returns the decision level at which v was assigned.
func (vs *Vars) Level(v Var) int32 { return vs.recs[v].Level }

// Reason returns the reason recorded for v's assignment.
func (vs *Vars) Reason(v Var) ClauseRef { return vs.recs[v].Reason }

// TrailPos returns the trail index at which v was assigned.
func (vs *Vars) TrailPos(v Var) int32 { return vs.recs[v].TrailPos }

// Assigned reports whether v currently has a value.
func (vs *Vars) Assigned(v Var) bool { return vs.recs[v].value != 0 }

// Assign records l as true: sets the variable's tri-value, level, reason
// and trail position.
func (vs *Vars) Assign(l Lit, reason ClauseRef, level int32, trailPos int32) {
	r := &vs.recs[l.Var()]
	if l.Sign() {
		r.value = -1
	} else {
		r.value = 1
	}
	r.Reason = reason
	r.Level = level
	r.TrailPos = trailPos
}

// Unassign clears v's value while preserving SavedPhase for phase saving.
func (vs *Vars) Unassign(v Var) {
	r := &vs.recs[v]
	r.SavedPhase = r.value
	r.value = 0
	r.Reason = RefNone
	r.Level = 0
}
