package core

// Watch is a single entry in a literal's watch list: a reference to the
// clause plus a blocking-literal hint, so the common case (blocker
// already true) never dereferences the clause (Design Notes §9).
type Watch struct {
	Ref     ClauseRef
	Blocker Lit
	Binary  bool
}

// Watches is the per-literal watch index (spec.md §4.3). The watch for a
// clause is stored in the watch list of each of its two watched literals
// themselves (not their negations); propagation of an assigned literal l
// therefore scans the watch list of l.Neg().
type Watches struct {
	lists [][]Watch
}

// NewWatches allocates an empty watch index sized for n variables.
func NewWatches(n int) *Watches {
	w := &Watches{}
	w.Grow(n)
	return w
}

// Grow ensures the index has lists for at least n variables.
func (w *Watches) Grow(n int) {
	need := 2 * n
	for len(w.lists) < need {
		w.lists = append(w.lists, nil)
	}
}

// List returns the watch list for literal l.
func (w *Watches) List(l Lit) []Watch { return w.lists[l] }

// Add appends a watch for ref to l's list, with blocker as the hint.
func (w *Watches) Add(l Lit, ref ClauseRef, blocker Lit, binary bool) {
	w.lists[l] = append(w.lists[l], Watch{Ref: ref, Blocker: blocker, Binary: binary})
}

// Remove deletes the (first) watch on ref from l's list. Panics if absent:
// under spec.md §7 this is an invariant violation.
func (w *Watches) Remove(l Lit, ref ClauseRef) {
	list := w.lists[l]
	for i, wt := range list {
		if wt.Ref == ref {
			copy(list[i:], list[i+1:])
			w.lists[l] = list[:len(list)-1]
			return
		}
	}
	panic("core: watch not found during remove")
}

// setLists replaces the list for l, used while compacting during scans.
func (w *Watches) setLists(l Lit, list []Watch) { w.lists[l] = list }

// attach installs watches for a clause's two watched positions (Lits[0],
// Lits[1]) on itself. For a binary clause (size 2) the watch's blocker
// is set to the clause's other literal and Binary is set, enabling the
// fast path in Propagate that never dereferences the clause.
func (w *Watches) attach(a *Allocator, ref ClauseRef) {
	c := a.Clause(ref)
	if len(c.Lits) < 2 {
		panic("core: cannot watch a clause with fewer than 2 literals")
	}
	binary := len(c.Lits) == 2
	w.Add(c.Lits[0], ref, c.Lits[1], binary)
	w.Add(c.Lits[1], ref, c.Lits[0], binary)
}

// detach removes both watches installed by attach.
func (w *Watches) detach(a *Allocator, ref ClauseRef) {
	c := a.Clause(ref)
	w.Remove(c.Lits[0], ref)
	w.Remove(c.Lits[1], ref)
}
