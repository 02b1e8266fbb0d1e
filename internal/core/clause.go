package core

import (
	"math"

	"github.com/pkg/errors"
)

// ClauseRef is an arena index for a Clause, used instead of a pointer so
// the reason DAG and watch lists can be copied/compared cheaply (Design
// Notes §9: "use clause identifiers... rather than raw pointers").
type ClauseRef uint32

const (
	// RefNone means "no reason" (a unit asserted at the root, or no watch).
	RefNone ClauseRef = math.MaxUint32
	// RefDecision tags a variable assigned by a decision, not a clause.
	RefDecision ClauseRef = math.MaxUint32 - 1
)

// Clause is an ordered sequence of literals plus the metadata spec.md §3
// requires. Lits[0] and Lits[1] are the two watched positions whenever
// len(Lits) >= 2.
type Clause struct {
	Lits      []Lit
	Redundant bool // learned, as opposed to an original input clause
	Garbage   bool
	Keep      bool
	Hyper     bool
	Used      uint8 // 0, 1, or 2; tier promotion counter
	Glue      int32 // LBD, never increases after creation; promotion only lowers it
	Pos       int32 // saved search position for watch replacement
	Gate      bool
}

// Allocator owns the clause arena. Clauses are allocated on assert/learn
// and freed lazily via the Garbage flag followed by Compact.
type Allocator struct {
	next    ClauseRef
	clauses map[ClauseRef]*Clause
}

// NewAllocator returns an empty clause arena.
func NewAllocator() *Allocator {
	return &Allocator{clauses: make(map[ClauseRef]*Clause)}
}

// Alloc allocates a new clause with the given literals.
func (a *Allocator) Alloc(lits []Lit, redundant bool, glue int32) ClauseRef {
	ref := a.next
	a.next++
	c := &Clause{Lits: append([]Lit(nil), lits...), Redundant: redundant, Glue: glue, Pos: 2}
	a.clauses[ref] = c
	return ref
}

// Clause dereferences ref. Panics if ref does not name a live clause:
// under spec.md §7 this is an invariant violation, not a recoverable error.
func (a *Allocator) Clause(ref ClauseRef) *Clause {
	c, ok := a.clauses[ref]
	if !ok {
		panic(errors.Errorf("core: dangling clause reference %d", ref))
	}
	return c
}

// MarkGarbage flags c for deletion; physical reclamation happens in Compact.
func (a *Allocator) MarkGarbage(ref ClauseRef) {
	a.Clause(ref).Garbage = true
}

// Compact physically removes every clause marked Garbage from the arena.
func (a *Allocator) Compact() {
	for ref, c := range a.clauses {
		if c.Garbage {
			delete(a.clauses, ref)
		}
	}
}

// Len returns the number of live clauses in the arena.
func (a *Allocator) Len() int { return len(a.clauses) }
