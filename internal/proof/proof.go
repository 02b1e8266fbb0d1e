// Package proof implements the minimal DRAT-style proof sink spec.md
// §6 describes: abstract derivation events (unit learn, empty clause,
// deferred clause deletion) emitted synchronously at the moment of
// derivation. The core depends only on core.ProofSink; this package is
// one concrete implementation of it.
package proof

import (
	"bufio"
	"fmt"
	"io"

	"github.com/satcore/lucid/internal/core"
)

// Sink writes DRAT-ish lines to w: an addition line is the clause's
// literals followed by 0; a deletion line is "d" followed by the
// literals and 0. Binary garbage clauses are not deleted immediately —
// DeferDelete buffers them, and Flush resolves and emits the deletion
// lines once the caller knows the clauses are physically reclaimed
// (spec.md §5, §9: deferred deletion of binary garbage preserves proof
// correctness).
type Sink struct {
	w       *bufio.Writer
	pending []pendingDelete
}

type pendingDelete struct {
	ref  core.ClauseRef
	lits []core.Lit
}

// NewSink wraps w as a proof sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

func (s *Sink) writeLits(prefix string, lits []core.Lit) {
	if prefix != "" {
		fmt.Fprint(s.w, prefix, " ")
	}
	for _, l := range lits {
		fmt.Fprintf(s.w, "%d ", l.Dimacs())
	}
	fmt.Fprintln(s.w, "0")
}

// AddDerivedUnit emits the addition of a unit clause {l}.
func (s *Sink) AddDerivedUnit(l core.Lit) {
	s.writeLits("", []core.Lit{l})
}

// AddDerivedEmpty emits the addition of the empty clause, signalling
// UNSAT to any proof checker reading the trace.
func (s *Sink) AddDerivedEmpty() {
	fmt.Fprintln(s.w, "0")
}

// DeferDelete buffers a garbage binary clause's deletion until Flush.
func (s *Sink) DeferDelete(ref core.ClauseRef, lits []core.Lit) {
	s.pending = append(s.pending, pendingDelete{ref: ref, lits: lits})
}

// Flush emits deletion lines for every buffered clause and clears the
// buffer. resolve may be used by a caller that wants to re-derive the
// current literals of a reference instead of trusting the snapshot
// taken at DeferDelete time; Sink ignores it and uses the snapshot,
// since the snapshot is exactly what was true at deletion time.
func (s *Sink) Flush(resolve func(ref core.ClauseRef) []core.Lit) {
	for _, p := range s.pending {
		s.writeLits("d", p.lits)
	}
	s.pending = s.pending[:0]
	s.w.Flush()
}
