package core

// This file declares the external-collaborator interfaces spec.md §6
// lists as "consumed from collaborators". The core depends on these
// abstractions, never on a concrete proof/checker/minimizer
// implementation, mirroring the teacher's separation of Solver (core)
// from free functions operating on it (parseDimacs, printStatistics).

// ProofSink receives the solver's derivation events synchronously, at
// the moment of derivation. Deletion of binary garbage clauses must be
// deferred until physical reclamation (spec.md §5, §9) via DeferDelete
// + a later Flush, rather than emitted at MarkGarbage time.
type ProofSink interface {
	AddDerivedUnit(l Lit)
	AddDerivedEmpty()
	DeferDelete(ref ClauseRef, lits []Lit)
	Flush(resolve func(ref ClauseRef) []Lit)
}

// ExternalChecker lets an embedder independently verify learned clauses
// before they are trusted.
type ExternalChecker interface {
	CheckLearnedUnit(l Lit) error
	CheckLearnedEmpty() error
}

// Minimizer shrinks a learned-clause literal buffer in place, removing
// literals whose reason chain already lies in the clause (spec.md §4.7
// Stage 5). It returns the possibly-shortened slice.
type Minimizer interface {
	Minimize(s *Solver, lits []Lit) []Lit
}

// Reporter receives phase-transition and statistics events, mapping to
// spec.md §6's report(char_tag)/PHASE/LOG collaborators. A nil Reporter
// is a valid no-op.
type Reporter interface {
	Report(tag byte)
	Phase(msg string, args ...interface{})
	Log(msg string, args ...interface{})
}

// NopProofSink discards every event; useful for tests and for solving
// without proof logging.
type NopProofSink struct{}

func (NopProofSink) AddDerivedUnit(Lit)                                 {}
func (NopProofSink) AddDerivedEmpty()                                   {}
func (NopProofSink) DeferDelete(ClauseRef, []Lit)                       {}
func (NopProofSink) Flush(func(ref ClauseRef) []Lit)                    {}

// NopChecker accepts every learned clause without verification.
type NopChecker struct{}

func (NopChecker) CheckLearnedUnit(Lit) error { return nil }
func (NopChecker) CheckLearnedEmpty() error   { return nil }
