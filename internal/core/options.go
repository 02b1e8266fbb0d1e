package core

import "github.com/sirupsen/logrus"

// Options collects every configuration knob spec.md §6 lists. Defaults
// are generalized from the literals the teacher wires directly into
// NewSolver (togatoga-gatosat/solver.go): VarDecayRatio 0.95,
// RestartFirst 100, RestartIncreaseRatio (Luby base) 2, etc.
type Options struct {
	// Bumping (§4.7 Stage 4, Stage 3a).
	Bump            bool
	BumpReason      bool
	BumpReasonDepth int

	// Chronological backtracking (§4.7 Stage 7).
	Chrono          bool
	ChronoAlways    bool
	ChronoLevelim   int32
	ChronoReuseTrail bool

	// Clause minimization (§4.7 Stage 5, external collaborator).
	Minimize bool

	// Phase selection (§4.8).
	Phase           bool // default initial phase: true=+1, false=-1
	ForcePhase      bool
	ForceSavedPhase bool
	StabilizePhase  bool
	// Stable selects which of the two decision structures (§4.4 VMTF,
	// §4.5 EVSIDS) drives branch selection; both are always kept
	// consistent with variable state regardless of which one decides.
	Stable bool

	// EVSIDS.
	ScoreFactor float64 // typical value yields ~1.05x Scinc growth/conflict

	// Rephase / shuffle.
	Shuffle       bool
	ShuffleQueue  bool
	ShuffleScores bool
	ShuffleRandom bool
	Seed          uint64

	// VMTF initial order. Reverse is handed to NewVMTF, which reverses
	// the variables created together in one Init call; NewVar adds
	// variables one at a time with reverse off, so a solver's queue is
	// in index order whatever Reverse says.
	Reverse bool

	// Bounded variable elimination (§4.12) and the gate extraction (§4.9)
	// that feeds it.
	Elim       bool
	ElimGrowth int
	ElimEquivs bool
	ElimAnds   bool
	ElimItes   bool
	ElimXors   bool
	ElimXorLim int
	ElimSubst  bool

	// Eager subsumption (§4.7 Stage 9).
	EagerSubsume    bool
	EagerSubsumeLim int

	// Lucky pre-solve (§4.10).
	Lucky bool

	// Sort strategy threshold. The learned-clause descending (level,
	// trail) sort in §4.7 Stage 6 does not consult it: it always uses
	// insertion sort.
	RadixSortLim int

	// Reduce/promotion (§4.7.1).
	ReduceTier2Glue int32

	// [AMBIENT] restart/reduce scheduling hooks (§4.11); the core only
	// calls these, it does not own restart/reduce policy (spec.md §1
	// Non-goals).
	RestartFirst         int
	RestartIncreaseRatio float64
	MaxLearntInit        float64
	MaxLearntGrowth      float64

	// VarDecay/ClauseDecay generalize the teacher's VarDecayRatio /
	// ClauseActitvyDecayRatio into named options.
	VarDecay    float64
	ClauseDecay float64

	// Logger backs report()/PHASE/LOG (spec.md §6); a nil Logger makes
	// Solver.Reporter a no-op, matching the teacher's optional
	// -verbosity flag.
	Logger *logrus.Logger
}

// DefaultOptions returns the option set the CLI driver starts from,
// mirroring the teacher's NewSolver literals.
func DefaultOptions() Options {
	return Options{
		Bump:             true,
		BumpReason:       false,
		BumpReasonDepth:  0,
		Chrono:           true,
		ChronoAlways:     false,
		ChronoLevelim:    100,
		ChronoReuseTrail: false,
		Minimize:         true,
		Phase:            false,
		ForcePhase:       false,
		ForceSavedPhase:  true,
		StabilizePhase:   false,
		Stable:           false,
		ScoreFactor:      952,
		Shuffle:          false,
		ShuffleQueue:     true,
		ShuffleScores:    false,
		ShuffleRandom:    false,
		Seed:             0,
		Reverse:          false,
		Elim:             true,
		ElimGrowth:       16,
		ElimEquivs:       true,
		ElimAnds:         true,
		ElimItes:         true,
		ElimXors:         true,
		ElimXorLim:       8,
		ElimSubst:        true,
		EagerSubsume:     true,
		EagerSubsumeLim:  50,
		Lucky:            true,
		RadixSortLim:     800,
		ReduceTier2Glue:  6,

		RestartFirst:         100,
		RestartIncreaseRatio: 2,
		MaxLearntInit:        100,
		MaxLearntGrowth:      1.05,

		VarDecay:    0.95,
		ClauseDecay: 0.999,
	}
}
