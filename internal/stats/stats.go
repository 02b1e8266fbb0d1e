// Package stats holds the solver's global counters, generalizing the
// teacher's Statistics (togatoga-gatosat/statistics.go) with the extra
// fields spec.md §6's report/PHASE/LOG collaborators need: gate
// discovery, bounded variable elimination, and lucky-phase outcomes.
package stats

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats is the solver's mutable counter block. All fields are plain
// counters; there is no synchronization because the core is
// single-threaded (spec.md §5).
type Stats struct {
	Start time.Time

	Restarts     uint64
	Decisions    uint64
	Propagations uint64
	Conflicts    uint64

	NumClauses  uint64
	NumLearnts  uint64
	ReduceDBs   uint64
	Removed     uint64

	GatesFound    uint64
	Eliminated    uint64
	LuckyHit      int // which lucky attempt succeeded, -1 if none
	ChronoJumps    uint64
	NonChronoJumps uint64
	EagerSubsumed  uint64
	LuckyAttempts  uint64
}

// New returns a freshly started Stats block.
func New() *Stats {
	return &Stats{Start: time.Now(), LuckyHit: -1}
}

// Report logs a single-line summary tagged with tag, mirroring
// spec.md §6's report(char_tag) collaborator hook.
func (s *Stats) Report(log *logrus.Logger, tag byte) {
	if log == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"tag":          string(tag),
		"restarts":     s.Restarts,
		"decisions":    s.Decisions,
		"conflicts":    s.Conflicts,
		"propagations": s.Propagations,
		"learnts":      s.NumLearnts,
		"elapsed":      time.Since(s.Start).String(),
	}).Info("report")
}

// Summary renders a human-readable multi-line block, grounded on the
// teacher's printStatistics (main.go).
func (s *Stats) Summary() string {
	elapsed := time.Since(s.Start).Seconds()
	return fmt.Sprintf(
		"restarts: %d\nconflicts: %d (%.2f/sec)\ndecisions: %d (%.2f/sec)\npropagations: %d (%.2f/sec)\nreduceDB: %d\nremoved clauses: %d\ngates found: %d\neliminated vars: %d\ncpu time: %.3fs\n",
		s.Restarts,
		s.Conflicts, float64(s.Conflicts)/nonZero(elapsed),
		s.Decisions, float64(s.Decisions)/nonZero(elapsed),
		s.Propagations, float64(s.Propagations)/nonZero(elapsed),
		s.ReduceDBs, s.Removed, s.GatesFound, s.Eliminated, elapsed,
	)
}

func nonZero(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}
