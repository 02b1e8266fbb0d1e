package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/satcore/lucid/internal/core"
	"github.com/satcore/lucid/internal/dimacs"
	"github.com/satcore/lucid/internal/proof"
)

// builderAdapter satisfies dimacs.Builder over a *core.Solver, bridging
// the signed-int literal interface the parser speaks to the core's
// internal Lit type (spec.md §6's "exposed to the main driver" surface
// deliberately stays internal-typed).
type builderAdapter struct{ s *core.Solver }

func (b builderAdapter) EnsureVar(v int)          { b.s.EnsureVar(v) }
func (b builderAdapter) AddClause(lits []int) bool { return b.s.AddClauseDimacs(lits) }

func flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "input-file, in", Usage: "input DIMACS CNF file (required)"},
		cli.StringFlag{Name: "proof-file", Usage: "DRAT-ish proof output file"},
		cli.StringFlag{Name: "result-output-file, out", Usage: "model output file"},
		cli.IntFlag{Name: "cpu-time-limit", Usage: "abort after this many seconds (-1 disables)", Value: -1},
		cli.BoolFlag{Name: "debug, d", Usage: "pp.Println the recovered value of a panic before re-panicking"},
		cli.StringFlag{Name: "verbosity", Usage: "logrus level: debug, info, warn, error (empty disables)"},

		cli.BoolTFlag{Name: "bump", Usage: "bump variable activity on conflict"},
		cli.BoolFlag{Name: "bump-reason", Usage: "also bump the reason side of each resolution step"},
		cli.IntFlag{Name: "bump-reason-depth", Usage: "depth limit for bump-reason"},

		cli.BoolTFlag{Name: "chrono", Usage: "allow chronological backtracking"},
		cli.BoolFlag{Name: "chrono-always", Usage: "always backtrack to level-1 on conflict"},
		cli.IntFlag{Name: "chrono-levelim", Usage: "max level gap before forcing non-chronological backtrack", Value: 100},
		cli.BoolFlag{Name: "chrono-reuse-trail", Usage: "reuse trail entries by priority under chronological backtracking"},

		cli.BoolTFlag{Name: "minimize", Usage: "minimize learned clauses"},

		cli.BoolFlag{Name: "phase", Usage: "default initial phase true (otherwise false)"},
		cli.BoolFlag{Name: "force-phase", Usage: "always use the forced initial phase"},
		cli.BoolTFlag{Name: "force-saved-phase", Usage: "prefer each variable's saved phase"},
		cli.BoolFlag{Name: "stabilize-phase", Usage: "prefer each variable's target phase"},
		cli.BoolFlag{Name: "stable", Usage: "drive decisions from VMTF instead of EVSIDS"},

		cli.Float64Flag{Name: "score-factor", Usage: "EVSIDS score increment growth factor", Value: 952},

		cli.BoolFlag{Name: "shuffle", Usage: "enable rephase shuffling"},
		cli.BoolTFlag{Name: "shuffle-queue", Usage: "shuffle the VMTF queue order"},
		cli.BoolFlag{Name: "shuffle-scores", Usage: "shuffle EVSIDS scores"},
		cli.BoolFlag{Name: "shuffle-random", Usage: "seed shuffling from the random source"},
		cli.Uint64Flag{Name: "seed", Usage: "PRNG seed for shuffling"},
		cli.BoolFlag{Name: "reverse", Usage: "reverse variables created in one VMTF init call (variables are created one at a time, so the queue stays in index order)"},

		cli.BoolTFlag{Name: "elim", Usage: "run bounded variable elimination before search"},
		cli.IntFlag{Name: "elim-growth", Usage: "max extra resolvents tolerated per eliminated variable", Value: 16},
		cli.BoolTFlag{Name: "elim-equivs", Usage: "look for equivalence gates"},
		cli.BoolTFlag{Name: "elim-ands", Usage: "look for AND gates"},
		cli.BoolTFlag{Name: "elim-ites", Usage: "look for if-then-else gates"},
		cli.BoolTFlag{Name: "elim-xors", Usage: "look for XOR gates"},
		cli.IntFlag{Name: "elim-xor-lim", Usage: "max XOR gate arity", Value: 8},
		cli.BoolTFlag{Name: "elim-subst", Usage: "substitute eliminated variables back into the model"},

		cli.BoolTFlag{Name: "eager-subsume", Usage: "eagerly subsume recently learned clauses"},
		cli.IntFlag{Name: "eager-subsume-lim", Usage: "max eager-subsumption attempts per conflict", Value: 50},

		cli.BoolTFlag{Name: "lucky", Usage: "try the lucky pre-solver before real search"},

		cli.IntFlag{Name: "radix-sort-lim", Usage: "radix-sort threshold (not consulted: learned clauses are always insertion-sorted)", Value: 800},
		cli.IntFlag{Name: "reduce-tier2-glue", Usage: "glue threshold for tier-2 clause promotion", Value: 6},

		cli.IntFlag{Name: "restart-first", Usage: "base restart conflict budget", Value: 100},
		cli.Float64Flag{Name: "restart-increase-ratio", Usage: "Luby sequence base", Value: 2},
		cli.Float64Flag{Name: "max-learnt-init", Usage: "initial learned-clause reduction threshold", Value: 100},
		cli.Float64Flag{Name: "max-learnt-growth", Usage: "learned-clause threshold growth per reduceDB", Value: 1.05},

		cli.Float64Flag{Name: "var-decay", Usage: "EVSIDS score increment decay", Value: 0.95},
		cli.Float64Flag{Name: "clause-decay", Usage: "learned-clause activity decay", Value: 0.999},
	}
}

func optionsFromContext(c *cli.Context, log *logrus.Logger) core.Options {
	opts := core.DefaultOptions()
	opts.Bump = c.BoolT("bump")
	opts.BumpReason = c.Bool("bump-reason")
	opts.BumpReasonDepth = c.Int("bump-reason-depth")
	opts.Chrono = c.BoolT("chrono")
	opts.ChronoAlways = c.Bool("chrono-always")
	opts.ChronoLevelim = int32(c.Int("chrono-levelim"))
	opts.ChronoReuseTrail = c.Bool("chrono-reuse-trail")
	opts.Minimize = c.BoolT("minimize")
	opts.Phase = c.Bool("phase")
	opts.ForcePhase = c.Bool("force-phase")
	opts.ForceSavedPhase = c.BoolT("force-saved-phase")
	opts.StabilizePhase = c.Bool("stabilize-phase")
	opts.Stable = c.Bool("stable")
	opts.ScoreFactor = c.Float64("score-factor")
	opts.Shuffle = c.Bool("shuffle")
	opts.ShuffleQueue = c.BoolT("shuffle-queue")
	opts.ShuffleScores = c.Bool("shuffle-scores")
	opts.ShuffleRandom = c.Bool("shuffle-random")
	opts.Seed = c.Uint64("seed")
	opts.Reverse = c.Bool("reverse")
	opts.Elim = c.BoolT("elim")
	opts.ElimGrowth = c.Int("elim-growth")
	opts.ElimEquivs = c.BoolT("elim-equivs")
	opts.ElimAnds = c.BoolT("elim-ands")
	opts.ElimItes = c.BoolT("elim-ites")
	opts.ElimXors = c.BoolT("elim-xors")
	opts.ElimXorLim = c.Int("elim-xor-lim")
	opts.ElimSubst = c.BoolT("elim-subst")
	opts.EagerSubsume = c.BoolT("eager-subsume")
	opts.EagerSubsumeLim = c.Int("eager-subsume-lim")
	opts.Lucky = c.BoolT("lucky")
	opts.RadixSortLim = c.Int("radix-sort-lim")
	opts.ReduceTier2Glue = int32(c.Int("reduce-tier2-glue"))
	opts.RestartFirst = c.Int("restart-first")
	opts.RestartIncreaseRatio = c.Float64("restart-increase-ratio")
	opts.MaxLearntInit = c.Float64("max-learnt-init")
	opts.MaxLearntGrowth = c.Float64("max-learnt-growth")
	opts.VarDecay = c.Float64("var-decay")
	opts.ClauseDecay = c.Float64("clause-decay")
	opts.Logger = log
	return opts
}

func newLogger(verbosity string) *logrus.Logger {
	if verbosity == "" {
		return nil
	}
	log := logrus.New()
	lvl, err := logrus.ParseLevel(verbosity)
	if err != nil {
		log.Warnf("unknown verbosity %q, defaulting to info", verbosity)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func printProblemStatistics(log *logrus.Logger, s *core.Solver) {
	if log == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"variables": s.NumVars(),
		"clauses":   len(s.Clauses),
	}).Info("problem statistics")
}

func printModel(w *os.File, s *core.Solver) {
	fmt.Fprint(w, "v ")
	for _, lit := range s.Model() {
		fmt.Fprintf(w, "%d ", lit)
	}
	fmt.Fprintln(w, "0")
}

func setTimeout(s *core.Solver, seconds int) {
	if seconds <= 0 {
		return
	}
	deadline := time.Now().Add(time.Duration(seconds) * time.Second)
	s.SetAbort(func() bool { return time.Now().After(deadline) })
}

func setInterrupt(s *core.Solver) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("c INTERRUPT")
		fmt.Println("\ns INDETERMINATE")
		os.Exit(0)
	}()
}

func dumpOnPanic(debug bool) {
	if r := recover(); r != nil {
		if debug {
			pp.Println(r)
		}
		panic(r)
	}
}

func run(c *cli.Context) error {
	inputFile := c.String("input-file")
	if inputFile == "" {
		cli.ShowAppHelpAndExit(c, 2)
	}
	debug := c.Bool("debug")
	defer dumpOnPanic(debug)

	log := newLogger(c.String("verbosity"))
	opts := optionsFromContext(c, log)
	solver := core.NewSolver(opts)

	if proofFile := c.String("proof-file"); proofFile != "" {
		f, err := os.Create(proofFile)
		if err != nil {
			return err
		}
		defer f.Close()
		sink := proof.NewSink(f)
		solver.Proof = sink
		defer sink.Flush(nil)
	}

	fp, err := os.Open(inputFile)
	if err != nil {
		return err
	}
	defer fp.Close()

	if _, err := dimacs.Parse(bufio.NewReader(fp), builderAdapter{s: solver}); err != nil {
		return err
	}

	setTimeout(solver, c.Int("cpu-time-limit"))
	setInterrupt(solver)

	printProblemStatistics(log, solver)
	status := solver.Solve()
	if log != nil {
		solver.Stats.Report(log, 'f')
	}
	fmt.Fprint(os.Stderr, "c\n")
	for _, line := range strings.Split(strings.TrimRight(solver.Stats.Summary(), "\n"), "\n") {
		fmt.Fprintf(os.Stderr, "c %s\n", line)
	}

	out := os.Stdout
	if outFile := c.String("result-output-file"); outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch status {
	case core.StatusSat:
		fmt.Fprintln(out, "s SATISFIABLE")
		printModel(out, solver)
	case core.StatusUnsat:
		fmt.Fprintln(out, "s UNSATISFIABLE")
	default:
		fmt.Fprintln(out, "s INDETERMINATE")
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "lucid"
	app.Usage = "a CDCL SAT solver core"
	app.Flags = flags()
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
