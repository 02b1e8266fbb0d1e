// Package dimacs reads and writes the DIMACS CNF format, grounded on
// the teacher's dimacs.go (togatoga-gatosat) but extended with a writer
// side for round-tripping in tests and returning wrapped errors instead
// of the teacher's bare fmt.Errorf/panic mix.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/satcore/lucid/internal/core"
)

// Builder receives each parsed clause; the solver implements it via a
// thin adapter (cmd/lucid wires core.Solver.AddClauseDimacs).
type Builder interface {
	EnsureVar(dimacsVar int)
	AddClause(lits []int) bool
}

// Header is the parsed "p cnf <vars> <clauses>" line.
type Header struct {
	Vars    int
	Clauses int
}

// Parse reads DIMACS CNF from r, calling b.EnsureVar/b.AddClause for
// each variable/clause encountered, and returns the declared header.
func Parse(r io.Reader, b Builder) (Header, error) {
	var hdr Header
	seen := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p cnf") {
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return hdr, errors.Errorf("dimacs: malformed header %q", line)
			}
			v, err := strconv.Atoi(fields[2])
			if err != nil {
				return hdr, errors.Wrap(err, "dimacs: header var count")
			}
			c, err := strconv.Atoi(fields[3])
			if err != nil {
				return hdr, errors.Wrap(err, "dimacs: header clause count")
			}
			hdr.Vars, hdr.Clauses = v, c
			continue
		}
		lits, err := parseClauseLine(line)
		if err != nil {
			return hdr, err
		}
		for _, x := range lits {
			v := x
			if v < 0 {
				v = -v
			}
			b.EnsureVar(v)
		}
		seen++
		b.AddClause(lits)
	}
	if err := scanner.Err(); err != nil {
		return hdr, errors.Wrap(err, "dimacs: scan")
	}
	if hdr.Clauses != 0 && seen != hdr.Clauses {
		return hdr, errors.Errorf("dimacs: header declared %d clauses, found %d", hdr.Clauses, seen)
	}
	return hdr, nil
}

func parseClauseLine(line string) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, errors.Errorf("dimacs: clause not terminated by 0: %q", line)
	}
	lits := make([]int, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		x, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "dimacs: bad literal %q", f)
		}
		if x == 0 {
			return nil, errors.Errorf("dimacs: unexpected 0 inside clause: %q", line)
		}
		lits = append(lits, x)
	}
	return lits, nil
}

// WriteCNF writes clauses (each a slice of signed DIMACS literals) to w
// as a DIMACS CNF file with a "p cnf" header sized to nvars.
func WriteCNF(w io.Writer, nvars int, clauses [][]int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", nvars, len(clauses)); err != nil {
		return err
	}
	for _, c := range clauses {
		for _, l := range c {
			if _, err := fmt.Fprintf(bw, "%d ", l); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw, "0"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LitsToDimacs converts internal literals back to a signed-int slice,
// used by callers that want to hand a learned clause to WriteCNF.
func LitsToDimacs(lits []core.Lit) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = l.Dimacs()
	}
	return out
}
