// Package core implements the search core of a CDCL SAT solver: unit
// propagation over watched literals, 1-UIP conflict analysis,
// (non-)chronological backjumping, VMTF and EVSIDS decision heuristics,
// gate extraction, and a lucky pre-solver.
package core

import "fmt"

// Var is a zero-based internal variable index. DIMACS variables are
// 1-based signed integers; VarOfDimacs/Lit.Dimacs convert at the boundary.
type Var int32

// VarUndef is returned by decision/queue lookups when none is available.
const VarUndef Var = -1

// Lit is a packed literal: 2*var + sign, sign bit 1 meaning negative.
// This mirrors the MiniSat/gatosat encoding so the watch index and
// value arrays can be addressed directly by literal.
type Lit int32

// LitUndef is the sentinel for "no literal".
const LitUndef Lit = -1

// NewLit packs a variable and a sign (true means negative) into a Lit.
func NewLit(v Var, negative bool) Lit {
	l := Lit(v) << 1
	if negative {
		l++
	}
	return l
}

// VarOfDimacs converts a 1-based DIMACS variable index to an internal Var.
func VarOfDimacs(v int) Var { return Var(v - 1) }

// LitOfDimacs converts a nonzero signed DIMACS literal to an internal Lit.
func LitOfDimacs(x int) Lit {
	if x == 0 {
		panic("LitOfDimacs: zero is not a literal")
	}
	if x > 0 {
		return NewLit(VarOfDimacs(x), false)
	}
	return NewLit(VarOfDimacs(-x), true)
}

// Dimacs converts l back to a signed 1-based DIMACS literal.
func (l Lit) Dimacs() int {
	d := int(l.Var()) + 1
	if l.Sign() {
		return -d
	}
	return d
}

// Var returns the variable underlying l.
func (l Lit) Var() Var { return Var(l >> 1) }

// Sign reports whether l is the negative occurrence of its variable.
func (l Lit) Sign() bool { return l&1 == 1 }

// Neg returns the negation of l.
func (l Lit) Neg() Lit { return l ^ 1 }

func (l Lit) String() string {
	if l == LitUndef {
		return "undef"
	}
	return fmt.Sprintf("%d", l.Dimacs())
}

func (v Var) String() string { return fmt.Sprintf("%d", int(v)+1) }
