package core

// defaultMinimizer implements the non-recursive "basic" minimization
// the teacher ships (togatoga-gatosat/solver.go, the "Simplify conflict
// clause / Basic" block of Analyze): a literal is dropped if every
// other literal of its assignment's reason clause is already seen or
// at level 0, meaning that reason already subsumes it within the
// learned clause. Variables marked Poison/Removable are reserved by the
// data model (spec.md §3) for a recursive minimizer; this repo ships
// the non-recursive variant the teacher actually implements (see
// DESIGN.md).
type defaultMinimizer struct{}

// Minimize implements the Minimizer interface.
func (defaultMinimizer) Minimize(s *Solver, lits []Lit) []Lit {
	if len(lits) <= 1 {
		return lits
	}
	marked := make(map[Var]bool, len(lits))
	for _, l := range lits {
		marked[l.Var()] = true
	}
	uip := lits[len(lits)-1] // -uip, appended last by deriveFirstUIP, always kept
	kept := lits[:0]
	for i := 0; i < len(lits)-1; i++ {
		x := lits[i].Var()
		ref := s.Vars.Reason(x)
		if ref == RefNone || ref == RefDecision {
			kept = append(kept, lits[i])
			continue
		}
		redundant := true
		for _, v := range s.Alloc.Clause(ref).Lits {
			if v.Var() == x {
				continue
			}
			if !marked[v.Var()] && s.Vars.Level(v.Var()) != 0 {
				redundant = false
				break
			}
		}
		if !redundant {
			kept = append(kept, lits[i])
		}
	}
	return append(kept, uip)
}
