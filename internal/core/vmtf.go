package core

import "math/rand"

// linkNone marks an absent next/prev link in the VMTF list.
const linkNone Var = -1

// VMTF is the Variable Move-To-Front decision queue (spec.md §4.4): a
// doubly linked list of all variables ordered by bump timestamp, with a
// memoized "next unassigned" hint. Every variable strictly to the right
// of Unassigned in list order is assigned; Unassigned itself is only a
// lower bound on where to resume the search.
type VMTF struct {
	vars *Vars

	next, prev []Var
	head, tail Var

	Unassigned  Var
	bumped      uint64 // global timestamp counter, strictly increasing
	shuffleSeed uint64
}

// NewVMTF builds a VMTF queue over n variables in index order (0, 1, ...
// n-1 from head to tail), mirroring the teacher's natural insertion
// order unless Options.Reverse requests the opposite.
func NewVMTF(vs *Vars, n int, reverse bool) *VMTF {
	q := &VMTF{vars: vs, head: linkNone, tail: linkNone, Unassigned: linkNone}
	q.Init(0, n, reverse)
	return q
}

// Init appends newly created variables [oldMax, newMax) to the tail,
// each receiving a strictly increasing timestamp.
func (q *VMTF) Init(oldMax, newMax int, reverse bool) {
	for len(q.next) < newMax {
		q.next = append(q.next, linkNone)
		q.prev = append(q.prev, linkNone)
	}
	order := make([]Var, 0, newMax-oldMax)
	for i := oldMax; i < newMax; i++ {
		order = append(order, Var(i))
	}
	if reverse {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	for _, v := range order {
		q.linkTail(v)
		q.bumped++
		q.vars.Rec(v).BumpedTS = q.bumped
	}
	if len(order) > 0 {
		// The new variables are unassigned and now rightmost.
		q.Unassigned = q.tail
	}
}

func (q *VMTF) linkTail(v Var) {
	q.prev[v] = q.tail
	q.next[v] = linkNone
	if q.tail != linkNone {
		q.next[q.tail] = v
	} else {
		q.head = v
	}
	q.tail = v
}

func (q *VMTF) unlink(v Var) {
	p, n := q.prev[v], q.next[v]
	if p != linkNone {
		q.next[p] = n
	} else {
		q.head = n
	}
	if n != linkNone {
		q.prev[n] = p
	} else {
		q.tail = p
	}
}

// Bump moves v to the tail of the queue and gives it a new maximum
// timestamp. A no-op if v is already the tail. If v is unassigned, the
// Unassigned hint is advanced to v since v is now the rightmost
// candidate.
func (q *VMTF) Bump(v Var) {
	if q.tail == v {
		return
	}
	q.unlink(v)
	q.linkTail(v)
	q.bumped++
	q.vars.Rec(v).BumpedTS = q.bumped
	if !q.vars.Assigned(v) {
		q.Unassigned = v
	}
}

// NextUnassigned walks Prev links from Unassigned past assigned
// variables, memoizes the result, and returns it. Returns VarUndef if
// every variable is assigned.
func (q *VMTF) NextUnassigned() Var {
	v := q.Unassigned
	for v != linkNone && q.vars.Assigned(v) {
		v = q.prev[v]
	}
	if v == linkNone {
		return VarUndef
	}
	q.Unassigned = v
	return v
}

// UpdateOnUnassign restores the Unassigned hint when v becomes
// unassigned again (e.g. on backtrack): if v lies to the right of the
// current hint (strictly later timestamp) the hint moves up to v, since
// v is now a nearer unassigned candidate.
func (q *VMTF) UpdateOnUnassign(v Var) {
	if q.Unassigned == linkNone || q.vars.Rec(v).BumpedTS > q.vars.Rec(q.Unassigned).BumpedTS {
		q.Unassigned = v
	}
}

// Shuffle rebuilds the list order either randomly (seed xor the queue's
// own shuffle counter) or by reversing the current order, then reassigns strictly
// increasing timestamps and resets Unassigned to the new tail.
func (q *VMTF) Shuffle(seed uint64, random bool) {
	order := make([]Var, 0, len(q.next))
	for v := q.head; v != linkNone; v = q.next[v] {
		order = append(order, v)
	}
	if random {
		r := rand.New(rand.NewSource(int64(seed ^ q.shuffleSeed)))
		q.shuffleSeed++
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	} else {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	q.head, q.tail = linkNone, linkNone
	for _, v := range order {
		q.linkTail(v)
		q.bumped++
		q.vars.Rec(v).BumpedTS = q.bumped
	}
	q.Unassigned = q.tail
}
