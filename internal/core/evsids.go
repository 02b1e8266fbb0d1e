package core

import "math/rand"

// evsidsLimit is the rescale threshold; 10^150 leaves ~158 decimal
// orders of headroom below float64 overflow (spec.md §5, §9).
const evsidsLimit = 1e150

// EVSIDS is a max-heap of variables keyed by floating-point score, with
// an exponentially growing bump increment (spec.md §4.5). The heap
// layout and percolate routines are grounded on the teacher's Heap
// (heap.go), generalized for the 0/+ activity-decay model into the
// EVSIDS rescale rule spec.md prescribes.
type EVSIDS struct {
	vars *Vars

	data    []Var
	indices []int // index into data by Var; -1 if not in heap

	Scinc float64
}

// NewEVSIDS creates an empty EVSIDS heap with the given initial increment.
func NewEVSIDS(vs *Vars, initialScinc float64) *EVSIDS {
	return &EVSIDS{vars: vs, Scinc: initialScinc}
}

// Grow ensures the index slice covers at least n variables.
func (h *EVSIDS) Grow(n int) {
	for len(h.indices) < n {
		h.indices = append(h.indices, -1)
	}
}

func (h *EVSIDS) less(i, j Var) bool { return h.vars.Rec(i).Score > h.vars.Rec(j).Score }

// Contains reports whether v is currently present in the heap.
func (h *EVSIDS) Contains(v Var) bool { return int(v) < len(h.indices) && h.indices[v] >= 0 }

// Len returns the number of variables in the heap.
func (h *EVSIDS) Len() int { return len(h.data) }

// Front returns the heap root without popping it.
func (h *EVSIDS) Front() Var {
	if len(h.data) == 0 {
		return VarUndef
	}
	return h.data[0]
}

// Push inserts v into the heap.
func (h *EVSIDS) Push(v Var) {
	if h.Contains(v) {
		panic("core: variable already in EVSIDS heap")
	}
	h.Grow(int(v) + 1)
	h.data = append(h.data, v)
	h.indices[v] = len(h.data) - 1
	h.percolateUp(len(h.data) - 1)
}

// Pop removes and returns the heap root.
func (h *EVSIDS) Pop() Var {
	top := h.data[0]
	last := len(h.data) - 1
	h.data[0] = h.data[last]
	h.indices[h.data[0]] = 0
	h.indices[top] = -1
	h.data = h.data[:last]
	if len(h.data) > 0 {
		h.percolateDown(0)
	}
	return top
}

// Update re-establishes heap order for v after its score changed.
func (h *EVSIDS) Update(v Var) {
	if !h.Contains(v) {
		h.Push(v)
		return
	}
	i := h.indices[v]
	h.percolateUp(i)
	h.percolateDown(h.indices[v])
}

func (h *EVSIDS) percolateUp(i int) {
	x := h.data[i]
	for i > 0 {
		p := (i - 1) >> 1
		if !h.less(x, h.data[p]) {
			break
		}
		h.data[i] = h.data[p]
		h.indices[h.data[i]] = i
		i = p
	}
	h.data[i] = x
	h.indices[x] = i
}

func (h *EVSIDS) percolateDown(i int) {
	x := h.data[i]
	n := len(h.data)
	for {
		l, r := 2*i+1, 2*i+2
		if l >= n {
			break
		}
		child := l
		if r < n && h.less(h.data[r], h.data[l]) {
			child = r
		}
		if !h.less(h.data[child], x) {
			break
		}
		h.data[i] = h.data[child]
		h.indices[h.data[i]] = i
		i = child
	}
	h.data[i] = x
	h.indices[x] = i
}

// rescale divides every score and Scinc by max(Scinc, max score),
// preserving relative order while keeping all values <= 1.
func (h *EVSIDS) rescale() {
	divider := h.Scinc
	n := Var(h.vars.N())
	for v := Var(0); v < n; v++ {
		if s := h.vars.Rec(v).Score; s > divider {
			divider = s
		}
	}
	for v := Var(0); v < n; v++ {
		h.vars.Rec(v).Score /= divider
	}
	h.Scinc /= divider
}

// Bump increases v's score by Scinc, rescales if the new score exceeds
// evsidsLimit, then re-heapifies v.
func (h *EVSIDS) Bump(v Var) {
	r := h.vars.Rec(v)
	r.Score += h.Scinc
	if r.Score > evsidsLimit {
		h.rescale()
	}
	if h.Contains(v) {
		h.Update(v)
	}
}

// BumpScinc grows the global increment by the EVSIDS growth factor
// (1000/scorefactor, so a typical scorefactor yields ~1.05x growth per
// conflict) and rescales if that overflows the headroom.
func (h *EVSIDS) BumpScinc(scorefactor float64) {
	h.Scinc *= 1000.0 / scorefactor
	if h.Scinc > evsidsLimit {
		h.rescale()
	}
}

// NextUnassignedTop pops assigned variables off the root until the top
// is unassigned (or the heap empties), returning that variable.
func (h *EVSIDS) NextUnassignedTop() Var {
	for h.Len() > 0 {
		top := h.Front()
		if !h.vars.Assigned(top) {
			return top
		}
		h.Pop()
	}
	return VarUndef
}

// Shuffle evacuates the heap (randomly or in heap order), reassigns
// monotonically increasing scores starting at 0, and re-pushes.
func (h *EVSIDS) Shuffle(seed uint64, random bool) {
	order := append([]Var(nil), h.data...)
	if random {
		r := rand.New(rand.NewSource(int64(seed)))
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	for _, v := range order {
		h.indices[v] = -1
	}
	h.data = h.data[:0]
	for i, v := range order {
		h.vars.Rec(v).Score = float64(i)
		h.Push(v)
	}
}
