package memaccessagent

import "math/rand"

// OpKind is the kind of an Op.
type OpKind int

// The kinds of ops an agent can issue.
const (
	OpRead OpKind = iota
	OpWrite
	OpFlush
)

func (k OpKind) String() string {
	switch k {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// An Op is one access of a workload. A write stores Data at Addr. A read
// loads Width bytes from Addr, or the whole line if Width is 0.
type Op struct {
	Kind  OpKind
	Addr  uint64
	Data  []byte
	Width int
}

// A Workload provides the ops an agent issues, in order.
type Workload interface {
	Next() (Op, bool)
}

// SliceWorkload replays a fixed list of ops.
type SliceWorkload struct {
	ops  []Op
	next int
}

// NewSliceWorkload creates a workload that replays the ops.
func NewSliceWorkload(ops []Op) *SliceWorkload {
	return &SliceWorkload{ops: ops}
}

// Next returns the next op.
func (w *SliceWorkload) Next() (Op, bool) {
	if w.next >= len(w.ops) {
		return Op{}, false
	}

	op := w.ops[w.next]
	w.next++

	return op, true
}

// Len returns the number of ops in the workload.
func (w *SliceWorkload) Len() int {
	return len(w.ops)
}

// RandomWorkload writes random 4-byte words and reads back words that were
// written before.
type RandomWorkload struct {
	MaxAddress uint64
	WriteLeft  int
	ReadLeft   int

	rng     *rand.Rand
	written []uint64
	known   map[uint64]bool
}

// NewRandomWorkload creates a random workload.
func NewRandomWorkload(
	seed int64,
	maxAddress uint64,
	numWrite, numRead int,
) *RandomWorkload {
	return &RandomWorkload{
		MaxAddress: maxAddress,
		WriteLeft:  numWrite,
		ReadLeft:   numRead,
		rng:        rand.New(rand.NewSource(seed)),
		known:      make(map[uint64]bool),
	}
}

// Next returns the next random op.
func (w *RandomWorkload) Next() (Op, bool) {
	if w.ReadLeft == 0 && w.WriteLeft == 0 {
		return Op{}, false
	}

	if w.shouldRead() {
		w.ReadLeft--

		addr := w.written[w.rng.Intn(len(w.written))]

		return Op{Kind: OpRead, Addr: addr, Width: 4}, true
	}

	w.WriteLeft--

	addr := w.rng.Uint64() % (w.MaxAddress / 4) * 4
	if !w.known[addr] {
		w.known[addr] = true
		w.written = append(w.written, addr)
	}

	data := make([]byte, 4)
	w.rng.Read(data)

	return Op{Kind: OpWrite, Addr: addr, Data: data}, true
}

func (w *RandomWorkload) shouldRead() bool {
	if len(w.written) == 0 || w.ReadLeft == 0 {
		return false
	}

	if w.WriteLeft == 0 {
		return true
	}

	return w.rng.Float64() > 0.5
}
