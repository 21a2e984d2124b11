package writeback

import (
	"log"

	"github.com/sarchlab/rvcosim/mem/cache"
)

// OpKind names the kind of an ArrayOp.
type OpKind int

// The kinds of array updates.
const (
	OpTouch OpKind = iota
	OpInstall
	OpUpdate
	OpSetFlags
	OpInvalidate
	OpResetAll
)

// An ArrayOp is an update to the cache array computed during a cycle and
// applied when the cycle commits.
type ArrayOp struct {
	Kind  OpKind
	Addr  uint64
	Set   int
	Way   int
	Tag   uint64
	Data  []byte
	Mask  []bool
	Flags cache.Flags
}

// Apply performs the update on the array.
func (op ArrayOp) Apply(a cache.Array) {
	switch op.Kind {
	case OpTouch:
		a.Touch(op.Addr, op.Way)
	case OpInstall:
		a.Install(op.Addr, op.Way, op.Data, op.Flags)
	case OpUpdate:
		a.Update(op.Addr, op.Way, op.Data, op.Mask, op.Flags)
	case OpSetFlags:
		a.SetFlags(op.Set, op.Way, op.Flags)
	case OpInvalidate:
		a.InvalidateAt(op.Set, op.Way)
	case OpResetAll:
		a.ResetAll()
	default:
		log.Panicf("unknown array op kind %d", op.Kind)
	}
}

// writes tells if the op changes the line that holds tag in the set. The way
// is the one holding the tag before the op, or cache.AnyWay if none does.
func (op ArrayOp) writes(set, way int, tag uint64) bool {
	switch op.Kind {
	case OpResetAll:
		return true
	case OpTouch:
		return false
	case OpInstall:
		return op.Set == set && (op.Way == way || op.Tag == tag)
	default:
		return op.Set == set && op.Way == way
	}
}

func applyOps(a cache.Array, ops []ArrayOp) {
	for _, op := range ops {
		op.Apply(a)
	}
}
