package idealmem

import "github.com/sarchlab/rvcosim/mem/cache/writeback"

// txn is a request in flight.
type txn struct {
	Req       writeback.LineRequest
	Remaining int
}

// Stats counts the activities of the memory.
type Stats struct {
	Reads    uint64
	Writes   uint64
	Faults   uint64
	Rejected uint64
}

// State is the runtime data of the memory. It is pure data.
type State struct {
	Inflight []txn
	Done     []writeback.Completion

	// Accepted counts the requests taken since the last tick.
	Accepted int

	Stats Stats
}

// A FaultRange makes the requests to the addresses in [Start, End) fail.
type FaultRange struct {
	Start, End uint64
	OnRead     bool
	OnWrite    bool
}

func (r FaultRange) hits(req writeback.LineRequest) bool {
	if req.Addr < r.Start || req.Addr >= r.End {
		return false
	}

	if req.IsWrite {
		return r.OnWrite
	}

	return r.OnRead
}
