package writeback

import "github.com/sarchlab/rvcosim/mem/cache"

// Phase is the state of the cache controller.
type Phase int

// The phases of the controller.
const (
	PhaseReset Phase = iota
	PhaseIdle
	PhaseCheckHit
	PhaseTranslateMiss
	PhaseWaitGrant
	PhaseWaitResponse
	PhaseCheckResponse
	PhaseWriteBack
	PhaseFlushSweep
)

var phaseNames = [...]string{
	PhaseReset:         "Reset",
	PhaseIdle:          "Idle",
	PhaseCheckHit:      "CheckHit",
	PhaseTranslateMiss: "TranslateMiss",
	PhaseWaitGrant:     "WaitGrant",
	PhaseWaitResponse:  "WaitResponse",
	PhaseCheckResponse: "CheckResponse",
	PhaseWriteBack:     "WriteBack",
	PhaseFlushSweep:    "FlushSweep",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}

	return phaseNames[p]
}

// Pass tells why the pending backing store request was issued.
type Pass int

// The passes of a backing store request.
const (
	PassNone Pass = iota
	PassEvict
	PassFill
	PassFlush
)

// Stats counts the activities of the cache.
type Stats struct {
	Reads           uint64
	Writes          uint64
	Hits            uint64
	Misses          uint64
	WriteBacks      uint64
	Fills           uint64
	ReadFaults      uint64
	WriteFaults     uint64
	Flushes         uint64
	FlushWriteBacks uint64
}

// State is the committed register set of the controller. It is pure data.
type State struct {
	Phase Phase

	// The request being served.
	Req    Request
	HasReq bool
	Missed bool

	// Target is the address of the line being filled and Way the way it goes
	// to.
	Target uint64
	Way    int

	Pass      Pass
	Pending   LineRequest
	NextReqID uint64
	Fill      []byte

	FlushSet int
	FlushWay int

	FlushPending bool
	ResetPending bool

	Faulted   bool
	FaultAddr uint64

	Stats Stats
}

// Inputs are the signals sampled at the start of a cycle.
type Inputs struct {
	// Req is the request presented by the front end, if any.
	Req *Request

	Flush bool
	Reset bool

	SnoopAddr uint64

	// Granted tells if the backing store accepted the request issued in the
	// previous cycle.
	Granted bool

	// Completion is the finished backing store request, if any.
	Completion *Completion
}

// Outputs are the signals the controller drives during a cycle.
type Outputs struct {
	// Ready tells that the presented request was accepted.
	Ready bool

	RespValid bool
	Resp      Response

	// FlushEnd pulses when a flush sweep stops. FlushFault tells that it
	// stopped because a write-back failed.
	FlushEnd   bool
	FlushFault bool

	// BottomReq is the request to offer to the backing store.
	BottomReq *LineRequest

	// SnoopFlags is the state of the line at the snoop address before this
	// cycle's updates. SnoopReady is false when this cycle updates that line;
	// the change shows in the next cycle.
	SnoopFlags cache.Flags
	SnoopReady bool

	Err error
}
