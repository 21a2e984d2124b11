// Package trace provides tracers that record the requests a write-back cache
// serves.
package trace

import (
	"encoding/hex"
	"log"

	"github.com/sarchlab/rvcosim/datarecording"
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/sim"
	"github.com/sarchlab/rvcosim/tracing"
)

// memoryTransactionEntry represents a memory transaction in the database
type memoryTransactionEntry struct {
	ID        string
	ParentID  string
	Location  string
	Kind      string
	What      string
	StartTime float64
	EndTime   float64
	Address   uint64
	ByteSize  uint64 // 0 for a read of a whole line
}

// A replayTracer writes the front-end requests of a cache as a trace that
// cachesim can run again. Each line is "R <addr> [width]", "W <addr> <hex>"
// or "F", preceded by a comment with the start time.
type replayTracer struct {
	timeTeller sim.TimeTeller
	logger     *log.Logger
}

// NewReplayTracer creates a tracer that writes a replayable trace.
func NewReplayTracer(
	logger *log.Logger,
	timeTeller sim.TimeTeller,
) tracing.Tracer {
	t := new(replayTracer)
	t.logger = logger
	t.timeTeller = timeTeller

	return t
}

// StartTask writes the request of the task.
func (t *replayTracer) StartTask(task tracing.Task) {
	switch task.Kind {
	case "flush":
		t.logger.Printf("# %.12f\nF\n", t.timeTeller.CurrentTime())
	case "req_in":
		req, ok := task.Detail.(writeback.Request)
		if !ok || req.Direct {
			return
		}

		t.logger.Printf("# %.12f, %s\n", t.timeTeller.CurrentTime(), task.ID)
		t.writeRequest(req)
	}
}

func (t *replayTracer) writeRequest(req writeback.Request) {
	if !req.IsWrite {
		if req.Width == 0 {
			t.logger.Printf("R 0x%x\n", req.Addr)
			return
		}

		t.logger.Printf("R 0x%x %d\n", req.Addr, req.Width)

		return
	}

	for _, run := range maskedRuns(req.Mask, len(req.Data)) {
		t.logger.Printf("W 0x%x %s\n",
			req.Addr+uint64(run[0]),
			hex.EncodeToString(req.Data[run[0]:run[1]]))
	}
}

// maskedRuns returns the [start, end) ranges of consecutive enabled bytes. A
// nil mask enables all the bytes.
func maskedRuns(mask []bool, n int) [][2]int {
	if mask == nil {
		if n == 0 {
			return nil
		}

		return [][2]int{{0, n}}
	}

	var runs [][2]int

	start := -1

	for i, enabled := range mask {
		switch {
		case enabled && start < 0:
			start = i
		case !enabled && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}

	if start >= 0 {
		runs = append(runs, [2]int{start, len(mask)})
	}

	return runs
}

// StepTask does nothing
func (t *replayTracer) StepTask(_ tracing.Task) {
	// Do nothing
}

// EndTask does nothing
func (t *replayTracer) EndTask(_ tracing.Task) {
	// Do nothing
}

// A dbTracer is a hook that can record the requests of a cache, both the ones
// it serves and the ones it sends to the backing store, into a database using
// the data recorder.
type dbTracer struct {
	timeTeller          sim.TimeTeller
	dataRecorder        datarecording.DataRecorder
	pendingTransactions map[string]*memoryTransactionEntry
}

// NewDBTracer creates a new database-based Tracer.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	timeTeller sim.TimeTeller,
) tracing.Tracer {
	t := &dbTracer{
		timeTeller:          timeTeller,
		dataRecorder:        dataRecorder,
		pendingTransactions: make(map[string]*memoryTransactionEntry),
	}

	t.dataRecorder.CreateTable("memory_transactions", memoryTransactionEntry{})

	return t
}

// StartTask marks the start of a memory transaction
func (t *dbTracer) StartTask(task tracing.Task) {
	addr, size, ok := addressOf(task.Detail)
	if !ok {
		return
	}

	t.pendingTransactions[task.ID] = &memoryTransactionEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Location:  task.Location,
		Kind:      task.Kind,
		What:      task.What,
		StartTime: float64(t.timeTeller.CurrentTime()),
		Address:   addr,
		ByteSize:  size,
	}
}

func addressOf(detail any) (addr, size uint64, ok bool) {
	switch req := detail.(type) {
	case writeback.Request:
		size = uint64(req.Width)
		if req.IsWrite || size == 0 {
			size = uint64(len(req.Data))
		}

		return req.Addr, size, true
	case writeback.LineRequest:
		return req.Addr, uint64(len(req.Data)), true
	default:
		return 0, 0, false
	}
}

// StepTask does nothing
func (t *dbTracer) StepTask(_ tracing.Task) {
	// Do nothing
}

// EndTask marks the end of a memory transaction
func (t *dbTracer) EndTask(task tracing.Task) {
	entry, exists := t.pendingTransactions[task.ID]
	if !exists {
		return
	}

	entry.EndTime = float64(t.timeTeller.CurrentTime())
	t.dataRecorder.InsertData("memory_transactions", *entry)

	delete(t.pendingTransactions, task.ID)
}
