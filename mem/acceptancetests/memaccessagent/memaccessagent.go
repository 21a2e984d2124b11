// Package memaccessagent provides an agent that drives a write-back cache
// with a workload and checks every read against the values it wrote.
package memaccessagent

import (
	"bytes"
	"errors"
	"log"

	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/sim"
)

// A Mismatch is a read that returned data other than what was written.
type Mismatch struct {
	Addr     uint64
	Expected []byte
	Actual   []byte
}

// Stats counts what the agent has done.
type Stats struct {
	Reads    uint64
	Writes   uint64
	Flushes  uint64
	Faults   uint64
	Rejected uint64
}

// A MemAccessAgent is a Component that issues the ops of a workload to a
// cache, one at a time, and keeps a model of the memory to check the reads.
type MemAccessAgent struct {
	*sim.TickingComponent

	Cache    *writeback.Comp
	Workload Workload
	DumpLog  bool

	KnownMemValue map[uint64][]byte
	Mismatches    []Mismatch
	Stats         Stats

	lineSize int
	pending  *writeback.Request
	pendOp   Op
	flushing bool
	done     bool

	responses  []writeback.Response
	flushEnded bool
	flushFault bool
}

// Done tells if the workload is used up and the last op has finished.
func (a *MemAccessAgent) Done() bool {
	return a.done
}

// Func receives the responses and the flush ends of the cache.
func (a *MemAccessAgent) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case writeback.HookPosResponse:
		a.responses = append(a.responses, ctx.Item.(writeback.Response))
	case writeback.HookPosFlushEnd:
		a.flushEnded = true
		a.flushFault = ctx.Item.(writeback.FlushResult).Fault
	default:
		return
	}

	if a.Engine != nil {
		a.TickLater()
	}
}

// Tick processes the finished op and issues the next one.
func (a *MemAccessAgent) Tick() bool {
	madeProgress := a.processResponses()
	madeProgress = a.processFlushEnd() || madeProgress

	if a.pending != nil || a.flushing || a.done {
		return madeProgress
	}

	return a.issue() || madeProgress
}

func (a *MemAccessAgent) processResponses() bool {
	if len(a.responses) == 0 {
		return false
	}

	for _, rsp := range a.responses {
		if a.pending == nil || rsp.ReqID != a.pending.ID {
			log.Panicf("response to unknown request %s", rsp.ReqID)
		}

		a.complete(rsp)
		a.pending = nil
	}

	a.responses = a.responses[:0]

	return true
}

func (a *MemAccessAgent) complete(rsp writeback.Response) {
	op := a.pendOp

	if rsp.Fault {
		a.Stats.Faults++

		if a.DumpLog {
			log.Printf("%.10f, agent, %s fault, 0x%X\n",
				a.CurrentTime(), op.Kind, op.Addr)
		}

		return
	}

	switch op.Kind {
	case OpWrite:
		a.store(op.Addr, op.Data)
	case OpRead:
		a.check(op, rsp.Data)
	}

	if a.DumpLog {
		log.Printf("%.10f, agent, %s complete, 0x%X, %v\n",
			a.CurrentTime(), op.Kind, op.Addr, rsp.Data)
	}
}

func (a *MemAccessAgent) processFlushEnd() bool {
	if !a.flushEnded {
		return false
	}

	a.flushEnded = false
	a.flushing = false

	if a.flushFault {
		a.Stats.Faults++
	}

	return true
}

func (a *MemAccessAgent) issue() bool {
	op, ok := a.Workload.Next()
	if !ok {
		a.done = true
		return false
	}

	if op.Kind == OpFlush {
		a.Stats.Flushes++
		a.flushing = true
		a.Cache.RequestFlush()

		return true
	}

	req := a.toRequest(op)

	err := a.Cache.Present(req)
	if errors.Is(err, writeback.ErrBusy) {
		log.Panic("cache is busy while the agent has nothing pending")
	}

	if err != nil {
		a.Stats.Rejected++
		log.Printf("agent: op %s at 0x%X rejected: %v", op.Kind, op.Addr, err)

		return true
	}

	if op.Kind == OpWrite {
		a.Stats.Writes++
	} else {
		a.Stats.Reads++
	}

	a.pending = &req
	a.pendOp = op

	return true
}

func (a *MemAccessAgent) toRequest(op Op) writeback.Request {
	req := writeback.Request{
		ID:   sim.GetIDGenerator().Generate(),
		Addr: op.Addr,
	}

	if op.Kind == OpRead {
		req.Width = op.Width
		return req
	}

	lineAddr := a.lineAddr(op.Addr)
	offset := int(op.Addr - lineAddr)

	if offset+len(op.Data) > a.lineSize {
		log.Panicf("write of %d bytes at 0x%X crosses a line",
			len(op.Data), op.Addr)
	}

	req.IsWrite = true
	req.Addr = lineAddr
	req.Data = make([]byte, a.lineSize)
	req.Mask = make([]bool, a.lineSize)

	for i, b := range op.Data {
		req.Data[offset+i] = b
		req.Mask[offset+i] = true
	}

	return req
}

func (a *MemAccessAgent) lineAddr(addr uint64) uint64 {
	return addr &^ uint64(a.lineSize-1)
}

func (a *MemAccessAgent) store(addr uint64, data []byte) {
	for i, b := range data {
		byteAddr := addr + uint64(i)
		line := a.line(byteAddr)
		line[byteAddr-a.lineAddr(byteAddr)] = b
	}
}

func (a *MemAccessAgent) line(addr uint64) []byte {
	lineAddr := a.lineAddr(addr)

	line, ok := a.KnownMemValue[lineAddr]
	if !ok {
		line = make([]byte, a.lineSize)
		a.KnownMemValue[lineAddr] = line
	}

	return line
}

// Expected returns the bytes the agent believes are in memory.
func (a *MemAccessAgent) Expected(addr uint64, n int) []byte {
	out := make([]byte, n)

	for i := range out {
		byteAddr := addr + uint64(i)
		if line, ok := a.KnownMemValue[a.lineAddr(byteAddr)]; ok {
			out[i] = line[byteAddr-a.lineAddr(byteAddr)]
		}
	}

	return out
}

func (a *MemAccessAgent) check(op Op, actual []byte) {
	addr := op.Addr
	n := op.Width

	if n == 0 {
		addr = a.lineAddr(op.Addr)
		n = a.lineSize
	}

	expected := a.Expected(addr, n)
	if bytes.Equal(expected, actual) {
		return
	}

	a.Mismatches = append(a.Mismatches, Mismatch{
		Addr:     addr,
		Expected: expected,
		Actual:   actual,
	})

	log.Printf("agent: mismatch at 0x%X, expected %v, got %v",
		addr, expected, actual)
}
