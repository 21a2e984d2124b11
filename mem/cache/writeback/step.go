package writeback

import (
	"log"
	"strconv"

	"github.com/sarchlab/rvcosim/mem/cache"
)

type spanLooker interface {
	LookupSpan(addr uint64, width int) cache.SpanResult
}

// Step computes the next state and the outputs of a cycle. It only reads the
// array and cur. The returned ops must be applied to the array before the
// next call.
func Step(
	spec Spec,
	array cache.Array,
	cur State,
	in Inputs,
) (State, Outputs, []ArrayOp) {
	s := stepper{
		spec:   spec,
		layout: spec.Layout,
		array:  array,
		in:     in,
		next:   cur,
	}

	s.latchPulses()
	s.step()
	s.snoop()

	if s.next.Faulted {
		s.out.Err = faultError(s.next.FaultAddr)
	}

	return s.next, s.out, s.ops
}

type stepper struct {
	spec   Spec
	layout cache.Layout
	array  cache.Array
	in     Inputs

	next State
	out  Outputs
	ops  []ArrayOp
}

func (s *stepper) latchPulses() {
	if s.in.Flush {
		s.next.FlushPending = true
	}

	if s.in.Reset {
		s.next.ResetPending = true
	}
}

func (s *stepper) step() {
	switch s.next.Phase {
	case PhaseReset:
		s.reset()
	case PhaseIdle:
		s.idle()
	case PhaseCheckHit:
		s.checkHit()
	case PhaseTranslateMiss:
		s.translateMiss()
	case PhaseWaitGrant:
		s.waitGrant()
	case PhaseWriteBack:
		s.writeBack()
	case PhaseWaitResponse:
		s.waitResponse()
	case PhaseCheckResponse:
		s.checkResponse()
	case PhaseFlushSweep:
		s.flushSweep()
	default:
		log.Panicf("unknown phase %d", s.next.Phase)
	}
}

func (s *stepper) addOp(op ArrayOp) {
	s.ops = append(s.ops, op)
}

func (s *stepper) reset() {
	s.addOp(ArrayOp{Kind: OpResetAll})

	stats := s.next.Stats
	nextReqID := s.next.NextReqID
	flushPending := s.next.FlushPending

	s.next = State{
		Phase:        PhaseIdle,
		Stats:        stats,
		NextReqID:    nextReqID,
		FlushPending: flushPending,
	}
}

func (s *stepper) idle() {
	switch {
	case s.next.ResetPending:
		s.next.ResetPending = false
		s.next.Phase = PhaseReset
	case s.next.FlushPending:
		s.next.FlushPending = false
		s.next.FlushSet = 0
		s.next.FlushWay = 0
		s.next.Stats.Flushes++
		s.next.Phase = PhaseFlushSweep
	case s.in.Req != nil:
		s.accept(*s.in.Req)
	}
}

func (s *stepper) accept(req Request) {
	s.out.Ready = true

	s.next.Req = req
	s.next.HasReq = true
	s.next.Missed = false
	s.next.Phase = PhaseCheckHit

	if req.IsWrite {
		s.next.Stats.Writes++
	} else {
		s.next.Stats.Reads++
	}
}

func (s *stepper) respond(data []byte, fault bool) {
	s.out.RespValid = true
	s.out.Resp = Response{
		ReqID: s.next.Req.ID,
		Data:  data,
		Fault: fault,
	}

	s.next.Req = Request{}
	s.next.HasReq = false
	s.next.Missed = false
	s.next.Pass = PassNone
	s.next.Fill = nil
	s.next.Phase = PhaseIdle
}

// readData returns the bytes a read asks for out of the line that holds them.
func (s *stepper) readData(line []byte) []byte {
	req := s.next.Req
	if req.Width == 0 {
		return append([]byte(nil), line...)
	}

	offset := s.layout.Decompose(req.Addr).Offset

	return append([]byte(nil), line[offset:offset+req.Width]...)
}

func (s *stepper) checkHit() {
	req := s.next.Req

	switch {
	case req.Direct:
		s.checkDirect()
	case req.straddles(s.layout):
		s.checkSpan()
	default:
		s.checkLine()
	}
}

func (s *stepper) checkDirect() {
	req := s.next.Req
	res := s.array.Lookup(req.Addr, req.Way)
	line := res.Line()

	if !req.IsWrite {
		s.respond(s.readData(line.Data), false)
		return
	}

	if line.Flags.Valid {
		flags := line.Flags
		flags.Dirty = true

		s.addOp(ArrayOp{
			Kind:  OpUpdate,
			Addr:  req.Addr,
			Set:   res.Addr.Index,
			Way:   req.Way,
			Data:  req.Data,
			Mask:  req.Mask,
			Flags: flags,
		})
	}

	s.respond(nil, false)
}

func (s *stepper) checkLine() {
	req := s.next.Req
	res := s.array.Lookup(req.Addr, cache.AnyWay)

	if !res.Hit {
		s.miss(s.layout.AlignDown(req.Addr))
		return
	}

	s.countHit()

	if !req.IsWrite {
		s.addOp(ArrayOp{
			Kind: OpTouch,
			Addr: req.Addr,
			Set:  res.Addr.Index,
			Way:  res.Way,
		})
		s.respond(s.readData(res.Line().Data), false)

		return
	}

	flags := res.Line().Flags
	flags.Dirty = true

	s.addOp(ArrayOp{
		Kind:  OpUpdate,
		Addr:  req.Addr,
		Set:   res.Addr.Index,
		Way:   res.Way,
		Data:  req.Data,
		Mask:  req.Mask,
		Flags: flags,
	})
	s.respond(nil, false)
}

func (s *stepper) checkSpan() {
	req := s.next.Req

	looker, ok := s.array.(spanLooker)
	if !ok {
		log.Panicf("read of %d bytes at %#x crosses a line on an uncoupled array",
			req.Width, req.Addr)
	}

	span := looker.LookupSpan(req.Addr, req.Width)

	for i := 0; i < span.NumLines; i++ {
		if !span.Hits[i] {
			s.miss(span.Lines[i])
			return
		}
	}

	s.countHit()

	for i := 0; i < span.NumLines; i++ {
		s.addOp(ArrayOp{
			Kind: OpTouch,
			Addr: span.Lines[i],
			Set:  s.layout.Decompose(span.Lines[i]).Index,
			Way:  span.Ways[i],
		})
	}

	s.respond(span.Data, false)
}

func (s *stepper) countHit() {
	if !s.next.Missed {
		s.next.Stats.Hits++
	}
}

func (s *stepper) miss(lineAddr uint64) {
	if !s.next.Missed {
		s.next.Stats.Misses++
	}

	s.next.Missed = true
	s.next.Target = lineAddr
	s.next.Phase = PhaseTranslateMiss
}

func (s *stepper) translateMiss() {
	target := s.next.Target
	set := s.layout.Decompose(target).Index
	way := s.array.SelectVictim(target)
	victim := s.array.Peek(set, way)

	s.next.Way = way

	if victim.Flags.Valid && victim.Flags.Dirty {
		s.next.Stats.WriteBacks++
		s.issue(PassEvict, s.layout.LineAddr(victim.Tag, set), true,
			victim.Data)

		return
	}

	s.issue(PassFill, target, false, nil)
}

func (s *stepper) issue(pass Pass, addr uint64, isWrite bool, data []byte) {
	s.next.NextReqID++

	req := LineRequest{
		ID:      strconv.FormatUint(s.next.NextReqID, 10),
		Addr:    addr,
		IsWrite: isWrite,
		Data:    data,
	}

	s.next.Pass = pass
	s.next.Pending = req
	s.next.Phase = PhaseWaitGrant
	s.out.BottomReq = &req
}

func (s *stepper) waitGrant() {
	if !s.in.Granted {
		req := s.next.Pending
		s.out.BottomReq = &req

		return
	}

	switch s.next.Pass {
	case PassEvict, PassFlush:
		s.next.Phase = PhaseWriteBack
	case PassFill:
		s.next.Phase = PhaseWaitResponse
	default:
		log.Panicf("granted request %s has no pass", s.next.Pending.ID)
	}
}

func (s *stepper) completion() (Completion, bool) {
	c := s.in.Completion
	if c == nil {
		return Completion{}, false
	}

	pending := s.next.Pending
	if c.ReqID != pending.ID || c.IsWrite != pending.IsWrite {
		log.Panicf("completion %+v does not match pending request %s",
			*c, pending.ID)
	}

	return *c, true
}

func (s *stepper) writeBack() {
	c, ok := s.completion()
	if !ok {
		return
	}

	if c.Fault {
		s.writeFault()
		return
	}

	switch s.next.Pass {
	case PassEvict:
		s.evicted()
	case PassFlush:
		s.addOp(ArrayOp{
			Kind: OpInvalidate,
			Set:  s.next.FlushSet,
			Way:  s.next.FlushWay,
		})
		s.next.Stats.FlushWriteBacks++
		s.next.Pass = PassNone
		s.advanceFlush()
	default:
		log.Panicf("write completion in pass %d", s.next.Pass)
	}
}

// evicted keeps the victim valid and clean and goes on to fetch the new line.
func (s *stepper) evicted() {
	target := s.next.Target
	set := s.layout.Decompose(target).Index
	victim := s.array.Peek(set, s.next.Way)

	flags := victim.Flags
	flags.Dirty = false

	s.addOp(ArrayOp{
		Kind:  OpSetFlags,
		Set:   set,
		Way:   s.next.Way,
		Flags: flags,
	})

	s.issue(PassFill, target, false, nil)
}

func (s *stepper) writeFault() {
	s.next.Stats.WriteFaults++
	s.next.Faulted = true
	s.next.FaultAddr = s.next.Pending.Addr

	if s.next.Pass == PassFlush {
		s.next.Pass = PassNone
		s.out.FlushEnd = true
		s.out.FlushFault = true
		s.next.Phase = PhaseIdle

		return
	}

	s.respond(nil, true)
}

func (s *stepper) waitResponse() {
	c, ok := s.completion()
	if !ok {
		return
	}

	if c.Fault {
		s.next.Stats.ReadFaults++
		s.respond(nil, true)

		return
	}

	if len(c.Data) != s.layout.LineSize {
		log.Panicf("fill of %d bytes for a %d-byte line",
			len(c.Data), s.layout.LineSize)
	}

	s.next.Stats.Fills++
	s.next.Fill = c.Data
	s.next.Phase = PhaseCheckResponse
}

func (s *stepper) checkResponse() {
	req := s.next.Req
	target := s.next.Target
	data := s.next.Fill
	flags := cache.Flags{Valid: true}

	if req.IsWrite {
		data = merge(data, req.Data, req.Mask)
		flags.Dirty = true
	}

	a := s.layout.Decompose(target)
	s.addOp(ArrayOp{
		Kind:  OpInstall,
		Addr:  target,
		Set:   a.Index,
		Way:   s.next.Way,
		Tag:   a.Tag,
		Data:  data,
		Flags: flags,
	})

	s.next.Pass = PassNone

	if req.straddles(s.layout) {
		s.next.Fill = nil
		s.next.Phase = PhaseCheckHit

		return
	}

	if req.IsWrite {
		s.respond(nil, false)
		return
	}

	s.respond(s.readData(data), false)
}

func merge(line, data []byte, mask []bool) []byte {
	out := append([]byte(nil), line...)

	for i := range out {
		if mask == nil || mask[i] {
			out[i] = data[i]
		}
	}

	return out
}

func (s *stepper) flushSweep() {
	set, way := s.next.FlushSet, s.next.FlushWay
	line := s.array.Peek(set, way)

	if line.Flags.Valid && line.Flags.Dirty {
		s.issue(PassFlush, s.layout.LineAddr(line.Tag, set), true, line.Data)
		return
	}

	s.addOp(ArrayOp{Kind: OpInvalidate, Set: set, Way: way})
	s.advanceFlush()
}

func (s *stepper) advanceFlush() {
	s.next.FlushWay++
	if s.next.FlushWay == s.layout.NumWays {
		s.next.FlushWay = 0
		s.next.FlushSet++
	}

	if s.next.FlushSet == s.layout.NumSets() {
		s.next.FlushSet = 0
		s.out.FlushEnd = true
		s.next.Phase = PhaseIdle

		return
	}

	s.next.Phase = PhaseFlushSweep
}

func (s *stepper) snoop() {
	if !s.spec.Snoop {
		return
	}

	addr := s.in.SnoopAddr
	a := s.layout.Decompose(addr)
	res := s.array.Lookup(addr, cache.AnyWay)

	way := cache.AnyWay
	if res.Hit {
		way = res.Way
		s.out.SnoopFlags = res.Line().Flags
	}

	s.out.SnoopReady = true

	for _, op := range s.ops {
		if op.writes(a.Index, way, a.Tag) {
			s.out.SnoopReady = false
			break
		}
	}
}
