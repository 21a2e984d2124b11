package writeback

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcosim/mem/cache"
)

// fakeStore is a backing store that completes every request right away.
type fakeStore struct {
	lineSize int
	lines    map[uint64][]byte

	rejects    int
	readFault  func(addr uint64) bool
	writeFault func(addr uint64) bool

	accepted []LineRequest
	queue    []Completion
}

func newFakeStore(lineSize int) *fakeStore {
	return &fakeStore{
		lineSize: lineSize,
		lines:    make(map[uint64][]byte),
	}
}

func (s *fakeStore) Request(req LineRequest) bool {
	if s.rejects > 0 {
		s.rejects--
		return false
	}

	s.accepted = append(s.accepted, req)
	done := Completion{ReqID: req.ID, IsWrite: req.IsWrite}

	switch {
	case req.IsWrite && s.writeFault != nil && s.writeFault(req.Addr):
		done.Fault = true
	case req.IsWrite:
		s.lines[req.Addr] = append([]byte(nil), req.Data...)
	case s.readFault != nil && s.readFault(req.Addr):
		done.Fault = true
	default:
		done.Data = s.read(req.Addr)
	}

	s.queue = append(s.queue, done)

	return true
}

func (s *fakeStore) Poll() (Completion, bool) {
	if len(s.queue) == 0 {
		return Completion{}, false
	}

	done := s.queue[0]
	s.queue = s.queue[1:]

	return done, true
}

func (s *fakeStore) read(addr uint64) []byte {
	if line, ok := s.lines[addr]; ok {
		return append([]byte(nil), line...)
	}

	return make([]byte, s.lineSize)
}

func (s *fakeStore) writes() []LineRequest {
	var out []LineRequest

	for _, r := range s.accepted {
		if r.IsWrite {
			out = append(out, r)
		}
	}

	return out
}

func testLayout() cache.Layout {
	return cache.Layout{
		AddressWidth: 32,
		NumWays:      4,
		LinesPerWay:  8,
		LineSize:     16,
	}
}

func fill(b byte, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = b
	}

	return data
}

const maxTicks = 1000

func tickUntil(c *Comp, cond func(Outputs) bool) Outputs {
	for i := 0; i < maxTicks; i++ {
		c.Tick()

		if cond(c.Outputs()) {
			return c.Outputs()
		}
	}

	Fail("cache did not reach the expected outputs")

	return Outputs{}
}

func settle(c *Comp) {
	for i := 0; i < maxTicks && !c.Idle(); i++ {
		c.Tick()
	}

	Expect(c.Idle()).To(BeTrue())
}

func do(c *Comp, req Request) Response {
	Expect(c.Present(req)).To(Succeed())

	out := tickUntil(c, func(o Outputs) bool { return o.RespValid })

	return out.Resp
}

func read(c *Comp, addr uint64) Response {
	return do(c, Request{Addr: addr})
}

func write(c *Comp, addr uint64, data []byte) Response {
	return do(c, Request{Addr: addr, IsWrite: true, Data: data})
}

func flush(c *Comp) Outputs {
	c.RequestFlush()

	return tickUntil(c, func(o Outputs) bool { return o.FlushEnd })
}

func liveLines(a cache.Array) (valid, dirty int) {
	l := a.Layout()

	for set := 0; set < l.NumSets(); set++ {
		for way := 0; way < l.NumWays; way++ {
			f := a.Peek(set, way).Flags
			if f.Valid {
				valid++
			}

			if f.Dirty {
				dirty++
			}
		}
	}

	return valid, dirty
}

func expectNoDuplicateTags(a cache.Array) {
	l := a.Layout()

	for set := 0; set < l.NumSets(); set++ {
		seen := make(map[uint64]bool)

		for way := 0; way < l.NumWays; way++ {
			line := a.Peek(set, way)
			if !line.Flags.Valid {
				continue
			}

			Expect(seen[line.Tag]).To(BeFalse(),
				"set %d holds tag %#x twice", set, line.Tag)
			seen[line.Tag] = true
		}
	}
}
