package idealmem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvcosim/mem"
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/sim"
)

var _ = Describe("Comp", func() {
	var c *Comp

	BeforeEach(func() {
		c = MakeBuilder().
			WithLatency(2).
			WithLineSize(4).
			WithNewStorage(1 * mem.KB).
			Build("Mem")
	})

	It("should panic on an invalid spec", func() {
		Expect(func() { MakeBuilder().WithWidth(0).Build("Bad") }).To(Panic())
	})

	It("should complete a write and then a read after the latency", func() {
		Expect(c.Request(writeback.LineRequest{
			ID: "w", Addr: 0x10, IsWrite: true, Data: []byte{1, 2, 3, 4},
		})).To(BeTrue())

		Expect(c.Tick()).To(BeTrue())
		_, ok := c.Poll()
		Expect(ok).To(BeFalse())

		c.Tick()
		done, ok := c.Poll()
		Expect(ok).To(BeTrue())
		Expect(done).To(Equal(writeback.Completion{ReqID: "w", IsWrite: true}))

		Expect(c.Request(writeback.LineRequest{ID: "r", Addr: 0x10})).
			To(BeTrue())
		c.Tick()
		c.Tick()

		done, ok = c.Poll()
		Expect(ok).To(BeTrue())
		Expect(done.ReqID).To(Equal("r"))
		Expect(done.Data).To(Equal([]byte{1, 2, 3, 4}))
		Expect(c.State.Stats.Reads).To(Equal(uint64(1)))
		Expect(c.State.Stats.Writes).To(Equal(uint64(1)))
	})

	It("should take only Width requests per cycle", func() {
		Expect(c.Request(writeback.LineRequest{ID: "1"})).To(BeTrue())
		Expect(c.Request(writeback.LineRequest{ID: "2"})).To(BeFalse())
		Expect(c.State.Stats.Rejected).To(Equal(uint64(1)))

		c.Tick()

		Expect(c.Request(writeback.LineRequest{ID: "2"})).To(BeTrue())
	})

	It("should bound the requests in flight", func() {
		c = MakeBuilder().
			WithWidth(4).
			WithQueueSize(2).
			WithLineSize(4).
			WithNewStorage(1 * mem.KB).
			Build("Mem")

		Expect(c.Request(writeback.LineRequest{ID: "1"})).To(BeTrue())
		Expect(c.Request(writeback.LineRequest{ID: "2"})).To(BeTrue())
		Expect(c.Request(writeback.LineRequest{ID: "3"})).To(BeFalse())
	})

	It("should complete in order", func() {
		c = MakeBuilder().
			WithWidth(2).
			WithLatency(0).
			WithLineSize(4).
			WithNewStorage(1 * mem.KB).
			Build("Mem")

		c.Request(writeback.LineRequest{ID: "a"})
		c.Request(writeback.LineRequest{ID: "b", Addr: 4})
		c.Tick()

		first, _ := c.Poll()
		second, _ := c.Poll()
		Expect(first.ReqID).To(Equal("a"))
		Expect(second.ReqID).To(Equal("b"))
	})

	It("should fail requests in an injected fault range", func() {
		c.InjectFault(FaultRange{Start: 0x100, End: 0x200, OnRead: true})

		c.Request(writeback.LineRequest{ID: "r", Addr: 0x100})
		c.Tick()
		c.Tick()
		done, _ := c.Poll()
		Expect(done.Fault).To(BeTrue())
		Expect(done.Data).To(BeNil())

		c.Request(writeback.LineRequest{
			ID: "w", Addr: 0x100, IsWrite: true, Data: []byte{1, 1, 1, 1},
		})
		c.Tick()
		c.Tick()
		done, _ = c.Poll()
		Expect(done.Fault).To(BeFalse())

		c.ClearFaults()
		c.Request(writeback.LineRequest{ID: "r2", Addr: 0x100})
		c.Tick()
		c.Tick()
		done, _ = c.Poll()
		Expect(done.Fault).To(BeFalse())
		Expect(done.Data).To(Equal([]byte{1, 1, 1, 1}))
	})

	It("should fail requests beyond the capacity", func() {
		c.Request(writeback.LineRequest{ID: "r", Addr: 2 * mem.KB})
		c.Tick()
		c.Tick()

		done, _ := c.Poll()
		Expect(done.Fault).To(BeTrue())
		Expect(c.State.Stats.Faults).To(Equal(uint64(1)))
	})

	It("should not tick when nothing is in flight", func() {
		Expect(c.Tick()).To(BeFalse())
	})

	It("should restore a snapshot", func() {
		c.Request(writeback.LineRequest{ID: "r"})
		snapshot := c.SnapshotState()

		c.Tick()
		c.Tick()
		Expect(c.State.Done).To(HaveLen(1))

		Expect(c.RestoreState(snapshot)).To(Succeed())
		Expect(c.State.Done).To(BeEmpty())
		Expect(c.State.Inflight).To(HaveLen(1))
		Expect(c.RestoreState(42)).NotTo(Succeed())
	})

	Context("behind a cache", func() {
		It("should serve misses and write-backs", func() {
			engine := sim.NewSerialEngine()
			memory := MakeBuilder().
				WithEngine(engine).
				WithLatency(5).
				WithLineSize(16).
				WithNewStorage(64 * mem.KB).
				Build("Mem")
			c := writeback.MakeBuilder().
				WithEngine(engine).
				WithNumWays(1).
				WithLinesPerWay(2).
				WithLineSize(16).
				WithBackingStore(memory).
				Build("Cache")

			Expect(c.Present(writeback.Request{
				Addr: 0x0, IsWrite: true, Data: make([]byte, 16),
			})).To(Succeed())
			c.TickLater()
			Expect(engine.Run()).To(Succeed())

			Expect(c.Present(writeback.Request{Addr: 0x20})).To(Succeed())
			Expect(engine.Run()).To(Succeed())

			Expect(c.Outputs().RespValid).To(BeTrue())
			Expect(memory.State.Stats.Writes).To(Equal(uint64(1)))
			Expect(memory.State.Stats.Reads).To(Equal(uint64(2)))
		})
	})
})
