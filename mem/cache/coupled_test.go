package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CoupledCache", func() {
	var (
		layout Layout
		c      *CoupledCache
	)

	BeforeEach(func() {
		layout = Layout{
			AddressWidth: 32,
			NumWays:      2,
			LinesPerWay:  8,
			LineSize:     16,
		}
		c = NewCoupledCache(layout)
	})

	It("should panic with a single line per way", func() {
		layout.LinesPerWay = 1

		Expect(func() { NewCoupledCache(layout) }).To(Panic())
	})

	It("should put even sets in bank 0 and odd sets in bank 1", func() {
		c.Install(0x1000, 0, lineOf(1, 16), Flags{Valid: true})
		c.Install(0x1010, 0, lineOf(2, 16), Flags{Valid: true})

		Expect(c.Bank(0).Peek(0, 0).Flags.Valid).To(BeTrue())
		Expect(c.Bank(1).Peek(0, 0).Flags.Valid).To(BeTrue())
		Expect(c.Bank(0).Peek(0, 0).Data).To(Equal(lineOf(1, 16)))
		Expect(c.Bank(1).Peek(0, 0).Data).To(Equal(lineOf(2, 16)))
	})

	It("should address sets by full-depth index", func() {
		c.Install(0x1030, 1, lineOf(3, 16), Flags{Valid: true})

		Expect(c.Peek(3, 1).Data).To(Equal(lineOf(3, 16)))

		res := c.Lookup(0x1030, AnyWay)
		Expect(res.Hit).To(BeTrue())
		Expect(res.Addr.Index).To(Equal(3))
	})

	It("should serve a straddling access in one lookup", func() {
		first := lineOf(1, 16)
		second := lineOf(2, 16)
		c.Install(0x1010, 0, first, Flags{Valid: true})
		c.Install(0x1020, 1, second, Flags{Valid: true})

		res := c.LookupSpan(0x101e, 4)

		Expect(res.NumLines).To(Equal(2))
		Expect(res.Hit()).To(BeTrue())
		Expect(res.Ways).To(Equal([2]int{0, 1}))
		Expect(res.Data).To(Equal([]byte{1, 1, 2, 2}))
	})

	It("should report the missing line of a straddling access", func() {
		c.Install(0x1010, 0, lineOf(1, 16), Flags{Valid: true})

		res := c.LookupSpan(0x101e, 4)

		Expect(res.Hit()).To(BeFalse())
		Expect(res.Hits).To(Equal([2]bool{true, false}))
		Expect(res.Lines[1]).To(Equal(uint64(0x1020)))
		Expect(res.Data).To(BeNil())
	})

	It("should look up an aligned access as a single line", func() {
		c.Install(0x1010, 0, lineOf(5, 16), Flags{Valid: true})

		res := c.LookupSpan(0x1014, 4)

		Expect(res.NumLines).To(Equal(1))
		Expect(res.Data).To(Equal([]byte{5, 5, 5, 5}))
	})

	It("should keep the replacement order of each bank", func() {
		c.Touch(0x1010, 1)

		Expect(c.Bank(1).Tracker().Order(0)).To(Equal([]int{1, 0}))
		Expect(c.Bank(0).Tracker().Order(0)).To(Equal([]int{0, 1}))
		Expect(c.SelectVictim(0x1010)).To(Equal(0))
	})

	It("should invalidate and reset", func() {
		c.Install(0x1010, 0, lineOf(1, 16), Flags{Valid: true})
		c.InvalidateAt(1, 0)
		Expect(c.Snoop(0x1010).Valid).To(BeFalse())

		c.Install(0x1020, 0, lineOf(1, 16), Flags{Valid: true})
		c.ResetAll()
		Expect(c.Snoop(0x1020).Valid).To(BeFalse())
	})
})
