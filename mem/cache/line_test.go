package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Line", func() {
	It("should reject a dirty invalid line", func() {
		Expect(func() { Flags{Dirty: true}.Check() }).To(Panic())
		Expect(func() { Flags{Valid: true, Dirty: true}.Check() }).NotTo(Panic())
		Expect(func() { Flags{}.Check() }).NotTo(Panic())
	})

	It("should clone the data", func() {
		l := Line{Tag: 3, Data: []byte{1, 2}, Flags: Flags{Valid: true, Ext: 7}}

		c := l.Clone()
		c.Data[0] = 9

		Expect(l.Data).To(Equal([]byte{1, 2}))
		Expect(c.Tag).To(Equal(uint64(3)))
		Expect(c.Flags.Ext).To(Equal(uint8(7)))
	})
})
