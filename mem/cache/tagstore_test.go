package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TagStore", func() {
	var s *TagStore

	BeforeEach(func() {
		s = NewTagStore(4, 4)
	})

	It("should start invalid and zeroed", func() {
		for i := 0; i < s.NumLines(); i++ {
			line := s.Read(i)
			Expect(line.Flags).To(BeZero())
			Expect(line.Data).To(Equal([]byte{0, 0, 0, 0}))
		}
	})

	It("should read back what was written", func() {
		flags := Flags{Valid: true, Dirty: true, Ext: 5}
		s.Write(2, 0x42, []byte{1, 2, 3, 4}, nil, flags)

		line := s.Read(2)
		Expect(line.Tag).To(Equal(uint64(0x42)))
		Expect(line.Data).To(Equal([]byte{1, 2, 3, 4}))
		Expect(line.Flags).To(Equal(flags))
	})

	It("should only write masked bytes", func() {
		s.Write(1, 7, []byte{1, 2, 3, 4}, nil, Flags{Valid: true})
		s.Write(1, 7, []byte{9, 9, 9, 9},
			[]bool{false, true, false, true}, Flags{Valid: true})

		Expect(s.Read(1).Data).To(Equal([]byte{1, 9, 3, 9}))
	})

	It("should keep the data when writing only flags", func() {
		s.Write(1, 7, []byte{1, 2, 3, 4}, nil, Flags{Valid: true})
		s.Write(1, 7, nil, nil, Flags{})

		line := s.Read(1)
		Expect(line.Flags.Valid).To(BeFalse())
		Expect(line.Data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should return a copy on read", func() {
		s.Write(0, 1, []byte{1, 2, 3, 4}, nil, Flags{Valid: true})

		line := s.Read(0)
		line.Data[0] = 100

		Expect(s.Read(0).Data[0]).To(Equal(byte(1)))
	})

	It("should panic on dirty but invalid flags", func() {
		Expect(func() {
			s.Write(0, 1, nil, nil, Flags{Dirty: true})
		}).To(Panic())
	})

	It("should panic on out-of-range index", func() {
		Expect(func() { s.Read(4) }).To(Panic())
		Expect(func() { s.Read(-1) }).To(Panic())
	})

	It("should reset", func() {
		s.Write(3, 1, []byte{1, 2, 3, 4}, nil, Flags{Valid: true})

		s.Reset()

		Expect(s.Read(3).Flags.Valid).To(BeFalse())
		Expect(s.Read(3).Data).To(Equal([]byte{0, 0, 0, 0}))
	})
})
