package mem

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var storage *Storage

	BeforeEach(func() {
		storage = NewStorageWithUnitSize(16*KB, 4*KB)
	})

	It("should read zeros from untouched memory", func() {
		data, err := storage.Read(0x100, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(make([]byte, 8)))
	})

	It("should read what was written", func() {
		Expect(storage.Write(0x10, []byte{1, 2, 3, 4})).To(Succeed())

		data, err := storage.Read(0x10, 4)

		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read and write across unit boundaries", func() {
		data := []byte{9, 8, 7, 6, 5, 4}
		Expect(storage.Write(4*KB-3, data)).To(Succeed())

		read, err := storage.Read(4*KB-3, 6)

		Expect(err).NotTo(HaveOccurred())
		Expect(read).To(Equal(data))
	})

	It("should reject accesses beyond the capacity", func() {
		_, err := storage.Read(16*KB-2, 4)
		Expect(errors.Is(err, ErrOutOfRange)).To(BeTrue())

		err = storage.Write(16*KB, []byte{1})
		Expect(errors.Is(err, ErrOutOfRange)).To(BeTrue())
	})

	It("should return copies", func() {
		Expect(storage.Write(0, []byte{1})).To(Succeed())

		data, _ := storage.Read(0, 1)
		data[0] = 42

		again, _ := storage.Read(0, 1)
		Expect(again).To(Equal([]byte{1}))
	})
})
