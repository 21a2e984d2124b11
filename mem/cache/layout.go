package cache

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidLayout is returned when a cache geometry cannot be built.
var ErrInvalidLayout = errors.New("invalid cache layout")

// Layout describes the geometry of a set-associative cache and how addresses
// are split into tag, index, and offset. From low to high bits, an address is
// decomposed into the byte offset within a line, the index that selects the
// set, and the tag.
type Layout struct {
	AddressWidth int
	NumWays      int
	LinesPerWay  int
	LineSize     int
}

// An Address is a decomposed address.
type Address struct {
	Tag    uint64
	Index  int
	Offset int
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate checks if the layout can be built.
func (l Layout) Validate() error {
	if l.AddressWidth < 1 || l.AddressWidth > 64 {
		return fmt.Errorf("%w: address width %d is not in [1, 64]",
			ErrInvalidLayout, l.AddressWidth)
	}

	if !isPowerOfTwo(l.NumWays) {
		return fmt.Errorf("%w: number of ways %d is not a power of 2",
			ErrInvalidLayout, l.NumWays)
	}

	if !isPowerOfTwo(l.LinesPerWay) {
		return fmt.Errorf("%w: lines per way %d is not a power of 2",
			ErrInvalidLayout, l.LinesPerWay)
	}

	if !isPowerOfTwo(l.LineSize) {
		return fmt.Errorf("%w: line size %d is not a power of 2",
			ErrInvalidLayout, l.LineSize)
	}

	if l.OffsetBits()+l.IndexBits() > l.AddressWidth {
		return fmt.Errorf(
			"%w: %d offset bits and %d index bits do not fit in %d address bits",
			ErrInvalidLayout, l.OffsetBits(), l.IndexBits(), l.AddressWidth)
	}

	return nil
}

// MustBeValid panics if the layout is not valid.
func (l Layout) MustBeValid() {
	if err := l.Validate(); err != nil {
		panic(err)
	}
}

// NumSets returns the number of sets, which equals the lines per way.
func (l Layout) NumSets() int {
	return l.LinesPerWay
}

// OffsetBits returns the width of the offset field.
func (l Layout) OffsetBits() int {
	return bits.TrailingZeros(uint(l.LineSize))
}

// IndexBits returns the width of the index field.
func (l Layout) IndexBits() int {
	return bits.TrailingZeros(uint(l.LinesPerWay))
}

// TagBits returns the width of the tag field.
func (l Layout) TagBits() int {
	return l.AddressWidth - l.OffsetBits() - l.IndexBits()
}

// TotalSize returns the number of data bytes the cache can hold.
func (l Layout) TotalSize() uint64 {
	return uint64(l.NumWays) * uint64(l.LinesPerWay) * uint64(l.LineSize)
}

// Mask truncates an address to the address width.
func (l Layout) Mask(addr uint64) uint64 {
	if l.AddressWidth >= 64 {
		return addr
	}

	return addr & (uint64(1)<<l.AddressWidth - 1)
}

// Decompose splits an address into tag, index, and offset.
func (l Layout) Decompose(addr uint64) Address {
	addr = l.Mask(addr)

	return Address{
		Offset: int(addr & uint64(l.LineSize-1)),
		Index:  int(addr >> l.OffsetBits() & uint64(l.LinesPerWay-1)),
		Tag:    addr >> (l.OffsetBits() + l.IndexBits()),
	}
}

// LineAddr composes the address of the first byte of the line identified by
// the tag and the index.
func (l Layout) LineAddr(tag uint64, index int) uint64 {
	return tag<<(l.OffsetBits()+l.IndexBits()) |
		uint64(index)<<l.OffsetBits()
}

// AlignDown returns the address of the line that contains addr.
func (l Layout) AlignDown(addr uint64) uint64 {
	return l.Mask(addr) &^ uint64(l.LineSize-1)
}

// Half returns the layout of one bank of a coupled dual-bank store.
func (l Layout) Half() Layout {
	h := l
	h.LinesPerWay = l.LinesPerWay / 2

	return h
}
