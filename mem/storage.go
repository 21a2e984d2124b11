// Package mem provides the memory contents that sit behind the caches.
package mem

import (
	"fmt"
)

// Common byte size units.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// ErrOutOfRange is returned when an access goes beyond the storage capacity.
var ErrOutOfRange = fmt.Errorf("access beyond storage capacity")

// A Storage keeps the data of the simulated system.
//
// The storage is managed in units. Units that are never touched by Read or
// Write do not allocate memory, so a large capacity is cheap.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage with 4 KB units.
func NewStorage(capacity uint64) *Storage {
	return NewStorageWithUnitSize(capacity, 4*KB)
}

// NewStorageWithUnitSize creates a storage with a custom unit size.
func NewStorageWithUnitSize(capacity, unitSize uint64) *Storage {
	if unitSize == 0 {
		panic("unit size cannot be 0")
	}

	return &Storage{
		unitSize: unitSize,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) unit(address uint64) []byte {
	base := address - address%s.unitSize

	u, ok := s.data[base]
	if !ok {
		u = make([]byte, s.unitSize)
		s.data[base] = u
	}

	return u
}

func (s *Storage) checkRange(address, length uint64) error {
	if address+length > s.capacity || address+length < address {
		return fmt.Errorf("%w: 0x%x+%d, capacity %d",
			ErrOutOfRange, address, length, s.capacity)
	}

	return nil
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address, length uint64) ([]byte, error) {
	if err := s.checkRange(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	done := uint64(0)

	for done < length {
		curr := address + done
		inUnit := curr % s.unitSize
		n := min(length-done, s.unitSize-inUnit)

		copy(res[done:done+n], s.unit(curr)[inUnit:inUnit+n])
		done += n
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.checkRange(address, length); err != nil {
		return err
	}

	done := uint64(0)

	for done < length {
		curr := address + done
		inUnit := curr % s.unitSize
		n := min(length-done, s.unitSize-inUnit)

		copy(s.unit(curr)[inUnit:inUnit+n], data[done:done+n])
		done += n
	}

	return nil
}
