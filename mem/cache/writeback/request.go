package writeback

import (
	"fmt"

	"github.com/sarchlab/rvcosim/mem/cache"
)

// A Request is a read or a write presented to the cache.
//
// Writes carry a whole line of Data and a per-byte Mask over it. A nil Mask
// writes every byte. Reads return the whole line, or Width bytes starting at
// Addr if Width is not zero.
//
// With Direct set, the request targets the given Way of the set of Addr
// without comparing tags and never reaches the backing store.
type Request struct {
	ID      string
	Addr    uint64
	IsWrite bool
	Data    []byte
	Mask    []bool
	Width   int

	Direct bool
	Way    int
}

// A Response is the result of a Request.
type Response struct {
	ReqID string
	Data  []byte
	Fault bool
}

func (r Request) clone() Request {
	c := r
	c.Data = append([]byte(nil), r.Data...)

	if r.Mask != nil {
		c.Mask = append([]bool(nil), r.Mask...)
	}

	return c
}

func (r Request) straddles(layout cache.Layout) bool {
	if r.IsWrite || r.Width == 0 {
		return false
	}

	return layout.Decompose(r.Addr).Offset+r.Width > layout.LineSize
}

func (r Request) check(spec Spec) error {
	layout := spec.Layout

	if r.Direct && (r.Way < 0 || r.Way >= layout.NumWays) {
		return fmt.Errorf("%w: way %d out of range", ErrBadRequest, r.Way)
	}

	if r.IsWrite {
		return r.checkWrite(layout)
	}

	if r.Width < 0 || r.Width > spec.AccessWidth {
		return fmt.Errorf("%w: width %d not in [0, %d]",
			ErrBadRequest, r.Width, spec.AccessWidth)
	}

	if r.straddles(layout) && (!spec.Coupled || r.Direct) {
		return fmt.Errorf("%w: %d bytes at %#x",
			ErrUnalignedAccess, r.Width, r.Addr)
	}

	return nil
}

func (r Request) checkWrite(layout cache.Layout) error {
	if len(r.Data) != layout.LineSize {
		return fmt.Errorf("%w: write carries %d bytes for a %d-byte line",
			ErrBadRequest, len(r.Data), layout.LineSize)
	}

	if r.Mask != nil && len(r.Mask) != layout.LineSize {
		return fmt.Errorf("%w: mask of %d bytes for a %d-byte line",
			ErrBadRequest, len(r.Mask), layout.LineSize)
	}

	if r.Width != 0 {
		return fmt.Errorf("%w: writes are line-granular", ErrBadRequest)
	}

	return nil
}
