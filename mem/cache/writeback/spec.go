package writeback

import (
	"fmt"

	"github.com/sarchlab/rvcosim/mem/cache"
	"github.com/sarchlab/rvcosim/sim"
)

// Spec holds the immutable configuration of the cache.
type Spec struct {
	Layout cache.Layout
	Freq   sim.Freq

	// AccessWidth is the largest number of bytes a narrow read can ask for.
	AccessWidth int

	// Snoop enables the snoop port outputs.
	Snoop bool

	// Coupled splits the sets into even and odd banks so that narrow reads
	// crossing a line boundary can be served.
	Coupled bool
}

// Defaults returns a 16 KB, 4-way cache with 64-byte lines.
func Defaults() Spec {
	return Spec{
		Layout: cache.Layout{
			AddressWidth: 32,
			NumWays:      4,
			LinesPerWay:  64,
			LineSize:     64,
		},
		Freq:        1 * sim.GHz,
		AccessWidth: 8,
		Snoop:       true,
	}
}

// Validate checks if the cache can be built from the spec.
func (s Spec) Validate() error {
	if err := s.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	if s.Freq <= 0 {
		return fmt.Errorf("%w: frequency must be positive", ErrInvalidSpec)
	}

	if s.AccessWidth <= 0 {
		return fmt.Errorf("%w: access width must be positive", ErrInvalidSpec)
	}

	if s.Layout.LineSize < s.AccessWidth {
		return fmt.Errorf("%w: line size %d is smaller than access width %d",
			ErrInvalidSpec, s.Layout.LineSize, s.AccessWidth)
	}

	if s.Coupled && s.Layout.LinesPerWay < 2 {
		return fmt.Errorf("%w: coupled mode needs at least 2 lines per way",
			ErrInvalidSpec)
	}

	return nil
}
