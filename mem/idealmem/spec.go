package idealmem

import (
	"fmt"

	"github.com/sarchlab/rvcosim/mem"
	"github.com/sarchlab/rvcosim/sim"
)

// Spec holds the immutable configuration of the memory.
type Spec struct {
	Freq sim.Freq

	// LatencyCycles is the number of cycles between accepting a request and
	// completing it.
	LatencyCycles int

	// Width is the number of requests accepted in one cycle.
	Width int

	// QueueSize bounds the requests in flight.
	QueueSize int

	// LineSize is the number of bytes a read returns.
	LineSize int

	CapacityBytes uint64
	UnitSize      uint64
}

// Defaults returns a 4 GB memory with a 100-cycle latency.
func Defaults() Spec {
	return Spec{
		Freq:          1 * sim.GHz,
		LatencyCycles: 100,
		Width:         1,
		QueueSize:     16,
		LineSize:      64,
		CapacityBytes: 4 * mem.GB,
	}
}

// Validate checks if the memory can be built from the spec.
func (s Spec) Validate() error {
	if s.Freq <= 0 {
		return fmt.Errorf("freq must be > 0")
	}

	if s.LatencyCycles < 0 {
		return fmt.Errorf("latency cycles must be >= 0")
	}

	if s.Width <= 0 {
		return fmt.Errorf("width must be > 0")
	}

	if s.QueueSize <= 0 {
		return fmt.Errorf("queue size must be > 0")
	}

	if s.LineSize <= 0 {
		return fmt.Errorf("line size must be > 0")
	}

	if s.CapacityBytes == 0 {
		return fmt.Errorf("capacity must be > 0")
	}

	return nil
}
