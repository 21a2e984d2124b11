package idealmem

import (
	"log"

	"github.com/sarchlab/rvcosim/mem"
	"github.com/sarchlab/rvcosim/sim"
)

// Builder constructs a Comp either from a Spec or per-field setters.
type Builder struct {
	spec    Spec
	engine  sim.Engine
	storage *mem.Storage
}

// MakeBuilder returns a new Builder with the default Spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithEngine sets the engine that ticks the memory.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithFreq sets the frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.spec.Freq = freq
	return b
}

// WithLatency sets the number of cycles to complete a request.
func (b Builder) WithLatency(cycles int) Builder {
	b.spec.LatencyCycles = cycles
	return b
}

// WithWidth sets the number of requests accepted per cycle.
func (b Builder) WithWidth(w int) Builder {
	b.spec.Width = w
	return b
}

// WithQueueSize sets the number of requests in flight.
func (b Builder) WithQueueSize(n int) Builder {
	b.spec.QueueSize = n
	return b
}

// WithLineSize sets the number of bytes a read returns.
func (b Builder) WithLineSize(n int) Builder {
	b.spec.LineSize = n
	return b
}

// WithNewStorage makes the memory create its own storage of the capacity.
func (b Builder) WithNewStorage(capacity uint64) Builder {
	b.storage = nil
	b.spec.CapacityBytes = capacity

	return b
}

// WithStorage makes the memory use an existing storage.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	b.spec.CapacityBytes = storage.Capacity()

	return b
}

// WithUnitSize sets the allocation unit of a new storage.
func (b Builder) WithUnitSize(unit uint64) Builder {
	b.spec.UnitSize = unit
	return b
}

// Build creates the memory.
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("idealmem %s: %v", name, err)
	}

	c := &Comp{Spec: b.spec}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.spec.Freq, c)

	switch {
	case b.storage != nil:
		c.Storage = b.storage
	case b.spec.UnitSize == 0:
		c.Storage = mem.NewStorage(b.spec.CapacityBytes)
	default:
		c.Storage = mem.NewStorageWithUnitSize(
			b.spec.CapacityBytes, b.spec.UnitSize)
	}

	c.AddMiddleware(&memMiddleware{Comp: c})

	return c
}
