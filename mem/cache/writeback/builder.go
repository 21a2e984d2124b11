package writeback

import (
	"log"

	"github.com/sarchlab/rvcosim/mem/cache"
	"github.com/sarchlab/rvcosim/sim"
)

// A Builder can build write-back caches.
type Builder struct {
	spec   Spec
	engine sim.Engine
	bottom BackingStore
}

// MakeBuilder creates a builder with the default spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithEngine sets the engine that ticks the cache.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithFreq sets the frequency of the cache.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.spec.Freq = freq
	return b
}

// WithLayout sets the geometry of the cache.
func (b Builder) WithLayout(layout cache.Layout) Builder {
	b.spec.Layout = layout
	return b
}

// WithAddressWidth sets the number of address bits.
func (b Builder) WithAddressWidth(n int) Builder {
	b.spec.Layout.AddressWidth = n
	return b
}

// WithNumWays sets the associativity.
func (b Builder) WithNumWays(n int) Builder {
	b.spec.Layout.NumWays = n
	return b
}

// WithLinesPerWay sets the number of sets.
func (b Builder) WithLinesPerWay(n int) Builder {
	b.spec.Layout.LinesPerWay = n
	return b
}

// WithLineSize sets the number of bytes in a line.
func (b Builder) WithLineSize(n int) Builder {
	b.spec.Layout.LineSize = n
	return b
}

// WithAccessWidth sets the largest narrow read.
func (b Builder) WithAccessWidth(n int) Builder {
	b.spec.AccessWidth = n
	return b
}

// WithSnoop enables or disables the snoop port.
func (b Builder) WithSnoop(enabled bool) Builder {
	b.spec.Snoop = enabled
	return b
}

// WithCoupled enables or disables the coupled dual-bank array.
func (b Builder) WithCoupled(enabled bool) Builder {
	b.spec.Coupled = enabled
	return b
}

// WithBackingStore sets the memory behind the cache.
func (b Builder) WithBackingStore(bottom BackingStore) Builder {
	b.bottom = bottom
	return b
}

// Build creates a cache. The cache starts in the Reset phase.
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		log.Panic(err)
	}

	if b.bottom == nil {
		log.Panicf("cache %s has no backing store", name)
	}

	c := &Comp{
		spec:   b.spec,
		bottom: b.bottom,
		state:  State{Phase: PhaseReset},
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.spec.Freq, c)

	if b.spec.Coupled {
		c.array = cache.NewCoupledCache(b.spec.Layout)
	} else {
		c.array = cache.NewAssociativeCache(b.spec.Layout)
	}

	return c
}
