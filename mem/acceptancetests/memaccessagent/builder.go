package memaccessagent

import (
	"log"

	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/sim"
)

// Builder builds MemAccessAgents.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	cache    *writeback.Comp
	workload Workload
	dumpLog  bool
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithCache sets the cache to drive.
func (b Builder) WithCache(c *writeback.Comp) Builder {
	b.cache = c
	return b
}

// WithWorkload sets the ops to issue.
func (b Builder) WithWorkload(w Workload) Builder {
	b.workload = w
	return b
}

// WithDumpLog makes the agent log every op it finishes.
func (b Builder) WithDumpLog(dump bool) Builder {
	b.dumpLog = dump
	return b
}

// Build creates the agent and hooks it to the cache.
func (b Builder) Build(name string) *MemAccessAgent {
	if b.cache == nil {
		log.Panicf("agent %s has no cache", name)
	}

	if b.workload == nil {
		log.Panicf("agent %s has no workload", name)
	}

	a := &MemAccessAgent{
		Cache:         b.cache,
		Workload:      b.workload,
		DumpLog:       b.dumpLog,
		KnownMemValue: make(map[uint64][]byte),
		lineSize:      b.cache.Spec().Layout.LineSize,
	}
	a.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, a)

	b.cache.AcceptHook(a)

	return a
}
