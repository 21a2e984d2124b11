// Package idealmem provides a backing store that completes every line
// request after a fixed latency.
package idealmem

import (
	"fmt"

	"github.com/sarchlab/rvcosim/mem"
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/sim"
)

// Comp is an ideal memory that serves line requests from a cache.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	Spec    Spec
	State   State
	Storage *mem.Storage

	faults []FaultRange
}

// Tick delegates to the middleware pipeline.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// Request takes a request if the memory has room for it in this cycle.
func (c *Comp) Request(req writeback.LineRequest) bool {
	if c.State.Accepted >= c.Spec.Width ||
		len(c.State.Inflight) >= c.Spec.QueueSize {
		c.State.Stats.Rejected++
		return false
	}

	req.Data = append([]byte(nil), req.Data...)
	c.State.Inflight = append(c.State.Inflight, txn{
		Req:       req,
		Remaining: c.Spec.LatencyCycles,
	})
	c.State.Accepted++

	if c.Engine != nil {
		c.TickLater()
	}

	return true
}

// Poll hands out the oldest completion.
func (c *Comp) Poll() (writeback.Completion, bool) {
	if len(c.State.Done) == 0 {
		return writeback.Completion{}, false
	}

	done := c.State.Done[0]
	c.State.Done = c.State.Done[1:]

	return done, true
}

// InjectFault makes the requests that fall in the range fail.
func (c *Comp) InjectFault(r FaultRange) {
	c.faults = append(c.faults, r)
}

// ClearFaults removes all the injected faults.
func (c *Comp) ClearFaults() {
	c.faults = nil
}

func (c *Comp) faulty(req writeback.LineRequest) bool {
	for _, r := range c.faults {
		if r.hits(req) {
			return true
		}
	}

	return false
}

// SnapshotState returns a copy of the state.
func (c *Comp) SnapshotState() any {
	s := c.State
	s.Inflight = append([]txn(nil), c.State.Inflight...)
	s.Done = append([]writeback.Completion(nil), c.State.Done...)

	return s
}

// RestoreState restores the state from a snapshot.
func (c *Comp) RestoreState(snapshot any) error {
	switch s := snapshot.(type) {
	case State:
		c.State = s
	case *State:
		c.State = *s
	default:
		return fmt.Errorf("cannot restore state from %T", snapshot)
	}

	return nil
}
