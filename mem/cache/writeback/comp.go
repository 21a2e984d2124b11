package writeback

import (
	"fmt"

	"github.com/sarchlab/rvcosim/mem/cache"
	"github.com/sarchlab/rvcosim/sim"
)

// Comp is a write-back, write-allocate cache controller. It serves one request
// at a time and talks to a BackingStore on misses, evictions, and flushes.
//
// Every cycle, Tick samples the inputs, computes the next state with Step
// from the committed state, commits the array updates and the state, and
// then offers the pending backing store request.
type Comp struct {
	*sim.TickingComponent

	spec   Spec
	array  cache.Array
	bottom BackingStore

	state State
	out   Outputs

	presented *Request
	flushReq  bool
	resetReq  bool
	snoopAddr uint64
	granted   bool
}

// Spec returns the configuration of the cache.
func (c *Comp) Spec() Spec {
	return c.spec
}

// Present offers a request. The request is accepted in a later cycle, which
// is signaled by Outputs().Ready.
func (c *Comp) Present(req Request) error {
	if c.presented != nil {
		return ErrBusy
	}

	if err := req.check(c.spec); err != nil {
		return err
	}

	if req.ID == "" {
		req.ID = sim.GetIDGenerator().Generate()
	}

	req = req.clone()
	c.presented = &req
	c.wake()

	return nil
}

// Presented tells if a request is waiting to be accepted.
func (c *Comp) Presented() bool {
	return c.presented != nil
}

// RequestFlush asks the cache to write back and invalidate all the lines. The
// sweep starts once the cache is idle.
func (c *Comp) RequestFlush() {
	c.flushReq = true
	c.wake()
}

// RequestReset asks the cache to drop all the lines without writing back.
func (c *Comp) RequestReset() {
	c.resetReq = true
	c.wake()
}

// SetSnoopAddress sets the address that the snoop port watches.
func (c *Comp) SetSnoopAddress(addr uint64) {
	c.snoopAddr = addr
}

// Snoop returns the flags of the line holding addr. It does not change the
// replacement order.
func (c *Comp) Snoop(addr uint64) cache.Flags {
	return c.array.Snoop(addr)
}

// Outputs returns the signals driven in the last cycle.
func (c *Comp) Outputs() Outputs {
	return c.out
}

// State returns the committed state.
func (c *Comp) State() State {
	return c.state
}

// Stats returns the activity counters.
func (c *Comp) Stats() Stats {
	return c.state.Stats
}

// Err returns the sticky write-back error, if any.
func (c *Comp) Err() error {
	if !c.state.Faulted {
		return nil
	}

	return faultError(c.state.FaultAddr)
}

func faultError(addr uint64) error {
	return fmt.Errorf("%w: line %#x is still dirty", ErrWriteBackFault, addr)
}

// Idle tells if the cache has nothing to do.
func (c *Comp) Idle() bool {
	return c.state.Phase == PhaseIdle &&
		c.presented == nil &&
		!c.flushReq && !c.resetReq &&
		!c.state.FlushPending && !c.state.ResetPending
}

func (c *Comp) wake() {
	if c.Engine != nil {
		c.TickLater()
	}
}

// Tick runs one cycle.
func (c *Comp) Tick() bool {
	cur := c.state
	in := c.sampleInputs()

	next, out, ops := Step(c.spec, c.array, cur, in)

	applyOps(c.array, ops)
	c.state = next
	c.out = out

	c.granted = false
	if out.BottomReq != nil {
		c.granted = c.bottom.Request(*out.BottomReq)
	}

	if out.Ready {
		c.presented = nil
	}

	c.trace(cur, in, out)

	return !c.Idle()
}

func (c *Comp) sampleInputs() Inputs {
	in := Inputs{
		Req:       c.presented,
		Flush:     c.flushReq,
		Reset:     c.resetReq,
		SnoopAddr: c.snoopAddr,
		Granted:   c.granted,
	}

	c.flushReq = false
	c.resetReq = false

	switch c.state.Phase {
	case PhaseWriteBack, PhaseWaitResponse:
		if done, ok := c.bottom.Poll(); ok {
			in.Completion = &done
		}
	}

	return in
}

// SnapshotState returns the committed state. The array contents are not part
// of the snapshot.
func (c *Comp) SnapshotState() any {
	return c.state
}

// RestoreState restores the committed state from a snapshot.
func (c *Comp) RestoreState(snapshot any) error {
	switch s := snapshot.(type) {
	case State:
		c.state = s
	case *State:
		c.state = *s
	default:
		return fmt.Errorf("cannot restore state from %T", snapshot)
	}

	return nil
}
