package writeback

import (
	"fmt"
	"log"

	"github.com/sarchlab/rvcosim/sim"
	"github.com/sarchlab/rvcosim/tracing"
)

var (
	// HookPosTransition marks a phase change of the controller. The item is
	// a Transition.
	HookPosTransition = &sim.HookPos{Name: "WriteBackCacheTransition"}

	// HookPosResponse marks a response to the front end. The item is the
	// Response.
	HookPosResponse = &sim.HookPos{Name: "WriteBackCacheResponse"}

	// HookPosFlushEnd marks the end of a flush sweep. The item is a
	// FlushResult.
	HookPosFlushEnd = &sim.HookPos{Name: "WriteBackCacheFlushEnd"}
)

// FlushResult is the item of a HookPosFlushEnd hook.
type FlushResult struct {
	Fault bool
}

// A Transition is the item of a HookPosTransition hook.
type Transition struct {
	Time  sim.VTimeInSec
	From  Phase
	To    Phase
	ReqID string
}

func (c *Comp) trace(cur State, in Inputs, out Outputs) {
	if c.NumHooks() == 0 {
		return
	}

	next := c.state

	if out.Ready {
		what := "read"
		if in.Req.IsWrite {
			what = "write"
		}

		tracing.StartTask(in.Req.ID, "", c, "req_in", what, *in.Req)
	}

	if cur.Phase == PhaseIdle && next.Phase == PhaseFlushSweep {
		tracing.StartTask(c.flushTaskID(next), "", c, "flush", "flush", nil)
	}

	c.traceBottom(cur, in, out)

	if cur.Phase != next.Phase {
		c.transition(cur, next)
	}

	if out.RespValid {
		tracing.EndTask(out.Resp.ReqID, c)
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosResponse,
			Item:   out.Resp,
		})
	}

	if out.FlushEnd {
		tracing.EndTask(c.flushTaskID(next), c)
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosFlushEnd,
			Item:   FlushResult{Fault: out.FlushFault},
		})
	}
}

func (c *Comp) flushTaskID(s State) string {
	return fmt.Sprintf("%s.flush.%d", c.Name(), s.Stats.Flushes)
}

func (c *Comp) bottomTaskID(id string) string {
	return c.Name() + ".bottom." + id
}

func (c *Comp) traceBottom(cur State, in Inputs, out Outputs) {
	if in.Completion != nil {
		tracing.EndTask(c.bottomTaskID(in.Completion.ReqID), c)
	}

	if out.BottomReq == nil || out.BottomReq.ID == cur.Pending.ID {
		return
	}

	parent := c.state.Req.ID
	if c.state.Pass == PassFlush {
		parent = c.flushTaskID(c.state)
	}

	what := "read"
	if out.BottomReq.IsWrite {
		what = "write"
	}

	tracing.StartTask(c.bottomTaskID(out.BottomReq.ID), parent, c,
		"req_out", what, *out.BottomReq)
}

func (c *Comp) transition(cur, next State) {
	reqID := next.Req.ID
	if !next.HasReq {
		reqID = cur.Req.ID
	}

	if next.HasReq {
		tracing.AddTaskStep(reqID, c, next.Phase.String())
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosTransition,
		Item: Transition{
			Time:  c.CurrentTime(),
			From:  cur.Phase,
			To:    next.Phase,
			ReqID: reqID,
		},
	})
}

// TransitionLogger prints every phase change of a cache.
type TransitionLogger struct {
	*log.Logger
}

// NewTransitionLogger creates a TransitionLogger that writes to logger.
func NewTransitionLogger(logger *log.Logger) *TransitionLogger {
	return &TransitionLogger{Logger: logger}
}

// Func logs the transition.
func (l *TransitionLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosTransition {
		return
	}

	t, ok := ctx.Item.(Transition)
	if !ok {
		return
	}

	name := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	l.Printf("%.10f, %s, %s -> %s, %s", t.Time, name, t.From, t.To, t.ReqID)
}
