package tracing

import (
	"log"

	"github.com/sarchlab/rvcosim/sim"
)

// CollectTrace lets the tracer see the tasks that the domain reports. All
// the tracers of a domain share one hook and are called in the order they
// were attached.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	h := taskHookOf(domain)
	if h == nil {
		h = &taskHook{}
		domain.AcceptHook(h)
	}

	for _, t := range h.tracers {
		if t == tracer {
			log.Panicf("domain %s already has tracer %T", domain.Name(), tracer)
		}
	}

	h.tracers = append(h.tracers, tracer)
}

func taskHookOf(domain sim.Hookable) *taskHook {
	for _, hook := range domain.Hooks() {
		if h, ok := hook.(*taskHook); ok {
			return h
		}
	}

	return nil
}

// taskHook forwards task lifecycle hooks to tracers.
type taskHook struct {
	tracers []Tracer
}

// Func dispatches on the hook position. Hooks that do not carry a Task are
// not for tracers.
func (h *taskHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	var deliver func(t Tracer, task Task)

	switch ctx.Pos {
	case HookPosTaskStart:
		deliver = Tracer.StartTask
	case HookPosTaskStep:
		deliver = Tracer.StepTask
	case HookPosTaskEnd:
		deliver = Tracer.EndTask
	default:
		return
	}

	for _, t := range h.tracers {
		deliver(t, task)
	}
}
