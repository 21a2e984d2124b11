package sim

import (
	"log"
	"reflect"
)

// EventLogger is a hook that prints every event an engine handles.
type EventLogger struct {
	*log.Logger
}

// NewEventLogger returns a new EventLogger that writes into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if comp, ok := evt.Handler().(Named); ok {
		h.Printf("%.10f, %s -> %s", evt.Time(), reflect.TypeOf(evt), comp.Name())
		return
	}

	h.Printf("%.10f, %s", evt.Time(), reflect.TypeOf(evt))
}
