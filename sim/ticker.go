package sim

// A Ticker updates its state one cycle at a time. Tick returns true if the
// ticker made progress and needs to be ticked again in the next cycle.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events for a handler.
type TickScheduler struct {
	handler Handler
	Freq    Freq
	Engine  Engine

	nextTickTime VTimeInSec
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	return &TickScheduler{
		handler:      handler,
		Engine:       engine,
		Freq:         freq,
		nextTickTime: -1,
	}
}

// TickNow schedules a tick event at the current time, unless a tick at or
// after the current time is already scheduled.
func (t *TickScheduler) TickNow() {
	now := t.CurrentTime()
	if t.nextTickTime >= now {
		return
	}

	t.nextTickTime = t.Freq.ThisTick(now)
	t.Engine.Schedule(MakeTickEvent(t.handler, t.nextTickTime))
}

// TickLater schedules a tick event at the cycle after the current time.
func (t *TickScheduler) TickLater() {
	next := t.Freq.NextTick(t.CurrentTime())
	if t.nextTickTime >= next {
		return
	}

	t.nextTickTime = next
	t.Engine.Schedule(MakeTickEvent(t.handler, t.nextTickTime))
}

// CurrentTime returns the current time of the engine. A scheduler without an
// engine is driven by hand and always reports time 0.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	if t.Engine == nil {
		return 0
	}

	return t.Engine.CurrentTime()
}

// TickingComponent is a component that updates its state cycle by cycle. A
// programmer only needs to provide the Tick function.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a new TickingComponent.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}

// Handle triggers the Tick function. The component keeps ticking as long as
// the ticker makes progress.
func (c *TickingComponent) Handle(_ Event) error {
	madeProgress := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return nil
}
