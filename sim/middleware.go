package sim

// A Middleware is one stage of a component's tick. The ideal memory, for
// example, does all its work in a single middleware.
type Middleware interface {
	// Tick runs the stage for one cycle and tells if it made progress.
	Tick() bool
}

// MiddlewareHolder runs a list of middlewares, in the order they are added.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware appends a middleware to the pipeline.
func (holder *MiddlewareHolder) AddMiddleware(middleware Middleware) {
	holder.middlewares = append(holder.middlewares, middleware)
}

// Middlewares returns the pipeline.
func (holder *MiddlewareHolder) Middlewares() []Middleware {
	return holder.middlewares
}

// Tick runs every middleware once, even after one of them made progress. It
// returns true if any of them made progress.
func (holder *MiddlewareHolder) Tick() bool {
	progress := false

	for _, middleware := range holder.middlewares {
		progress = middleware.Tick() || progress
	}

	return progress
}
