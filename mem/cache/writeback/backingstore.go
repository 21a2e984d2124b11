package writeback

// A LineRequest asks the backing store to read or write one whole line.
type LineRequest struct {
	ID      string
	Addr    uint64
	IsWrite bool
	Data    []byte
}

// A Completion reports the end of a LineRequest.
type Completion struct {
	ReqID   string
	IsWrite bool
	Data    []byte
	Fault   bool
}

// BackingStore is the memory behind the cache.
type BackingStore interface {
	// Request offers a request. It returns false if the store cannot take it
	// in this cycle.
	Request(req LineRequest) bool

	// Poll takes one finished request, if any.
	Poll() (Completion, bool)
}
