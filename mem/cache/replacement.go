package cache

import "log"

// A ReplacementTracker keeps the usage order of the ways in every set.
type ReplacementTracker interface {
	// Touch makes the way the most recently used one of the set.
	Touch(set, way int)

	// Victim returns the way to evict from the set. It does not change the
	// order.
	Victim(set int) int

	// Demote makes the way the next eviction candidate of the set.
	Demote(set, way int)

	// Init restores the initial order of the set.
	Init(set int)

	// ResetAll restores the initial order of all the sets.
	ResetAll()

	// Order returns a copy of the order of the set.
	Order(set int) []int
}

// LRUTracker keeps, for every set, the ways ordered from the most recently
// used to the least recently used. The initial order is ascending way index.
type LRUTracker struct {
	numWays int
	orders  [][]int
}

// NewLRUTracker creates an LRUTracker with every set in the initial order.
func NewLRUTracker(numSets, numWays int) *LRUTracker {
	t := &LRUTracker{
		numWays: numWays,
		orders:  make([][]int, numSets),
	}

	for i := range t.orders {
		t.orders[i] = make([]int, numWays)
	}

	t.ResetAll()

	return t
}

func (t *LRUTracker) position(set, way int) int {
	for i, w := range t.orders[set] {
		if w == way {
			return i
		}
	}

	log.Panicf("way %d is not in the order of set %d", way, set)

	return -1
}

// Touch moves the way to the front of the order. The ways that were ahead of
// it shift back by one.
func (t *LRUTracker) Touch(set, way int) {
	order := t.orders[set]
	pos := t.position(set, way)

	copy(order[1:pos+1], order[:pos])
	order[0] = way
}

// Victim returns the way at the back of the order.
func (t *LRUTracker) Victim(set int) int {
	return t.orders[set][t.numWays-1]
}

// Demote moves the way to the back of the order.
func (t *LRUTracker) Demote(set, way int) {
	order := t.orders[set]
	pos := t.position(set, way)

	copy(order[pos:], order[pos+1:])
	order[t.numWays-1] = way
}

// Init sets the order of the set to 0, 1, ..., N-1.
func (t *LRUTracker) Init(set int) {
	for i := range t.orders[set] {
		t.orders[set][i] = i
	}
}

// ResetAll sets every set to the initial order.
func (t *LRUTracker) ResetAll() {
	for set := range t.orders {
		t.Init(set)
	}
}

// Order returns a copy of the order of the set, most recently used first.
func (t *LRUTracker) Order(set int) []int {
	return append([]int(nil), t.orders[set]...)
}
