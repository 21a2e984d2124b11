package cache

import "log"

// AnyWay asks a lookup to search every way of the set for a matching tag.
const AnyWay = -1

// An Array is a set-associative storage of lines addressed by full addresses.
type Array interface {
	Layout() Layout

	// Lookup searches for the line that holds addr. If way is AnyWay, the
	// tags of all the ways are compared. Otherwise, the line at the given way
	// and the index of addr is returned as is, without tag comparison.
	Lookup(addr uint64, way int) LookupResult

	// Snoop returns the flags of the line holding addr, or the zero flags if
	// no way holds it. It never changes any state.
	Snoop(addr uint64) Flags

	// SelectVictim returns the way to fill for addr.
	SelectVictim(addr uint64) int

	// Peek returns the line at the given set and way.
	Peek(set, way int) Line

	Touch(addr uint64, way int)
	Install(addr uint64, way int, data []byte, flags Flags)
	Update(addr uint64, way int, data []byte, mask []bool, flags Flags)
	SetFlags(set, way int, flags Flags)
	Invalidate(addr uint64, way int)
	InvalidateAt(set, way int)
	ResetAll()
}

// LookupResult is the outcome of a lookup.
type LookupResult struct {
	Hit    bool
	Way    int
	Direct bool
	Addr   Address

	line Line
}

// Line returns the line found. It panics if the lookup missed.
func (r LookupResult) Line() Line {
	if !r.Hit {
		log.Panic("reading the line of a missed lookup")
	}

	return r.line
}

// AssociativeCache composes one TagStore per way and a ReplacementTracker.
type AssociativeCache struct {
	layout  Layout
	ways    []*TagStore
	tracker ReplacementTracker
}

// NewAssociativeCache creates an AssociativeCache with LRU replacement.
func NewAssociativeCache(layout Layout) *AssociativeCache {
	return NewAssociativeCacheWithTracker(layout,
		NewLRUTracker(layout.NumSets(), layout.NumWays))
}

// NewAssociativeCacheWithTracker creates an AssociativeCache that uses the
// given ReplacementTracker.
func NewAssociativeCacheWithTracker(
	layout Layout,
	tracker ReplacementTracker,
) *AssociativeCache {
	layout.MustBeValid()

	c := &AssociativeCache{
		layout:  layout,
		ways:    make([]*TagStore, layout.NumWays),
		tracker: tracker,
	}

	for i := range c.ways {
		c.ways[i] = NewTagStore(layout.LinesPerWay, layout.LineSize)
	}

	return c
}

// Layout returns the geometry of the cache.
func (c *AssociativeCache) Layout() Layout {
	return c.layout
}

// Tracker returns the ReplacementTracker of the cache.
func (c *AssociativeCache) Tracker() ReplacementTracker {
	return c.tracker
}

func (c *AssociativeCache) mustBeValidWay(way int) {
	if way < 0 || way >= c.layout.NumWays {
		log.Panicf("way %d out of range [0, %d)", way, c.layout.NumWays)
	}
}

// Lookup searches for addr. See Array.
func (c *AssociativeCache) Lookup(addr uint64, way int) LookupResult {
	return c.lookup(c.layout.Decompose(addr), way)
}

func (c *AssociativeCache) lookup(a Address, way int) LookupResult {
	if way != AnyWay {
		c.mustBeValidWay(way)

		return LookupResult{
			Hit:    true,
			Way:    way,
			Direct: true,
			Addr:   a,
			line:   c.ways[way].Read(a.Index),
		}
	}

	for w, store := range c.ways {
		line := store.Read(a.Index)
		if line.Flags.Valid && line.Tag == a.Tag {
			return LookupResult{Hit: true, Way: w, Addr: a, line: line}
		}
	}

	return LookupResult{Way: AnyWay, Addr: a}
}

// Snoop returns the flags of the line holding addr.
func (c *AssociativeCache) Snoop(addr uint64) Flags {
	return c.snoop(c.layout.Decompose(addr))
}

func (c *AssociativeCache) snoop(a Address) Flags {
	res := c.lookup(a, AnyWay)
	if !res.Hit {
		return Flags{}
	}

	return res.line.Flags
}

// SelectVictim returns the least recently used way of the set of addr.
func (c *AssociativeCache) SelectVictim(addr uint64) int {
	return c.tracker.Victim(c.layout.Decompose(addr).Index)
}

// Peek returns a copy of the line at the set and the way.
func (c *AssociativeCache) Peek(set, way int) Line {
	c.mustBeValidWay(way)

	return c.ways[way].Read(set)
}

// Touch marks the way as the most recently used in the set of addr.
func (c *AssociativeCache) Touch(addr uint64, way int) {
	c.touch(c.layout.Decompose(addr), way)
}

func (c *AssociativeCache) touch(a Address, way int) {
	c.mustBeValidWay(way)
	c.tracker.Touch(a.Index, way)
}

// Install fills the way with the line of addr and touches the way. It panics
// if another way of the set already holds a valid line with the same tag.
func (c *AssociativeCache) Install(
	addr uint64,
	way int,
	data []byte,
	flags Flags,
) {
	c.install(c.layout.Decompose(addr), way, data, flags)
}

func (c *AssociativeCache) install(
	a Address,
	way int,
	data []byte,
	flags Flags,
) {
	c.mustBeValidWay(way)

	if flags.Valid {
		for w, store := range c.ways {
			if w == way {
				continue
			}

			line := store.Read(a.Index)
			if line.Flags.Valid && line.Tag == a.Tag {
				log.Panicf("tag %#x already valid in set %d way %d",
					a.Tag, a.Index, w)
			}
		}
	}

	c.ways[way].Write(a.Index, a.Tag, data, nil, flags)
	c.tracker.Touch(a.Index, way)
}

// Update writes the masked bytes and the flags into the line at the way of
// the set of addr and touches the way. The stored tag is kept.
func (c *AssociativeCache) Update(
	addr uint64,
	way int,
	data []byte,
	mask []bool,
	flags Flags,
) {
	c.update(c.layout.Decompose(addr), way, data, mask, flags)
}

func (c *AssociativeCache) update(
	a Address,
	way int,
	data []byte,
	mask []bool,
	flags Flags,
) {
	c.mustBeValidWay(way)

	store := c.ways[way]
	tag := store.Read(a.Index).Tag
	store.Write(a.Index, tag, data, mask, flags)
	c.tracker.Touch(a.Index, way)
}

// SetFlags overwrites the flags of the line at the set and the way.
func (c *AssociativeCache) SetFlags(set, way int, flags Flags) {
	c.mustBeValidWay(way)

	store := c.ways[way]
	tag := store.Read(set).Tag
	store.Write(set, tag, nil, nil, flags)
}

// Invalidate clears the flags of the line at the way of the set of addr and
// makes the way the next victim.
func (c *AssociativeCache) Invalidate(addr uint64, way int) {
	c.InvalidateAt(c.layout.Decompose(addr).Index, way)
}

// InvalidateAt clears the flags of the line at the set and the way and makes
// the way the next victim.
func (c *AssociativeCache) InvalidateAt(set, way int) {
	c.SetFlags(set, way, Flags{})
	c.tracker.Demote(set, way)
}

// ResetAll invalidates every line and restores the initial replacement order.
func (c *AssociativeCache) ResetAll() {
	for _, store := range c.ways {
		store.Reset()
	}

	c.tracker.ResetAll()
}
