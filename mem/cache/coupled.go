package cache

import "log"

// A CoupledCache splits the sets into two banks of half depth. Even-indexed
// sets live in bank 0 and odd-indexed sets in bank 1, so the two lines that
// an access straddling a line boundary touches are always in different banks
// and can be looked up together.
type CoupledCache struct {
	layout Layout
	banks  [2]*AssociativeCache
}

// NewCoupledCache creates a CoupledCache. The layout must have at least two
// lines per way.
func NewCoupledCache(layout Layout) *CoupledCache {
	layout.MustBeValid()

	if layout.LinesPerWay < 2 {
		log.Panicf("coupled cache needs at least 2 lines per way, got %d",
			layout.LinesPerWay)
	}

	half := layout.Half()

	return &CoupledCache{
		layout: layout,
		banks: [2]*AssociativeCache{
			NewAssociativeCache(half),
			NewAssociativeCache(half),
		},
	}
}

// Layout returns the full-depth geometry.
func (c *CoupledCache) Layout() Layout {
	return c.layout
}

// Bank returns one of the two banks.
func (c *CoupledCache) Bank(i int) *AssociativeCache {
	return c.banks[i]
}

func (c *CoupledCache) route(addr uint64) (*AssociativeCache, Address) {
	a := c.layout.Decompose(addr)
	bank := c.banks[a.Index&1]
	a.Index >>= 1

	return bank, a
}

func (c *CoupledCache) routeSet(set int) (*AssociativeCache, int) {
	return c.banks[set&1], set >> 1
}

// Lookup searches for addr in the bank that owns its set.
func (c *CoupledCache) Lookup(addr uint64, way int) LookupResult {
	bank, a := c.route(addr)

	res := bank.lookup(a, way)
	res.Addr = c.layout.Decompose(addr)

	return res
}

// Snoop returns the flags of the line holding addr.
func (c *CoupledCache) Snoop(addr uint64) Flags {
	bank, a := c.route(addr)

	return bank.snoop(a)
}

// SelectVictim returns the least recently used way of the set of addr.
func (c *CoupledCache) SelectVictim(addr uint64) int {
	bank, a := c.route(addr)

	return bank.tracker.Victim(a.Index)
}

// Peek returns a copy of the line at the full-depth set and the way.
func (c *CoupledCache) Peek(set, way int) Line {
	bank, s := c.routeSet(set)

	return bank.Peek(s, way)
}

// Touch marks the way as the most recently used in the set of addr.
func (c *CoupledCache) Touch(addr uint64, way int) {
	bank, a := c.route(addr)
	bank.touch(a, way)
}

// Install fills the way with the line of addr.
func (c *CoupledCache) Install(addr uint64, way int, data []byte, flags Flags) {
	bank, a := c.route(addr)
	bank.install(a, way, data, flags)
}

// Update writes the masked bytes and the flags into the line at the way of
// the set of addr.
func (c *CoupledCache) Update(
	addr uint64,
	way int,
	data []byte,
	mask []bool,
	flags Flags,
) {
	bank, a := c.route(addr)
	bank.update(a, way, data, mask, flags)
}

// SetFlags overwrites the flags of the line at the set and the way.
func (c *CoupledCache) SetFlags(set, way int, flags Flags) {
	bank, s := c.routeSet(set)
	bank.SetFlags(s, way, flags)
}

// Invalidate clears the line at the way of the set of addr.
func (c *CoupledCache) Invalidate(addr uint64, way int) {
	bank, a := c.route(addr)
	bank.InvalidateAt(a.Index, way)
}

// InvalidateAt clears the line at the full-depth set and the way.
func (c *CoupledCache) InvalidateAt(set, way int) {
	bank, s := c.routeSet(set)
	bank.InvalidateAt(s, way)
}

// ResetAll resets both banks.
func (c *CoupledCache) ResetAll() {
	c.banks[0].ResetAll()
	c.banks[1].ResetAll()
}

// SpanResult is the outcome of looking up an access that may cross a line
// boundary.
type SpanResult struct {
	// NumLines is 1 if the access fits in one line and 2 if it straddles.
	NumLines int

	Lines [2]uint64
	Hits  [2]bool
	Ways  [2]int

	// Data holds the accessed bytes when all the touched lines hit.
	Data []byte
}

// Hit tells if every line the access touches is present.
func (r SpanResult) Hit() bool {
	for i := 0; i < r.NumLines; i++ {
		if !r.Hits[i] {
			return false
		}
	}

	return true
}

// LookupSpan looks up the width bytes starting at addr. Both lines of a
// straddling access are looked up in the same step. It never changes any
// state.
func (c *CoupledCache) LookupSpan(addr uint64, width int) SpanResult {
	lineSize := uint64(c.layout.LineSize)
	if width <= 0 || uint64(width) > lineSize {
		log.Panicf("span width %d not in [1, %d]", width, lineSize)
	}

	first := c.layout.AlignDown(addr)
	last := c.layout.AlignDown(addr + uint64(width) - 1)

	res := SpanResult{NumLines: 1, Lines: [2]uint64{first, last}}
	if last != first {
		res.NumLines = 2
	}

	var lines [2]Line

	for i := 0; i < res.NumLines; i++ {
		l := c.Lookup(res.Lines[i], AnyWay)
		res.Hits[i] = l.Hit
		res.Ways[i] = l.Way

		if l.Hit {
			lines[i] = l.Line()
		}
	}

	if !res.Hit() {
		return res
	}

	offset := c.layout.Decompose(addr).Offset
	res.Data = make([]byte, 0, width)

	head := min(width, int(lineSize)-offset)
	res.Data = append(res.Data, lines[0].Data[offset:offset+head]...)

	if res.NumLines == 2 {
		res.Data = append(res.Data, lines[1].Data[:width-head]...)
	}

	return res
}
