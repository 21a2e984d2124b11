package cache

import "log"

// Flags is the state bit set of a cache line.
type Flags struct {
	Valid bool
	Dirty bool

	// Ext is carried along with the line and never interpreted by the cache.
	Ext uint8
}

// Check panics if the flags break the rule that a dirty line must be valid.
func (f Flags) Check() {
	if f.Dirty && !f.Valid {
		log.Panicf("line flags %+v: dirty line must be valid", f)
	}
}

// A Line is a storage cell of a way.
type Line struct {
	Tag   uint64
	Data  []byte
	Flags Flags
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	c := l
	c.Data = append([]byte(nil), l.Data...)

	return c
}
