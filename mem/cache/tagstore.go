package cache

import "log"

// A TagStore is the indexed array of lines of one way. It knows nothing about
// associativity.
type TagStore struct {
	lineSize int
	lines    []Line
}

// NewTagStore creates a TagStore with all the lines invalid.
func NewTagStore(linesPerWay, lineSize int) *TagStore {
	s := &TagStore{
		lineSize: lineSize,
		lines:    make([]Line, linesPerWay),
	}

	for i := range s.lines {
		s.lines[i].Data = make([]byte, lineSize)
	}

	return s
}

// NumLines returns the number of lines in the store.
func (s *TagStore) NumLines() int {
	return len(s.lines)
}

func (s *TagStore) mustBeInRange(idx int) {
	if idx < 0 || idx >= len(s.lines) {
		log.Panicf("tag store index %d out of range [0, %d)",
			idx, len(s.lines))
	}
}

// Read returns a copy of the line at idx.
func (s *TagStore) Read(idx int) Line {
	s.mustBeInRange(idx)

	return s.lines[idx].Clone()
}

// Write overwrites the tag and the flags of the line at idx. Byte i of the
// line data is replaced by data[i] if mask is nil or mask[i] is set. A nil
// data leaves all the bytes untouched.
func (s *TagStore) Write(
	idx int,
	tag uint64,
	data []byte,
	mask []bool,
	flags Flags,
) {
	s.mustBeInRange(idx)
	flags.Check()

	line := &s.lines[idx]
	line.Tag = tag
	line.Flags = flags

	if data == nil {
		return
	}

	if len(data) != s.lineSize {
		log.Panicf("writing %d bytes into a %d-byte line",
			len(data), s.lineSize)
	}

	if mask != nil && len(mask) != s.lineSize {
		log.Panicf("byte mask of %d bits for a %d-byte line",
			len(mask), s.lineSize)
	}

	for i := range data {
		if mask == nil || mask[i] {
			line.Data[i] = data[i]
		}
	}
}

// Reset makes every line invalid, clean, and zero-filled.
func (s *TagStore) Reset() {
	for i := range s.lines {
		s.lines[i].Tag = 0
		s.lines[i].Flags = Flags{}
		clear(s.lines[i].Data)
	}
}
