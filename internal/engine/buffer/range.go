package buffer

import "fmt"

// Range is a char range [Start, End).
type Range struct {
	Start int // Inclusive start position
	End   int // Exclusive end position
}

// NewRange creates a Range from start and end indices.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in chars.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if idx is within the range.
func (r Range) Contains(idx int) bool {
	return idx >= r.Start && idx < r.End
}

// Overlaps returns true if the two ranges share at least one char.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Clamp limits the range to [0, n].
func (r Range) Clamp(n int) Range {
	start := min(max(r.Start, 0), n)
	end := min(max(r.End, start), n)
	return Range{Start: start, End: end}
}
