package cursor

import (
	"slices"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

// Set holds a primary cursor and any number of secondary cursors over the
// same buffer. Index 0 is always the primary.
type Set struct {
	cursors []Cursor
}

// NewSet creates a set holding only primary.
func NewSet(primary Cursor) *Set {
	return &Set{cursors: []Cursor{primary}}
}

// Primary returns the primary cursor for in-place editing.
func (s *Set) Primary() *Cursor {
	return &s.cursors[0]
}

// At returns the cursor at index i, or nil when i is out of range.
func (s *Set) At(i int) *Cursor {
	if i < 0 || i >= len(s.cursors) {
		return nil
	}
	return &s.cursors[i]
}

// Len returns the number of cursors.
func (s *Set) Len() int {
	return len(s.cursors)
}

// IsMulti reports whether the set has secondary cursors.
func (s *Set) IsMulti() bool {
	return len(s.cursors) > 1
}

// All returns a copy of the cursors, primary first.
func (s *Set) All() []Cursor {
	return slices.Clone(s.cursors)
}

// Add appends a secondary cursor unless one with the same range exists.
// It returns the cursor's index.
func (s *Set) Add(c Cursor) int {
	for i, existing := range s.cursors {
		if existing.rng == c.rng {
			return i
		}
	}
	s.cursors = append(s.cursors, c)
	return len(s.cursors) - 1
}

// Remove drops the secondary cursor at index i. The primary is never
// removed.
func (s *Set) Remove(i int) {
	if i <= 0 || i >= len(s.cursors) {
		return
	}
	s.cursors = slices.Delete(s.cursors, i, i+1)
}

// Clear drops every secondary cursor.
func (s *Set) Clear() {
	s.cursors = s.cursors[:1]
}

// Reconcile applies the edit d, made through the cursor at index source,
// to every other cursor. Indices stay stable; call Normalize afterwards to
// merge cursors that collapsed onto each other.
func (s *Set) Reconcile(v buffer.View, d diff.Diff, source int) {
	for i := range s.cursors {
		if i != source {
			s.cursors[i].Reconcile(v, d)
		}
	}
}

// Sync moves every cursor from old to a different revision v.
func (s *Set) Sync(old, v buffer.View) {
	for i := range s.cursors {
		s.cursors[i].Sync(old, v)
	}
	s.Normalize()
}

// Ordered returns the cursors sorted by position, for applying edits from
// the end of the buffer backwards.
func (s *Set) Ordered() []int {
	idx := make([]int, len(s.cursors))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return s.cursors[a].rng.Start - s.cursors[b].rng.Start
	})
	return idx
}

// Normalize drops secondary cursors whose range duplicates an earlier
// cursor.
func (s *Set) Normalize() {
	out := s.cursors[:1]
	for _, c := range s.cursors[1:] {
		if !slices.ContainsFunc(out, func(o Cursor) bool { return o.rng == c.rng }) {
			out = append(out, c)
		}
	}
	clear(s.cursors[len(out):])
	s.cursors = out
}
