// Package killring keeps a bounded history of cut and copied text, most
// recent first.
package killring

import "slices"

// DefaultSize is the capacity of a ring made by New with size <= 0.
const DefaultSize = 10

// Ring is a fixed-size ring of killed text. The zero value is not usable;
// call New.
type Ring struct {
	entries []string
	pos     int
	size    int
}

// New creates a ring holding at most size entries.
func New(size int) *Ring {
	if size <= 0 {
		size = DefaultSize
	}
	return &Ring{entries: make([]string, 0, size), size: size}
}

// Push adds s as the newest entry and makes it current. Empty text is
// ignored. The oldest entry is dropped when the ring is full.
func (r *Ring) Push(s string) {
	if s == "" {
		return
	}
	if len(r.entries) < r.size {
		r.entries = append(r.entries, "")
	}
	copy(r.entries[1:], r.entries[:len(r.entries)-1])
	r.entries[0] = s
	r.pos = 0
}

// Rotate makes the next older entry current, wrapping to the newest.
func (r *Ring) Rotate() bool {
	if len(r.entries) <= 1 {
		return false
	}
	r.pos = (r.pos + 1) % len(r.entries)
	return true
}

// RotatePrev makes the next newer entry current, wrapping to the oldest.
func (r *Ring) RotatePrev() bool {
	if len(r.entries) <= 1 {
		return false
	}
	r.pos = (r.pos - 1 + len(r.entries)) % len(r.entries)
	return true
}

// Current returns the current entry, or "" when the ring is empty.
func (r *Ring) Current() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[r.pos]
}

// Entries returns the entries starting at the current one.
func (r *Ring) Entries() []string {
	if len(r.entries) == 0 {
		return nil
	}
	out := slices.Clone(r.entries[r.pos:])
	return append(out, r.entries[:r.pos]...)
}

// Len returns the number of entries.
func (r *Ring) Len() int { return len(r.entries) }
