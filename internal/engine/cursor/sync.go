package cursor

import (
	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
	"github.com/dshills/editcore/internal/engine/grapheme"
)

// Reconcile adjusts a cursor that did not make the edit d so that it stays
// valid in v, the buffer after the edit. A cursor wholly after the edit
// shifts by the change in length, one wholly before it is untouched, and
// one overlapping it snaps to the cluster ending at its old end.
func (c *Cursor) Reconcile(v buffer.View, d diff.Diff) {
	if d.IsEmpty() {
		return
	}
	// Positions are compared against the region the edit replaced.
	editStart, editEnd := d.CharIndex, d.OldCharEnd()
	delta := d.CharDelta()

	if c.selecting {
		switch {
		case editEnd <= c.anchor:
			c.anchor = max(c.anchor+delta, 0)
		case editStart < c.anchor:
			c.anchor = min(c.anchor, v.LenChars())
		}
		c.anchor = grapheme.Align(v, c.anchor)
	}

	switch {
	case editStart >= c.rng.End:
		return
	case editEnd <= c.rng.Start:
		c.rng.Start = max(c.rng.Start+delta, 0)
		c.rng.End = max(c.rng.End+delta, 0)
		c.realign(v)
	default:
		start := grapheme.Prev(v, min(c.rng.End, v.LenChars()))
		c.rng = buffer.NewRange(start, grapheme.Next(v, start))
	}
}

// Sync moves the cursor from old to a different revision of the buffer,
// keeping its line and offset within the line as far as the new buffer
// allows. The result is a fresh cursor with no selection.
func (c *Cursor) Sync(old, v buffer.View) {
	start := min(c.rng.Start, old.LenChars())
	line := old.CharToLine(start)
	offset := start - old.LineToChar(line)

	newLine := min(line, max(v.LenLines()-1, 0))
	newOffset := min(offset, max(v.LineLen(newLine)-1, 0))

	*c = New()
	c.place(v, grapheme.Align(v, v.LineToChar(newLine)+newOffset))
}
