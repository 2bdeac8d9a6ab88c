package cursor

import (
	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
	"github.com/dshills/editcore/internal/engine/grapheme"
)

// DeleteForward deletes the range under the cursor. An empty caret deletes
// nothing.
func (c *Cursor) DeleteForward(t buffer.Text) diff.DeleteResult {
	return c.DeleteForwardFrom(t, c.rng.Start, c.rng.Len())
}

// DeleteForwardFrom deletes up to n chars starting at idx and replaces the
// cursor with one on the cluster now at idx.
func (c *Cursor) DeleteForwardFrom(t buffer.Text, idx, n int) diff.DeleteResult {
	size := t.LenChars()
	if size == 0 || idx < 0 || idx >= size || n <= 0 {
		return diff.EmptyDelete()
	}
	end := min(idx+n, size)
	res := diff.DeleteResult{
		Diff:    diff.Deletion(t, idx, end),
		Deleted: t.Slice(idx, end),
	}
	t.Remove(idx, end)
	*c = New()
	c.place(t, grapheme.Align(t, idx))
	return res
}

// DeleteBackward deletes the cluster before the caret.
func (c *Cursor) DeleteBackward(t buffer.Text) diff.DeleteResult {
	if c.rng.Start == 0 {
		return diff.EmptyDelete()
	}
	c.MoveHorizontally(t, Backward, 1)
	return c.DeleteForward(t)
}

// DeleteLine deletes the caret's line including its newline. The cursor
// moves to the start of the line that takes its place, or of the last line
// with content when the deleted line was the last.
func (c *Cursor) DeleteLine(t buffer.Text) diff.DeleteResult {
	if t.LenChars() == 0 {
		return diff.EmptyDelete()
	}
	line := t.CharToLine(min(c.rng.Start, t.LenChars()))
	start, end := t.LineToChar(line), t.LineToChar(line+1)
	if start == end {
		return diff.EmptyDelete()
	}
	res := diff.DeleteResult{
		Diff:    diff.Deletion(t, start, end),
		Deleted: t.Slice(start, end),
	}
	t.Remove(start, end)

	target := min(line, lastContentLine(t))
	*c = New()
	c.place(t, t.LineToChar(target))
	return res
}

// lastContentLine is the last line, or the one before it when the buffer
// ends with a newline.
func lastContentLine(v buffer.View) int {
	last := v.LenLines() - 1
	if last > 0 && v.LineLen(last) == 0 {
		last--
	}
	return last
}

// DeleteSelection deletes the selection, or the range when nothing is
// selected, and clears the selection.
func (c *Cursor) DeleteSelection(t buffer.Text) diff.DeleteResult {
	if t.LenChars() == 0 {
		return diff.EmptyDelete()
	}
	sel := c.Selection().Clamp(t.LenChars())
	if sel.IsEmpty() {
		c.ClearSelection()
		return diff.EmptyDelete()
	}
	res := diff.DeleteResult{
		Diff:    diff.Deletion(t, sel.Start, sel.End),
		Deleted: t.Slice(sel.Start, sel.End),
	}
	t.Remove(sel.Start, sel.End)

	start := min(sel.Start, grapheme.Prev(t, t.LenChars()))
	*c = New()
	c.place(t, grapheme.Align(t, start))
	return res
}
