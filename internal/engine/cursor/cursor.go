package cursor

import (
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/grapheme"
)

// Cursor is a position in a buffer. The zero value is the empty cursor at
// the start of the buffer with no selection.
type Cursor struct {
	rng       buffer.Range
	anchor    int
	selecting bool
	visual    int
	hasVisual bool
}

// New returns the empty cursor, 0..0 with no selection.
func New() Cursor {
	return Cursor{}
}

// WithRange returns a cursor over [start, end). The caller is responsible
// for passing grapheme boundaries.
func WithRange(start, end int) Cursor {
	if end < start {
		start, end = end, start
	}
	return Cursor{rng: buffer.NewRange(max(start, 0), max(end, 0))}
}

// Range returns the range under the cursor.
func (c Cursor) Range() buffer.Range {
	return c.rng
}

// Start returns the caret position.
func (c Cursor) Start() int {
	return c.rng.Start
}

// IsEmpty reports whether the range is an empty caret.
func (c Cursor) IsEmpty() bool {
	return c.rng.IsEmpty()
}

// Anchor returns the selection anchor, if a selection is active.
func (c Cursor) Anchor() (int, bool) {
	return c.anchor, c.selecting
}

// IsSelecting reports whether a selection is active.
func (c Cursor) IsSelecting() bool {
	return c.selecting
}

// VisualOffset returns the column remembered for vertical movement.
func (c Cursor) VisualOffset() (int, bool) {
	return c.visual, c.hasVisual
}

// Selection returns the selected span. Without a selection it is the range.
func (c Cursor) Selection() buffer.Range {
	if !c.selecting {
		return c.rng
	}
	switch {
	case c.anchor > c.rng.Start:
		return buffer.NewRange(c.rng.Start, c.anchor)
	case c.anchor < c.rng.Start:
		return buffer.NewRange(c.anchor, c.rng.Start)
	default:
		return c.rng
	}
}

// forward reports whether the caret is the far end of the selection, that
// is the selection was made top-down.
func (c Cursor) forward() bool {
	return c.Selection().End == c.rng.Start
}

// BeginSelection anchors a selection at the caret.
func (c *Cursor) BeginSelection() {
	c.anchor = c.rng.Start
	c.selecting = true
}

// ClearSelection drops the selection anchor.
func (c *Cursor) ClearSelection() {
	c.anchor = 0
	c.selecting = false
}

// SelectAll selects the whole buffer with the caret at its start.
func (c *Cursor) SelectAll(v buffer.View) {
	c.MoveToStartOfBuffer(v)
	c.anchor = v.LenChars()
	c.selecting = true
}

// MoveTo places the caret on the cluster containing idx.
func (c *Cursor) MoveTo(v buffer.View, idx int) {
	c.place(v, grapheme.Align(v, idx))
	c.hasVisual = false
}

// place sets the range to the cluster starting at the boundary b.
func (c *Cursor) place(v buffer.View, b int) {
	b = min(max(b, 0), v.LenChars())
	c.rng = buffer.NewRange(b, grapheme.Next(v, b))
}

// realign snaps the range back onto boundaries after the text around it
// changed, keeping an empty caret empty.
func (c *Cursor) realign(v buffer.View) {
	start := grapheme.Align(v, c.rng.Start)
	if c.rng.IsEmpty() {
		c.rng = buffer.NewRange(start, start)
		return
	}
	c.rng = buffer.NewRange(start, grapheme.Next(v, start))
}

// ColumnOffset returns the display width from the start of the caret's
// line to the caret.
func (c Cursor) ColumnOffset(v buffer.View) int {
	return c.ColumnOffsetTab(v, grapheme.TabWidth)
}

// ColumnOffsetTab is ColumnOffset with tab stops every tab columns.
func (c Cursor) ColumnOffsetTab(v buffer.View, tab int) int {
	start := min(c.rng.Start, v.LenChars())
	lineStart := v.LineToChar(v.CharToLine(start))
	return grapheme.WidthTab(v.Slice(lineStart, start), tab)
}

func (c Cursor) String() string {
	if c.selecting {
		return fmt.Sprintf("%s anchor %d", c.rng, c.anchor)
	}
	return c.rng.String()
}
