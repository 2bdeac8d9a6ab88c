package engine

import (
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/cursor"
)

// Motion names a cursor movement.
type Motion string

// Motions understood by Move.
const (
	MotionLeft              Motion = "left"
	MotionRight             Motion = "right"
	MotionUp                Motion = "up"
	MotionDown              Motion = "down"
	MotionWordForward       Motion = "word_forward"
	MotionWordBackward      Motion = "word_backward"
	MotionParagraphForward  Motion = "paragraph_forward"
	MotionParagraphBackward Motion = "paragraph_backward"
	MotionLineStart         Motion = "line_start"
	MotionLineEnd           Motion = "line_end"
	MotionBufferStart       Motion = "buffer_start"
	MotionBufferEnd         Motion = "buffer_end"
	MotionPageUp            Motion = "page_up"
	MotionPageDown          Motion = "page_down"
)

// Move applies m to every cursor n times. For the page motions n is the
// page height in lines.
func (d *Document) Move(m Motion, n int) error {
	n = max(n, 1)
	var step func(c *cursor.Cursor, v buffer.View)
	switch m {
	case MotionLeft:
		step = func(c *cursor.Cursor, v buffer.View) { c.MoveHorizontally(v, cursor.Backward, n) }
	case MotionRight:
		step = func(c *cursor.Cursor, v buffer.View) { c.MoveHorizontally(v, cursor.Forward, n) }
	case MotionUp:
		step = func(c *cursor.Cursor, v buffer.View) { c.MoveVerticallyTab(v, cursor.Backward, n, d.tabWidth) }
	case MotionDown:
		step = func(c *cursor.Cursor, v buffer.View) { c.MoveVerticallyTab(v, cursor.Forward, n, d.tabWidth) }
	case MotionWordForward:
		step = repeat(n, (*cursor.Cursor).MoveForwardWord)
	case MotionWordBackward:
		step = repeat(n, (*cursor.Cursor).MoveBackwardWord)
	case MotionParagraphForward:
		step = repeat(n, (*cursor.Cursor).MoveForwardParagraph)
	case MotionParagraphBackward:
		step = repeat(n, (*cursor.Cursor).MoveBackwardParagraph)
	case MotionLineStart:
		step = (*cursor.Cursor).MoveToStartOfLine
	case MotionLineEnd:
		step = (*cursor.Cursor).MoveToEndOfLine
	case MotionBufferStart:
		step = (*cursor.Cursor).MoveToStartOfBuffer
	case MotionBufferEnd:
		step = (*cursor.Cursor).MoveToEndOfBuffer
	case MotionPageUp:
		step = func(c *cursor.Cursor, v buffer.View) { c.PageUp(v, n) }
	case MotionPageDown:
		step = func(c *cursor.Cursor, v buffer.View) { c.PageDown(v, n) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMotion, m)
	}
	d.eachCursor(step)
	return nil
}

func repeat(n int, fn func(*cursor.Cursor, buffer.View)) func(*cursor.Cursor, buffer.View) {
	return func(c *cursor.Cursor, v buffer.View) {
		for range n {
			fn(c, v)
		}
	}
}

// MoveTo places the primary cursor on the cluster containing idx and drops
// secondary cursors.
func (d *Document) MoveTo(idx int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursors.Clear()
	d.cursors.Primary().MoveTo(d.tree.Staged(), idx)
}
