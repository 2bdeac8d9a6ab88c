package cursor

import (
	"unicode"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/grapheme"
)

// Direction is the direction of a movement.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// MoveHorizontally moves the caret n clusters in dir, stopping at either
// end of the buffer.
func (c *Cursor) MoveHorizontally(v buffer.View, dir Direction, n int) {
	pos := min(c.rng.Start, v.LenChars())
	for range max(n, 0) {
		if dir == Forward {
			pos = grapheme.Next(v, pos)
		} else {
			pos = grapheme.Prev(v, pos)
		}
	}
	c.place(v, pos)
	c.hasVisual = false
}

// MoveVertically moves the caret n lines in dir, aiming for the column it
// was on when vertical movement started.
func (c *Cursor) MoveVertically(v buffer.View, dir Direction, n int) {
	c.MoveVerticallyTab(v, dir, n, grapheme.TabWidth)
}

// MoveVerticallyTab is MoveVertically with tab stops every tab columns.
func (c *Cursor) MoveVerticallyTab(v buffer.View, dir Direction, n, tab int) {
	start := min(c.rng.Start, v.LenChars())
	line := v.CharToLine(start)
	target := line + n
	if dir == Backward {
		target = line - n
	}
	target = min(max(target, 0), v.LenLines()-1)
	if target == line {
		return
	}
	if !c.hasVisual {
		c.visual = c.ColumnOffsetTab(v, tab)
		c.hasVisual = true
	}

	lineStart, lineEnd := v.LineToChar(target), buffer.LineEnd(v, target)
	pos, col := lineEnd, 0
	for cl := range grapheme.Clusters(v, lineStart, lineEnd) {
		w := grapheme.ClusterWidth(cl.Text, col, tab)
		if col+w > c.visual {
			pos = cl.Start
			break
		}
		col += w
	}
	c.place(v, pos)
}

// MoveToStartOfLine moves the caret to the first cluster of its line.
func (c *Cursor) MoveToStartOfLine(v buffer.View) {
	line := v.CharToLine(min(c.rng.Start, v.LenChars()))
	c.place(v, v.LineToChar(line))
	c.hasVisual = false
}

// MoveToEndOfLine moves the caret onto its line's newline, or to the end of
// the buffer on the last line.
func (c *Cursor) MoveToEndOfLine(v buffer.View) {
	line := v.CharToLine(min(c.rng.Start, v.LenChars()))
	c.place(v, buffer.LineEnd(v, line))
	c.hasVisual = false
}

// MoveToStartOfBuffer moves the caret onto the first cluster.
func (c *Cursor) MoveToStartOfBuffer(v buffer.View) {
	c.place(v, 0)
	c.hasVisual = false
}

// MoveToEndOfBuffer moves the caret past the last cluster.
func (c *Cursor) MoveToEndOfBuffer(v buffer.View) {
	c.place(v, v.LenChars())
	c.hasVisual = false
}

type charClass int

const (
	classSpace charClass = iota
	classWord
	classPunct
)

// classAt classifies the cluster at idx by its first char.
func classAt(v buffer.View, idx int) charClass {
	r, ok := v.Char(idx)
	switch {
	case !ok, unicode.IsSpace(r):
		return classSpace
	case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// MoveForwardWord moves the caret to the start of the next word, skipping
// the rest of the current one and any whitespace after it.
func (c *Cursor) MoveForwardWord(v buffer.View) {
	n := v.LenChars()
	pos := min(c.rng.Start, n)
	if pos < n {
		if cls := classAt(v, pos); cls != classSpace {
			for pos < n && classAt(v, pos) == cls {
				pos = grapheme.Next(v, pos)
			}
		}
	}
	for pos < n && classAt(v, pos) == classSpace {
		pos = grapheme.Next(v, pos)
	}
	c.place(v, pos)
	c.hasVisual = false
}

// MoveBackwardWord moves the caret to the start of the previous word.
func (c *Cursor) MoveBackwardWord(v buffer.View) {
	pos := min(c.rng.Start, v.LenChars())
	for pos > 0 && classAt(v, grapheme.Prev(v, pos)) == classSpace {
		pos = grapheme.Prev(v, pos)
	}
	if pos > 0 {
		cls := classAt(v, grapheme.Prev(v, pos))
		for pos > 0 && classAt(v, grapheme.Prev(v, pos)) == cls {
			pos = grapheme.Prev(v, pos)
		}
	}
	c.place(v, pos)
	c.hasVisual = false
}

// isBlankLine reports whether a line holds nothing but whitespace.
func isBlankLine(v buffer.View, line int) bool {
	start, end := v.LineToChar(line), buffer.LineEnd(v, line)
	for i := start; i < end; i++ {
		if r, _ := v.Char(i); !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// MoveForwardParagraph moves the caret to the next blank line after the
// current paragraph, or to the end of the buffer.
func (c *Cursor) MoveForwardParagraph(v buffer.View) {
	last := v.LenLines() - 1
	line := v.CharToLine(min(c.rng.Start, v.LenChars()))
	for line < last && isBlankLine(v, line) {
		line++
	}
	for line < last && !isBlankLine(v, line) {
		line++
	}
	if line == last && !isBlankLine(v, line) {
		c.place(v, v.LenChars())
	} else {
		c.place(v, v.LineToChar(line))
	}
	c.hasVisual = false
}

// MoveBackwardParagraph moves the caret to the blank line before the
// current paragraph, or to the start of the buffer.
func (c *Cursor) MoveBackwardParagraph(v buffer.View) {
	line := v.CharToLine(min(c.rng.Start, v.LenChars()))
	for line > 0 && isBlankLine(v, line) {
		line--
	}
	for line > 0 && !isBlankLine(v, line) {
		line--
	}
	c.place(v, v.LineToChar(line))
	c.hasVisual = false
}

// PageDown moves the caret down by a screen of height lines.
func (c *Cursor) PageDown(v buffer.View, height int) {
	c.MoveVertically(v, Forward, max(height, 1))
}

// PageUp moves the caret up by a screen of height lines.
func (c *Cursor) PageUp(v buffer.View, height int) {
	c.MoveVertically(v, Backward, max(height, 1))
}
