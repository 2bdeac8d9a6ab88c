package cursor

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
	"github.com/dshills/editcore/internal/engine/grapheme"
)

// InsertChar clears the selection and inserts r at the caret. The range is
// not advanced.
func (c *Cursor) InsertChar(t buffer.Text, r rune) diff.Diff {
	c.ClearSelection()
	return c.insertAt(t, c.rng.Start, string(r))
}

// InsertChars inserts s at the caret, or at the start of every selected
// line when a selection is active. The range is not advanced.
func (c *Cursor) InsertChars(t buffer.Text, s string) diff.Diff {
	if c.selecting {
		return c.prependSelection(t, s)
	}
	return c.insertAt(t, c.rng.Start, s)
}

// PrependChars inserts s at the start of the caret's line, or of every
// selected line when a selection is active.
func (c *Cursor) PrependChars(t buffer.Text, s string) diff.Diff {
	if c.selecting {
		return c.prependSelection(t, s)
	}
	lineStart := t.LineToChar(t.CharToLine(min(c.rng.Start, t.LenChars())))
	return c.insertAt(t, lineStart, s)
}

// InsertNewLine breaks the line at the caret and moves onto the new line.
func (c *Cursor) InsertNewLine(t buffer.Text) diff.Diff {
	c.ClearSelection()
	d := c.insertAt(t, c.rng.Start, "\n")
	c.MoveTo(t, d.NewCharEnd())
	return d
}

// InsertTab indents every selected line, or inserts a tab at the caret and
// moves past it.
func (c *Cursor) InsertTab(t buffer.Text) diff.Diff {
	if c.selecting {
		return c.prependSelection(t, "\t")
	}
	d := c.insertAt(t, c.rng.Start, "\t")
	c.MoveTo(t, d.NewCharEnd())
	return d
}

func (c *Cursor) insertAt(t buffer.Text, idx int, s string) diff.Diff {
	s = buffer.Sanitize(s)
	if s == "" {
		return diff.Empty()
	}
	idx = min(max(idx, 0), t.LenChars())
	t.Insert(idx, s)
	c.realign(t)
	return diff.Insertion(t, idx, s)
}

// prependSelection inserts s at the start of each selected line. The
// anchor and caret keep pointing at the same content.
func (c *Cursor) prependSelection(t buffer.Text, s string) diff.Diff {
	s = buffer.Sanitize(s)
	if s == "" {
		return diff.Empty()
	}
	sel := c.Selection().Clamp(t.LenChars())
	first, last := t.CharToLine(sel.Start), t.CharToLine(sel.End)
	spanStart := t.LineToChar(first)
	spanEnd := buffer.LineEnd(t, last)
	byteStart := t.CharToByte(spanStart)
	oldBytes := t.CharToByte(spanEnd) - byteStart

	head, headLine := c.rng.Start, t.CharToLine(min(c.rng.Start, t.LenChars()))
	anchorLine := t.CharToLine(min(c.anchor, t.LenChars()))

	for line := last; line >= first; line-- {
		t.Insert(t.LineToChar(line), s)
	}

	k := utf8.RuneCountInString(s)
	lines := last - first + 1
	c.anchor += k * (anchorLine - first + 1)
	c.anchor = grapheme.Align(t, c.anchor)
	c.place(t, grapheme.Align(t, head+k*(headLine-first+1)))

	return diff.New(
		byteStart, oldBytes, oldBytes+len(s)*lines,
		spanStart, spanEnd-spanStart, spanEnd-spanStart+k*lines,
	)
}

// LeadingWhitespace returns how many chars of indentation start at
// lineStart: 1 for a tab, otherwise the number of leading spaces up to
// grapheme.TabWidth. It is 0 when fewer than TabWidth chars remain in the
// buffer.
func LeadingWhitespace(v buffer.View, lineStart int) int {
	ch, ok := v.Char(lineStart)
	if !ok {
		return 0
	}
	if ch == '\t' {
		return 1
	}
	if lineStart+grapheme.TabWidth > v.LenChars() {
		return 0
	}
	for i := range grapheme.TabWidth {
		if ch, _ := v.Char(lineStart + i); ch != ' ' {
			return i
		}
	}
	return grapheme.TabWidth
}

// Unindent removes one level of indentation from the caret's line, or from
// every selected line when a selection is active.
func (c *Cursor) Unindent(t buffer.Text) diff.DeleteResult {
	if c.selecting {
		return c.unindentSelection(t)
	}
	lineStart := t.LineToChar(t.CharToLine(min(c.rng.Start, t.LenChars())))
	return c.DeleteForwardFrom(t, lineStart, LeadingWhitespace(t, lineStart))
}

func (c *Cursor) unindentSelection(t buffer.Text) diff.DeleteResult {
	sel := c.Selection().Clamp(t.LenChars())
	first, last := t.CharToLine(sel.Start), t.CharToLine(sel.End)
	spanStart := t.LineToChar(first)
	spanEnd := buffer.LineEnd(t, last)
	byteStart := t.CharToByte(spanStart)
	oldBytes := t.CharToByte(spanEnd) - byteStart

	type mark struct{ line, offset int }
	locate := func(idx int) mark {
		idx = min(idx, t.LenChars())
		line := t.CharToLine(idx)
		return mark{line, idx - t.LineToChar(line)}
	}
	head, anchor := locate(c.rng.Start), locate(c.anchor)

	removed := make([]int, last-first+1)
	pieces := make([]string, last-first+1)
	for line := last; line >= first; line-- {
		ls := t.LineToChar(line)
		n := LeadingWhitespace(t, ls)
		if n == 0 {
			continue
		}
		pieces[line-first] = t.Slice(ls, ls+n)
		removed[line-first] = n
		t.Remove(ls, ls+n)
	}

	total := 0
	for _, n := range removed {
		total += n
	}
	if total == 0 {
		return diff.EmptyDelete()
	}

	relocate := func(m mark) int {
		cut := 0
		if m.line >= first && m.line <= last {
			cut = removed[m.line-first]
		}
		return t.LineToChar(m.line) + max(m.offset-cut, 0)
	}
	c.anchor = grapheme.Align(t, relocate(anchor))
	c.place(t, grapheme.Align(t, relocate(head)))

	newEnd := buffer.LineEnd(t, last)
	return diff.DeleteResult{
		Diff: diff.New(
			byteStart, oldBytes, t.CharToByte(newEnd)-byteStart,
			spanStart, spanEnd-spanStart, newEnd-spanStart,
		),
		Deleted: strings.Join(pieces, ""),
	}
}
