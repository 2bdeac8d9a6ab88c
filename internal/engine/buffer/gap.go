package buffer

import (
	"strings"
	"unicode/utf8"
)

const defaultGap = 128

// GapBuffer is a Text that stores runes with a movable gap at the last
// edit position. Edits near the gap are cheap; index conversions scan the
// runes and are linear in the buffer size.
type GapBuffer struct {
	buf      []rune
	gapStart int
	gapEnd   int
}

// NewGapBuffer creates a gap buffer holding s.
func NewGapBuffer(s string) *GapBuffer {
	runes := []rune(Sanitize(NormalizeLineEndings(s)))
	buf := make([]rune, len(runes)+defaultGap)
	copy(buf, runes)
	return &GapBuffer{buf: buf, gapStart: len(runes), gapEnd: len(buf)}
}

func (g *GapBuffer) at(i int) rune {
	if i < g.gapStart {
		return g.buf[i]
	}
	return g.buf[g.gapEnd+i-g.gapStart]
}

func (g *GapBuffer) moveGap(pos int) {
	switch {
	case pos < g.gapStart:
		n := g.gapStart - pos
		copy(g.buf[g.gapEnd-n:g.gapEnd], g.buf[pos:g.gapStart])
		g.gapStart -= n
		g.gapEnd -= n
	case pos > g.gapStart:
		n := pos - g.gapStart
		copy(g.buf[g.gapStart:g.gapStart+n], g.buf[g.gapEnd:g.gapEnd+n])
		g.gapStart += n
		g.gapEnd += n
	}
}

func (g *GapBuffer) grow(n int) {
	if g.gapEnd-g.gapStart >= n {
		return
	}
	size := 2*len(g.buf) + n
	buf := make([]rune, size)
	copy(buf, g.buf[:g.gapStart])
	tail := len(g.buf) - g.gapEnd
	copy(buf[size-tail:], g.buf[g.gapEnd:])
	g.buf = buf
	g.gapEnd = size - tail
}

func (g *GapBuffer) clamp(idx int) int {
	return min(max(idx, 0), g.LenChars())
}

// LenChars returns the number of runes outside the gap.
func (g *GapBuffer) LenChars() int {
	return len(g.buf) - (g.gapEnd - g.gapStart)
}

func (g *GapBuffer) LenBytes() int {
	return g.CharToByte(g.LenChars())
}

func (g *GapBuffer) LenLines() int {
	n := 1
	for i := range g.LenChars() {
		if g.at(i) == '\n' {
			n++
		}
	}
	return n
}

func (g *GapBuffer) CharToByte(idx int) int {
	idx = g.clamp(idx)
	b := 0
	for i := range idx {
		b += utf8.RuneLen(g.at(i))
	}
	return b
}

func (g *GapBuffer) ByteToChar(idx int) int {
	b := 0
	for i := range g.LenChars() {
		b += utf8.RuneLen(g.at(i))
		if b > idx {
			return i
		}
	}
	return g.LenChars()
}

func (g *GapBuffer) CharToLine(idx int) int {
	idx = g.clamp(idx)
	line := 0
	for i := range idx {
		if g.at(i) == '\n' {
			line++
		}
	}
	return line
}

func (g *GapBuffer) LineToChar(line int) int {
	if line <= 0 {
		return 0
	}
	for i := range g.LenChars() {
		if g.at(i) == '\n' {
			line--
			if line == 0 {
				return i + 1
			}
		}
	}
	return g.LenChars()
}

func (g *GapBuffer) LineToByte(line int) int {
	return g.CharToByte(g.LineToChar(line))
}

func (g *GapBuffer) LineLen(line int) int {
	if line < 0 || line >= g.LenLines() {
		return 0
	}
	return g.LineToChar(line+1) - g.LineToChar(line)
}

func (g *GapBuffer) Char(idx int) (rune, bool) {
	if idx < 0 || idx >= g.LenChars() {
		return 0, false
	}
	return g.at(idx), true
}

func (g *GapBuffer) Slice(start, end int) string {
	start, end = g.clamp(start), g.clamp(end)
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteRune(g.at(i))
	}
	return sb.String()
}

func (g *GapBuffer) String() string {
	return string(g.buf[:g.gapStart]) + string(g.buf[g.gapEnd:])
}

// Insert inserts s before the rune at idx.
func (g *GapBuffer) Insert(idx int, s string) {
	runes := []rune(Sanitize(s))
	if len(runes) == 0 {
		return
	}
	g.moveGap(g.clamp(idx))
	g.grow(len(runes))
	copy(g.buf[g.gapStart:], runes)
	g.gapStart += len(runes)
}

// Remove deletes the runes in [start, end) by widening the gap.
func (g *GapBuffer) Remove(start, end int) {
	start, end = g.clamp(start), g.clamp(end)
	if start >= end {
		return
	}
	g.moveGap(start)
	g.gapEnd += end - start
}

// Clone returns a compacted copy of the buffer.
func (g *GapBuffer) Clone() Text {
	return NewGapBuffer(g.String())
}

var _ Text = (*GapBuffer)(nil)
