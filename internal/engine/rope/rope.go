package rope

import (
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// Rope is an immutable sequence of text.
// The zero value is an empty rope ready to use.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	return Rope{root: build(s)}
}

// FromReader reads r to EOF and builds a rope from its contents.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := io.Copy(&b, r); err != nil {
		return Rope{}, err
	}
	return b.Rope(), nil
}

// Summary returns the aggregated metrics of the whole rope.
func (r Rope) Summary() Summary {
	if r.root == nil {
		return Summary{}
	}
	return r.root.sum
}

// LenBytes returns the length of the text in bytes.
func (r Rope) LenBytes() int {
	return r.Summary().Bytes
}

// LenChars returns the length of the text in chars.
func (r Rope) LenChars() int {
	return r.Summary().Chars
}

// LenLines returns the number of lines, which is one more than the number
// of newlines.
func (r Rope) LenLines() int {
	return r.Summary().Lines + 1
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.LenBytes() == 0
}

// String returns the full text.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.root.sum.Bytes)
	r.root.appendBytes(&sb, 0, r.root.sum.Bytes)
	return sb.String()
}

// CharToByte converts a char index to a byte index. The index is clamped
// to [0, LenChars()].
func (r Rope) CharToByte(idx int) int {
	sum := r.Summary()
	if idx <= 0 {
		return 0
	}
	if idx >= sum.Chars {
		return sum.Bytes
	}
	c, before := r.root.descend(func(b, s Summary) bool { return b.Chars+s.Chars > idx })
	return before.Bytes + byteOfChar(c.text, idx-before.Chars)
}

// ByteToChar converts a byte index to a char index. An index inside a
// UTF-8 sequence maps to the char that contains it.
func (r Rope) ByteToChar(idx int) int {
	sum := r.Summary()
	if idx <= 0 {
		return 0
	}
	if idx >= sum.Bytes {
		return sum.Chars
	}
	c, before := r.root.descend(func(b, s Summary) bool { return b.Bytes+s.Bytes > idx })
	off := idx - before.Bytes
	for off > 0 && !utf8.RuneStart(c.text[off]) {
		off--
	}
	return before.Chars + utf8.RuneCountInString(c.text[:off])
}

// CharToLine returns the line containing the char index. LenChars() maps to
// the last line.
func (r Rope) CharToLine(idx int) int {
	sum := r.Summary()
	if idx <= 0 {
		return 0
	}
	if idx >= sum.Chars {
		return sum.Lines
	}
	c, before := r.root.descend(func(b, s Summary) bool { return b.Chars+s.Chars > idx })
	return before.Lines + strings.Count(c.text[:byteOfChar(c.text, idx-before.Chars)], "\n")
}

// LineToChar returns the char index of the first char of a line. Lines at
// or past LenLines() map to LenChars().
func (r Rope) LineToChar(line int) int {
	_, chars := r.lineStart(line)
	return chars
}

// LineToByte returns the byte index of the first byte of a line.
func (r Rope) LineToByte(line int) int {
	bytes, _ := r.lineStart(line)
	return bytes
}

func (r Rope) lineStart(line int) (bytes, chars int) {
	sum := r.Summary()
	if line <= 0 {
		return 0, 0
	}
	if line > sum.Lines {
		return sum.Bytes, sum.Chars
	}
	c, before := r.root.descend(func(b, s Summary) bool { return b.Lines+s.Lines >= line })
	off := afterNthNewline(c.text, line-before.Lines)
	return before.Bytes + off, before.Chars + utf8.RuneCountInString(c.text[:off])
}

// LineLen returns the number of chars in a line, including its trailing
// newline if it has one.
func (r Rope) LineLen(line int) int {
	if line < 0 || line >= r.LenLines() {
		return 0
	}
	return r.LineToChar(line+1) - r.LineToChar(line)
}

// Line returns the text of a line including its trailing newline.
func (r Rope) Line(line int) string {
	if line < 0 || line >= r.LenLines() {
		return ""
	}
	return r.SliceBytes(r.LineToByte(line), r.LineToByte(line+1))
}

// Char returns the char at idx. It reports false when idx is out of range.
func (r Rope) Char(idx int) (rune, bool) {
	if idx < 0 || idx >= r.LenChars() {
		return 0, false
	}
	c, before := r.root.descend(func(b, s Summary) bool { return b.Chars+s.Chars > idx })
	ch, _ := utf8.DecodeRuneInString(c.text[byteOfChar(c.text, idx-before.Chars):])
	return ch, true
}

// Slice returns the text in the char range [start, end).
func (r Rope) Slice(start, end int) string {
	return r.SliceBytes(r.CharToByte(start), r.CharToByte(end))
}

// SliceBytes returns the text in the byte range [start, end).
func (r Rope) SliceBytes(start, end int) string {
	if r.root == nil {
		return ""
	}
	start = max(start, 0)
	end = min(end, r.root.sum.Bytes)
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendBytes(&sb, start, end)
	return sb.String()
}

// Insert returns a rope with text inserted before the char at idx.
func (r Rope) Insert(idx int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	left, right := split(r.root, r.CharToByte(idx))
	return Rope{root: join(join(left, build(text)), right)}
}

// Remove returns a rope without the chars in [start, end).
func (r Rope) Remove(start, end int) Rope {
	b0, b1 := r.CharToByte(start), r.CharToByte(end)
	if b0 >= b1 {
		return r
	}
	left, rest := split(r.root, b0)
	_, right := split(rest, b1-b0)
	return Rope{root: join(left, right)}
}

// Split returns the text before and after the char at idx.
func (r Rope) Split(idx int) (Rope, Rope) {
	left, right := split(r.root, r.CharToByte(idx))
	return Rope{root: left}, Rope{root: right}
}

// Concat returns the concatenation of r and other.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: join(r.root, other.root)}
}

// Chunks iterates over the stored text pieces in order.
func (r Rope) Chunks() iter.Seq[string] {
	return func(yield func(string) bool) {
		if r.root != nil {
			r.root.eachChunk(yield)
		}
	}
}

// Equal reports whether two ropes hold the same text.
func (r Rope) Equal(other Rope) bool {
	if r.root == other.root {
		return true
	}
	if r.Summary() != other.Summary() {
		return false
	}
	return r.String() == other.String()
}

// Height returns the height of the tree, 0 for an empty rope.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}
