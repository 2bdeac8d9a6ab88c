package buffer

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/editcore/internal/engine/rope"
)

// Buffer is a Text backed by a persistent rope.
// Buffer is not safe for concurrent mutation; Clone it to hand a stable
// copy to another goroutine.
type Buffer struct {
	rope       rope.Rope
	lineEnding LineEnding
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used when writing the buffer out.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// NewBuffer creates an empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{lineEnding: LineEndingLF}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer holding s. Line endings in s are
// normalised to '\n'; unless an option overrides it, the detected ending
// is remembered for output.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)...)
	b.rope = rope.FromString(Sanitize(NormalizeLineEndings(s)))
	return b
}

// NewBufferFromReader reads r to EOF into a new buffer.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// FromRope wraps an existing rope.
func FromRope(r rope.Rope, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.rope = r
	return b
}

// Sanitize returns s with every run of invalid UTF-8 replaced by one
// U+FFFD. Text implementations store sanitized text, so callers measuring
// an insertion should measure Sanitize(s).
func Sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Rope returns the current contents as an immutable rope.
func (b *Buffer) Rope() rope.Rope { return b.rope }

// LineEnding returns the line ending used on output.
func (b *Buffer) LineEnding() LineEnding { return b.lineEnding }

func (b *Buffer) LenChars() int { return b.rope.LenChars() }
func (b *Buffer) LenBytes() int { return b.rope.LenBytes() }
func (b *Buffer) LenLines() int { return b.rope.LenLines() }
func (b *Buffer) CharToByte(idx int) int { return b.rope.CharToByte(idx) }
func (b *Buffer) ByteToChar(idx int) int { return b.rope.ByteToChar(idx) }
func (b *Buffer) CharToLine(idx int) int { return b.rope.CharToLine(idx) }
func (b *Buffer) LineToChar(line int) int { return b.rope.LineToChar(line) }
func (b *Buffer) LineToByte(line int) int { return b.rope.LineToByte(line) }
func (b *Buffer) LineLen(line int) int { return b.rope.LineLen(line) }
func (b *Buffer) Char(idx int) (rune, bool) { return b.rope.Char(idx) }
func (b *Buffer) Slice(start, end int) string { return b.rope.Slice(start, end) }
func (b *Buffer) String() string { return b.rope.String() }

// Insert inserts s before the char at idx.
func (b *Buffer) Insert(idx int, s string) {
	b.rope = b.rope.Insert(idx, Sanitize(s))
}

// Remove deletes the chars in [start, end).
func (b *Buffer) Remove(start, end int) {
	b.rope = b.rope.Remove(start, end)
}

// Clone returns an independent buffer sharing the current rope.
func (b *Buffer) Clone() Text {
	return &Buffer{rope: b.rope, lineEnding: b.lineEnding}
}

// Replace swaps the whole contents for s, keeping the line ending.
func (b *Buffer) Replace(s string) {
	b.rope = rope.FromString(Sanitize(NormalizeLineEndings(s)))
}

// WriteTo writes the buffer using its line ending.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for chunk := range b.rope.Chunks() {
		n, err := io.WriteString(w, b.lineEnding.Encode(chunk))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

var _ Text = (*Buffer)(nil)
