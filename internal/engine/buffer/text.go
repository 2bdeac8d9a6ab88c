package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by checked buffer helpers.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// View is the read-only side of the text buffer contract.
type View interface {
	// LenChars returns the number of chars in the buffer.
	LenChars() int

	// LenBytes returns the UTF-8 length of the buffer.
	LenBytes() int

	// LenLines returns the number of lines (newlines + 1).
	LenLines() int

	// CharToByte converts a char index to a byte index.
	CharToByte(idx int) int

	// ByteToChar converts a byte index to a char index.
	ByteToChar(idx int) int

	// CharToLine returns the line containing a char index. LenChars maps
	// to the last line.
	CharToLine(idx int) int

	// LineToChar returns the char index where a line starts. Lines at or
	// past LenLines map to LenChars.
	LineToChar(line int) int

	// LineToByte returns the byte index where a line starts.
	LineToByte(line int) int

	// LineLen returns the char length of a line including its newline.
	LineLen(line int) int

	// Char returns the char at idx, or false when idx is out of range.
	Char(idx int) (rune, bool)

	// Slice returns the text of the char range [start, end).
	Slice(start, end int) string

	// String returns the whole text.
	String() string
}

// Text is a View that can be edited in place.
type Text interface {
	View

	// Insert inserts s before the char at idx.
	Insert(idx int, s string)

	// Remove deletes the chars in [start, end).
	Remove(start, end int)

	// Clone returns an independent copy of the buffer.
	Clone() Text
}

// CheckRange validates a char range against a view.
func CheckRange(v View, start, end int) error {
	if start < 0 || end > v.LenChars() {
		return fmt.Errorf("%w: [%d:%d) in buffer of %d chars", ErrOffsetOutOfRange, start, end, v.LenChars())
	}
	if start > end {
		return fmt.Errorf("%w: start %d after end %d", ErrRangeInvalid, start, end)
	}
	return nil
}

// LineEnd returns the char index of the end of a line's content, that is
// the position of its newline, or LenChars for the last line.
func LineEnd(v View, line int) int {
	start := v.LineToChar(line)
	n := v.LineLen(line)
	if n > 0 {
		if ch, ok := v.Char(start + n - 1); ok && ch == '\n' {
			return start + n - 1
		}
	}
	return start + n
}

// Equal reports whether two views hold the same text.
func Equal(a, b View) bool {
	if ra, ok := a.(*Buffer); ok {
		if rb, ok := b.(*Buffer); ok {
			return ra.rope.Equal(rb.rope)
		}
	}
	if a.LenBytes() != b.LenBytes() || a.LenChars() != b.LenChars() {
		return false
	}
	return a.String() == b.String()
}
