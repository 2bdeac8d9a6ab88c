package rope

import (
	"strings"
	"unicode/utf8"
)

// Summary holds the aggregated metrics of a span of text.
// Summaries form a monoid under Add with the zero Summary as identity.
type Summary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode scalar values.
	Chars int

	// Lines is the number of '\n' characters.
	Lines int
}

// Add combines two adjacent summaries.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
	}
}

// Summarize computes the summary of a string.
func Summarize(s string) Summary {
	return Summary{
		Bytes: len(s),
		Chars: utf8.RuneCountInString(s),
		Lines: strings.Count(s, "\n"),
	}
}

// byteOfChar returns the byte offset of the n-th char in s.
func byteOfChar(s string, n int) int {
	i := 0
	for n > 0 && i < len(s) {
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
		n--
	}
	return i
}

// afterNthNewline returns the byte offset just past the n-th '\n' in s
// (1-indexed), or len(s) if s has fewer newlines.
func afterNthNewline(s string, n int) int {
	off := 0
	for n > 0 {
		i := strings.IndexByte(s[off:], '\n')
		if i < 0 {
			return len(s)
		}
		off += i + 1
		n--
	}
	return off
}
