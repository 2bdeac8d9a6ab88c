package buffer

import "strings"

// LineEnding specifies the line ending style of external text.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding maps a configuration name ("lf", "crlf", "cr") to a
// LineEnding. Unknown names report false.
func ParseLineEnding(name string) (LineEnding, bool) {
	switch strings.ToLower(name) {
	case "lf", "unix":
		return LineEndingLF, true
	case "crlf", "windows", "dos":
		return LineEndingCRLF, true
	case "cr", "mac":
		return LineEndingCR, true
	}
	return LineEndingLF, false
}

// DetectLineEnding returns the most common line ending in text, or
// LineEndingLF when the text has none.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf && cr > crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// NormalizeLineEndings converts every line ending in s to '\n'.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Encode converts '\n' line endings in s to le.
func (le LineEnding) Encode(s string) string {
	if le == LineEndingLF {
		return s
	}
	return strings.ReplaceAll(s, "\n", le.Sequence())
}
