package rope

import (
	"strings"
	"unicode/utf8"
)

// Builder constructs a rope from incremental writes.
// The zero value is ready to use.
type Builder struct {
	chunks  []chunk
	pending strings.Builder
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	b.pending.WriteString(s)
	if b.pending.Len() >= 2*MaxChunkSize {
		b.flush(false)
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// flush moves pending text into chunks. Unless final, a trailing partial
// UTF-8 sequence stays pending for the next write.
func (b *Builder) flush(final bool) {
	s := b.pending.String()
	keep := ""
	if !final {
		cut := len(s)
		for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
			if utf8.RuneStart(s[i]) {
				if !utf8.FullRuneInString(s[i:]) {
					cut = i
				}
				break
			}
		}
		s, keep = s[:cut], s[cut:]
	}
	b.chunks = append(b.chunks, splitText(s)...)
	b.pending.Reset()
	b.pending.WriteString(keep)
}

// Rope returns the rope built so far.
func (b *Builder) Rope() Rope {
	b.flush(true)
	if len(b.chunks) == 0 {
		return New()
	}
	return Rope{root: fromChunks(b.chunks)}
}
