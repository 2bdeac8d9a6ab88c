package buffer

import (
	"errors"
	"strings"
	"testing"
)

var backends = []Backend{BackendRope, BackendGap}

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()
	if b.LenChars() != 0 {
		t.Errorf("expected length 0, got %d", b.LenChars())
	}
	if b.LenLines() != 1 {
		t.Errorf("expected 1 line, got %d", b.LenLines())
	}
	if b.LineEnding() != LineEndingLF {
		t.Errorf("expected LF, got %s", b.LineEnding())
	}
}

func TestContract(t *testing.T) {
	const text = "héllo\n世界 🌍\n\nend"
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := New(backend, text)

			if got := b.String(); got != text {
				t.Fatalf("String() = %q, want %q", got, text)
			}
			if got := b.LenChars(); got != 15 {
				t.Errorf("LenChars() = %d, want 15", got)
			}
			if got := b.LenBytes(); got != len(text) {
				t.Errorf("LenBytes() = %d, want %d", got, len(text))
			}
			if got := b.LenLines(); got != 4 {
				t.Errorf("LenLines() = %d, want 4", got)
			}

			lineStarts := []int{0, 6, 11, 12}
			for line, want := range lineStarts {
				if got := b.LineToChar(line); got != want {
					t.Errorf("LineToChar(%d) = %d, want %d", line, got, want)
				}
				if got := b.CharToLine(want); got != line {
					t.Errorf("CharToLine(%d) = %d, want %d", want, got, line)
				}
			}
			if got := b.LineToChar(10); got != b.LenChars() {
				t.Errorf("LineToChar past end = %d, want %d", got, b.LenChars())
			}
			if got := b.CharToLine(b.LenChars()); got != 3 {
				t.Errorf("CharToLine(len) = %d, want 3", got)
			}

			if got := b.CharToByte(2); got != 3 {
				t.Errorf("CharToByte(2) = %d, want 3", got)
			}
			if got := b.ByteToChar(3); got != 2 {
				t.Errorf("ByteToChar(3) = %d, want 2", got)
			}
			if got := b.LineToByte(1); got != 7 {
				t.Errorf("LineToByte(1) = %d, want 7", got)
			}
			if got := b.LineLen(1); got != 5 {
				t.Errorf("LineLen(1) = %d, want 5", got)
			}
			if got := b.LineLen(3); got != 3 {
				t.Errorf("LineLen(3) = %d, want 3", got)
			}
			if ch, ok := b.Char(9); !ok || ch != '🌍' {
				t.Errorf("Char(9) = %q, %v", ch, ok)
			}
			if got := b.Slice(6, 8); got != "世界" {
				t.Errorf("Slice(6, 8) = %q", got)
			}
		})
	}
}

func TestEditing(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := New(backend, "Hello, World!")
			b.Insert(7, "Beautiful ")
			if got := b.String(); got != "Hello, Beautiful World!" {
				t.Fatalf("after insert got %q", got)
			}
			b.Remove(0, 7)
			if got := b.String(); got != "Beautiful World!" {
				t.Fatalf("after remove got %q", got)
			}
			b.Remove(5, 2)
			if got := b.String(); got != "Beautiful World!" {
				t.Fatalf("inverted remove changed text: %q", got)
			}
			b.Insert(100, "\n")
			if got := b.String(); got != "Beautiful World!\n" {
				t.Fatalf("insert past end got %q", got)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := New(backend, "abc")
			c := b.Clone()
			b.Insert(0, "x")
			c.Remove(0, 1)
			if b.String() != "xabc" {
				t.Errorf("original = %q, want %q", b.String(), "xabc")
			}
			if c.String() != "bc" {
				t.Errorf("clone = %q, want %q", c.String(), "bc")
			}
		})
	}
}

func TestGapBufferGrowth(t *testing.T) {
	g := NewGapBuffer("")
	var want strings.Builder
	for i := range 1000 {
		s := string(rune('a' + i%26))
		g.Insert(g.LenChars()/2, s)
		mid := len([]rune(want.String())) / 2
		r := []rune(want.String())
		want.Reset()
		want.WriteString(string(r[:mid]) + s + string(r[mid:]))
	}
	if g.String() != want.String() {
		t.Fatal("gap buffer diverged from reference")
	}
}

func TestLineEndings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LineEnding
	}{
		{"none", "abc", LineEndingLF},
		{"lf", "a\nb\n", LineEndingLF},
		{"crlf", "a\r\nb\r\n", LineEndingCRLF},
		{"cr", "a\rb\r", LineEndingCR},
		{"mixed mostly crlf", "a\r\nb\r\nc\n", LineEndingCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLineEnding(tt.in); got != tt.want {
				t.Errorf("DetectLineEnding = %s, want %s", got, tt.want)
			}
		})
	}

	b := NewBufferFromString("one\r\ntwo\r\n")
	if b.String() != "one\ntwo\n" {
		t.Errorf("content not normalised: %q", b.String())
	}
	var out strings.Builder
	if _, err := b.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if out.String() != "one\r\ntwo\r\n" {
		t.Errorf("WriteTo = %q, want CRLF output", out.String())
	}
}

func TestCheckRange(t *testing.T) {
	b := NewBufferFromString("abc")
	if err := CheckRange(b, 0, 3); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := CheckRange(b, 0, 4); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if err := CheckRange(b, 2, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestLineEnd(t *testing.T) {
	b := NewBufferFromString("ab\ncd")
	if got := LineEnd(b, 0); got != 2 {
		t.Errorf("LineEnd(0) = %d, want 2", got)
	}
	if got := LineEnd(b, 1); got != 5 {
		t.Errorf("LineEnd(1) = %d, want 5", got)
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend("GAP"); err != nil || b != BackendGap {
		t.Errorf("ParseBackend(GAP) = %q, %v", b, err)
	}
	if b, err := ParseBackend(""); err != nil || b != BackendRope {
		t.Errorf("ParseBackend(\"\") = %q, %v", b, err)
	}
	if _, err := ParseBackend("piece"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestRange(t *testing.T) {
	r := NewRange(2, 5)
	if r.String() != "[2:5)" {
		t.Errorf("String() = %q", r.String())
	}
	if !r.Contains(2) || r.Contains(5) {
		t.Error("Contains is not half-open")
	}
	if !r.Overlaps(NewRange(4, 8)) || r.Overlaps(NewRange(5, 8)) {
		t.Error("Overlaps is wrong at the boundary")
	}
	if got := NewRange(-3, 10).Clamp(4); got != NewRange(0, 4) {
		t.Errorf("Clamp = %v", got)
	}
}
