package rope

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// naive reference implementations over plain strings.

func refCharToByte(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	return byteOfChar(s, idx)
}

func refCharToLine(s string, idx int) int {
	b := refCharToByte(s, idx)
	return strings.Count(s[:b], "\n")
}

func refLineToChar(s string, line int) int {
	if line <= 0 {
		return 0
	}
	off := afterNthNewline(s, line)
	if strings.Count(s, "\n") < line {
		off = len(s)
	}
	return utf8.RuneCountInString(s[:off])
}

func TestNew(t *testing.T) {
	r := New()
	if r.LenBytes() != 0 || r.LenChars() != 0 {
		t.Errorf("new rope should be empty, got %d bytes %d chars", r.LenBytes(), r.LenChars())
	}
	if !r.IsEmpty() {
		t.Error("new rope should report IsEmpty")
	}
	if r.LenLines() != 1 {
		t.Errorf("new rope should have 1 line, got %d", r.LenLines())
	}
	if r.String() != "" {
		t.Errorf("String() = %q, want empty", r.String())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"with newline", "hello\nworld"},
		{"trailing newline", "a\nb\n"},
		{"unicode", "héllo 世界 🌍"},
		{"long", strings.Repeat("abcdefghij\n", 500)},
		{"long line", strings.Repeat("x", 10000)},
		{"long unicode", strings.Repeat("日本語🎉", 700)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if got := r.String(); got != tt.input {
				t.Errorf("String() mismatch for %d-byte input", len(tt.input))
			}
			if r.LenBytes() != len(tt.input) {
				t.Errorf("LenBytes() = %d, want %d", r.LenBytes(), len(tt.input))
			}
			if want := utf8.RuneCountInString(tt.input); r.LenChars() != want {
				t.Errorf("LenChars() = %d, want %d", r.LenChars(), want)
			}
			if want := strings.Count(tt.input, "\n") + 1; r.LenLines() != want {
				t.Errorf("LenLines() = %d, want %d", r.LenLines(), want)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"a\nb\nc",
		"\n\n\n",
		"héllo\n世界\n🌍!",
		strings.Repeat("ab€\n", 400),
		strings.Repeat("z", 3000) + "\n" + strings.Repeat("€", 900),
	}

	for _, s := range inputs {
		r := FromString(s)
		n := utf8.RuneCountInString(s)
		for idx := -1; idx <= n+1; idx++ {
			clamped := min(max(idx, 0), n)
			if got, want := r.CharToByte(idx), refCharToByte(s, clamped); got != want {
				t.Fatalf("CharToByte(%d) = %d, want %d", idx, got, want)
			}
			if got, want := r.CharToLine(idx), refCharToLine(s, clamped); got != want {
				t.Fatalf("CharToLine(%d) = %d, want %d", idx, got, want)
			}
			if got := r.ByteToChar(r.CharToByte(clamped)); got != clamped {
				t.Fatalf("ByteToChar(CharToByte(%d)) = %d", clamped, got)
			}
			if idx >= 0 && idx < n {
				ch, ok := r.Char(idx)
				want := []rune(s)[idx]
				if !ok || ch != want {
					t.Fatalf("Char(%d) = %q, %v; want %q", idx, ch, ok, want)
				}
			}
		}
		lines := strings.Count(s, "\n") + 1
		for line := 0; line <= lines+1; line++ {
			if got, want := r.LineToChar(line), refLineToChar(s, line); got != want {
				t.Fatalf("LineToChar(%d) = %d, want %d", line, got, want)
			}
			if got, want := r.LineToByte(line), refCharToByte(s, refLineToChar(s, line)); got != want {
				t.Fatalf("LineToByte(%d) = %d, want %d", line, got, want)
			}
		}
	}
}

func TestCharOutOfRange(t *testing.T) {
	r := FromString("ab")
	if _, ok := r.Char(2); ok {
		t.Error("Char(2) on a 2-char rope should report false")
	}
	if _, ok := r.Char(-1); ok {
		t.Error("Char(-1) should report false")
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		idx     int
		text    string
		want    string
	}{
		{"at start", "world", 0, "hello ", "hello world"},
		{"at end", "hello", 5, " world", "hello world"},
		{"in middle", "helloworld", 5, " ", "hello world"},
		{"into empty", "", 0, "hello", "hello"},
		{"empty text", "hello", 3, "", "hello"},
		{"after multibyte", "世界", 1, "!", "世!界"},
		{"past end clamps", "ab", 10, "c", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial).Insert(tt.idx, tt.text)
			if got := r.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end int
		want       string
	}{
		{"prefix", "hello world", 0, 6, "world"},
		{"suffix", "hello world", 5, 11, "hello"},
		{"middle", "hello world", 2, 9, "held"},
		{"all", "hello", 0, 5, ""},
		{"empty range", "hello", 2, 2, "hello"},
		{"inverted range", "hello", 3, 1, "hello"},
		{"multibyte", "a世界b", 1, 3, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial).Remove(tt.start, tt.end)
			if got := r.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImmutability(t *testing.T) {
	original := FromString(strings.Repeat("line\n", 300))
	before := original.String()

	edited := original.Insert(700, "XYZ").Remove(10, 20)
	if original.String() != before {
		t.Error("editing must not change the original rope")
	}
	if edited.LenChars() != original.LenChars()+3-10 {
		t.Errorf("edited LenChars() = %d", edited.LenChars())
	}
}

func TestManyEdits(t *testing.T) {
	var r Rope
	var ref []rune
	for i := 0; i < 2000; i++ {
		idx := (i * 7919) % (len(ref) + 1)
		text := string(rune('a'+i%26)) + "é"
		if i%10 == 9 {
			text = "\n"
		}
		r = r.Insert(idx, text)
		ref = append(ref[:idx], append([]rune(text), ref[idx:]...)...)
		if i%3 == 2 && len(ref) > 4 {
			start := (i * 31) % (len(ref) - 3)
			r = r.Remove(start, start+2)
			ref = append(ref[:start], ref[start+2:]...)
		}
	}
	if got, want := r.String(), string(ref); got != want {
		t.Fatal("rope diverged from reference after many edits")
	}
	if h := r.Height(); h > 12 {
		t.Errorf("tree height %d is too large for %d chars", h, r.LenChars())
	}
}

func TestLineAndLineLen(t *testing.T) {
	r := FromString("one\ntwo\n\nfour")
	tests := []struct {
		line int
		text string
	}{
		{0, "one\n"},
		{1, "two\n"},
		{2, "\n"},
		{3, "four"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := r.Line(tt.line); got != tt.text {
			t.Errorf("Line(%d) = %q, want %q", tt.line, got, tt.text)
		}
		if got, want := r.LineLen(tt.line), utf8.RuneCountInString(tt.text); got != want {
			t.Errorf("LineLen(%d) = %d, want %d", tt.line, got, want)
		}
	}
}

func TestSplitConcat(t *testing.T) {
	s := strings.Repeat("0123456789€\n", 100)
	r := FromString(s)
	for _, idx := range []int{0, 1, 11, 12, 500, r.LenChars()} {
		left, right := r.Split(idx)
		if left.LenChars() != idx {
			t.Errorf("Split(%d) left has %d chars", idx, left.LenChars())
		}
		if got := left.Concat(right).String(); got != s {
			t.Errorf("Split(%d) then Concat does not round trip", idx)
		}
	}
}

func TestChunksAndEqual(t *testing.T) {
	s := strings.Repeat("chunky ", 500)
	r := FromString(s)

	var sb strings.Builder
	for c := range r.Chunks() {
		if len(c) == 0 || len(c) > MaxChunkSize {
			t.Errorf("chunk of size %d out of bounds", len(c))
		}
		sb.WriteString(c)
	}
	if sb.String() != s {
		t.Error("chunks do not reassemble the text")
	}

	other := FromString(s[:100]).Concat(FromString(s[100:]))
	if !r.Equal(other) {
		t.Error("ropes with equal text should be Equal")
	}
	if r.Equal(other.Insert(0, "x")) {
		t.Error("ropes with different text should not be Equal")
	}
}

func TestFromReader(t *testing.T) {
	s := strings.Repeat("ßtraße 🌍\n", 1000)
	r, err := FromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if r.String() != s {
		t.Error("FromReader content mismatch")
	}
	if r.LenChars() != utf8.RuneCountInString(s) {
		t.Errorf("LenChars() = %d, want %d", r.LenChars(), utf8.RuneCountInString(s))
	}
}

func TestBuilderSplitRune(t *testing.T) {
	var b Builder
	euro := "€"
	big := strings.Repeat("a", 2*MaxChunkSize-1)
	b.WriteString(big + euro[:1])
	b.WriteString(euro[1:])
	r := b.Rope()
	if r.String() != big+euro {
		t.Error("builder corrupted a rune split across writes")
	}
	if r.LenChars() != len(big)+1 {
		t.Errorf("LenChars() = %d, want %d", r.LenChars(), len(big)+1)
	}
}
