package rope

import (
	"testing"
	"unicode/utf8"
)

// FuzzInsertRemove checks that char-indexed edits agree with the same edits
// applied to a rune slice.
func FuzzInsertRemove(f *testing.F) {
	f.Add("hello", 0, "x", 1, 3)
	f.Add("hello\nworld", 5, "\n\n", 0, 4)
	f.Add("日本語", 1, "🎉", 2, 3)
	f.Add("", 0, "test", 0, 0)

	f.Fuzz(func(t *testing.T, initial string, at int, insert string, start, end int) {
		if !utf8.ValidString(initial) || !utf8.ValidString(insert) {
			return
		}
		ref := []rune(initial)
		r := FromString(initial)

		at = clampIndex(at, len(ref))
		r = r.Insert(at, insert)
		ref = append(ref[:at:at], append([]rune(insert), ref[at:]...)...)

		start, end = clampIndex(start, len(ref)), clampIndex(end, len(ref))
		if start > end {
			start, end = end, start
		}
		r = r.Remove(start, end)
		ref = append(ref[:start:start], ref[end:]...)

		if r.String() != string(ref) {
			t.Fatalf("got %q, want %q", r.String(), string(ref))
		}
		if r.LenChars() != len(ref) {
			t.Fatalf("LenChars() = %d, want %d", r.LenChars(), len(ref))
		}
		for i := 0; i <= len(ref); i++ {
			if got, want := r.CharToByte(i), len(string(ref[:i])); got != want {
				t.Fatalf("CharToByte(%d) = %d, want %d", i, got, want)
			}
		}
	})
}

func clampIndex(i, n int) int {
	if i < 0 {
		i = -i
	}
	if n == 0 {
		return 0
	}
	return i % (n + 1)
}
