package linediff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/editcore/internal/engine/buffer"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		ctx      int
		want     string
	}{
		{
			name: "equal",
			old:  "a\nb\n",
			new:  "a\nb\n",
			ctx:  3,
			want: "",
		},
		{
			name: "replace one line",
			old:  "a\nb\nc\nd\ne\nf\ng\nh\n",
			new:  "a\nb\nc\nX\ne\nf\ng\nh\n",
			ctx:  1,
			want: "--- old\n+++ new\n@@ -3,3 +3,3 @@\n c\n-d\n+X\n e\n",
		},
		{
			name: "insert at start",
			old:  "b\n",
			new:  "a\nb\n",
			ctx:  0,
			want: "--- old\n+++ new\n@@ -0,0 +1,1 @@\n+a\n",
		},
		{
			name: "delete at end",
			old:  "a\nb",
			new:  "a",
			ctx:  1,
			want: "--- old\n+++ new\n@@ -1,2 +1,1 @@\n a\n-b\n",
		},
		{
			name: "separate hunks",
			old:  "1\n2\n3\n4\n5\n6\n7\n8\n9",
			new:  "one\n2\n3\n4\n5\n6\n7\n8\nnine",
			ctx:  1,
			want: "--- old\n+++ new\n" +
				"@@ -1,2 +1,2 @@\n-1\n+one\n 2\n" +
				"@@ -8,2 +8,2 @@\n 8\n-9\n+nine\n",
		},
		{
			name: "close changes merge",
			old:  "1\n2\n3\n4",
			new:  "one\n2\n3\nfour",
			ctx:  1,
			want: "--- old\n+++ new\n@@ -1,4 +1,4 @@\n-1\n+one\n 2\n 3\n-4\n+four\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.ContextLines = tt.ctx
			got := ComputeStrings(tt.old, tt.new, opts).Unified("old", "new")
			if got != tt.want {
				t.Errorf("Unified() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestComputeViewsMatchesStrings(t *testing.T) {
	before := "package p\n\nfunc a() {}\nfunc b() {}\n"
	after := "package p\n\nfunc b() {}\nfunc c() {}\n"
	opts := DefaultOptions()
	want := ComputeStrings(before, after, opts)
	got := Compute(buffer.NewBufferFromString(before), buffer.NewGapBuffer(after), opts)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Compute mismatch (-strings +views):\n%s", d)
	}
	if got.Inserted() != 1 || got.Deleted() != 1 {
		t.Errorf("Inserted/Deleted = %d/%d, want 1/1", got.Inserted(), got.Deleted())
	}
}

func TestIgnoreOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoreCase = true
	opts.IgnoreWhitespace = true
	if r := ComputeStrings("Hello\n  world", "hello\nworld  ", opts); r.HasChanges() {
		t.Errorf("expected no changes, got %+v", r.Hunks)
	}
}

func TestMaxLinesFallback(t *testing.T) {
	before := strings.Repeat("x\n", 20) + "end"
	after := strings.Repeat("y\n", 20) + "end"
	opts := DefaultOptions()
	opts.MaxLines = 5
	r := ComputeStrings(before, after, opts)
	if r.Deleted() != 20 || r.Inserted() != 20 {
		t.Errorf("Deleted/Inserted = %d/%d, want 20/20", r.Deleted(), r.Inserted())
	}
	if len(r.Hunks) != 1 {
		t.Errorf("got %d hunks, want 1", len(r.Hunks))
	}
}

func FuzzApplyRoundTrip(f *testing.F) {
	f.Add("a\nb\nc", "a\nc\nd")
	f.Add("", "x")
	f.Add("same\n", "same\n")
	f.Fuzz(func(t *testing.T, before, after string) {
		r := ComputeStrings(before, after, Options{})
		// Replaying every hunk over before must give after.
		a := strings.Split(before, "\n")
		var out []string
		pos := 0
		for _, h := range r.Hunks {
			out = append(out, a[pos:h.OldStart]...)
			for _, l := range h.Lines {
				if l.Op != Delete {
					out = append(out, l.Text)
				}
			}
			pos = h.OldStart + h.OldCount
		}
		out = append(out, a[pos:]...)
		if got := strings.Join(out, "\n"); got != after {
			t.Errorf("replay = %q, want %q", got, after)
		}
	})
}
