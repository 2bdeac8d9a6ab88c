package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tidwall/gjson"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTree(text string) *Tree {
	return New(buffer.NewBufferFromString(text), WithClock(fixedClock()))
}

func insert(idx int, s string) func(buffer.Text) diff.Diff {
	return func(t buffer.Text) diff.Diff {
		t.Insert(idx, s)
		return diff.Insertion(t, idx, s)
	}
}

func TestCommitUndoRedo(t *testing.T) {
	tree := newTree("hello")
	before := tree.Staged().String()

	d, ok := tree.Edit("append", insert(5, " world"))
	if !ok || d.NewCharLength != 6 {
		t.Fatalf("Edit = %v %v", d, ok)
	}
	after := tree.Staged().String()
	if tree.Current() != 1 || tree.Len() != 2 {
		t.Fatalf("current %d len %d", tree.Current(), tree.Len())
	}

	if !tree.Undo() {
		t.Fatal("Undo should move to the root")
	}
	if got := tree.Staged().String(); got != before {
		t.Errorf("after undo = %q, want %q", got, before)
	}
	if tree.Undo() {
		t.Error("Undo at the root should report false")
	}

	if !tree.Redo() {
		t.Fatal("Redo should move to the child")
	}
	if got := tree.Staged().String(); got != after {
		t.Errorf("after redo = %q, want %q", got, after)
	}
	if tree.Redo() {
		t.Error("Redo at a leaf should report false")
	}
}

func TestCommitUnchanged(t *testing.T) {
	tree := newTree("abc")
	if id, ok := tree.Commit("nothing", diff.Empty()); ok || id != 0 {
		t.Errorf("Commit without changes = %d %v", id, ok)
	}
	if _, ok := tree.Edit("noop", func(buffer.Text) diff.Diff { return diff.Empty() }); ok {
		t.Error("an empty edit should not be recorded")
	}
	if tree.Len() != 1 {
		t.Errorf("Len = %d, want 1", tree.Len())
	}
}

func TestBranchNavigation(t *testing.T) {
	tree := newTree("")
	tree.Edit("A", insert(0, "A"))
	tree.Undo()
	tree.Edit("B", insert(0, "B"))
	if got := tree.Staged().String(); got != "B" {
		t.Fatalf("staged = %q", got)
	}

	tree.Undo()
	if id, ok := tree.PreviousChildRevision(); !ok || id != 1 {
		t.Fatalf("PreviousChildRevision = %d %v, want 1 true", id, ok)
	}
	tree.Redo()
	if got := tree.Staged().String(); got != "A" {
		t.Errorf("redo after choosing the older branch = %q, want A", got)
	}

	tree.Undo()
	if id, _ := tree.NextChildRevision(); id != 2 {
		t.Errorf("NextChildRevision = %d, want 2", id)
	}
	if id, _ := tree.NextChildRevision(); id != 1 {
		t.Errorf("NextChildRevision should wrap around, got %d", id)
	}
	if id, _ := tree.PreviousChildRevision(); id != 2 {
		t.Errorf("PreviousChildRevision should wrap around, got %d", id)
	}
	if tree.Current() != 0 {
		t.Errorf("branch navigation moved the current revision to %d", tree.Current())
	}

	tree.Redo()
	if _, ok := tree.NextChildRevision(); ok {
		t.Error("a leaf has no children to prefer")
	}
}

func TestCommitPrefersNewChild(t *testing.T) {
	tree := newTree("x")
	tree.Edit("one", insert(1, "1"))
	tree.Undo()
	tree.Edit("two", insert(1, "2"))
	tree.Undo()
	tree.Redo()
	if got := tree.Staged().String(); got != "x2" {
		t.Errorf("redo should follow the newest branch, got %q", got)
	}
}

func TestUndoCommitsPendingChanges(t *testing.T) {
	tree := newTree("abc")
	tree.Staged().Insert(3, "d")
	if !tree.HasUncommitted() {
		t.Fatal("staged change should be pending")
	}
	tree.Undo()
	if got := tree.Staged().String(); got != "abc" {
		t.Errorf("after undo = %q", got)
	}
	if tree.Len() != 2 {
		t.Fatalf("the pending change should have been committed, Len = %d", tree.Len())
	}
	info, err := tree.Revision(1)
	if err != nil {
		t.Fatal(err)
	}
	if info.Diff != diff.New(3, 0, 1, 3, 0, 1) {
		t.Errorf("pending diff = %v", info.Diff)
	}
	tree.Redo()
	if got := tree.Staged().String(); got != "abcd" {
		t.Errorf("after redo = %q", got)
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	tree := newTree("base")
	tree.Edit("edit", insert(4, "!"))
	tree.Staged().Remove(0, 5)
	snap, err := tree.Snapshot(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.String(); got != "base!" {
		t.Errorf("snapshot = %q, want %q", got, "base!")
	}
	snap.Insert(0, "x")
	root, _ := tree.Snapshot(0)
	if root.String() != "base" {
		t.Errorf("root snapshot = %q", root.String())
	}
}

func TestCheckout(t *testing.T) {
	tree := newTree("")
	tree.Edit("a", insert(0, "a")) // 1
	tree.Edit("b", insert(1, "b")) // 2
	tree.Undo()                    // at 1
	tree.Edit("c", insert(1, "c")) // 3
	tree.Undo()                    // at 1, prefers 3
	tree.Undo()                    // at root

	if err := tree.Checkout(2); err != nil {
		t.Fatal(err)
	}
	if got := tree.Staged().String(); got != "ab" {
		t.Errorf("checkout 2 = %q", got)
	}
	tree.Undo()
	tree.Undo()
	tree.Redo()
	tree.Redo()
	if got := tree.Staged().String(); got != "ab" {
		t.Errorf("redo should retrace the checked out path, got %q", got)
	}

	err := tree.Checkout(42)
	if !errors.Is(err, ErrRevisionNotFound) {
		t.Errorf("Checkout(42) error = %v", err)
	}
	if _, err := tree.Revision(-1); !errors.Is(err, ErrRevisionNotFound) {
		t.Errorf("Revision(-1) error = %v", err)
	}
}

func TestTransaction(t *testing.T) {
	tree := newTree("one\ntwo\n")
	id, err := tree.Transaction("indent", func(b buffer.Text) error {
		b.Insert(b.LineToChar(1), "\t")
		b.Insert(0, "\t")
		return nil
	})
	if err != nil || id != 1 {
		t.Fatalf("Transaction = %d %v", id, err)
	}
	if got := tree.Staged().String(); got != "\tone\n\ttwo\n" {
		t.Errorf("staged = %q", got)
	}
	info, _ := tree.Revision(id)
	if info.Diff.CharDelta() != 2 {
		t.Errorf("transaction diff = %v", info.Diff)
	}

	boom := errors.New("boom")
	_, err = tree.Transaction("fails", func(b buffer.Text) error {
		b.Remove(0, 3)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
	if got := tree.Staged().String(); got != "\tone\n\ttwo\n" {
		t.Errorf("failed transaction should roll back, got %q", got)
	}
	if tree.Len() != 2 || tree.Checkpoint() != 1 {
		t.Errorf("failed transaction recorded a revision, Len = %d", tree.Len())
	}
}

func TestQueries(t *testing.T) {
	tree := newTree("")
	tree.Edit("a", insert(0, "a"))
	tree.Undo()
	tree.Edit("a much longer description than anyone should write", insert(0, "b"))
	tree.Edit("c", insert(1, "c"))

	children := tree.Children(0)
	want := []Info{
		{ID: 1, Parent: 0, Description: "a", Diff: diff.New(0, 0, 1, 0, 0, 1)},
		{ID: 2, Parent: 0, Children: 1, Preferred: true, Description: "a much longer description than anyone should write", Diff: diff.New(0, 0, 1, 0, 0, 1)},
	}
	if diff := cmp.Diff(want, children, cmpopts.IgnoreFields(Info{}, "Timestamp")); diff != "" {
		t.Errorf("Children(0) mismatch (-want +got):\n%s", diff)
	}
	if !children[0].Timestamp.Before(children[1].Timestamp) {
		t.Error("children should be ordered oldest first")
	}
	if tree.Children(99) != nil {
		t.Error("Children of an unknown revision should be nil")
	}

	if diff := cmp.Diff([]RevisionID{0, 2, 3}, tree.Path(3)); diff != "" {
		t.Errorf("Path(3) mismatch (-want +got):\n%s", diff)
	}

	type visit struct {
		ID    RevisionID
		Depth int
	}
	var visits []visit
	tree.Walk(func(info Info, depth int) bool {
		visits = append(visits, visit{info.ID, depth})
		return true
	})
	if diff := cmp.Diff([]visit{{0, 0}, {1, 1}, {2, 1}, {3, 2}}, visits); diff != "" {
		t.Errorf("Walk mismatch (-want +got):\n%s", diff)
	}

	count := 0
	tree.Walk(func(Info, int) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Walk should stop when fn returns false, visited %d", count)
	}

	info, _ := tree.Revision(3)
	if !info.Current {
		t.Error("revision 3 should be current")
	}
}

func TestMaxDescription(t *testing.T) {
	tree := New(buffer.NewBuffer(), WithMaxDescription(5))
	tree.Edit("insert héllo", insert(0, "x"))
	info, _ := tree.Revision(1)
	if info.Description != "inser" {
		t.Errorf("description = %q", info.Description)
	}
}

func TestExportJSON(t *testing.T) {
	tree := newTree("")
	tree.Edit("A", insert(0, "A"))
	tree.Undo()
	tree.Edit("B", insert(0, "BB"))

	out, err := tree.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.Valid(out) {
		t.Fatalf("invalid JSON: %s", out)
	}
	doc := gjson.Parse(out)
	if got := doc.Get("current").Int(); got != 2 {
		t.Errorf("current = %d", got)
	}
	if got := doc.Get("revisions.#").Int(); got != 3 {
		t.Errorf("revision count = %d", got)
	}
	root := doc.Get("revisions.0")
	if got := root.Get("parent").Int(); got != -1 {
		t.Errorf("root parent = %d", got)
	}
	if got := root.Get("children").String(); got != "[1,2]" {
		t.Errorf("root children = %s", got)
	}
	if got := root.Get("preferred").Int(); got != 2 {
		t.Errorf("root preferred = %d", got)
	}
	if got := doc.Get("revisions.1.preferred").Int(); got != -1 {
		t.Errorf("leaf preferred = %d", got)
	}
	if got := doc.Get("revisions.2.diff.new_char_length").Int(); got != 2 {
		t.Errorf("diff new_char_length = %d", got)
	}
	if got := doc.Get("revisions.2.description").String(); got != "B" {
		t.Errorf("description = %q", got)
	}
	if _, err := time.Parse(time.RFC3339Nano, doc.Get("revisions.1.timestamp").String()); err != nil {
		t.Errorf("timestamp: %v", err)
	}
}

func TestParseSummary(t *testing.T) {
	tree := newTree("")
	tree.Edit("A", insert(0, "A"))
	tree.Undo()
	tree.Edit("B", insert(0, "B"))
	tree.Edit("C", insert(1, "C"))
	tree.Undo()

	out, err := tree.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	s, err := ParseSummary(out)
	if err != nil {
		t.Fatal(err)
	}
	if s.Current != 2 || len(s.Revisions) != 4 {
		t.Fatalf("summary current %d with %d revisions", s.Current, len(s.Revisions))
	}
	for id := range RevisionID(4) {
		want, _ := tree.Revision(id)
		if diff := cmp.Diff(want, s.Revisions[id]); diff != "" {
			t.Errorf("revision %d mismatch (-want +got):\n%s", id, diff)
		}
	}

	var sb strings.Builder
	if err := s.Render(&sb); err != nil {
		t.Fatal(err)
	}
	want := "  0 initial\n" +
		"    1 A\n" +
		"  @ 2 B\n" +
		"    * 3 C\n"
	if got := sb.String(); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}

	for _, bad := range []string{"", "[]", `{"current":0}`, `{"current":0,"revisions":[{"id":1}]}`} {
		if _, err := ParseSummary(bad); !errors.Is(err, ErrInvalidExport) {
			t.Errorf("ParseSummary(%q) = %v", bad, err)
		}
	}
}
