package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

// ErrRevisionNotFound is returned for revision ids the tree does not hold.
var ErrRevisionNotFound = errors.New("revision not found")

// RevisionID addresses a revision. The root is 0.
type RevisionID int

// NoRevision is the parent of the root.
const NoRevision RevisionID = -1

// DefaultMaxDescription is the default limit on description length.
const DefaultMaxDescription = 80

type revision struct {
	parent      RevisionID
	children    []RevisionID
	preferred   int
	snapshot    buffer.Text
	diff        diff.Diff
	timestamp   time.Time
	description string
}

// Tree is the edit tree of one buffer.
type Tree struct {
	revisions []revision
	current   RevisionID
	staged    buffer.Text

	now            func() time.Time
	maxDescription int
}

// Option configures a Tree.
type Option func(*Tree)

// WithClock sets the source of revision timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) {
		if now != nil {
			t.now = now
		}
	}
}

// WithMaxDescription truncates descriptions to n runes. Zero or less keeps
// them whole.
func WithMaxDescription(n int) Option {
	return func(t *Tree) {
		t.maxDescription = n
	}
}

// New creates a tree whose root holds text. The tree takes ownership of
// text as its staged buffer.
func New(text buffer.Text, opts ...Option) *Tree {
	t := &Tree{
		now:            time.Now,
		maxDescription: DefaultMaxDescription,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.revisions = []revision{{
		parent:      NoRevision,
		snapshot:    text.Clone(),
		timestamp:   t.now(),
		description: "initial",
	}}
	t.staged = text
	return t
}

// Staged returns the live buffer of the current revision.
func (t *Tree) Staged() buffer.Text {
	return t.staged
}

// Current returns the id of the current revision.
func (t *Tree) Current() RevisionID {
	return t.current
}

// HasUncommitted reports whether the staged buffer differs from the
// current revision.
func (t *Tree) HasUncommitted() bool {
	return !buffer.Equal(t.staged, t.revisions[t.current].snapshot)
}

// Commit records the staged buffer as a new child of the current revision
// and makes it current. d describes the change from the current revision.
// Nothing is recorded when the staged buffer is unchanged.
func (t *Tree) Commit(description string, d diff.Diff) (RevisionID, bool) {
	if !t.HasUncommitted() {
		return t.current, false
	}
	id := RevisionID(len(t.revisions))
	t.revisions = append(t.revisions, revision{
		parent:      t.current,
		snapshot:    t.staged.Clone(),
		diff:        d,
		timestamp:   t.now(),
		description: t.truncate(description),
	})
	parent := &t.revisions[t.current]
	parent.children = append(parent.children, id)
	parent.preferred = len(parent.children) - 1
	t.current = id
	return id, true
}

// Edit applies fn to the staged buffer and commits the result.
func (t *Tree) Edit(description string, fn func(buffer.Text) diff.Diff) (diff.Diff, bool) {
	d := fn(t.staged)
	if d.IsEmpty() {
		return d, false
	}
	_, ok := t.Commit(description, d)
	return d, ok
}

// commitPending commits changes made to the staged buffer since the last
// commit.
func (t *Tree) commitPending() {
	if t.HasUncommitted() {
		t.Commit("pending changes", diff.Between(t.revisions[t.current].snapshot, t.staged))
	}
}

// Undo moves to the parent revision. It reports false at the root.
func (t *Tree) Undo() bool {
	t.commitPending()
	parent := t.revisions[t.current].parent
	if parent == NoRevision {
		return false
	}
	t.moveTo(parent)
	return true
}

// Redo moves to the preferred child. It reports false at a leaf.
func (t *Tree) Redo() bool {
	t.commitPending()
	rev := t.revisions[t.current]
	if len(rev.children) == 0 {
		return false
	}
	t.moveTo(rev.children[rev.preferred])
	return true
}

// PreviousChildRevision makes the previous child, wrapping around, the one
// Redo follows. It returns the newly preferred child.
func (t *Tree) PreviousChildRevision() (RevisionID, bool) {
	return t.rotatePreferred(-1)
}

// NextChildRevision makes the next child, wrapping around, the one Redo
// follows. It returns the newly preferred child.
func (t *Tree) NextChildRevision() (RevisionID, bool) {
	return t.rotatePreferred(1)
}

func (t *Tree) rotatePreferred(step int) (RevisionID, bool) {
	rev := &t.revisions[t.current]
	n := len(rev.children)
	if n == 0 {
		return NoRevision, false
	}
	rev.preferred = ((rev.preferred+step)%n + n) % n
	return rev.children[rev.preferred], true
}

// Checkout makes id current, pointing every revision on the way from the
// root at it so that Redo retraces the path.
func (t *Tree) Checkout(id RevisionID) error {
	if !t.valid(id) {
		return fmt.Errorf("checkout %d: %w", id, ErrRevisionNotFound)
	}
	t.commitPending()
	for child := id; t.revisions[child].parent != NoRevision; {
		parent := &t.revisions[t.revisions[child].parent]
		for i, c := range parent.children {
			if c == child {
				parent.preferred = i
			}
		}
		child = t.revisions[child].parent
	}
	t.moveTo(id)
	return nil
}

// Snapshot returns a copy of the buffer at revision id.
func (t *Tree) Snapshot(id RevisionID) (buffer.Text, error) {
	if !t.valid(id) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrRevisionNotFound)
	}
	return t.revisions[id].snapshot.Clone(), nil
}

func (t *Tree) moveTo(id RevisionID) {
	t.current = id
	t.staged = t.revisions[id].snapshot.Clone()
}

func (t *Tree) valid(id RevisionID) bool {
	return id >= 0 && int(id) < len(t.revisions)
}

func (t *Tree) truncate(s string) string {
	if t.maxDescription <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= t.maxDescription {
		return s
	}
	return string(r[:t.maxDescription])
}
