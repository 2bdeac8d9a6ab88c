package history

import (
	"fmt"
	"time"

	"github.com/dshills/editcore/internal/engine/diff"
)

// Info describes one revision for history viewers.
type Info struct {
	ID          RevisionID
	Parent      RevisionID
	Children    int
	Preferred   bool // Redo from the parent leads here
	Current     bool
	Description string
	Timestamp   time.Time
	Diff        diff.Diff
}

// Len returns the number of revisions, the root included.
func (t *Tree) Len() int {
	return len(t.revisions)
}

// Revision describes revision id.
func (t *Tree) Revision(id RevisionID) (Info, error) {
	if !t.valid(id) {
		return Info{}, fmt.Errorf("revision %d: %w", id, ErrRevisionNotFound)
	}
	return t.info(id), nil
}

// Children describes the children of id, oldest first.
func (t *Tree) Children(id RevisionID) []Info {
	if !t.valid(id) {
		return nil
	}
	children := t.revisions[id].children
	out := make([]Info, 0, len(children))
	for _, c := range children {
		out = append(out, t.info(c))
	}
	return out
}

// Path returns the ids from the root down to id, or nil when id is unknown.
func (t *Tree) Path(id RevisionID) []RevisionID {
	if !t.valid(id) {
		return nil
	}
	var path []RevisionID
	for ; id != NoRevision; id = t.revisions[id].parent {
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Walk visits every revision depth first, children oldest first, with its
// depth below the root. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(info Info, depth int) bool) {
	type frame struct {
		id    RevisionID
		depth int
	}
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(t.info(f.id), f.depth) {
			return
		}
		children := t.revisions[f.id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}

func (t *Tree) info(id RevisionID) Info {
	rev := t.revisions[id]
	preferred := false
	if rev.parent != NoRevision {
		p := t.revisions[rev.parent]
		preferred = p.children[p.preferred] == id
	}
	return Info{
		ID:          id,
		Parent:      rev.parent,
		Children:    len(rev.children),
		Preferred:   preferred,
		Current:     id == t.current,
		Description: rev.description,
		Timestamp:   rev.timestamp,
		Diff:        rev.diff,
	}
}
