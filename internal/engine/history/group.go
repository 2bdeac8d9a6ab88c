package history

import (
	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

// Transaction runs fn against the staged buffer and records everything it
// changed as a single revision. If fn returns an error the staged buffer
// is rolled back to the current revision and nothing is recorded.
//
//	tree.Transaction("indent block", func(t buffer.Text) error {
//	    for line := first; line <= last; line++ {
//	        t.Insert(t.LineToChar(line), "\t")
//	    }
//	    return nil
//	})
func (t *Tree) Transaction(description string, fn func(buffer.Text) error) (RevisionID, error) {
	t.commitPending()
	if err := fn(t.staged); err != nil {
		t.staged = t.revisions[t.current].snapshot.Clone()
		return t.current, err
	}
	id, _ := t.Commit(description, diff.Between(t.revisions[t.current].snapshot, t.staged))
	return id, nil
}

// Checkpoint returns the current revision so a caller can return to it
// with Checkout.
func (t *Tree) Checkpoint() RevisionID {
	t.commitPending()
	return t.current
}
