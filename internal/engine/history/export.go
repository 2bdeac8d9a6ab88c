package history

import (
	"fmt"
	"time"

	"github.com/tidwall/sjson"
)

// ExportJSON renders the tree for external viewers:
//
//	{"current":2,"revisions":[{"id":0,"parent":-1,"children":[1,2],
//	  "preferred":2,"description":"initial","timestamp":"...",
//	  "diff":{"char_index":0,...}}, ...]}
//
// preferred is -1 for revisions without children.
func (t *Tree) ExportJSON() (string, error) {
	out := "{}"
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.Set(out, path, v)
		}
	}

	set("current", int(t.current))
	for i, rev := range t.revisions {
		p := fmt.Sprintf("revisions.%d.", i)
		children := make([]int, 0, len(rev.children))
		for _, c := range rev.children {
			children = append(children, int(c))
		}
		preferred := int(NoRevision)
		if len(rev.children) > 0 {
			preferred = int(rev.children[rev.preferred])
		}
		set(p+"id", i)
		set(p+"parent", int(rev.parent))
		set(p+"children", children)
		set(p+"preferred", preferred)
		set(p+"description", rev.description)
		set(p+"timestamp", rev.timestamp.UTC().Format(time.RFC3339Nano))
		set(p+"diff.byte_index", rev.diff.ByteIndex)
		set(p+"diff.old_byte_length", rev.diff.OldByteLength)
		set(p+"diff.new_byte_length", rev.diff.NewByteLength)
		set(p+"diff.char_index", rev.diff.CharIndex)
		set(p+"diff.old_char_length", rev.diff.OldCharLength)
		set(p+"diff.new_char_length", rev.diff.NewCharLength)
	}
	if err != nil {
		return "", fmt.Errorf("export history: %w", err)
	}
	return out, nil
}
