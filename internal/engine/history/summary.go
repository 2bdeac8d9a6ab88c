package history

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/editcore/internal/engine/diff"
)

// ErrInvalidExport indicates text that is not a history export.
var ErrInvalidExport = errors.New("invalid history export")

// Summary is a history export read back without the buffer snapshots.
type Summary struct {
	Current   RevisionID
	Revisions []Info
}

// ParseSummary reads the output of ExportJSON.
func ParseSummary(data string) (Summary, error) {
	if !gjson.Valid(data) {
		return Summary{}, ErrInvalidExport
	}
	root := gjson.Parse(data)
	revs := root.Get("revisions")
	if !root.Get("current").Exists() || !revs.IsArray() {
		return Summary{}, ErrInvalidExport
	}

	s := Summary{Current: RevisionID(root.Get("current").Int())}
	for _, r := range revs.Array() {
		info := Info{
			ID:          RevisionID(r.Get("id").Int()),
			Parent:      RevisionID(r.Get("parent").Int()),
			Children:    int(r.Get("children.#").Int()),
			Description: r.Get("description").String(),
			Diff: diff.New(
				int(r.Get("diff.byte_index").Int()),
				int(r.Get("diff.old_byte_length").Int()),
				int(r.Get("diff.new_byte_length").Int()),
				int(r.Get("diff.char_index").Int()),
				int(r.Get("diff.old_char_length").Int()),
				int(r.Get("diff.new_char_length").Int()),
			),
		}
		if int(info.ID) != len(s.Revisions) {
			return Summary{}, fmt.Errorf("revision %d out of order: %w", info.ID, ErrInvalidExport)
		}
		if ts := r.Get("timestamp").String(); ts != "" {
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return Summary{}, fmt.Errorf("revision %d: %w", info.ID, err)
			}
			info.Timestamp = t
		}
		info.Current = info.ID == s.Current
		s.Revisions = append(s.Revisions, info)
	}

	// Preferred is stored on the parent.
	for _, r := range revs.Array() {
		p := RevisionID(r.Get("preferred").Int())
		if p >= 0 && int(p) < len(s.Revisions) {
			s.Revisions[p].Preferred = true
		}
	}
	return s, nil
}

// Render writes the revisions as an indented tree, one per line. The
// current revision is marked with '@' and preferred children with '*'.
func (s Summary) Render(w io.Writer) error {
	children := make(map[RevisionID][]RevisionID)
	for _, info := range s.Revisions {
		if info.Parent != NoRevision {
			children[info.Parent] = append(children[info.Parent], info.ID)
		}
	}

	var walk func(id RevisionID, depth int) error
	walk = func(id RevisionID, depth int) error {
		info := s.Revisions[id]
		mark := " "
		switch {
		case info.Current:
			mark = "@"
		case info.Preferred:
			mark = "*"
		}
		_, err := fmt.Fprintf(w, "%s%s %d %s\n", strings.Repeat("  ", depth), mark, info.ID, info.Description)
		if err != nil {
			return err
		}
		for _, c := range children[id] {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if len(s.Revisions) == 0 {
		return nil
	}
	return walk(0, 0)
}
