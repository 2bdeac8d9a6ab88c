// Package diff describes a single edit of a text buffer in both byte and
// char coordinates.
//
// A Diff is the only record the editing core produces of what changed.
// Byte coordinates serve incremental parsers, which index UTF-8 source;
// char coordinates serve cursors and other views of the same buffer.
package diff

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// Diff describes one contiguous edited region. Old lengths describe the
// region before the edit, new lengths the region after it. The zero value
// is the empty diff.
type Diff struct {
	ByteIndex     int
	OldByteLength int
	NewByteLength int
	CharIndex     int
	OldCharLength int
	NewCharLength int
}

// New creates a Diff.
func New(byteIndex, oldByteLength, newByteLength, charIndex, oldCharLength, newCharLength int) Diff {
	return Diff{
		ByteIndex:     byteIndex,
		OldByteLength: oldByteLength,
		NewByteLength: newByteLength,
		CharIndex:     charIndex,
		OldCharLength: oldCharLength,
		NewCharLength: newCharLength,
	}
}

// Empty returns the diff of an edit that changed nothing.
func Empty() Diff {
	return Diff{}
}

// Insertion describes inserting text at char index idx of v. v may be the
// buffer before or after the insertion; only the prefix up to idx is read.
// text is measured as the buffer stores it, after buffer.Sanitize.
func Insertion(v buffer.View, idx int, text string) Diff {
	text = buffer.Sanitize(text)
	return Diff{
		ByteIndex:     v.CharToByte(idx),
		NewByteLength: len(text),
		CharIndex:     idx,
		NewCharLength: utf8.RuneCountInString(text),
	}
}

// Deletion describes removing the chars [start, end) from v. v must be the
// buffer before the removal.
func Deletion(v buffer.View, start, end int) Diff {
	b0, b1 := v.CharToByte(start), v.CharToByte(end)
	return Diff{
		ByteIndex:     b0,
		OldByteLength: b1 - b0,
		CharIndex:     start,
		OldCharLength: end - start,
	}
}

// Between describes the single region where before and after differ,
// found by trimming their common prefix and suffix.
func Between(before, after buffer.View) Diff {
	a, b := before.String(), after.String()
	p := 0
	for p < len(a) && p < len(b) && a[p] == b[p] {
		p++
	}
	for p > 0 && ((p < len(a) && !utf8.RuneStart(a[p])) || (p < len(b) && !utf8.RuneStart(b[p]))) {
		p--
	}
	s := 0
	for s < len(a)-p && s < len(b)-p && a[len(a)-1-s] == b[len(b)-1-s] {
		s++
	}
	for s > 0 && !utf8.RuneStart(a[len(a)-s]) {
		s--
	}
	oldText, newText := a[p:len(a)-s], b[p:len(b)-s]
	return Diff{
		ByteIndex:     p,
		OldByteLength: len(oldText),
		NewByteLength: len(newText),
		CharIndex:     utf8.RuneCountInString(a[:p]),
		OldCharLength: utf8.RuneCountInString(oldText),
		NewCharLength: utf8.RuneCountInString(newText),
	}
}

// IsEmpty reports whether the diff changes no text.
func (d Diff) IsEmpty() bool {
	return d.OldByteLength == 0 && d.NewByteLength == 0 &&
		d.OldCharLength == 0 && d.NewCharLength == 0
}

// CharDelta is the change in the buffer's char length.
func (d Diff) CharDelta() int {
	return d.NewCharLength - d.OldCharLength
}

// ByteDelta is the change in the buffer's byte length.
func (d Diff) ByteDelta() int {
	return d.NewByteLength - d.OldByteLength
}

// OldCharEnd is the char index where the edited region ended before the
// edit.
func (d Diff) OldCharEnd() int {
	return d.CharIndex + d.OldCharLength
}

// NewCharEnd is the char index where the edited region ends after the edit.
func (d Diff) NewCharEnd() int {
	return d.CharIndex + d.NewCharLength
}

// OldByteEnd is the byte index where the edited region ended before the
// edit.
func (d Diff) OldByteEnd() int {
	return d.ByteIndex + d.OldByteLength
}

// NewByteEnd is the byte index where the edited region ends after the edit.
func (d Diff) NewByteEnd() int {
	return d.ByteIndex + d.NewByteLength
}

func (d Diff) String() string {
	return fmt.Sprintf("chars %d:-%d+%d bytes %d:-%d+%d",
		d.CharIndex, d.OldCharLength, d.NewCharLength,
		d.ByteIndex, d.OldByteLength, d.NewByteLength)
}

// DeleteResult pairs the diff of a deletion with the text it removed.
type DeleteResult struct {
	Diff    Diff
	Deleted string
}

// EmptyDelete returns the result of a deletion that removed nothing.
func EmptyDelete() DeleteResult {
	return DeleteResult{}
}

// IsEmpty reports whether nothing was deleted.
func (r DeleteResult) IsEmpty() bool {
	return r.Diff.IsEmpty() && r.Deleted == ""
}
