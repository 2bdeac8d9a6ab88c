// Package cursor implements the editing cursor: a grapheme-aligned range
// with an optional selection anchor and a remembered column.
//
// A Cursor is a small value. Editing methods take the buffer explicitly,
// mutate it together with the cursor, and report what changed as a
// diff.Diff (insertions) or diff.DeleteResult (deletions). Operations are
// total: indices are clamped and edits that would change nothing return an
// empty diff without touching the buffer.
//
// # Range and selection
//
// The range is normally the grapheme cluster under the cursor, [b, Next(b)).
// At the end of the buffer it is the empty caret [len, len). When a
// selection is active the anchor is remembered separately and the selection
// spans from the anchor to the range start, whichever direction it was
// made in.
//
// # Reconciliation
//
// Reconcile keeps a cursor valid after an edit made through another cursor.
// Sync derives a cursor for a different buffer revision by preserving the
// line and column. Both always leave the endpoints on grapheme boundaries.
package cursor
