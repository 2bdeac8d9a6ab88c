// Package history implements a branching undo tree over buffer revisions.
//
// Every committed edit becomes a new revision whose parent is the revision
// that was current when it was made. Undo moves to the parent and redo to
// the parent's preferred child, so no edit is ever lost: undoing and then
// editing starts a new branch next to the old one.
//
// # Staged buffer
//
// One buffer is live. Callers mutate it through Staged, then Commit the
// change with the diff it produced, or use Edit to do both. Navigation
// (Undo, Redo, Checkout) commits any pending change first and then
// replaces the staged buffer with a copy of the target revision.
//
// # Storage
//
// Each revision keeps a full snapshot made with buffer.Text.Clone. For the
// rope-backed buffer a clone shares structure with the live text, so a
// snapshot costs a pointer copy and revisions share unchanged chunks.
//
// # Branches
//
// Each revision remembers a preferred child, the one Redo follows. Commit
// makes the new child preferred. PreviousChildRevision and
// NextChildRevision rotate the preference among the current revision's
// children without moving, which lets a viewer pick an older future
// before redoing into it.
//
// A Tree is not safe for concurrent use.
package history
