// Package rope provides an immutable rope for storing editable text.
//
// A rope is a balanced tree whose leaves hold short text chunks and whose
// internal nodes cache a Summary (bytes, chars, newlines) of their subtree.
// The summaries let every index conversion and edit run in O(log n):
//
//   - char index <-> byte index
//   - char index <-> line index
//   - insert and remove by char range
//
// Edits return a new Rope sharing all untouched subtrees with the original,
// so keeping an old Rope around is a constant-time snapshot. The edit tree
// relies on this to store every revision in full without copying text.
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")   // "hello, world"
//	r = r.Remove(0, 7)     // "world"
//	line := r.CharToLine(3)
//
// A "char" is a Unicode scalar value. Only '\n' terminates a line, so a
// rope with n newlines has n+1 lines. Text must be valid UTF-8.
package rope
