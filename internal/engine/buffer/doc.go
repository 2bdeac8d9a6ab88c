// Package buffer defines the text buffer contract consumed by the editing
// core and provides two implementations of it.
//
// The contract is split in two interfaces:
//
//   - View: read-only queries (lengths, char/byte/line conversions,
//     slicing). Grapheme, cursor reconciliation and the history viewer
//     only need a View.
//   - Text: a View that can also be edited in place and cloned.
//
// All indices are char indices (Unicode scalar values) unless a method name
// says otherwise. Every method clamps its arguments into range instead of
// failing; CheckRange is available to callers that want validation.
//
// Implementations:
//
//   - Buffer stores text in a persistent rope. Clone is O(1), which makes
//     it the backend of choice for the edit tree.
//   - GapBuffer stores runes in a gap buffer. Line conversions are linear,
//     which is fine for small documents and useful as a second
//     implementation of the contract.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Remove(0, 7)             // "Beautiful World!"
//	snap := buf.Clone()          // independent copy
//
// Only '\n' terminates a line. Buffers loaded from external text detect its
// line ending, store the text with '\n', and restore the original ending on
// output (see LineEnding).
package buffer
