// Package engine ties the editing core together into a Document.
//
// The engine is built on several sub-packages:
//
//   - rope: balanced tree of text chunks with char, byte and line metrics
//   - buffer: the Text contract with rope and gap buffer implementations
//   - grapheme: cluster boundaries and display width
//   - diff: the record of one edit in byte and char coordinates
//   - cursor: grapheme-aligned cursors, editing and movement
//   - history: the branching undo tree
//   - killring: cut and copied text
//   - linediff: line diffs between revisions
//
// # Editing
//
// Every editing method runs the cursor operation for each cursor on the
// staged buffer, from the last cursor in the buffer to the first, and
// reconciles the others after each step. Change listeners receive one
// diff per step, in order, so each diff is valid against the buffer as it
// was when it was applied. The whole operation is then committed as one
// revision.
//
//	doc := engine.New("hello")
//	doc.OnChange(func(d diff.Diff) { parser.Edit(d) })
//	doc.Move(engine.MotionBufferEnd, 1)
//	doc.InsertText(" world")
//	doc.Undo() // "hello"
//
// # History
//
// Undo, Redo and Checkout swap the staged buffer for another revision and
// carry every cursor across with Cursor.Sync, which keeps its line and
// column. Listeners receive a single diff covering what changed.
//
// # Thread Safety
//
// Document methods are safe to call from multiple goroutines. Listeners
// run after the document's lock is released and may call back into it.
package engine
