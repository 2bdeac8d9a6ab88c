package engine

import (
	"io"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/cursor"
	"github.com/dshills/editcore/internal/engine/diff"
	"github.com/dshills/editcore/internal/engine/history"
	"github.com/dshills/editcore/internal/engine/killring"
	"github.com/dshills/editcore/internal/engine/linediff"
)

// Document is a text buffer with its edit history, cursors and kill ring.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Document struct {
	mu sync.RWMutex

	id        uuid.UUID
	tree      *history.Tree
	cursors   *cursor.Set
	ring      *killring.Ring
	listeners []func(diff.Diff)

	// Configuration
	tabWidth      int
	backend       buffer.Backend
	lineEnding    buffer.LineEnding
	lineEndingSet bool
	killRingSize  int
	historyOpts   []history.Option
	logger        *zap.Logger

	// Last paste, for YankPop.
	paste pasteState
}

type pasteState struct {
	start    int
	chars    int
	revision history.RevisionID
	valid    bool
}

// New creates a document holding text.
func New(text string, opts ...Option) *Document {
	d := &Document{
		id:           uuid.New(),
		tabWidth:     DefaultTabWidth,
		backend:      buffer.BackendRope,
		killRingSize: DefaultKillRingSize,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if !d.lineEndingSet {
		d.lineEnding = buffer.DetectLineEnding(text)
	}

	d.tree = history.New(buffer.New(d.backend, text, buffer.WithLineEnding(d.lineEnding)), d.historyOpts...)
	d.cursors = cursor.NewSet(cursor.New())
	d.ring = killring.New(d.killRingSize)
	d.cursors.Primary().MoveTo(d.tree.Staged(), 0)
	return d
}

// NewFromReader creates a document holding everything read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(string(data), opts...), nil
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// OnChange registers fn to receive every change to the document.
func (d *Document) OnChange(fn func(diff.Diff)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Text returns the document contents with '\n' line endings.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Staged().String()
}

// LineEnding returns the line ending used by WriteTo.
func (d *Document) LineEnding() buffer.LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

// WriteTo writes the document using its line ending.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.mu.RLock()
	t := d.tree.Staged()
	le := d.lineEnding
	d.mu.RUnlock()

	if wt, ok := t.(io.WriterTo); ok {
		return wt.WriteTo(w)
	}
	n, err := io.WriteString(w, le.Encode(t.String()))
	return int64(n), err
}

// Cursor returns the primary cursor.
func (d *Document) Cursor() cursor.Cursor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return *d.cursors.Primary()
}

// Cursors returns every cursor, primary first.
func (d *Document) Cursors() []cursor.Cursor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cursors.All()
}

// AddCursorAt adds a secondary cursor at the cluster containing idx and
// returns its index.
func (d *Document) AddCursorAt(idx int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	var c cursor.Cursor
	c.MoveTo(d.tree.Staged(), idx)
	return d.cursors.Add(c)
}

// ClearSecondary removes every cursor except the primary.
func (d *Document) ClearSecondary() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursors.Clear()
}

// ColumnOffset returns the display column of the primary cursor.
func (d *Document) ColumnOffset() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cursors.Primary().ColumnOffsetTab(d.tree.Staged(), d.tabWidth)
}

// TabWidth returns the tab stop used for columns.
func (d *Document) TabWidth() int {
	return d.tabWidth
}

// Tree returns the edit tree for read-only queries. It must not be used
// concurrently with editing methods.
func (d *Document) Tree() *history.Tree {
	return d.tree
}

// Revision returns the current revision.
func (d *Document) Revision() history.RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Current()
}

// ExportHistory renders the edit tree as JSON.
func (d *Document) ExportHistory() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.ExportJSON()
}

// Compare diffs the lines of revision from against revision to.
func (d *Document) Compare(from, to history.RevisionID, opts linediff.Options) (linediff.Result, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, err := d.tree.Snapshot(from)
	if err != nil {
		return linediff.Result{}, err
	}
	b, err := d.tree.Snapshot(to)
	if err != nil {
		return linediff.Result{}, err
	}
	return linediff.Compute(a, b, opts), nil
}

// KillRing returns the kill ring entries, most recent first.
func (d *Document) KillRing() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ring.Entries()
}

// editFunc performs one cursor's part of an edit on the staged buffer.
type editFunc func(c *cursor.Cursor, t buffer.Text) diff.DeleteResult

func inserting(fn func(c *cursor.Cursor, t buffer.Text) diff.Diff) editFunc {
	return func(c *cursor.Cursor, t buffer.Text) diff.DeleteResult {
		return diff.DeleteResult{Diff: fn(c, t)}
	}
}

// edit runs fn for the cursors at indices, from the last in the buffer to
// the first, reconciling the other cursors after each step, and commits
// the result as one revision. It must be called with mu held and returns
// the diffs to deliver once mu is released.
func (d *Document) edit(description string, indices []int, fn editFunc) (diff.DeleteResult, []diff.Diff) {
	t := d.tree.Staged()
	var before buffer.Text
	if len(indices) > 1 {
		before = t.Clone()
	}

	slices.SortStableFunc(indices, func(a, b int) int {
		return d.cursors.At(b).Start() - d.cursors.At(a).Start()
	})

	var (
		primary diff.DeleteResult
		diffs   []diff.Diff
	)
	for _, i := range indices {
		res := fn(d.cursors.At(i), t)
		if i == 0 {
			primary.Deleted = res.Deleted
		}
		if res.Diff.IsEmpty() {
			continue
		}
		d.cursors.Reconcile(t, res.Diff, i)
		diffs = append(diffs, res.Diff)
	}
	d.cursors.Normalize()

	switch len(diffs) {
	case 0:
		return primary, nil
	case 1:
		primary.Diff = diffs[0]
	default:
		primary.Diff = diff.Between(before, t)
	}
	d.commit(description, primary.Diff)
	return primary, diffs
}

func (d *Document) commit(description string, ch diff.Diff) {
	id, ok := d.tree.Commit(description, ch)
	if ok {
		d.logger.Debug("revision committed",
			zap.Int("revision", int(id)),
			zap.String("description", description),
			zap.Stringer("diff", ch))
	}
	d.paste.valid = false
}

// all returns the indices of every cursor.
func (d *Document) all() []int {
	idx := make([]int, d.cursors.Len())
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (d *Document) notify(diffs []diff.Diff) {
	if len(diffs) == 0 {
		return
	}
	d.mu.RLock()
	listeners := slices.Clone(d.listeners)
	d.mu.RUnlock()
	for _, ch := range diffs {
		for _, fn := range listeners {
			fn(ch)
		}
	}
}

// apply runs fn for every cursor and notifies listeners.
func (d *Document) apply(description string, fn editFunc) diff.DeleteResult {
	d.mu.Lock()
	res, diffs := d.edit(description, d.all(), fn)
	d.mu.Unlock()
	d.notify(diffs)
	return res
}

// InsertChar types r at every cursor and moves past it.
func (d *Document) InsertChar(r rune) diff.Diff {
	return d.apply("insert", inserting(func(c *cursor.Cursor, t buffer.Text) diff.Diff {
		ch := c.InsertChar(t, r)
		c.MoveTo(t, ch.NewCharEnd())
		return ch
	})).Diff
}

// InsertText types s at every cursor and moves past it.
func (d *Document) InsertText(s string) diff.Diff {
	s = buffer.NormalizeLineEndings(s)
	return d.apply("insert", inserting(func(c *cursor.Cursor, t buffer.Text) diff.Diff {
		c.ClearSelection()
		ch := c.InsertChars(t, s)
		if !ch.IsEmpty() {
			c.MoveTo(t, ch.NewCharEnd())
		}
		return ch
	})).Diff
}

// Indent inserts prefix at the start of the cursor's line, or of every
// selected line.
func (d *Document) Indent(prefix string) diff.Diff {
	return d.apply("indent", inserting(func(c *cursor.Cursor, t buffer.Text) diff.Diff {
		return c.PrependChars(t, prefix)
	})).Diff
}

// InsertNewLine breaks the line at every cursor.
func (d *Document) InsertNewLine() diff.Diff {
	return d.apply("newline", inserting((*cursor.Cursor).InsertNewLine)).Diff
}

// InsertTab inserts a tab at every cursor, or indents selected lines.
func (d *Document) InsertTab() diff.Diff {
	return d.apply("tab", inserting((*cursor.Cursor).InsertTab)).Diff
}

// Unindent removes one level of leading whitespace from the cursor's
// line, or from every selected line.
func (d *Document) Unindent() diff.DeleteResult {
	return d.apply("unindent", (*cursor.Cursor).Unindent)
}

// DeleteForward deletes the cluster under every cursor.
func (d *Document) DeleteForward() diff.DeleteResult {
	return d.apply("delete forward", (*cursor.Cursor).DeleteForward)
}

// DeleteBackward deletes the cluster before every cursor.
func (d *Document) DeleteBackward() diff.DeleteResult {
	return d.apply("delete backward", (*cursor.Cursor).DeleteBackward)
}

// DeleteSelection deletes the selection of every cursor.
func (d *Document) DeleteSelection() diff.DeleteResult {
	return d.apply("delete selection", (*cursor.Cursor).DeleteSelection)
}

// DeleteLine deletes the line of every cursor. The primary cursor's line
// is pushed onto the kill ring.
func (d *Document) DeleteLine() diff.DeleteResult {
	d.mu.Lock()
	res, diffs := d.edit("delete line", d.all(), (*cursor.Cursor).DeleteLine)
	d.ring.Push(res.Deleted)
	d.mu.Unlock()
	d.notify(diffs)
	return res
}

// BeginSelection anchors a selection at every cursor.
func (d *Document) BeginSelection() {
	d.eachCursor(func(c *cursor.Cursor, _ buffer.View) { c.BeginSelection() })
}

// ClearSelection drops the selection of every cursor.
func (d *Document) ClearSelection() {
	d.eachCursor(func(c *cursor.Cursor, _ buffer.View) { c.ClearSelection() })
}

// SelectAll drops secondary cursors and selects the whole buffer.
func (d *Document) SelectAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursors.Clear()
	d.cursors.Primary().SelectAll(d.tree.Staged())
}

func (d *Document) eachCursor(fn func(c *cursor.Cursor, v buffer.View)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.tree.Staged()
	for i := range d.cursors.Len() {
		fn(d.cursors.At(i), v)
	}
	d.cursors.Normalize()
}

// Undo moves to the parent revision. It reports false at the root.
func (d *Document) Undo() bool {
	return d.navigate("undo", d.tree.Undo)
}

// Redo moves to the preferred child revision. It reports false at a leaf.
func (d *Document) Redo() bool {
	return d.navigate("redo", d.tree.Redo)
}

// Checkout makes revision id current.
func (d *Document) Checkout(id history.RevisionID) error {
	var err error
	d.navigate("checkout", func() bool {
		before := d.tree.Current()
		err = d.tree.Checkout(id)
		return err == nil && d.tree.Current() != before
	})
	return err
}

// PreviousChildRevision makes the previous child of the current revision
// the one Redo follows.
func (d *Document) PreviousChildRevision() (history.RevisionID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.PreviousChildRevision()
}

// NextChildRevision makes the next child of the current revision the one
// Redo follows.
func (d *Document) NextChildRevision() (history.RevisionID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.NextChildRevision()
}

// navigate runs move, which swaps the staged buffer, and carries the
// cursors across.
func (d *Document) navigate(name string, move func() bool) bool {
	d.mu.Lock()
	old := d.tree.Staged()
	if !move() {
		d.mu.Unlock()
		return false
	}
	v := d.tree.Staged()
	d.cursors.Sync(old, v)
	d.paste.valid = false
	ch := diff.Between(old, v)
	d.logger.Debug("revision changed",
		zap.String("via", name),
		zap.Int("revision", int(d.tree.Current())))
	d.mu.Unlock()

	if !ch.IsEmpty() {
		d.notify([]diff.Diff{ch})
	}
	return true
}

// Reload replaces the contents with text from an external source and
// commits it as a new revision. It reports whether anything changed.
func (d *Document) Reload(text string) (diff.Diff, bool) {
	text = buffer.NormalizeLineEndings(text)

	d.mu.Lock()
	text = buffer.Sanitize(text)
	t := d.tree.Staged()
	if t.String() == text {
		d.mu.Unlock()
		return diff.Empty(), false
	}
	old := t.Clone()
	t.Remove(0, t.LenChars())
	t.Insert(0, text)
	ch := diff.Between(old, t)
	d.commit("reload", ch)
	d.cursors.Sync(old, t)
	d.logger.Debug("document reloaded",
		zap.Stringer("id", d.id),
		zap.Int("chars", t.LenChars()))
	d.mu.Unlock()

	d.notify([]diff.Diff{ch})
	return ch, true
}

// Copy pushes the primary cursor's selection onto the kill ring and
// returns it. It returns false when nothing is selected.
func (d *Document) Copy() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.cursors.Primary()
	if !c.IsSelecting() {
		return "", false
	}
	sel := c.Selection()
	s := d.tree.Staged().Slice(sel.Start, sel.End)
	d.ring.Push(s)
	return s, s != ""
}

// Cut deletes the primary cursor's selection and pushes it onto the kill
// ring.
func (d *Document) Cut() diff.DeleteResult {
	d.mu.Lock()
	if !d.cursors.Primary().IsSelecting() {
		d.mu.Unlock()
		return diff.EmptyDelete()
	}
	res, diffs := d.edit("cut", []int{0}, (*cursor.Cursor).DeleteSelection)
	d.ring.Push(res.Deleted)
	d.mu.Unlock()
	d.notify(diffs)
	return res
}

// Paste inserts the current kill ring entry at the primary cursor and
// moves past it.
func (d *Document) Paste() diff.Diff {
	d.mu.Lock()
	s := d.ring.Current()
	if s == "" {
		d.mu.Unlock()
		return diff.Empty()
	}
	res, diffs := d.edit("paste", []int{0}, inserting(func(c *cursor.Cursor, t buffer.Text) diff.Diff {
		c.ClearSelection()
		ch := c.InsertChars(t, s)
		c.MoveTo(t, ch.NewCharEnd())
		return ch
	}))
	d.paste = pasteState{
		start:    res.Diff.CharIndex,
		chars:    res.Diff.NewCharLength,
		revision: d.tree.Current(),
		valid:    true,
	}
	d.mu.Unlock()
	d.notify(diffs)
	return res.Diff
}

// YankPop replaces the text inserted by the preceding Paste with the next
// older kill ring entry.
func (d *Document) YankPop() (diff.Diff, error) {
	d.mu.Lock()
	if !d.paste.valid || d.paste.revision != d.tree.Current() {
		d.mu.Unlock()
		return diff.Empty(), ErrNothingToYank
	}
	if !d.ring.Rotate() {
		d.mu.Unlock()
		return diff.Empty(), nil
	}
	s := buffer.Sanitize(d.ring.Current())
	start, end := d.paste.start, d.paste.start+d.paste.chars
	res, diffs := d.edit("yank", []int{0}, inserting(func(c *cursor.Cursor, t buffer.Text) diff.Diff {
		byteStart := t.CharToByte(start)
		oldBytes := t.CharToByte(end) - byteStart
		t.Remove(start, end)
		t.Insert(start, s)
		c.ClearSelection()
		n := utf8.RuneCountInString(s)
		c.MoveTo(t, start+n)
		return diff.New(byteStart, oldBytes, len(s), start, end-start, n)
	}))
	d.paste = pasteState{
		start:    start,
		chars:    res.Diff.NewCharLength,
		revision: d.tree.Current(),
		valid:    true,
	}
	d.mu.Unlock()
	d.notify(diffs)
	return res.Diff, nil
}
