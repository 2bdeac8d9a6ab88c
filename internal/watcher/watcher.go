// Package watcher reports external changes to watched files.
//
// Every registration carries a Token. The same path may be watched under
// several tokens, and each matching event is queued once per token. The
// watcher signals a refresh for every queued token through the notify
// callback; consumers then Drain the queue and reload what changed.
package watcher

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrNotWatching   = errors.New("path is not being watched")
)

// Token identifies one registration. Tokens are comparable.
type Token struct {
	id uuid.UUID
}

// NewToken returns a fresh token.
func NewToken() Token {
	return Token{id: uuid.New()}
}

// IsZero reports whether t is the zero token.
func (t Token) IsZero() bool {
	return t.id == uuid.Nil
}

func (t Token) String() string {
	return t.id.String()
}

// Op is a set of file system operations.
type Op uint32

const (
	// OpCreate indicates a file or directory was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
	// OpChmod indicates file metadata changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

func (op Op) String() string {
	var parts []string
	for _, n := range opNames {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a change to one path, or to two paths for a rename that
// reports both its source and its destination.
type Event struct {
	Paths     []string
	Op        Op
	Timestamp time.Time
}

// Queued is an event delivered for one token.
type Queued struct {
	Token Token
	Event Event
}

// Filter decides whether a path under a watched directory is of interest.
type Filter func(path string) bool

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for watch errors and rejected events.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l.Named("watcher")
		}
	}
}

// WithNotify sets the function called with the token of every queued
// event. It runs on the watcher's goroutine and must not block.
func WithNotify(fn func(Token)) Option {
	return func(w *Watcher) {
		w.notify = fn
	}
}

// WithIgnore skips paths matching any of the gitignore-style patterns,
// both when walking recursive watches and when delivering events.
func WithIgnore(patterns ...string) Option {
	return func(w *Watcher) {
		w.ignore.Add(patterns...)
	}
}

// WithClock sets the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		w.now = now
	}
}
