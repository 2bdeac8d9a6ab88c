package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type watchee struct {
	path      string
	recursive bool
	token     Token
	filter    Filter
}

// Watcher watches paths through fsnotify on behalf of tokens.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	watchees []watchee
	watched  map[string]struct{} // paths registered with fsnotify
	queue    []Queued

	// Configuration
	notify func(Token)
	ignore Ignore
	logger *zap.Logger
	now    func() time.Time

	// Lifecycle
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		watched: make(map[string]struct{}),
		logger:  zap.NewNop(),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch registers path under token. A directory delivers events for its
// direct children, or for everything below it when recursive is set.
// A path that cannot be resolved is logged and not watched.
func (w *Watcher) Watch(path string, recursive bool, token Token) error {
	return w.watch(path, recursive, token, nil)
}

// WatchFiltered is Watch with a filter applied to event paths before
// delivery.
func (w *Watcher) WatchFiltered(path string, recursive bool, token Token, filter Filter) error {
	return w.watch(path, recursive, token, filter)
}

func (w *Watcher) watch(path string, recursive bool, token Token, filter Filter) error {
	canon, err := canonical(path)
	if err != nil {
		w.logger.Warn("cannot watch path", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	w.add(canon, recursive)
	w.watchees = append(w.watchees, watchee{
		path:      canon,
		recursive: recursive,
		token:     token,
		filter:    filter,
	})
	w.logger.Debug("watching",
		zap.String("path", canon),
		zap.Bool("recursive", recursive),
		zap.Stringer("token", token))
	return nil
}

// Unwatch removes the registration of path under token. The underlying
// watch stays while other registrations need it.
func (w *Watcher) Unwatch(path string, token Token) error {
	canon, err := canonical(path)
	if err != nil {
		canon, _ = filepath.Abs(path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	idx := slices.IndexFunc(w.watchees, func(x watchee) bool {
		return x.token == token && x.path == canon
	})
	if idx < 0 {
		return fmt.Errorf("unwatch %s: %w", path, ErrNotWatching)
	}
	removed := w.watchees[idx]
	w.watchees = slices.Delete(w.watchees, idx, idx+1)
	w.prune()

	if removed.recursive {
		for _, x := range w.watchees {
			if within(x.path, removed.path) {
				w.add(x.path, x.recursive)
			}
		}
	}
	return nil
}

// Drain returns the queued events and empties the queue.
func (w *Watcher) Drain() []Queued {
	w.mu.Lock()
	defer w.mu.Unlock()
	q := w.queue
	w.queue = nil
	return q
}

// Pending returns the number of queued events.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Watched returns the paths registered with the operating system, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.watched))
	for p := range w.watched {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// Dispatch queues ev for every registration that wants it and notifies
// their tokens.
func (w *Watcher) Dispatch(ev Event) {
	w.mu.Lock()
	var tokens []Token
	for _, x := range w.watchees {
		if w.wants(x, ev) {
			w.queue = append(w.queue, Queued{Token: x.token, Event: ev})
			tokens = append(tokens, x.token)
		}
	}
	notify := w.notify
	w.mu.Unlock()

	if notify != nil {
		for _, t := range tokens {
			notify(t)
		}
	}
}

const knownOps = OpCreate | OpWrite | OpRemove | OpRename | OpChmod

func (w *Watcher) wants(x watchee, ev Event) bool {
	switch {
	case ev.Op&knownOps == 0:
		return false
	case len(ev.Paths) == 1:
		return w.appliesTo(x, ev.Paths[0])
	case len(ev.Paths) == 2 && ev.Op.Has(OpRename):
		return w.appliesTo(x, ev.Paths[0]) || w.appliesTo(x, ev.Paths[1])
	default:
		w.logger.Info("rejecting event",
			zap.Stringer("op", ev.Op),
			zap.Int("paths", len(ev.Paths)))
		return false
	}
}

func (w *Watcher) appliesTo(x watchee, path string) bool {
	if !within(path, x.path) {
		return false
	}
	if !x.recursive && path != x.path && filepath.Dir(path) != x.path {
		return false
	}
	if w.ignored(x.path, path, false) {
		return false
	}
	return x.filter == nil || x.filter(path)
}

func (w *Watcher) ignored(root, path string, isDir bool) bool {
	if w.ignore.Len() == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return w.ignore.Match(filepath.ToSlash(rel), isDir)
}

// add registers root, and every directory below it when recursive, with
// fsnotify. Paths already registered are skipped. Called with mu held.
func (w *Watcher) add(root string, recursive bool) {
	w.addOne(root)
	if !recursive {
		return
	}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("walk failed", zap.String("path", p), zap.Error(err))
			return nil
		}
		if p == root || !d.IsDir() {
			return nil
		}
		if w.ignored(root, p, true) {
			return filepath.SkipDir
		}
		w.addOne(p)
		return nil
	})
	if err != nil {
		w.logger.Warn("walk failed", zap.String("path", root), zap.Error(err))
	}
}

func (w *Watcher) addOne(path string) {
	if _, ok := w.watched[path]; ok {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch failed", zap.String("path", path), zap.Error(err))
		return
	}
	w.watched[path] = struct{}{}
}

// prune removes fsnotify watches no registration needs. Called with mu
// held.
func (w *Watcher) prune() {
	for p := range w.watched {
		needed := slices.ContainsFunc(w.watchees, func(x watchee) bool {
			return x.path == p || (x.recursive && within(p, x.path))
		})
		if needed {
			continue
		}
		if err := w.fsw.Remove(p); err != nil {
			w.logger.Warn("unwatch failed", zap.String("path", p), zap.Error(err))
		}
		delete(w.watched, p)
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(fe fsnotify.Event) {
	op := convertOp(fe.Op)
	if op.Has(OpCreate) {
		if info, err := os.Stat(fe.Name); err == nil && info.IsDir() {
			w.addCreatedDir(fe.Name)
		}
	}
	w.Dispatch(Event{
		Paths:     []string{fe.Name},
		Op:        op,
		Timestamp: w.now(),
	})
}

// addCreatedDir watches a new directory below a recursive registration.
func (w *Watcher) addCreatedDir(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, x := range w.watchees {
		if x.recursive && within(dir, x.path) && !w.ignored(x.path, dir, true) {
			w.add(dir, true)
			return
		}
	}
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

// canonical returns the absolute path with symlinks resolved.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// within reports whether path is root or below it.
func within(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}
