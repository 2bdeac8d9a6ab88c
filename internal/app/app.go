// Package app wires configuration, logging, a Document, the script host
// and the file watcher into one unit driven by the command line.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/editcore/internal/config"
	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/history"
	"github.com/dshills/editcore/internal/engine/linediff"
	"github.com/dshills/editcore/internal/logging"
	"github.com/dshills/editcore/internal/script"
	"github.com/dshills/editcore/internal/watcher"
)

// Application owns the components for one edited file.
type Application struct {
	mu sync.Mutex

	config *config.Config
	logger *zap.Logger

	doc     *engine.Document
	host    *script.Host
	watcher *watcher.Watcher
	token   watcher.Token
	refresh chan struct{}

	// path is the canonical path of the loaded file, if any.
	path string

	running  atomic.Bool
	done     chan struct{}
	shutOnce sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	ConfigPath string

	// File is loaded into the document. Empty starts an empty document.
	File string

	// Watch enables reloading File when it changes on disk.
	Watch bool

	// LogOutput receives log entries. Nil means stderr.
	LogOutput io.Writer

	// ScriptOutput receives script print output. Nil sends it to the log.
	ScriptOutput io.Writer

	// Lookup reads environment variables. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		refresh: make(chan struct{}, 1),
	}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	var err error

	// 1. Config: file, then environment
	app.config, err = config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := config.ApplyEnv(app.config, app.opts.Lookup); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Logger
	app.logger, err = logging.New(app.config.Logging, app.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Document
	text := ""
	if app.opts.File != "" {
		app.path, err = filepath.Abs(app.opts.File)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
		data, err := os.ReadFile(app.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			app.logger.Info("new file", zap.String("path", app.path))
		case err != nil:
			return &InitError{Component: "document", Err: err}
		default:
			text = string(data)
		}
	}
	docOpts, err := documentOptions(app.config, app.logger)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.doc = engine.New(text, docOpts...)

	// 4. Script host
	app.host = script.New(app.doc,
		script.WithTimeout(app.config.Script.Timeout.Std()),
		script.WithCallStackSize(app.config.Script.CallStackSize),
		script.WithOutput(app.opts.ScriptOutput),
		script.WithLogger(app.logger))

	// 5. Watcher
	if app.opts.Watch {
		if err := app.startWatcher(); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}

	app.logger.Debug("application started",
		zap.String("path", app.path),
		zap.Stringer("document", app.doc.ID()))
	return nil
}

// documentOptions maps the editor settings onto Document options.
func documentOptions(cfg *config.Config, logger *zap.Logger) ([]engine.Option, error) {
	backend, err := buffer.ParseBackend(cfg.Editor.Backend)
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{
		engine.WithTabWidth(cfg.Editor.TabWidth),
		engine.WithBackend(backend),
		engine.WithKillRingSize(cfg.Editor.KillRingSize),
		engine.WithMaxDescription(cfg.History.MaxDescription),
		engine.WithLogger(logger),
	}
	if le, ok := cfg.Editor.ParsedLineEnding(); ok {
		opts = append(opts, engine.WithLineEnding(le))
	}
	return opts, nil
}

// startWatcher watches the directory holding the file, filtered to the
// file itself, so that replacing the file by rename is seen.
func (app *Application) startWatcher() error {
	if app.path == "" {
		return ErrNotWatching
	}
	w, err := watcher.New(
		watcher.WithLogger(app.logger),
		watcher.WithIgnore(app.config.Watcher.Ignore...),
		watcher.WithNotify(func(watcher.Token) {
			select {
			case app.refresh <- struct{}{}:
			default:
			}
		}))
	if err != nil {
		return err
	}
	app.watcher = w

	dir := filepath.Dir(app.path)
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	target := filepath.Join(dir, filepath.Base(app.path))
	app.token = watcher.NewToken()
	return w.WatchFiltered(dir, app.config.Watcher.Recursive, app.token, func(p string) bool {
		return p == target
	})
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Document returns the edited document.
func (app *Application) Document() *engine.Document {
	return app.doc
}

// RunScript runs the Lua script at path against the document.
func (app *Application) RunScript(ctx context.Context, path string) error {
	if err := app.host.RunFile(ctx, path); err != nil {
		return &OperationError{Op: "script", Target: path, Err: err}
	}
	return nil
}

// RunString runs inline Lua code against the document.
func (app *Application) RunString(ctx context.Context, code string) error {
	if err := app.host.RunString(ctx, code); err != nil {
		return &OperationError{Op: "script", Err: err}
	}
	return nil
}

// WriteText writes the document with its line ending to w.
func (app *Application) WriteText(w io.Writer) error {
	_, err := app.doc.WriteTo(w)
	return err
}

// Save writes the document to path, replacing it atomically.
func (app *Application) Save(path string) error {
	var buf bytes.Buffer
	if err := app.WriteText(&buf); err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &OperationError{Op: "write", Target: path, Err: err}
	}
	app.logger.Info("saved", zap.String("path", path), zap.Int("revision", int(app.doc.Revision())))
	return nil
}

// WriteHistory writes the edit tree to w, as JSON or as an indented tree.
func (app *Application) WriteHistory(w io.Writer, asJSON bool) error {
	data, err := app.doc.ExportHistory()
	if err != nil {
		return err
	}
	if asJSON {
		_, err := fmt.Fprintln(w, data)
		return err
	}
	sum, err := history.ParseSummary(data)
	if err != nil {
		return err
	}
	return sum.Render(w)
}

// WriteDiff writes a unified diff from revision from to the current
// revision.
func (app *Application) WriteDiff(w io.Writer, from history.RevisionID) error {
	to := app.doc.Revision()
	r, err := app.doc.Compare(from, to, linediff.DefaultOptions())
	if err != nil {
		return err
	}
	name := app.path
	if name == "" {
		name = "document"
	}
	_, err = io.WriteString(w, r.Unified(
		fmt.Sprintf("%s@%d", name, from),
		fmt.Sprintf("%s@%d", name, to)))
	return err
}

// Watch reloads the file into the document on every change until ctx is
// done or Shutdown is called.
func (app *Application) Watch(ctx context.Context) error {
	if app.watcher == nil {
		return ErrNotWatching
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-app.done:
			return ErrShutdown
		case <-app.refresh:
			app.handleRefresh()
		}
	}
}

// handleRefresh drains the watcher queue and reloads the file when one of
// the events belongs to this application.
func (app *Application) handleRefresh() {
	var ours bool
	for _, q := range app.watcher.Drain() {
		if q.Token != app.token {
			continue
		}
		ours = true
		app.logger.Debug("file event",
			zap.Strings("paths", q.Event.Paths),
			zap.Stringer("op", q.Event.Op))
	}
	if !ours {
		return
	}
	if err := app.Reload(); err != nil {
		app.logger.Warn("reload failed", zap.Error(err))
	}
}

// Reload rereads the file into the document as a new revision.
func (app *Application) Reload() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	data, err := os.ReadFile(app.path)
	if err != nil {
		return &OperationError{Op: "reload", Target: app.path, Err: err}
	}
	if _, changed := app.doc.Reload(string(data)); !changed {
		return nil
	}
	c := app.doc.Cursor().Range()
	app.logger.Info("reloaded",
		zap.String("path", app.path),
		zap.Int("revision", int(app.doc.Revision())),
		zap.Int("cursor", c.Start),
		zap.Int("column", app.doc.ColumnOffset()))
	return nil
}

// IsRunning reports whether Watch is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Shutdown stops Watch and releases every component. It is safe to call
// more than once.
func (app *Application) Shutdown() {
	app.shutOnce.Do(func() {
		close(app.done)
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil && app.logger != nil {
				app.logger.Warn("closing watcher", zap.Error(err))
			}
		}
		if app.host != nil {
			app.host.Close()
		}
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	})
}
