// Package script runs Lua edit scripts against a Document.
//
// Scripts see a global table named doc whose functions drive the bound
// Document: editing, motions, selections, history and the kill ring.
// Only the base, table, string and math libraries are loaded, and the
// base functions that read files or compile code are removed.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/editcore/internal/engine"
)

// Default limits for a Host.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultCallStackSize = 256
)

// Host owns a sandboxed Lua state bound to one Document.
//
// gopher-lua states are not goroutine-safe; the mutex serialises runs.
type Host struct {
	mu     sync.Mutex
	L      *lua.LState
	doc    *engine.Document
	closed bool

	timeout       time.Duration
	callStackSize int
	out           io.Writer
	logger        *zap.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithTimeout bounds each run. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithCallStackSize sets the Lua call stack depth.
func WithCallStackSize(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.callStackSize = n
		}
	}
}

// WithOutput sends print output to w. Without it print output is logged.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Host bound to doc.
func New(doc *engine.Document, opts ...Option) *Host {
	h := &Host{
		doc:           doc,
		timeout:       DefaultTimeout,
		callStackSize: DefaultCallStackSize,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("script")

	h.L = lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: h.callStackSize,
	})
	openSafeLibraries(h.L)
	h.installPrint()
	h.register()
	return h
}

// openSafeLibraries opens base, table, string and math, then strips the
// base functions that reach the file system or compile code.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print so output goes to the configured writer or
// the log.
func (h *Host) installPrint() {
	h.L.SetGlobal("print", h.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		line := strings.Join(parts, "\t")
		if h.out != nil {
			fmt.Fprintln(h.out, line)
		} else {
			h.logger.Info("print", zap.String("text", line))
		}
		return 0
	}))
}

// RunString runs code.
func (h *Host) RunString(ctx context.Context, code string) error {
	return h.run(ctx, "<string>", func() error { return h.L.DoString(code) })
}

// RunFile runs the script at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	return h.run(ctx, path, func() error { return h.L.DoFile(path) })
}

func (h *Host) run(ctx context.Context, source string, fn func() error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHostClosed
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{Source: source, Err: fmt.Errorf("lua panic: %v", r)}
		}
		if err != nil {
			h.logger.Warn("script failed", zap.String("source", source), zap.Error(err))
			return
		}
		h.logger.Debug("script finished",
			zap.String("source", source),
			zap.Duration("elapsed", time.Since(start)))
	}()

	if err := fn(); err != nil {
		switch cerr := ctx.Err(); {
		case errors.Is(cerr, context.DeadlineExceeded):
			return &ScriptError{Source: source, Err: ErrTimeout}
		case cerr != nil:
			return &ScriptError{Source: source, Err: cerr}
		}
		return &ScriptError{Source: source, Err: err}
	}
	return nil
}

// Close releases the Lua state. It is safe to call more than once.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.L.Close()
	h.closed = true
	return nil
}
