package config

import (
	"errors"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// Validate reports every setting outside its allowed values, joined into
// one error. Each part is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, value any, msg string) {
		errs = append(errs, &ValidationError{Field: field, Value: value, Message: msg})
	}

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		add("editor.tab_width", c.Editor.TabWidth, "must be between 1 and 16")
	}
	if _, err := buffer.ParseBackend(c.Editor.Backend); err != nil {
		add("editor.backend", c.Editor.Backend, `must be "rope" or "gap"`)
	}
	if c.Editor.LineEnding != "auto" {
		if _, ok := buffer.ParseLineEnding(c.Editor.LineEnding); !ok {
			add("editor.line_ending", c.Editor.LineEnding, `must be "auto", "lf", "crlf" or "cr"`)
		}
	}
	if c.Editor.KillRingSize < 1 {
		add("editor.kill_ring_size", c.Editor.KillRingSize, "must be positive")
	}
	if c.History.MaxDescription < 0 {
		add("history.max_description", c.History.MaxDescription, "must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", c.Logging.Level, err.Error())
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		add("logging.format", c.Logging.Format, `must be "console" or "json"`)
	}
	if c.Script.CallStackSize < 1 {
		add("script.call_stack_size", c.Script.CallStackSize, "must be positive")
	}
	if time.Duration(c.Script.Timeout) < 0 {
		add("script.timeout", c.Script.Timeout, "must not be negative")
	}
	return errors.Join(errs...)
}

// ParsedLineEnding returns the configured line ending and whether one is set.
// "auto" reports false.
func (e Editor) ParsedLineEnding() (buffer.LineEnding, bool) {
	if e.LineEnding == "auto" {
		return buffer.LineEndingLF, false
	}
	return buffer.ParseLineEnding(e.LineEnding)
}
