package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/grapheme"
	"github.com/dshills/editcore/internal/engine/history"
	"github.com/dshills/editcore/internal/engine/killring"
)

// Default configuration values.
const (
	DefaultTabWidth     = grapheme.TabWidth
	DefaultKillRingSize = killring.DefaultSize
)

// Option configures a Document during creation.
type Option func(*Document)

// WithTabWidth sets the tab stop used for columns and vertical movement.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithBackend selects the buffer implementation.
func WithBackend(b buffer.Backend) Option {
	return func(d *Document) {
		d.backend = b
	}
}

// WithLineEnding sets the line ending used when the document is written
// out. By default it is detected from the initial text.
func WithLineEnding(le buffer.LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
		d.lineEndingSet = true
	}
}

// WithKillRingSize sets how many cut and copied texts are remembered.
func WithKillRingSize(n int) Option {
	return func(d *Document) {
		if n > 0 {
			d.killRingSize = n
		}
	}
}

// WithMaxDescription limits the length of revision descriptions.
func WithMaxDescription(n int) Option {
	return func(d *Document) {
		d.historyOpts = append(d.historyOpts, history.WithMaxDescription(n))
	}
}

// WithClock sets the source of revision timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Document) {
		d.historyOpts = append(d.historyOpts, history.WithClock(now))
	}
}

// WithLogger sets the logger for history and reload events.
func WithLogger(l *zap.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}
