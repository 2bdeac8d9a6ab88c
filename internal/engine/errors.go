package engine

import (
	"errors"

	"github.com/dshills/editcore/internal/engine/history"
)

// Errors returned by document operations.
var (
	// ErrUnknownMotion indicates a motion name Move does not recognize.
	ErrUnknownMotion = errors.New("unknown motion")

	// ErrNothingToYank indicates YankPop was called without a preceding
	// Paste at the current revision.
	ErrNothingToYank = errors.New("nothing to yank")

	// ErrRevisionNotFound indicates a revision was not found.
	ErrRevisionNotFound = history.ErrRevisionNotFound
)
