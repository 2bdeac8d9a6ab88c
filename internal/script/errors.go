package script

import (
	"errors"
	"fmt"
)

// Errors for script host operations.
var (
	// ErrHostClosed is returned when running a script on a closed host.
	ErrHostClosed = errors.New("script host is closed")

	// ErrTimeout is returned when a script outlives its timeout.
	ErrTimeout = errors.New("script timed out")
)

// ScriptError wraps a failure while running a script.
type ScriptError struct {
	// Source names the script: a file path or "<string>".
	Source string
	// Err is the underlying error.
	Err error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
