package buffer

import (
	"fmt"
	"strings"
)

// Backend names a Text implementation.
type Backend string

// Available backends.
const (
	BackendRope Backend = "rope"
	BackendGap  Backend = "gap"
)

// ParseBackend maps a configuration name to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "", BackendRope:
		return BackendRope, nil
	case BackendGap:
		return BackendGap, nil
	default:
		return "", fmt.Errorf("unknown buffer backend %q", name)
	}
}

// New creates a Text of the given backend holding s.
func New(backend Backend, s string, opts ...Option) Text {
	if backend == BackendGap {
		return NewGapBuffer(s)
	}
	return NewBufferFromString(s, opts...)
}
