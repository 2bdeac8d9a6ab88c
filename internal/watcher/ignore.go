package watcher

import (
	"path"
	"strings"
)

// Ignore matches paths against gitignore-style patterns:
//
//	*.log              files ending in .log at any depth
//	/build/            the build directory at the root only
//	**/node_modules/** anything under a node_modules directory
//	!keep.log          undo an earlier match
//
// Later patterns override earlier ones. The zero value ignores nothing.
type Ignore struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	glob     string
	negate   bool
	dirOnly  bool
	anchored bool
}

// Add appends patterns. Blank lines and lines starting with '#' are
// skipped.
func (ig *Ignore) Add(patterns ...string) {
	for _, p := range patterns {
		p = strings.TrimRight(p, " \t")
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		var ip ignorePattern
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			ip.negate, p = true, rest
		}
		if rest, ok := strings.CutSuffix(p, "/"); ok {
			ip.dirOnly, p = true, rest
		}
		if rest, ok := strings.CutPrefix(p, "/"); ok {
			ip.anchored, p = true, rest
		}
		// A slash in the middle also anchors the pattern.
		ip.anchored = ip.anchored || (strings.Contains(p, "/") && !strings.HasPrefix(p, "**/"))
		ip.glob = p
		ig.patterns = append(ig.patterns, ip)
	}
}

// Len returns the number of patterns.
func (ig *Ignore) Len() int {
	return len(ig.patterns)
}

// Match reports whether rel, a slash-separated path relative to the watch
// root, is ignored. isDir tells whether rel names a directory.
func (ig *Ignore) Match(rel string, isDir bool) bool {
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return false
	}
	ignored := false
	for _, p := range ig.patterns {
		if p.matches(rel, isDir) {
			ignored = !p.negate
		}
	}
	return ignored
}

func (p ignorePattern) matches(rel string, isDir bool) bool {
	parts := strings.Split(rel, "/")
	// A pattern matching a parent directory covers everything below it.
	for i := 1; i <= len(parts); i++ {
		prefix := strings.Join(parts[:i], "/")
		dir := i < len(parts) || isDir
		if p.dirOnly && !dir {
			continue
		}
		if p.matchOne(prefix) {
			return true
		}
	}
	return false
}

func (p ignorePattern) matchOne(rel string) bool {
	if p.anchored {
		return globMatch(p.glob, rel)
	}
	base := rel[strings.LastIndex(rel, "/")+1:]
	return globMatch(p.glob, base) || globMatch(p.glob, rel)
}

// globMatch is path.Match extended with "**", which matches any number of
// path segments.
func globMatch(pattern, name string) bool {
	if !strings.Contains(pattern, "**") {
		ok, _ := path.Match(pattern, name)
		return ok
	}
	head, tail, _ := strings.Cut(pattern, "**")
	head = strings.TrimSuffix(head, "/")
	tail = strings.TrimPrefix(tail, "/")

	segs := strings.Split(name, "/")
	for i := 0; i <= len(segs); i++ {
		if head != "" {
			if i == 0 {
				continue
			}
			if ok, _ := path.Match(head, strings.Join(segs[:i], "/")); !ok {
				continue
			}
		}
		for j := i; j <= len(segs); j++ {
			rest := strings.Join(segs[j:], "/")
			if tail == "" || globMatch(tail, rest) {
				return true
			}
		}
		if head == "" {
			break
		}
	}
	return false
}
