// Package grapheme locates extended grapheme cluster boundaries in a text
// buffer and measures the display width of text.
//
// Boundaries are char indices. Cursor endpoints are always boundaries, so
// every raw index produced by arithmetic is passed through Prev, Next or
// Align before it is stored. All functions clamp out-of-range indices.
package grapheme

import (
	"iter"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// window bounds how many chars after an index are segmented when looking
// for the next boundary. Clusters longer than this are split.
const window = 64

const zwj = '\u200d'

// Cluster is one grapheme cluster of a buffer.
type Cluster struct {
	Start int    // char index of the first char
	End   int    // char index past the last char
	Text  string // the cluster's text
}

// segmentStart returns a boundary at or before idx. It starts at most
// window chars back, or at the start of idx's line, and backs up further
// while the pair of chars around the candidate may join into one cluster.
// A line break always ends a cluster.
func segmentStart(v buffer.View, idx int) int {
	lineStart := v.LineToChar(v.CharToLine(idx))
	lo := max(lineStart, idx-window)
	for lo > lineStart && !breaksBefore(v, lo) {
		lo--
	}
	return lo
}

// breaksBefore reports whether the two chars around idx alone force a
// cluster boundary there. Emoji ZWJ sequences and regional indicator
// pairs depend on earlier text: a ZWJ on the left never qualifies, and two
// indicators never segment apart in isolation.
func breaksBefore(v buffer.View, idx int) bool {
	pair := v.Slice(idx-1, idx+1)
	if r, _ := utf8.DecodeRuneInString(pair); r == zwj {
		return false
	}
	return uniseg.GraphemeClusterCount(pair) == 2
}

// Prev returns the last boundary strictly before idx, or 0.
func Prev(v buffer.View, idx int) int {
	n := v.LenChars()
	idx = min(idx, n)
	if idx <= 0 {
		return 0
	}
	lo := segmentStart(v, idx-1)
	prev := lo
	for c := range scan(v.Slice(lo, idx), lo) {
		prev = c.Start
	}
	return prev
}

// Next returns the first boundary strictly after idx, or LenChars.
func Next(v buffer.View, idx int) int {
	n := v.LenChars()
	idx = max(idx, 0)
	if idx >= n {
		return n
	}
	lo := segmentStart(v, idx)
	hi := min(n, idx+window)
	for c := range scan(v.Slice(lo, hi), lo) {
		if c.End > idx {
			return c.End
		}
	}
	return hi
}

// IsBoundary reports whether idx falls between two clusters.
func IsBoundary(v buffer.View, idx int) bool {
	if idx <= 0 || idx >= v.LenChars() {
		return true
	}
	return Next(v, idx-1) == idx
}

// Align snaps idx to the start of the cluster that contains it.
func Align(v buffer.View, idx int) int {
	idx = min(max(idx, 0), v.LenChars())
	if IsBoundary(v, idx) {
		return idx
	}
	return Prev(v, idx)
}

// Clusters iterates over the clusters between the boundaries start and end.
func Clusters(v buffer.View, start, end int) iter.Seq[Cluster] {
	start = min(max(start, 0), v.LenChars())
	end = min(max(end, start), v.LenChars())
	return scan(v.Slice(start, end), start)
}

// Count returns the number of clusters in s.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// scan segments s, reporting clusters with char indices offset by base.
func scan(s string, base int) iter.Seq[Cluster] {
	return func(yield func(Cluster) bool) {
		state := -1
		pos := base
		for len(s) > 0 {
			var cluster string
			cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
			n := utf8.RuneCountInString(cluster)
			if !yield(Cluster{Start: pos, End: pos + n, Text: cluster}) {
				return
			}
			pos += n
		}
	}
}
