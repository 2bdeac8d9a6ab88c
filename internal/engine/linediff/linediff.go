// Package linediff computes line-based differences between two texts and
// renders them in unified diff format.
//
// The edit script comes from the Myers algorithm, run on the lines left
// after the common prefix and suffix are trimmed. Inputs whose trimmed
// middle exceeds Options.MaxLines are diffed as one replaced block.
package linediff

import (
	"strconv"
	"strings"

	"github.com/dshills/editcore/internal/engine/buffer"
)

// Options configures diff computation.
type Options struct {
	// ContextLines is the number of unchanged lines to include
	// around each change for context.
	ContextLines int

	// IgnoreCase performs case-insensitive comparison.
	IgnoreCase bool

	// IgnoreWhitespace ignores leading/trailing whitespace on each line.
	IgnoreWhitespace bool

	// MaxLines limits the number of lines handed to Myers. Zero disables
	// the limit.
	MaxLines int
}

// DefaultOptions returns default diff options.
func DefaultOptions() Options {
	return Options{
		ContextLines: 3,
		MaxLines:     10000,
	}
}

// Op is the kind of a diff line.
type Op uint8

const (
	// Equal marks an unchanged line.
	Equal Op = iota
	// Insert marks an added line.
	Insert
	// Delete marks a removed line.
	Delete
)

func (op Op) String() string {
	switch op {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// prefix is the unified diff marker for the op.
func (op Op) prefix() byte {
	switch op {
	case Insert:
		return '+'
	case Delete:
		return '-'
	default:
		return ' '
	}
}

// Line is one line of a hunk.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are zero
// based line numbers.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Result holds the hunks of a diff.
type Result struct {
	Hunks    []Hunk
	OldLines int
	NewLines int
}

// HasChanges reports whether the texts differ.
func (r Result) HasChanges() bool {
	return len(r.Hunks) > 0
}

// Inserted returns the number of added lines.
func (r Result) Inserted() int {
	return r.count(Insert)
}

// Deleted returns the number of removed lines.
func (r Result) Deleted() int {
	return r.count(Delete)
}

func (r Result) count(op Op) int {
	n := 0
	for _, h := range r.Hunks {
		for _, l := range h.Lines {
			if l.Op == op {
				n++
			}
		}
	}
	return n
}

// Compute diffs the lines of two views.
func Compute(before, after buffer.View, opts Options) Result {
	return diffLines(lines(before), lines(after), opts)
}

// ComputeStrings diffs the lines of two strings.
func ComputeStrings(before, after string, opts Options) Result {
	return diffLines(strings.Split(before, "\n"), strings.Split(after, "\n"), opts)
}

// lines splits v on '\n' without the newlines, like strings.Split.
func lines(v buffer.View) []string {
	n := v.LenLines()
	out := make([]string, n)
	for i := range n {
		out[i] = v.Slice(v.LineToChar(i), buffer.LineEnd(v, i))
	}
	return out
}

// edit is one step of an edit script. old and new are the line positions
// in each text before the step.
type edit struct {
	op       Op
	old, new int
}

func diffLines(a, b []string, opts Options) Result {
	eq := equalFunc(opts)

	pre := 0
	for pre < len(a) && pre < len(b) && eq(a[pre], b[pre]) {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && eq(a[len(a)-1-suf], b[len(b)-1-suf]) {
		suf++
	}

	script := make([]edit, 0, len(a)+len(b))
	for i := range pre {
		script = append(script, edit{Equal, i, i})
	}
	ma, mb := a[pre:len(a)-suf], b[pre:len(b)-suf]
	if opts.MaxLines > 0 && (len(ma) > opts.MaxLines || len(mb) > opts.MaxLines) {
		script = append(script, replaceAll(len(ma), len(mb), pre)...)
	} else {
		script = append(script, myers(ma, mb, pre, eq)...)
	}
	for i := range suf {
		script = append(script, edit{Equal, len(a) - suf + i, len(b) - suf + i})
	}

	return Result{
		Hunks:    hunks(a, b, script, max(opts.ContextLines, 0)),
		OldLines: len(a),
		NewLines: len(b),
	}
}

func equalFunc(opts Options) func(x, y string) bool {
	return func(x, y string) bool {
		if opts.IgnoreWhitespace {
			x, y = strings.TrimSpace(x), strings.TrimSpace(y)
		}
		if opts.IgnoreCase {
			return strings.EqualFold(x, y)
		}
		return x == y
	}
}

func replaceAll(n, m, base int) []edit {
	script := make([]edit, 0, n+m)
	for i := range n {
		script = append(script, edit{Delete, base + i, base})
	}
	for j := range m {
		script = append(script, edit{Insert, base + n, base + j})
	}
	return script
}

// myers returns the shortest edit script turning a into b. Positions are
// offset by base.
func myers(a, b []string, base int, eq func(x, y string) bool) []edit {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return replaceAll(n, m, base)
	}

	maxD := n + m
	offset := maxD
	v := make([]int, 2*maxD+1)
	var trace [][]int

outer:
	for d := 0; d <= maxD; d++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(a[x], b[y]) {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break outer
			}
		}
	}

	// Walk the trace backwards from (n, m).
	var script []edit
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, edit{Equal, base + x, base + y})
		}
		if d == 0 {
			break
		}
		if x > prevX {
			x--
			script = append(script, edit{Delete, base + x, base + y})
		} else {
			y--
			script = append(script, edit{Insert, base + x, base + y})
		}
	}
	for i, j := 0, len(script)-1; i < j; i, j = i+1, j-1 {
		script[i], script[j] = script[j], script[i]
	}
	return script
}

// hunks groups changes whose gap of equal lines is at most 2*ctx into one
// hunk, with up to ctx equal lines on each side.
func hunks(a, b []string, script []edit, ctx int) []Hunk {
	var out []Hunk
	i := 0
	for i < len(script) {
		if script[i].op == Equal {
			i++
			continue
		}
		start := max(i-ctx, 0)
		end := i
		for {
			for end < len(script) && script[end].op != Equal {
				end++
			}
			gap := end
			for gap < len(script) && script[gap].op == Equal {
				gap++
			}
			if gap == len(script) || gap-end > 2*ctx {
				end = min(end+ctx, gap)
				break
			}
			end = gap
		}

		h := Hunk{OldStart: script[start].old, NewStart: script[start].new}
		for _, e := range script[start:end] {
			switch e.op {
			case Equal:
				h.Lines = append(h.Lines, Line{Equal, a[e.old]})
				h.OldCount++
				h.NewCount++
			case Delete:
				h.Lines = append(h.Lines, Line{Delete, a[e.old]})
				h.OldCount++
			case Insert:
				h.Lines = append(h.Lines, Line{Insert, b[e.new]})
				h.NewCount++
			}
		}
		out = append(out, h)
		i = end
	}
	return out
}

// Unified returns the diff in unified diff format, or "" when the texts
// are equal.
func (r Result) Unified(oldName, newName string) string {
	if !r.HasChanges() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- " + oldName + "\n")
	sb.WriteString("+++ " + newName + "\n")
	for _, h := range r.Hunks {
		sb.WriteString("@@ -")
		sb.WriteString(rangeHeader(h.OldStart, h.OldCount))
		sb.WriteString(" +")
		sb.WriteString(rangeHeader(h.NewStart, h.NewCount))
		sb.WriteString(" @@\n")
		for _, l := range h.Lines {
			sb.WriteByte(l.Op.prefix())
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// rangeHeader formats a hunk range. An empty range names the line before
// it, as diff(1) does.
func rangeHeader(start, count int) string {
	if count == 0 {
		return strconv.Itoa(start) + ",0"
	}
	return strconv.Itoa(start+1) + "," + strconv.Itoa(count)
}
