package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/editcore/internal/engine"
)

func newHost(t *testing.T, text string, opts ...Option) (*Host, *engine.Document, *bytes.Buffer) {
	t.Helper()
	doc := engine.New(text)
	var out bytes.Buffer
	h := New(doc, append([]Option{WithOutput(&out)}, opts...)...)
	t.Cleanup(func() { h.Close() })
	return h, doc, &out
}

func TestEditing(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		code     string
		wantText string
		wantOut  string
	}{
		{
			name:     "insert at end",
			text:     "hello",
			code:     `doc.buffer_end() doc.insert(" world") print(doc.cursor())`,
			wantText: "hello world",
			wantOut:  "11\t11\n",
		},
		{
			name:     "newline and tab",
			text:     "a",
			code:     `doc.buffer_end() doc.newline() doc.tab() doc.insert("b")`,
			wantText: "a\n\tb",
		},
		{
			name:     "delete backward returns text",
			text:     "abc",
			code:     `doc.buffer_end() print(doc.delete_backward())`,
			wantText: "ab",
			wantOut:  "c\n",
		},
		{
			name:     "delete line",
			text:     "one\ntwo\n",
			code:     `doc.move("down") print(doc.delete_line())`,
			wantText: "one\n",
			wantOut:  "two\n\n",
		},
		{
			name:     "select all and delete",
			text:     "x\ny",
			code:     `doc.select_all() doc.delete_selection() print(#doc.text())`,
			wantText: "",
			wantOut:  "0\n",
		},
		{
			name:     "undo and redo",
			text:     "",
			code:     `doc.insert("a") doc.insert("b") print(doc.undo(), doc.text()) doc.redo() print(doc.revision())`,
			wantText: "ab",
			wantOut:  "true\ta\n2\n",
		},
		{
			name:     "clipboard",
			text:     "alpha beta",
			code:     `doc.begin_selection() doc.word("forward") print(doc.copy()) doc.clear_selection() doc.buffer_end() doc.paste()`,
			wantText: "alpha betaalpha ",
			wantOut:  "alpha \n",
		},
		{
			name:     "copy without selection",
			text:     "abc",
			code:     `print(doc.copy())`,
			wantText: "abc",
			wantOut:  "nil\n",
		},
		{
			name:     "multiple cursors",
			text:     "ab\ncd\n",
			code:     `doc.add_cursor(3) doc.insert("> ")`,
			wantText: "> ab\n> cd\n",
		},
		{
			name:     "column",
			text:     "\tx",
			code:     `doc.move("right") print(doc.column())`,
			wantText: "\tx",
			wantOut:  "4\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, doc, out := newHost(t, tt.text)
			if err := h.RunString(context.Background(), tt.code); err != nil {
				t.Fatalf("RunString() error = %v", err)
			}
			if got := doc.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := out.String(); got != tt.wantOut {
				t.Errorf("output = %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestBranchNavigation(t *testing.T) {
	h, doc, out := newHost(t, "")
	code := `
doc.insert("A") doc.undo()
doc.insert("B") doc.undo()
print(doc.prev_branch())
doc.redo()
doc.checkout(0)
print(doc.next_branch(), doc.next_branch())
`
	if err := h.RunString(context.Background(), code); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "1\n2\t1\n" {
		t.Errorf("output = %q", got)
	}
	if got := doc.Text(); got != "" {
		t.Errorf("text = %q", got)
	}
}

func TestSandbox(t *testing.T) {
	h, _, out := newHost(t, "")
	code := `print(io == nil, os == nil, dofile == nil, load == nil, require == nil, debug == nil)`
	if err := h.RunString(context.Background(), code); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != strings.Repeat("true\t", 5)+"true\n" {
		t.Errorf("output = %q", got)
	}
	out.Reset()
	if err := h.RunString(context.Background(), `print(string.rep("a", 2), math.max(1, 3), table.concat({"x", "y"}))`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "aa\t3\txy\n" {
		t.Errorf("output = %q", got)
	}
}

func TestScriptErrors(t *testing.T) {
	h, _, _ := newHost(t, "")

	err := h.RunString(context.Background(), `doc.move("sideways")`)
	var serr *ScriptError
	if !errors.As(err, &serr) || serr.Source != "<string>" {
		t.Fatalf("error = %v, want *ScriptError for <string>", err)
	}

	err = h.RunString(context.Background(), `doc.checkout(42)`)
	if !errors.As(err, &serr) || !strings.Contains(err.Error(), "revision not found") {
		t.Errorf("checkout error = %v", err)
	}
}

func TestTimeout(t *testing.T) {
	h, _, _ := newHost(t, "", WithTimeout(50*time.Millisecond))
	err := h.RunString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if err := h.RunString(context.Background(), `doc.insert("ok")`); err != nil {
		t.Errorf("host should be usable after a timeout: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	h, _, _ := newHost(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.RunString(ctx, `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.lua")
	if err := os.WriteFile(path, []byte(`doc.buffer_end() doc.insert(string.upper("!x"))`), 0o644); err != nil {
		t.Fatal(err)
	}
	h, doc, _ := newHost(t, "a")
	if err := h.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if got := doc.Text(); got != "a!X" {
		t.Errorf("text = %q", got)
	}

	err := h.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	var serr *ScriptError
	if !errors.As(err, &serr) || !strings.HasSuffix(serr.Source, "missing.lua") {
		t.Errorf("missing file error = %v", err)
	}
}

func TestClosedHost(t *testing.T) {
	h, _, _ := newHost(t, "")
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := h.RunString(context.Background(), `print(1)`); !errors.Is(err, ErrHostClosed) {
		t.Errorf("RunString after Close = %v", err)
	}
}
