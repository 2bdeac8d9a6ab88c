package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/editcore/internal/engine"
	"github.com/dshills/editcore/internal/engine/diff"
	"github.com/dshills/editcore/internal/engine/history"
)

// register installs the global doc table.
func (h *Host) register() {
	d := h.doc
	mod := h.L.SetFuncs(h.L.NewTable(), map[string]lua.LGFunction{
		"insert": func(L *lua.LState) int {
			d.InsertText(L.CheckString(1))
			return 0
		},
		"indent": func(L *lua.LState) int {
			d.Indent(L.CheckString(1))
			return 0
		},
		"newline":          do(d.InsertNewLine),
		"tab":              do(d.InsertTab),
		"unindent":         do(d.Unindent),
		"delete_forward":   deleted(d.DeleteForward),
		"delete_backward":  deleted(d.DeleteBackward),
		"delete_selection": deleted(d.DeleteSelection),
		"delete_line":      deleted(d.DeleteLine),

		"begin_selection": call(d.BeginSelection),
		"clear_selection": call(d.ClearSelection),
		"select_all":      call(d.SelectAll),
		"add_cursor": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.AddCursorAt(L.CheckInt(1))))
			return 1
		},
		"clear_cursors": call(d.ClearSecondary),

		"move": func(L *lua.LState) int {
			dir := L.CheckString(1)
			switch engine.Motion(dir) {
			case engine.MotionLeft, engine.MotionRight, engine.MotionUp, engine.MotionDown:
			default:
				L.ArgError(1, "direction must be left, right, up or down")
				return 0
			}
			move(L, d, engine.Motion(dir), L.OptInt(2, 1))
			return 0
		},
		"word": func(L *lua.LState) int {
			move(L, d, directed(L, engine.MotionWordForward, engine.MotionWordBackward), L.OptInt(2, 1))
			return 0
		},
		"paragraph": func(L *lua.LState) int {
			move(L, d, directed(L, engine.MotionParagraphForward, engine.MotionParagraphBackward), L.OptInt(2, 1))
			return 0
		},
		"page": func(L *lua.LState) int {
			move(L, d, directed(L, engine.MotionPageDown, engine.MotionPageUp), L.CheckInt(2))
			return 0
		},
		"goto": func(L *lua.LState) int {
			d.MoveTo(L.CheckInt(1))
			return 0
		},
		"line_start":   motion(d, engine.MotionLineStart),
		"line_end":     motion(d, engine.MotionLineEnd),
		"buffer_start": motion(d, engine.MotionBufferStart),
		"buffer_end":   motion(d, engine.MotionBufferEnd),

		"undo": func(L *lua.LState) int {
			L.Push(lua.LBool(d.Undo()))
			return 1
		},
		"redo": func(L *lua.LState) int {
			L.Push(lua.LBool(d.Redo()))
			return 1
		},
		"prev_branch": branch(d.PreviousChildRevision),
		"next_branch": branch(d.NextChildRevision),
		"checkout": func(L *lua.LState) int {
			if err := d.Checkout(history.RevisionID(L.CheckInt(1))); err != nil {
				L.RaiseError("checkout: %v", err)
			}
			return 0
		},
		"revision": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.Revision()))
			return 1
		},

		"copy": func(L *lua.LState) int {
			s, ok := d.Copy()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(s))
			return 1
		},
		"cut":   deleted(d.Cut),
		"paste": do(d.Paste),
		"yank_pop": func(L *lua.LState) int {
			_, err := d.YankPop()
			L.Push(lua.LBool(err == nil))
			return 1
		},

		"text": func(L *lua.LState) int {
			L.Push(lua.LString(d.Text()))
			return 1
		},
		"cursor": func(L *lua.LState) int {
			r := d.Cursor().Range()
			L.Push(lua.LNumber(r.Start))
			L.Push(lua.LNumber(r.End))
			return 2
		},
		"selection": func(L *lua.LState) int {
			r := d.Cursor().Selection()
			L.Push(lua.LNumber(r.Start))
			L.Push(lua.LNumber(r.End))
			return 2
		},
		"column": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.ColumnOffset()))
			return 1
		},
	})
	h.L.SetGlobal("doc", mod)
}

// do adapts a Document method whose result scripts do not need.
func do[T any](fn func() T) lua.LGFunction {
	return func(*lua.LState) int {
		fn()
		return 0
	}
}

func call(fn func()) lua.LGFunction {
	return func(*lua.LState) int {
		fn()
		return 0
	}
}

// deleted adapts a deleting method to return the removed text.
func deleted(fn func() diff.DeleteResult) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LString(fn().Deleted))
		return 1
	}
}

func branch(fn func() (history.RevisionID, bool)) lua.LGFunction {
	return func(L *lua.LState) int {
		id, ok := fn()
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(id))
		return 1
	}
}

func motion(d *engine.Document, m engine.Motion) lua.LGFunction {
	return func(L *lua.LState) int {
		move(L, d, m, 1)
		return 0
	}
}

// directed reads a "forward" or "backward" argument.
func directed(L *lua.LState, forward, backward engine.Motion) engine.Motion {
	switch dir := L.OptString(1, "forward"); dir {
	case "forward", "down":
		return forward
	case "backward", "up":
		return backward
	default:
		L.ArgError(1, "direction must be forward or backward")
		return ""
	}
}

func move(L *lua.LState, d *engine.Document, m engine.Motion, n int) {
	if err := d.Move(m, n); err != nil {
		L.RaiseError("move: %v", err)
	}
}
