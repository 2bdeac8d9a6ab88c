//go:build tree_sitter

package syntax

import (
	"context"
	"testing"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

func TestReparserTracksEdits(t *testing.T) {
	ctx := context.Background()
	text := buffer.NewBufferFromString("package p\n\nfunc f() {}\n")
	r, err := NewReparser(ctx, text)
	if err != nil {
		t.Fatal(err)
	}
	if r.HasError() {
		t.Fatalf("initial tree has errors: %s", r.SExpr())
	}

	before := text.Clone()
	text.Insert(text.LenChars()-1, " func")
	if err := r.Apply(ctx, before, text, diff.Between(before, text)); err != nil {
		t.Fatal(err)
	}
	if !r.HasError() {
		t.Errorf("dangling func should be an error: %s", r.SExpr())
	}

	before = text.Clone()
	text.Remove(text.LenChars()-6, text.LenChars()-1)
	if err := r.Apply(ctx, before, text, diff.Between(before, text)); err != nil {
		t.Fatal(err)
	}
	if r.HasError() {
		t.Errorf("tree should be clean again: %s", r.SExpr())
	}
}
