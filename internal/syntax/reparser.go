//go:build tree_sitter

package syntax

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

// Reparser keeps a Go syntax tree in step with a document by feeding each
// Diff Record to tree-sitter as an incremental edit.
type Reparser struct {
	mu     sync.Mutex
	parser *sitter.Parser
	tree   *sitter.Tree
}

// NewReparser parses the initial text with the Go grammar.
func NewReparser(ctx context.Context, v buffer.View) (*Reparser, error) {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, []byte(v.String()))
	if err != nil {
		return nil, fmt.Errorf("initial parse: %w", err)
	}
	return &Reparser{parser: p, tree: tree}, nil
}

// Apply records d against the current tree and reparses after, reusing
// the unchanged parts of the old tree.
func (r *Reparser) Apply(ctx context.Context, before, after buffer.View, d diff.Diff) error {
	if d.IsEmpty() {
		return nil
	}
	e := EditFromDiff(before, after, d)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree.Edit(sitter.EditInput{
		StartIndex:  e.StartByte,
		OldEndIndex: e.OldEndByte,
		NewEndIndex: e.NewEndByte,
		StartPoint:  sitter.Point{Row: e.StartPoint.Row, Column: e.StartPoint.Column},
		OldEndPoint: sitter.Point{Row: e.OldEndPoint.Row, Column: e.OldEndPoint.Column},
		NewEndPoint: sitter.Point{Row: e.NewEndPoint.Row, Column: e.NewEndPoint.Column},
	})
	tree, err := r.parser.ParseCtx(ctx, r.tree, []byte(after.String()))
	if err != nil {
		return fmt.Errorf("reparse: %w", err)
	}
	r.tree = tree
	return nil
}

// SExpr returns the tree as an s-expression.
func (r *Reparser) SExpr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.RootNode().String()
}

// HasError reports whether the current tree contains syntax errors.
func (r *Reparser) HasError() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.RootNode().HasError()
}
