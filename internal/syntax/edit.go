// Package syntax turns Diff Records into the edit descriptors incremental
// parsers consume.
package syntax

import (
	"fmt"

	"github.com/dshills/editcore/internal/engine/buffer"
	"github.com/dshills/editcore/internal/engine/diff"
)

// Point is a row and a byte column, both zero based.
type Point struct {
	Row    uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// Edit describes one replaced byte range in the shape tree-sitter's
// InputEdit expects.
type Edit struct {
	StartByte  uint32
	OldEndByte uint32
	NewEndByte uint32

	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// EditFromDiff builds the Edit for d. before is the text d was applied to
// and after the text it produced.
func EditFromDiff(before, after buffer.View, d diff.Diff) Edit {
	return Edit{
		StartByte:   uint32(d.ByteIndex),
		OldEndByte:  uint32(d.OldByteEnd()),
		NewEndByte:  uint32(d.NewByteEnd()),
		StartPoint:  PointAt(before, d.ByteIndex),
		OldEndPoint: PointAt(before, d.OldByteEnd()),
		NewEndPoint: PointAt(after, d.NewByteEnd()),
	}
}

// PointAt returns the row and byte column of byte offset b in v. b is
// clamped to the text.
func PointAt(v buffer.View, b int) Point {
	b = min(max(b, 0), v.LenBytes())
	line := v.CharToLine(v.ByteToChar(b))
	return Point{
		Row:    uint32(line),
		Column: uint32(b - v.LineToByte(line)),
	}
}
