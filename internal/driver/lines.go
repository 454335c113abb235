package driver

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"metair/internal/source"
)

// LinePosition is the location of one byte offset. Line and Column are
// 0-based; Column counts bytes and Width counts terminal cells up to the
// offset. Clamped is set when Offset was past the end of the file.
type LinePosition struct {
	Offset  uint32
	Line    int
	Column  uint32
	Width   int
	Clamped bool
}

func (p LinePosition) String() string {
	s := fmt.Sprintf("%d\t%d:%d", p.Offset, p.Line, p.Column)
	if p.Width != int(p.Column) {
		s += fmt.Sprintf("\tcells %d", p.Width)
	}
	if p.Clamped {
		s += "\t(clamped)"
	}
	return s
}

// Lines loads path and locates each offset in it.
func Lines(path string, offsets []uint32) ([]LinePosition, error) {
	fs := source.NewFileSet()
	id, err := fs.LoadBinary(path)
	if err != nil {
		return nil, err
	}
	f := fs.Get(id)
	idx := f.Lines
	out := make([]LinePosition, len(offsets))
	for i, off := range offsets {
		line := idx.LineOf(off)
		col := idx.ColumnOf(off)
		start, _ := idx.LineStart(line)
		out[i] = LinePosition{
			Offset:  off,
			Line:    line,
			Column:  col,
			Width:   runewidth.StringWidth(string(f.Content[start : start+col])),
			Clamped: off > idx.MaxOffset(),
		}
	}
	return out, nil
}
