package source

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// ErrBadLineStarts reports line-start offsets that cannot form an index.
var ErrBadLineStarts = errors.New("invalid line start offsets")

// LineIndex maps byte offsets to zero-based line and column numbers.
// It is built once per file and never mutated.
type LineIndex struct {
	starts []uint32 // strictly increasing, starts[0] == 0
	max    uint32   // length of the indexed content
}

// RangeInfo describes a span in line/column terms (all zero-based).
type RangeInfo struct {
	StartLine   int
	StartColumn uint32
	EndLine     int
	EndColumn   uint32
}

// NewLineIndex builds the index from raw file content.
// Every '\n' starts a new line at the following byte.
func NewLineIndex(content []byte) *LineIndex {
	maxOff, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	starts := make([]uint32, 1, 1+len(content)/32)
	for i, b := range content {
		if b == '\n' {
			// i < len(content) уже проверено через maxOff
			starts = append(starts, uint32(i)+1) //nolint:gosec
		}
	}
	return &LineIndex{starts: starts, max: maxOff}
}

// LineIndexFromStarts builds the index from precomputed line-start offsets.
// The first start must be 0, starts must strictly increase and maxOffset must
// not precede the last start.
func LineIndexFromStarts(starts []uint32, maxOffset uint32) (*LineIndex, error) {
	if len(starts) == 0 || starts[0] != 0 {
		return nil, fmt.Errorf("%w: first line must start at 0", ErrBadLineStarts)
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			return nil, fmt.Errorf("%w: offset %d at line %d is not increasing", ErrBadLineStarts, starts[i], i)
		}
	}
	if last := starts[len(starts)-1]; maxOffset < last {
		return nil, fmt.Errorf("%w: max offset %d precedes last line start %d", ErrBadLineStarts, maxOffset, last)
	}
	return &LineIndex{starts: slices.Clone(starts), max: maxOffset}, nil
}

// LineCount returns the number of recorded lines (at least 1).
func (idx *LineIndex) LineCount() int {
	return len(idx.starts)
}

// LineStart returns the start offset of the given zero-based line.
func (idx *LineIndex) LineStart(line int) (uint32, bool) {
	if line < 0 || line >= len(idx.starts) {
		return 0, false
	}
	return idx.starts[line], true
}

// MaxOffset returns the largest offset the index accepts (content length).
func (idx *LineIndex) MaxOffset() uint32 {
	return idx.max
}

// LineOf returns the zero-based line containing off.
// An offset that is not a line start maps to the preceding line start.
// Offsets past MaxOffset are clamped to MaxOffset.
func (idx *LineIndex) LineOf(off uint32) int {
	off = min(off, idx.max)
	pos, found := slices.BinarySearch(idx.starts, off)
	if found {
		return pos
	}
	// starts[0] == 0, поэтому pos >= 1
	return pos - 1
}

// ColumnOf returns the zero-based byte column of off within its line.
// Offsets past MaxOffset are clamped to MaxOffset.
func (idx *LineIndex) ColumnOf(off uint32) uint32 {
	off = min(off, idx.max)
	return off - idx.starts[idx.LineOf(off)]
}

// Range resolves [begin, end) to line/column bounds.
func (idx *LineIndex) Range(begin, end uint32) (RangeInfo, error) {
	if begin > end {
		return RangeInfo{}, fmt.Errorf("invalid range %d..%d: begin after end", begin, end)
	}
	return RangeInfo{
		StartLine:   idx.LineOf(begin),
		StartColumn: idx.ColumnOf(begin),
		EndLine:     idx.LineOf(end),
		EndColumn:   idx.ColumnOf(end),
	}, nil
}

// Position converts off to a one-based LineCol.
func (idx *LineIndex) Position(off uint32) LineCol {
	line, err := safecast.Conv[uint32](idx.LineOf(off))
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: line + 1, Col: idx.ColumnOf(off) + 1}
}
