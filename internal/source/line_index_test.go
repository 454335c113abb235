package source

import (
	"errors"
	"testing"
)

func TestLineIndex_LineOfBoundaries(t *testing.T) {
	idx, err := LineIndexFromStarts([]uint32{0, 5, 12}, 20)
	if err != nil {
		t.Fatalf("LineIndexFromStarts: %v", err)
	}

	tests := []struct {
		off  uint32
		line int
		col  uint32
	}{
		{off: 0, line: 0, col: 0},
		{off: 4, line: 0, col: 4},
		{off: 5, line: 1, col: 0},
		{off: 11, line: 1, col: 6},
		{off: 12, line: 2, col: 0},
		{off: 20, line: 2, col: 8},
		// за пределами MaxOffset: зажимаем
		{off: 100, line: 2, col: 8},
	}
	for _, tt := range tests {
		if got := idx.LineOf(tt.off); got != tt.line {
			t.Errorf("LineOf(%d) = %d, want %d", tt.off, got, tt.line)
		}
		if got := idx.ColumnOf(tt.off); got != tt.col {
			t.Errorf("ColumnOf(%d) = %d, want %d", tt.off, got, tt.col)
		}
	}
}

func TestNewLineIndex(t *testing.T) {
	idx := NewLineIndex([]byte("ab\ncde\n\nf"))

	if idx.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", idx.LineCount())
	}
	wantStarts := []uint32{0, 3, 7, 8}
	for line, want := range wantStarts {
		got, ok := idx.LineStart(line)
		if !ok || got != want {
			t.Errorf("LineStart(%d) = %d,%v, want %d", line, got, ok, want)
		}
	}
	if _, ok := idx.LineStart(4); ok {
		t.Error("LineStart(4) should be out of range")
	}
	if idx.MaxOffset() != 9 {
		t.Errorf("MaxOffset = %d, want 9", idx.MaxOffset())
	}
	// '\n' belongs to the line it terminates
	if got := idx.LineOf(2); got != 0 {
		t.Errorf("LineOf(newline) = %d, want 0", got)
	}
}

func TestNewLineIndex_Empty(t *testing.T) {
	idx := NewLineIndex(nil)
	if idx.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", idx.LineCount())
	}
	if got := idx.Position(10); got != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("Position(10) = %+v, want 1:1", got)
	}
}

func TestLineIndexFromStarts_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		starts []uint32
		max    uint32
	}{
		{name: "empty", starts: nil, max: 0},
		{name: "first not zero", starts: []uint32{1, 4}, max: 10},
		{name: "not increasing", starts: []uint32{0, 4, 4}, max: 10},
		{name: "max before last start", starts: []uint32{0, 4, 9}, max: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LineIndexFromStarts(tt.starts, tt.max)
			if !errors.Is(err, ErrBadLineStarts) {
				t.Fatalf("expected ErrBadLineStarts, got %v", err)
			}
		})
	}
}

func TestLineIndex_Range(t *testing.T) {
	idx := NewLineIndex([]byte("fun a()\n  b\n"))

	got, err := idx.Range(4, 11)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	want := RangeInfo{StartLine: 0, StartColumn: 4, EndLine: 1, EndColumn: 3}
	if got != want {
		t.Errorf("Range = %+v, want %+v", got, want)
	}

	if _, err := idx.Range(5, 4); err == nil {
		t.Error("expected error for inverted range")
	}
}
