package diag

import (
	"slices"
	"strings"
)

// Bag collects diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max, 64)), max: max}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если лимит достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Items returns the internal slice. Do not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	b.max = max(b.max, len(b.items)+len(other.items))
	b.items = append(b.items, other.items...)
}

// Sort orders by file, start, end, severity (errors first), code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(di, dj Diagnostic) int {
		switch {
		case di.Primary.File != dj.Primary.File:
			return cmpInt(int(di.Primary.File), int(dj.Primary.File))
		case di.Primary.Start != dj.Primary.Start:
			return cmpInt(int(di.Primary.Start), int(dj.Primary.Start))
		case di.Primary.End != dj.Primary.End:
			return cmpInt(int(di.Primary.End), int(dj.Primary.End))
		case di.Severity != dj.Severity:
			return cmpInt(int(dj.Severity), int(di.Severity))
		}
		return strings.Compare(di.Code.ID(), dj.Code.ID())
	})
}

// Dedup drops repeats of the same code, span and message.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span string
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		k := key{d.Code, d.Primary.String(), d.Message}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
