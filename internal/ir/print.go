package ir

import (
	"fmt"
	"io"
	"strings"

	"metair/internal/source"
)

// Printer dumps an IR tree as indented text, one node per line.
type Printer struct {
	w      io.Writer
	names  *source.Interner
	indent int
	err    error
}

// NewPrinter creates a printer. names resolves callable and variable names;
// it may be nil, in which case ids are printed.
func NewPrinter(w io.Writer, names *source.Interner) *Printer {
	return &Printer{w: w, names: names}
}

// Dump writes root and its subtree to w.
func Dump(w io.Writer, root Node, names *source.Interner) error {
	p := NewPrinter(w, names)
	p.Visit(root)
	return p.err
}

// Visit prints n and then its children one level deeper.
func (p *Printer) Visit(n Node) {
	if p.err != nil {
		return
	}
	p.printf("%s%s\n", strings.Repeat("  ", p.indent), p.describe(n))
	p.indent++
	if err := AcceptChildren(n, p); err != nil && p.err == nil {
		p.err = err
	}
	p.indent--
}

func (p *Printer) describe(n Node) string {
	var attrs string
	switch n := n.(type) {
	case *File:
		attrs = fmt.Sprintf(" id=%d path=%q", n.ID, n.Path)
	case *Function:
		attrs = " " + p.name(n.Name)
		if n.Body == nil {
			attrs += " external"
		}
	case *Variable:
		attrs = fmt.Sprintf(" %s: %s", p.name(n.Name), n.Type)
	case *Block:
		attrs = fmt.Sprintf(" len=%d", len(n.Statements))
	case *ReturnableBlock:
		attrs = fmt.Sprintf(" %s file=%d len=%d", p.name(n.Callable), n.File, len(n.Statements))
	case *Const:
		attrs = fmt.Sprintf(" %s %s", n.Type, n.Value)
	case *GetValue:
		if n.Variable != nil {
			attrs = " " + p.name(n.Variable.Name)
		}
	case *Call:
		attrs = " " + p.name(n.Callee)
	case *Return:
		attrs = " from " + p.name(n.Target)
	}
	return fmt.Sprintf("%s%s @%s", n.Kind(), attrs, n.Span())
}

func (p *Printer) name(id source.StringID) string {
	if p.names != nil {
		if s, ok := p.names.Lookup(id); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = err
	}
}
