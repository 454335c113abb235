package dump

import (
	"bytes"
	"fmt"
	"io"

	"metair/internal/meta"
)

const (
	classesHeader    = "//--- Classes ----------------------------------------//"
	functionsHeader  = "//--- Functions --------------------------------------//"
	propertiesHeader = "//--- Properties -------------------------------------//"

	// Terminator is the last line of a complete dump.
	Terminator = "Ok"
)

// Printer writes dump text. The first write error is kept and reported by
// the Print* methods; later writes are skipped.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Render decodes f and returns its complete dump.
func Render(f *meta.Fragment) ([]byte, error) {
	pkg, err := meta.DecodeFragment(f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := NewPrinter(&buf).PrintPackage(pkg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PrintPackage writes all three sections and the terminator.
func (p *Printer) PrintPackage(pkg *meta.Package) error {
	p.section(classesHeader)
	for i := range pkg.Classes {
		p.printClass(&pkg.Classes[i])
	}

	p.section(functionsHeader)
	for i := range pkg.Functions {
		p.println(Function(&pkg.Functions[i]))
	}

	p.section(propertiesHeader)
	for i := range pkg.Properties {
		p.println(Property(&pkg.Properties[i]))
	}

	p.println(Terminator)
	return p.err
}

// PrintClass writes one class block without a trailing blank line.
func (p *Printer) PrintClass(c *meta.ClassDecl) error {
	p.classBody(c)
	return p.err
}

func (p *Printer) printClass(c *meta.ClassDecl) {
	p.classBody(c)
	p.println("")
}

func (p *Printer) classBody(c *meta.ClassDecl) {
	p.println(ClassHeader(c))
	for _, ctor := range c.SecondaryConstructors() {
		p.println(Constructor(&ctor))
	}
	for i := range c.Functions {
		p.println(Function(&c.Functions[i]))
	}
	for i := range c.Properties {
		p.println(Property(&c.Properties[i]))
	}
	p.println("}")
}

// section writes a header surrounded by blank lines.
func (p *Printer) section(header string) {
	p.printf("\n%s\n\n", header)
}

func (p *Printer) println(line string) {
	p.printf("%s\n", line)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = err
	}
}
