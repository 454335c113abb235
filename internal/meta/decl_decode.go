package meta

import "fmt"

// Resolved declaration forms. They carry printable names and types only and
// are what the dump printer consumes.

type TypeParamDecl struct {
	Name        string
	Variance    Variance
	Reified     bool
	UpperBounds []TypeRef
}

type ParamDecl struct {
	Name  string
	Type  TypeRef
	IsVar bool
}

type ConstructorDecl struct {
	Flags      DecodedFlags
	Parameters []ParamDecl
}

type FunctionDecl struct {
	Name           string
	Flags          DecodedFlags
	TypeParameters []TypeParamDecl
	Parameters     []ParamDecl
}

type PropertyDecl struct {
	Name  string
	Flags DecodedFlags
	Type  TypeRef
}

type ClassDecl struct {
	Name           string // fully qualified
	ShortName      string
	Flags          DecodedFlags
	TypeParameters []TypeParamDecl
	Supertypes     []TypeRef
	Constructors   []ConstructorDecl
	Functions      []FunctionDecl
	Properties     []PropertyDecl
}

// PrimaryConstructor returns the first constructor not flagged secondary.
func (c *ClassDecl) PrimaryConstructor() (ConstructorDecl, bool) {
	for _, ctor := range c.Constructors {
		if !ctor.Flags.IsSecondary {
			return ctor, true
		}
	}
	return ConstructorDecl{}, false
}

// SecondaryConstructors returns every constructor except the primary one,
// in declaration order.
func (c *ClassDecl) SecondaryConstructors() []ConstructorDecl {
	out := make([]ConstructorDecl, 0, len(c.Constructors))
	primaryTaken := false
	for _, ctor := range c.Constructors {
		if !ctor.Flags.IsSecondary && !primaryTaken {
			primaryTaken = true
			continue
		}
		out = append(out, ctor)
	}
	return out
}

// Package is a fully resolved fragment.
type Package struct {
	Classes    []ClassDecl
	Functions  []FunctionDecl
	Properties []PropertyDecl
}

// DecodeFragment resolves every declaration in f.
func DecodeFragment(f *Fragment) (*Package, error) {
	d := NewDecoder(f.Tables)
	pkg := &Package{
		Classes:    make([]ClassDecl, 0, len(f.Classes)),
		Functions:  make([]FunctionDecl, 0, len(f.Functions)),
		Properties: make([]PropertyDecl, 0, len(f.Properties)),
	}
	for i := range f.Classes {
		c, err := d.DecodeClass(&f.Classes[i])
		if err != nil {
			return nil, fmt.Errorf("class #%d: %w", i, err)
		}
		pkg.Classes = append(pkg.Classes, c)
	}
	for i := range f.Functions {
		fn, err := d.DecodeFunction(&f.Functions[i])
		if err != nil {
			return nil, fmt.Errorf("function #%d: %w", i, err)
		}
		pkg.Functions = append(pkg.Functions, fn)
	}
	for i := range f.Properties {
		p, err := d.DecodeProperty(&f.Properties[i])
		if err != nil {
			return nil, fmt.Errorf("property #%d: %w", i, err)
		}
		pkg.Properties = append(pkg.Properties, p)
	}
	return pkg, nil
}

// DecodeClass resolves a class and all of its members.
func (d *Decoder) DecodeClass(c *Class) (ClassDecl, error) {
	flags, err := DecodeFlags(c.Flags)
	if err != nil {
		return ClassDecl{}, err
	}
	name, err := d.ResolveName(c.FqName)
	if err != nil {
		return ClassDecl{}, err
	}
	short, err := d.ShortName(c.FqName)
	if err != nil {
		return ClassDecl{}, err
	}
	tps, err := d.decodeTypeParameters(c.TypeParameters)
	if err != nil {
		return ClassDecl{}, err
	}
	supers, err := d.resolveTypes(c.Supertypes)
	if err != nil {
		return ClassDecl{}, err
	}
	out := ClassDecl{
		Name:           name,
		ShortName:      short,
		Flags:          flags,
		TypeParameters: tps,
		Supertypes:     supers,
		Constructors:   make([]ConstructorDecl, 0, len(c.Constructors)),
		Functions:      make([]FunctionDecl, 0, len(c.Functions)),
		Properties:     make([]PropertyDecl, 0, len(c.Properties)),
	}
	for i := range c.Constructors {
		ctor, err := d.DecodeConstructor(&c.Constructors[i])
		if err != nil {
			return ClassDecl{}, fmt.Errorf("%s constructor #%d: %w", name, i, err)
		}
		out.Constructors = append(out.Constructors, ctor)
	}
	for i := range c.Functions {
		fn, err := d.DecodeFunction(&c.Functions[i])
		if err != nil {
			return ClassDecl{}, fmt.Errorf("%s function #%d: %w", name, i, err)
		}
		out.Functions = append(out.Functions, fn)
	}
	for i := range c.Properties {
		p, err := d.DecodeProperty(&c.Properties[i])
		if err != nil {
			return ClassDecl{}, fmt.Errorf("%s property #%d: %w", name, i, err)
		}
		out.Properties = append(out.Properties, p)
	}
	return out, nil
}

// DecodeFunction resolves a function.
func (d *Decoder) DecodeFunction(f *Function) (FunctionDecl, error) {
	flags, err := DecodeFlags(f.Flags)
	if err != nil {
		return FunctionDecl{}, err
	}
	name, err := d.tables.Strings.StringAt(f.Name)
	if err != nil {
		return FunctionDecl{}, err
	}
	tps, err := d.decodeTypeParameters(f.TypeParameters)
	if err != nil {
		return FunctionDecl{}, err
	}
	params, err := d.decodeValueParameters(f.ValueParameters)
	if err != nil {
		return FunctionDecl{}, err
	}
	return FunctionDecl{Name: name, Flags: flags, TypeParameters: tps, Parameters: params}, nil
}

// DecodeProperty resolves a property.
func (d *Decoder) DecodeProperty(p *Property) (PropertyDecl, error) {
	flags, err := DecodeFlags(p.Flags)
	if err != nil {
		return PropertyDecl{}, err
	}
	name, err := d.tables.Strings.StringAt(p.Name)
	if err != nil {
		return PropertyDecl{}, err
	}
	ty, err := d.ResolveType(p.ReturnType)
	if err != nil {
		return PropertyDecl{}, err
	}
	return PropertyDecl{Name: name, Flags: flags, Type: ty}, nil
}

// DecodeConstructor resolves a constructor.
func (d *Decoder) DecodeConstructor(c *Constructor) (ConstructorDecl, error) {
	flags, err := DecodeFlags(c.Flags)
	if err != nil {
		return ConstructorDecl{}, err
	}
	params, err := d.decodeValueParameters(c.ValueParameters)
	if err != nil {
		return ConstructorDecl{}, err
	}
	return ConstructorDecl{Flags: flags, Parameters: params}, nil
}

func (d *Decoder) decodeTypeParameters(tps []TypeParameter) ([]TypeParamDecl, error) {
	out := make([]TypeParamDecl, 0, len(tps))
	for _, tp := range tps {
		name, err := d.tables.Strings.StringAt(tp.Name)
		if err != nil {
			return nil, err
		}
		variance, err := DecodeVariance(tp.Variance)
		if err != nil {
			return nil, err
		}
		bounds, err := d.resolveTypes(tp.UpperBounds)
		if err != nil {
			return nil, err
		}
		out = append(out, TypeParamDecl{Name: name, Variance: variance, Reified: tp.Reified, UpperBounds: bounds})
	}
	return out, nil
}

func (d *Decoder) decodeValueParameters(vps []ValueParameter) ([]ParamDecl, error) {
	out := make([]ParamDecl, 0, len(vps))
	for _, vp := range vps {
		name, err := d.tables.Strings.StringAt(vp.Name)
		if err != nil {
			return nil, err
		}
		ty, err := d.ResolveType(vp.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, ParamDecl{Name: name, Type: ty, IsVar: vp.IsVar})
	}
	return out, nil
}
