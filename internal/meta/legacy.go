package meta

// Inline generation: declarations embed type data directly instead of
// pointing into a type table. MigrateInline is the only place that knows
// about this layout.

// InlineType is a type embedded in an inline-generation declaration.
type InlineType struct {
	ClassName         int  `msgpack:"class_name"`
	Nullable          bool `msgpack:"nullable,omitempty"`
	TypeParameterName int  `msgpack:"type_parameter_name"`
}

type InlineClass struct {
	FqName         int                   `msgpack:"fq_name"`
	Flags          Flags                 `msgpack:"flags"`
	TypeParameters []InlineTypeParameter `msgpack:"type_parameters,omitempty"`
	Supertypes     []InlineType          `msgpack:"supertypes,omitempty"`
	Constructors   []InlineConstructor   `msgpack:"constructors,omitempty"`
	Functions      []InlineFunction      `msgpack:"functions,omitempty"`
	Properties     []InlineProperty      `msgpack:"properties,omitempty"`
}

type InlineFunction struct {
	Name            int                    `msgpack:"name"`
	Flags           Flags                  `msgpack:"flags"`
	TypeParameters  []InlineTypeParameter  `msgpack:"type_parameters,omitempty"`
	ValueParameters []InlineValueParameter `msgpack:"value_parameters,omitempty"`
}

type InlineProperty struct {
	Name       int        `msgpack:"name"`
	Flags      Flags      `msgpack:"flags"`
	ReturnType InlineType `msgpack:"return_type"`
}

type InlineConstructor struct {
	Flags           Flags                  `msgpack:"flags"`
	ValueParameters []InlineValueParameter `msgpack:"value_parameters,omitempty"`
}

type InlineTypeParameter struct {
	Name        int          `msgpack:"name"`
	Variance    uint32       `msgpack:"variance"`
	Reified     bool         `msgpack:"reified,omitempty"`
	UpperBounds []InlineType `msgpack:"upper_bounds,omitempty"`
}

type InlineValueParameter struct {
	Name  int        `msgpack:"name"`
	Type  InlineType `msgpack:"type"`
	IsVar bool       `msgpack:"is_var,omitempty"`
}

// InlineFragment is the wire form of the inline generation. It has no type
// table blob.
type InlineFragment struct {
	Schema     uint8            `msgpack:"schema"`
	Strings    []byte           `msgpack:"strings"`
	Names      []byte           `msgpack:"names"`
	Classes    []InlineClass    `msgpack:"classes,omitempty"`
	Functions  []InlineFunction `msgpack:"functions,omitempty"`
	Properties []InlineProperty `msgpack:"properties,omitempty"`
}

// MigrateInline converts an inline-generation fragment to the indexed form.
// Each embedded type becomes the next row of a synthesized type table, so
// type IDs are simply occurrence order.
func MigrateInline(in *InlineFragment) (*Fragment, error) {
	st, err := ParseStringTable(in.Strings)
	if err != nil {
		return nil, err
	}
	nt, err := ParseQualifiedNameTable(in.Names)
	if err != nil {
		return nil, err
	}

	m := &migrator{}
	out := &Fragment{
		Classes:    make([]Class, 0, len(in.Classes)),
		Functions:  make([]Function, 0, len(in.Functions)),
		Properties: make([]Property, 0, len(in.Properties)),
	}
	for i := range in.Classes {
		out.Classes = append(out.Classes, m.class(&in.Classes[i]))
	}
	for i := range in.Functions {
		out.Functions = append(out.Functions, m.function(&in.Functions[i]))
	}
	for i := range in.Properties {
		out.Properties = append(out.Properties, m.property(&in.Properties[i]))
	}
	out.Tables = &Tables{Strings: st, Names: nt, Types: &TypeTable{types: m.types}}
	return out, nil
}

type migrator struct {
	types []Type
}

func (m *migrator) typeID(t InlineType) int {
	m.types = append(m.types, Type(t))
	return len(m.types) - 1
}

func (m *migrator) typeIDs(ts []InlineType) []int {
	if len(ts) == 0 {
		return nil
	}
	ids := make([]int, len(ts))
	for i, t := range ts {
		ids[i] = m.typeID(t)
	}
	return ids
}

func (m *migrator) class(c *InlineClass) Class {
	out := Class{
		FqName:         c.FqName,
		Flags:          c.Flags,
		TypeParameters: m.typeParameters(c.TypeParameters),
		Supertypes:     m.typeIDs(c.Supertypes),
	}
	for i := range c.Constructors {
		out.Constructors = append(out.Constructors, Constructor{
			Flags:           c.Constructors[i].Flags,
			ValueParameters: m.valueParameters(c.Constructors[i].ValueParameters),
		})
	}
	for i := range c.Functions {
		out.Functions = append(out.Functions, m.function(&c.Functions[i]))
	}
	for i := range c.Properties {
		out.Properties = append(out.Properties, m.property(&c.Properties[i]))
	}
	return out
}

func (m *migrator) function(f *InlineFunction) Function {
	return Function{
		Name:            f.Name,
		Flags:           f.Flags,
		TypeParameters:  m.typeParameters(f.TypeParameters),
		ValueParameters: m.valueParameters(f.ValueParameters),
	}
}

func (m *migrator) property(p *InlineProperty) Property {
	return Property{Name: p.Name, Flags: p.Flags, ReturnType: m.typeID(p.ReturnType)}
}

func (m *migrator) typeParameters(tps []InlineTypeParameter) []TypeParameter {
	if len(tps) == 0 {
		return nil
	}
	out := make([]TypeParameter, len(tps))
	for i, tp := range tps {
		out[i] = TypeParameter{
			Name:        tp.Name,
			Variance:    tp.Variance,
			Reified:     tp.Reified,
			UpperBounds: m.typeIDs(tp.UpperBounds),
		}
	}
	return out
}

func (m *migrator) valueParameters(vps []InlineValueParameter) []ValueParameter {
	if len(vps) == 0 {
		return nil
	}
	out := make([]ValueParameter, len(vps))
	for i, vp := range vps {
		out[i] = ValueParameter{Name: vp.Name, Type: m.typeID(vp.Type), IsVar: vp.IsVar}
	}
	return out
}
