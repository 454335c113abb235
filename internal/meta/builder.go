package meta

import "strings"

// Builder assembles a Fragment from readable names. It interns strings,
// qualified names and types so equal inputs share one table entry.
type Builder struct {
	strings   []string
	strIndex  map[string]int
	names     []QualifiedName
	nameIndex map[string]int
	types     []Type
	typeIndex map[Type]int

	Classes    []Class
	Functions  []Function
	Properties []Property
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		strIndex:  make(map[string]int),
		nameIndex: make(map[string]int),
		typeIndex: make(map[Type]int),
	}
}

// String interns s in the string table.
func (b *Builder) String(s string) int {
	if id, ok := b.strIndex[s]; ok {
		return id
	}
	id := len(b.strings)
	b.strings = append(b.strings, s)
	b.strIndex[s] = id
	return id
}

// Name interns a dotted name, creating parent links as needed.
func (b *Builder) Name(fq string) int {
	if id, ok := b.nameIndex[fq]; ok {
		return id
	}
	parent := NoParent
	short := fq
	if i := strings.LastIndex(fq, NameSeparator); i >= 0 {
		parent = b.Name(fq[:i])
		short = fq[i+1:]
	}
	id := len(b.names)
	b.names = append(b.names, QualifiedName{ShortName: b.String(short), Parent: parent})
	b.nameIndex[fq] = id
	return id
}

// Type interns a class type.
func (b *Builder) Type(fq string, nullable bool) int {
	return b.internType(Type{ClassName: b.Name(fq), Nullable: nullable, TypeParameterName: NoName})
}

// TypeParam interns a reference to a type parameter.
func (b *Builder) TypeParam(name string, nullable bool) int {
	return b.internType(Type{ClassName: NoClassName, Nullable: nullable, TypeParameterName: b.String(name)})
}

func (b *Builder) internType(t Type) int {
	if id, ok := b.typeIndex[t]; ok {
		return id
	}
	id := len(b.types)
	b.types = append(b.types, t)
	b.typeIndex[t] = id
	return id
}

// Tables snapshots the current tables.
func (b *Builder) Tables() *Tables {
	return &Tables{
		Strings: NewStringTable(b.strings),
		Names:   NewQualifiedNameTable(b.names),
		Types:   NewTypeTable(b.types),
	}
}

// Fragment snapshots tables and declarations.
func (b *Builder) Fragment() *Fragment {
	return &Fragment{
		Tables:     b.Tables(),
		Classes:    b.Classes,
		Functions:  b.Functions,
		Properties: b.Properties,
	}
}
