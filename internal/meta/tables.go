package meta

import "slices"

// Table names used in errors.
const (
	TableStrings = "strings"
	TableNames   = "names"
	TableTypes   = "types"
)

// NoParent terminates a qualified-name parent chain.
const NoParent = -1

// NoClassName marks a type that refers to a type parameter instead of a class.
const NoClassName = -1

// NoName marks an absent string reference.
const NoName = -1

// StringTable maps dense indices to strings.
type StringTable struct {
	strings []string
}

// NewStringTable copies strs into a new table.
func NewStringTable(strs []string) *StringTable {
	return &StringTable{strings: slices.Clone(strs)}
}

// Len returns the number of strings.
func (t *StringTable) Len() int { return len(t.strings) }

// StringAt returns the string at i.
func (t *StringTable) StringAt(i int) (string, error) {
	if i < 0 || i >= len(t.strings) {
		return "", outOfRange(TableStrings, i, len(t.strings))
	}
	return t.strings[i], nil
}

// QualifiedName is one link of a dotted name.
type QualifiedName struct {
	ShortName int // string table index
	Parent    int // qualified-name index or NoParent
}

// QualifiedNameTable maps dense indices to QualifiedName records.
type QualifiedNameTable struct {
	names []QualifiedName
}

// NewQualifiedNameTable copies names into a new table.
func NewQualifiedNameTable(names []QualifiedName) *QualifiedNameTable {
	return &QualifiedNameTable{names: slices.Clone(names)}
}

// Len returns the number of records.
func (t *QualifiedNameTable) Len() int { return len(t.names) }

// QualifiedNameAt returns the record at i.
func (t *QualifiedNameTable) QualifiedNameAt(i int) (QualifiedName, error) {
	if i < 0 || i >= len(t.names) {
		return QualifiedName{}, outOfRange(TableNames, i, len(t.names))
	}
	return t.names[i], nil
}

// Type is a type-table row.
type Type struct {
	ClassName         int // qualified-name index or NoClassName
	Nullable          bool
	TypeParameterName int // string index, used when ClassName == NoClassName
}

// TypeTable maps dense type IDs to Type rows.
type TypeTable struct {
	types []Type
}

// NewTypeTable copies types into a new table.
func NewTypeTable(types []Type) *TypeTable {
	return &TypeTable{types: slices.Clone(types)}
}

// Len returns the number of rows.
func (t *TypeTable) Len() int { return len(t.types) }

// TypeAt returns the row at i.
func (t *TypeTable) TypeAt(i int) (Type, error) {
	if i < 0 || i >= len(t.types) {
		return Type{}, outOfRange(TableTypes, i, len(t.types))
	}
	return t.types[i], nil
}

// Tables bundles the three lookup tables of one fragment.
type Tables struct {
	Strings *StringTable
	Names   *QualifiedNameTable
	Types   *TypeTable
}
