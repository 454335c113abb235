package meta

// Raw declaration records. Every cross-reference is an integer ID; names
// are string-table indices except Class.FqName, which is a qualified-name
// index. Types are type-table IDs.

// Class is a serialized class declaration.
type Class struct {
	FqName         int             `msgpack:"fq_name"`
	Flags          Flags           `msgpack:"flags"`
	TypeParameters []TypeParameter `msgpack:"type_parameters,omitempty"`
	Supertypes     []int           `msgpack:"supertypes,omitempty"`
	Constructors   []Constructor   `msgpack:"constructors,omitempty"`
	Functions      []Function      `msgpack:"functions,omitempty"`
	Properties     []Property      `msgpack:"properties,omitempty"`
}

// Function is a serialized function declaration.
type Function struct {
	Name            int              `msgpack:"name"`
	Flags           Flags            `msgpack:"flags"`
	TypeParameters  []TypeParameter  `msgpack:"type_parameters,omitempty"`
	ValueParameters []ValueParameter `msgpack:"value_parameters,omitempty"`
}

// Property is a serialized property declaration.
type Property struct {
	Name       int   `msgpack:"name"`
	Flags      Flags `msgpack:"flags"`
	ReturnType int   `msgpack:"return_type"`
}

// Constructor is a serialized constructor. The IsSecondaryConstructor flag
// bit separates the primary constructor from secondary ones.
type Constructor struct {
	Flags           Flags            `msgpack:"flags"`
	ValueParameters []ValueParameter `msgpack:"value_parameters,omitempty"`
}

// TypeParameter is a serialized type parameter. Variance holds the raw
// variance code (see DecodeVariance).
type TypeParameter struct {
	Name        int    `msgpack:"name"`
	Variance    uint32 `msgpack:"variance"`
	Reified     bool   `msgpack:"reified,omitempty"`
	UpperBounds []int  `msgpack:"upper_bounds,omitempty"`
}

// ValueParameter is a serialized value parameter. IsVar is meaningful for
// constructor parameters only.
type ValueParameter struct {
	Name  int  `msgpack:"name"`
	Type  int  `msgpack:"type"`
	IsVar bool `msgpack:"is_var,omitempty"`
}

// Fragment is one decoded compilation-unit fragment in canonical (indexed)
// form: tables plus top-level declarations.
type Fragment struct {
	Tables     *Tables
	Classes    []Class
	Functions  []Function
	Properties []Property
}
