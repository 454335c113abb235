package meta

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Wire schema generations.
const (
	SchemaInline  uint8 = 1
	SchemaIndexed uint8 = 2
)

const tableFragment = "fragment"

// ErrUnknownSchema is the cause of a MalformedTable error for a fragment
// whose schema generation is not recognized.
var ErrUnknownSchema = errors.New("unknown fragment schema")

type fragmentHeader struct {
	Schema uint8 `msgpack:"schema"`
}

type wireFragment struct {
	Schema     uint8      `msgpack:"schema"`
	Strings    []byte     `msgpack:"strings"`
	Names      []byte     `msgpack:"names"`
	Types      []byte     `msgpack:"types"`
	Classes    []Class    `msgpack:"classes,omitempty"`
	Functions  []Function `msgpack:"functions,omitempty"`
	Properties []Property `msgpack:"properties,omitempty"`
}

// UnmarshalFragment decodes a serialized fragment of either generation.
// Inline fragments go through MigrateInline; callers always get the indexed
// form.
func UnmarshalFragment(data []byte) (*Fragment, error) {
	schema, err := PeekSchema(data)
	if err != nil {
		return nil, err
	}
	switch schema {
	case SchemaIndexed:
		var wf wireFragment
		if err := msgpack.Unmarshal(data, &wf); err != nil {
			return nil, malformed(tableFragment, 0, "unreadable indexed fragment", err)
		}
		return fragmentFromWire(&wf)
	case SchemaInline:
		var inl InlineFragment
		if err := msgpack.Unmarshal(data, &inl); err != nil {
			return nil, malformed(tableFragment, 0, "unreadable inline fragment", err)
		}
		return MigrateInline(&inl)
	default:
		return nil, malformed(tableFragment, 0, fmt.Sprintf("schema %d", schema), ErrUnknownSchema)
	}
}

// PeekSchema reads only the schema generation of a serialized fragment.
func PeekSchema(data []byte) (uint8, error) {
	var hdr fragmentHeader
	if err := msgpack.Unmarshal(data, &hdr); err != nil {
		return 0, malformed(tableFragment, 0, "unreadable header", err)
	}
	return hdr.Schema, nil
}

func fragmentFromWire(wf *wireFragment) (*Fragment, error) {
	tables, err := ParseTables(wf.Strings, wf.Names, wf.Types)
	if err != nil {
		return nil, err
	}
	return &Fragment{
		Tables:     tables,
		Classes:    wf.Classes,
		Functions:  wf.Functions,
		Properties: wf.Properties,
	}, nil
}

// ParseTables parses the three table blobs of a fragment.
func ParseTables(strings, names, types []byte) (*Tables, error) {
	st, err := ParseStringTable(strings)
	if err != nil {
		return nil, err
	}
	nt, err := ParseQualifiedNameTable(names)
	if err != nil {
		return nil, err
	}
	tt, err := ParseTypeTable(types)
	if err != nil {
		return nil, err
	}
	return &Tables{Strings: st, Names: nt, Types: tt}, nil
}

// MarshalFragment encodes f in the indexed generation.
func MarshalFragment(f *Fragment) ([]byte, error) {
	if f == nil || f.Tables == nil {
		return nil, fmt.Errorf("marshal fragment: missing tables")
	}
	wf := wireFragment{
		Schema:     SchemaIndexed,
		Classes:    f.Classes,
		Functions:  f.Functions,
		Properties: f.Properties,
	}
	var err error
	if wf.Strings, err = f.Tables.Strings.MarshalBlob(); err != nil {
		return nil, fmt.Errorf("marshal string table: %w", err)
	}
	if wf.Names, err = f.Tables.Names.MarshalBlob(); err != nil {
		return nil, fmt.Errorf("marshal name table: %w", err)
	}
	if wf.Types, err = f.Tables.Types.MarshalBlob(); err != nil {
		return nil, fmt.Errorf("marshal type table: %w", err)
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&wf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
