package meta

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Table blobs are msgpack arrays. Record tables are flattened: the names
// table stores (short, parent) pairs, the types table stores
// (class, nullable, typeParamName) triples.
const (
	nameRecordWidth = 2
	typeRecordWidth = 3
)

type blobReader struct {
	table string
	blob  []byte
	r     *bytes.Reader
	dec   *msgpack.Decoder
}

func newBlobReader(table string, blob []byte) *blobReader {
	r := bytes.NewReader(blob)
	return &blobReader{table: table, blob: blob, r: r, dec: msgpack.NewDecoder(r)}
}

func (br *blobReader) offset() int {
	return len(br.blob) - br.r.Len()
}

func (br *blobReader) arrayLen() (int, error) {
	n, err := br.dec.DecodeArrayLen()
	if err != nil {
		return 0, malformed(br.table, br.offset(), "expected array header", err)
	}
	if n < 0 {
		// nil array is an empty table
		return 0, nil
	}
	// каждый элемент занимает хотя бы один байт
	if n > br.r.Len() {
		return 0, malformed(br.table, br.offset(), fmt.Sprintf("array length %d exceeds blob", n), nil)
	}
	return n, nil
}

func (br *blobReader) int() (int, error) {
	off := br.offset()
	v, err := br.dec.DecodeInt()
	if err != nil {
		return 0, malformed(br.table, off, "truncated record", err)
	}
	return v, nil
}

func (br *blobReader) done() error {
	if br.r.Len() != 0 {
		return malformed(br.table, br.offset(), fmt.Sprintf("%d trailing bytes", br.r.Len()), nil)
	}
	return nil
}

// ParseStringTable decodes a string table blob in one pass.
func ParseStringTable(blob []byte) (*StringTable, error) {
	br := newBlobReader(TableStrings, blob)
	n, err := br.arrayLen()
	if err != nil {
		return nil, err
	}
	strs := make([]string, 0, min(n, br.r.Len()))
	for range n {
		off := br.offset()
		s, err := br.dec.DecodeString()
		if err != nil {
			return nil, malformed(TableStrings, off, "truncated string", err)
		}
		strs = append(strs, s)
	}
	if err := br.done(); err != nil {
		return nil, err
	}
	return &StringTable{strings: strs}, nil
}

// ParseQualifiedNameTable decodes a qualified-name table blob in one pass.
func ParseQualifiedNameTable(blob []byte) (*QualifiedNameTable, error) {
	br := newBlobReader(TableNames, blob)
	n, err := br.arrayLen()
	if err != nil {
		return nil, err
	}
	if n%nameRecordWidth != 0 {
		return nil, malformed(TableNames, br.offset(), fmt.Sprintf("%d values do not form (short, parent) records", n), nil)
	}
	names := make([]QualifiedName, 0, n/nameRecordWidth)
	for range n / nameRecordWidth {
		short, err := br.int()
		if err != nil {
			return nil, err
		}
		parent, err := br.int()
		if err != nil {
			return nil, err
		}
		names = append(names, QualifiedName{ShortName: short, Parent: parent})
	}
	if err := br.done(); err != nil {
		return nil, err
	}
	return &QualifiedNameTable{names: names}, nil
}

// ParseTypeTable decodes a type table blob in one pass.
func ParseTypeTable(blob []byte) (*TypeTable, error) {
	br := newBlobReader(TableTypes, blob)
	n, err := br.arrayLen()
	if err != nil {
		return nil, err
	}
	if n%typeRecordWidth != 0 {
		return nil, malformed(TableTypes, br.offset(), fmt.Sprintf("%d values do not form (class, nullable, param) records", n), nil)
	}
	types := make([]Type, 0, n/typeRecordWidth)
	for range n / typeRecordWidth {
		class, err := br.int()
		if err != nil {
			return nil, err
		}
		off := br.offset()
		nullable, err := br.int()
		if err != nil {
			return nil, err
		}
		if nullable != 0 && nullable != 1 {
			return nil, malformed(TableTypes, off, fmt.Sprintf("nullable flag %d is not 0 or 1", nullable), nil)
		}
		param, err := br.int()
		if err != nil {
			return nil, err
		}
		types = append(types, Type{ClassName: class, Nullable: nullable == 1, TypeParameterName: param})
	}
	if err := br.done(); err != nil {
		return nil, err
	}
	return &TypeTable{types: types}, nil
}

// MarshalBlob encodes the table in the form ParseStringTable reads.
func (t *StringTable) MarshalBlob() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(len(t.strings)); err != nil {
		return nil, err
	}
	for _, s := range t.strings {
		if err := enc.EncodeString(s); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// MarshalBlob encodes the table in the form ParseQualifiedNameTable reads.
func (t *QualifiedNameTable) MarshalBlob() ([]byte, error) {
	flat := make([]int, 0, len(t.names)*nameRecordWidth)
	for _, n := range t.names {
		flat = append(flat, n.ShortName, n.Parent)
	}
	return encodeInts(flat)
}

// MarshalBlob encodes the table in the form ParseTypeTable reads.
func (t *TypeTable) MarshalBlob() ([]byte, error) {
	flat := make([]int, 0, len(t.types)*typeRecordWidth)
	for _, ty := range t.types {
		nullable := 0
		if ty.Nullable {
			nullable = 1
		}
		flat = append(flat, ty.ClassName, nullable, ty.TypeParameterName)
	}
	return encodeInts(flat)
}

func encodeInts(values []int) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(len(values)); err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := enc.EncodeInt(int64(v)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
