package meta

import (
	"fmt"
	"slices"
	"strings"
)

// NameSeparator joins qualified-name segments.
const NameSeparator = "."

// TypeRef is a resolved type reference.
type TypeRef struct {
	Name     string
	Nullable bool
}

// String renders the type as name or name?.
func (t TypeRef) String() string {
	if t.Nullable {
		return t.Name + "?"
	}
	return t.Name
}

// Decoder resolves IDs against one fragment's tables. It holds no mutable
// state, so one Decoder may serve any number of goroutines.
type Decoder struct {
	tables *Tables
}

// NewDecoder returns a decoder bound to tables.
func NewDecoder(tables *Tables) *Decoder {
	return &Decoder{tables: tables}
}

// Tables returns the tables the decoder reads.
func (d *Decoder) Tables() *Tables {
	return d.tables
}

// ShortName returns the last segment of a qualified name.
func (d *Decoder) ShortName(id int) (string, error) {
	qn, err := d.tables.Names.QualifiedNameAt(id)
	if err != nil {
		return "", err
	}
	return d.tables.Strings.StringAt(qn.ShortName)
}

// ResolveName walks the parent chain from id to the root and joins the short
// names root-first. Empty short names (root packages) add no segment.
// Every link is looked up before the hop bound is checked, so a bad ID is
// always OutOfRange. A chain longer than the table is a cycle.
func (d *Decoder) ResolveName(id int) (string, error) {
	limit := d.tables.Names.Len()
	segments := make([]string, 0, 4)
	cur := id
	for hops := 0; ; hops++ {
		qn, err := d.tables.Names.QualifiedNameAt(cur)
		if err != nil {
			return "", err
		}
		if hops >= limit {
			return "", &Error{
				Kind:   CyclicQualifiedName,
				Table:  TableNames,
				ID:     id,
				Offset: -1,
				Detail: fmt.Sprintf("no root after %d hops", hops),
			}
		}
		short, err := d.tables.Strings.StringAt(qn.ShortName)
		if err != nil {
			return "", err
		}
		if short != "" {
			segments = append(segments, short)
		}
		if qn.Parent == NoParent {
			break
		}
		cur = qn.Parent
	}
	slices.Reverse(segments)
	return strings.Join(segments, NameSeparator), nil
}

// ResolveType resolves a type-table ID to a display name and nullability.
func (d *Decoder) ResolveType(id int) (TypeRef, error) {
	ty, err := d.tables.Types.TypeAt(id)
	if err != nil {
		return TypeRef{}, err
	}
	var name string
	if ty.ClassName == NoClassName {
		name, err = d.tables.Strings.StringAt(ty.TypeParameterName)
	} else {
		name, err = d.ResolveName(ty.ClassName)
	}
	if err != nil {
		return TypeRef{}, err
	}
	return TypeRef{Name: name, Nullable: ty.Nullable}, nil
}

func (d *Decoder) resolveTypes(ids []int) ([]TypeRef, error) {
	out := make([]TypeRef, 0, len(ids))
	for _, id := range ids {
		ref, err := d.ResolveType(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}
