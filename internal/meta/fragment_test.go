package meta

import (
	"bytes"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func sampleBuilder() *Builder {
	b := NewBuilder()
	public := MustEncodeFlags(DecodedFlags{Visibility: VisibilityPublic})
	b.Classes = append(b.Classes, Class{
		FqName:     b.Name("demo.Box"),
		Flags:      public,
		Supertypes: []int{b.Type("kotlin.Any", false)},
		TypeParameters: []TypeParameter{
			{Name: b.String("T"), Variance: uint32(VarianceOut), UpperBounds: []int{b.Type("kotlin.Number", false)}},
		},
		Properties: []Property{{Name: b.String("value"), Flags: public, ReturnType: b.TypeParam("T", false)}},
	})
	b.Functions = append(b.Functions, Function{
		Name:            b.String("box"),
		Flags:           public,
		ValueParameters: []ValueParameter{{Name: b.String("v"), Type: b.Type("kotlin.Int", true)}},
	})
	return b
}

func TestFragmentMarshalRoundTrip(t *testing.T) {
	want := sampleBuilder().Fragment()
	data, err := MarshalFragment(want)
	if err != nil {
		t.Fatalf("MarshalFragment: %v", err)
	}
	got, err := UnmarshalFragment(data)
	if err != nil {
		t.Fatalf("UnmarshalFragment: %v", err)
	}

	wantPkg, err := DecodeFragment(want)
	if err != nil {
		t.Fatal(err)
	}
	gotPkg, err := DecodeFragment(got)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(wantPkg, gotPkg) {
		t.Fatalf("decoded packages differ:\nwant %+v\ngot  %+v", wantPkg, gotPkg)
	}
}

func TestFunctionRecordKeys(t *testing.T) {
	fn := Function{
		Name:            1,
		TypeParameters:  []TypeParameter{{Name: 2}},
		ValueParameters: []ValueParameter{{Name: 3}},
	}
	data, err := msgpack.Marshal(fn)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	want := []string{"flags", "name", "type_parameters", "value_parameters"}
	var got []string
	for k := range raw {
		got = append(got, k)
	}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Fatalf("function keys = %v, want %v", got, want)
	}
}

func TestUnmarshalFragmentUnknownSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(map[string]any{"schema": 9}); err != nil {
		t.Fatal(err)
	}
	_, err := UnmarshalFragment(buf.Bytes())
	if !errors.Is(err, ErrMalformedTable) || !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("expected ErrMalformedTable wrapping ErrUnknownSchema, got %v", err)
	}
	if _, err := UnmarshalFragment([]byte{0xc1}); !errors.Is(err, ErrMalformedTable) {
		t.Fatalf("garbage: expected ErrMalformedTable, got %v", err)
	}
}

func TestMigrateInlineMatchesIndexed(t *testing.T) {
	b := NewBuilder()
	public := MustEncodeFlags(DecodedFlags{Visibility: VisibilityPublic})
	pointName := b.Name("demo.Point")
	xName := b.String("x")
	nameID := b.String("name")
	intName := b.Name("kotlin.Int")
	strName := b.Name("kotlin.String")
	tables := b.Tables()
	strBlob, _ := tables.Strings.MarshalBlob()
	nameBlob, _ := tables.Names.MarshalBlob()

	intT := InlineType{ClassName: intName, TypeParameterName: NoName}
	inline := &InlineFragment{
		Schema:  SchemaInline,
		Strings: strBlob,
		Names:   nameBlob,
		Classes: []InlineClass{{
			FqName:       pointName,
			Flags:        public,
			Constructors: []InlineConstructor{{Flags: public, ValueParameters: []InlineValueParameter{{Name: xName, Type: intT}}}},
			Properties:   []InlineProperty{{Name: xName, Flags: public, ReturnType: intT}},
		}},
		Properties: []InlineProperty{{Name: nameID, Flags: public, ReturnType: InlineType{ClassName: strName, Nullable: true, TypeParameterName: NoName}}},
	}

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(inline); err != nil {
		t.Fatal(err)
	}
	frag, err := UnmarshalFragment(buf.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalFragment(inline): %v", err)
	}
	// каждое вхождение типа становится отдельной строкой таблицы
	if got := frag.Tables.Types.Len(); got != 3 {
		t.Fatalf("synthesized type table has %d rows, want 3", got)
	}
	if frag.Classes[0].Constructors[0].ValueParameters[0].Type != 0 || frag.Classes[0].Properties[0].ReturnType != 1 {
		t.Fatalf("type ids not assigned in occurrence order: %+v", frag.Classes[0])
	}

	pkg, err := DecodeFragment(frag)
	if err != nil {
		t.Fatal(err)
	}
	if got := pkg.Properties[0].Type.String(); got != "kotlin.String?" {
		t.Errorf("top-level property type = %q", got)
	}
	if got := pkg.Classes[0].Properties[0].Type.String(); got != "kotlin.Int" {
		t.Errorf("member property type = %q", got)
	}
}
