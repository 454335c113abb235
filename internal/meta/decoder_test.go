package meta

import (
	"errors"
	"sync"
	"testing"
)

func TestResolveNameChain(t *testing.T) {
	// root -> "a" -> "b"; the root entry has an empty short name
	tables := &Tables{
		Strings: NewStringTable([]string{"", "a", "b"}),
		Names: NewQualifiedNameTable([]QualifiedName{
			{ShortName: 0, Parent: NoParent},
			{ShortName: 1, Parent: 0},
			{ShortName: 2, Parent: 1},
		}),
		Types: NewTypeTable(nil),
	}
	d := NewDecoder(tables)

	got, err := d.ResolveName(2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a.b" {
		t.Fatalf("ResolveName = %q, want %q", got, "a.b")
	}
	short, err := d.ShortName(2)
	if err != nil || short != "b" {
		t.Fatalf("ShortName = %q,%v", short, err)
	}
	root, err := d.ResolveName(0)
	if err != nil || root != "" {
		t.Fatalf("root resolves to %q,%v", root, err)
	}
}

func TestResolveNameCycle(t *testing.T) {
	tables := &Tables{
		Strings: NewStringTable([]string{"x", "y"}),
		Names: NewQualifiedNameTable([]QualifiedName{
			{ShortName: 0, Parent: 1},
			{ShortName: 1, Parent: 0},
		}),
		Types: NewTypeTable(nil),
	}
	_, err := NewDecoder(tables).ResolveName(0)
	if !errors.Is(err, ErrCyclicQualifiedName) {
		t.Fatalf("expected ErrCyclicQualifiedName, got %v", err)
	}
	if me, _ := AsError(err); me.ID != 0 {
		t.Errorf("error ID = %d, want 0", me.ID)
	}

	self := &Tables{
		Strings: NewStringTable([]string{"x"}),
		Names:   NewQualifiedNameTable([]QualifiedName{{ShortName: 0, Parent: 0}}),
		Types:   NewTypeTable(nil),
	}
	if _, err := NewDecoder(self).ResolveName(0); !errors.Is(err, ErrCyclicQualifiedName) {
		t.Fatalf("self-parent: expected ErrCyclicQualifiedName, got %v", err)
	}
}

func TestResolveNameDanglingParent(t *testing.T) {
	tables := &Tables{
		Strings: NewStringTable([]string{"x"}),
		Names:   NewQualifiedNameTable([]QualifiedName{{ShortName: 0, Parent: 5}}),
		Types:   NewTypeTable(nil),
	}
	if _, err := NewDecoder(tables).ResolveName(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestResolveNameRejectsBadIDs(t *testing.T) {
	tables := &Tables{
		Strings: NewStringTable([]string{"x"}),
		Names:   NewQualifiedNameTable([]QualifiedName{{ShortName: 0, Parent: NoParent}}),
		Types:   NewTypeTable(nil),
	}
	for _, id := range []int{NoParent, -7, 1} {
		if _, err := NewDecoder(tables).ResolveName(id); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ResolveName(%d): expected ErrOutOfRange, got %v", id, err)
		}
	}

	empty := NewBuilder().Tables()
	_, err := NewDecoder(empty).ResolveName(5)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("empty table: expected ErrOutOfRange, got %v", err)
	}
	if errors.Is(err, ErrCyclicQualifiedName) {
		t.Fatalf("empty table: reported as cycle: %v", err)
	}
}

func TestResolveType(t *testing.T) {
	b := NewBuilder()
	intID := b.Type("kotlin.Int", false)
	strID := b.Type("kotlin.String", true)
	tID := b.TypeParam("T", true)
	d := NewDecoder(b.Tables())

	tests := []struct {
		id   int
		want string
	}{
		{intID, "kotlin.Int"},
		{strID, "kotlin.String?"},
		{tID, "T?"},
	}
	for _, tt := range tests {
		ref, err := d.ResolveType(tt.id)
		if err != nil {
			t.Fatalf("ResolveType(%d): %v", tt.id, err)
		}
		if ref.String() != tt.want {
			t.Errorf("ResolveType(%d) = %q, want %q", tt.id, ref.String(), tt.want)
		}
	}
	if _, err := d.ResolveType(99); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestDecoderConcurrentUse(t *testing.T) {
	b := NewBuilder()
	id := b.Name("org.example.deep.Name")
	d := NewDecoder(b.Tables())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				got, err := d.ResolveName(id)
				if err != nil {
					errs <- err
					return
				}
				if got != "org.example.deep.Name" {
					errs <- errors.New("unexpected name " + got)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDecodeClassPartitionsConstructors(t *testing.T) {
	b := NewBuilder()
	intT := b.Type("Int", false)
	public := MustEncodeFlags(DecodedFlags{Visibility: VisibilityPublic})
	secondary := MustEncodeFlags(DecodedFlags{Visibility: VisibilityPublic, IsSecondary: true})

	class := Class{
		FqName: b.Name("demo.Point"),
		Flags:  public,
		Constructors: []Constructor{
			{Flags: secondary},
			{Flags: public, ValueParameters: []ValueParameter{{Name: b.String("x"), Type: intT, IsVar: true}}},
			{Flags: public},
		},
	}
	decl, err := NewDecoder(b.Tables()).DecodeClass(&class)
	if err != nil {
		t.Fatal(err)
	}
	if decl.Name != "demo.Point" || decl.ShortName != "Point" {
		t.Fatalf("names = %q / %q", decl.Name, decl.ShortName)
	}
	primary, ok := decl.PrimaryConstructor()
	if !ok || len(primary.Parameters) != 1 || primary.Parameters[0].Name != "x" || !primary.Parameters[0].IsVar {
		t.Fatalf("primary = %+v, %v", primary, ok)
	}
	if got := len(decl.SecondaryConstructors()); got != 2 {
		t.Fatalf("secondary count = %d, want 2", got)
	}
}

func TestDecodeFragmentPropagatesFailure(t *testing.T) {
	b := NewBuilder()
	b.Properties = append(b.Properties, Property{Name: b.String("p"), Flags: 7 << visibilityShift, ReturnType: b.Type("Int", false)})

	_, err := DecodeFragment(b.Fragment())
	if !errors.Is(err, ErrUnknownFlagValue) {
		t.Fatalf("expected ErrUnknownFlagValue, got %v", err)
	}
}
