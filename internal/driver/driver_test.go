package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"metair/internal/diag"
	"metair/internal/dump"
	"metair/internal/ir"
	"metair/internal/meta"
	"metair/internal/target"
)

var public = meta.MustEncodeFlags(meta.DecodedFlags{Visibility: meta.VisibilityPublic})

func testSession(t *testing.T) *Session {
	t.Helper()
	cfg, err := target.Resolve("", target.Host{OS: "linux", Arch: "amd64"})
	require.NoError(t, err)
	s := NewSession(cfg)
	s.Jobs = 2
	return s
}

func pointFragment() *meta.Fragment {
	b := meta.NewBuilder()
	publicVar := meta.MustEncodeFlags(meta.DecodedFlags{Visibility: meta.VisibilityPublic, IsVar: true})
	b.Classes = append(b.Classes, meta.Class{
		FqName:     b.Name("demo.Point"),
		Flags:      public,
		Properties: []meta.Property{{Name: b.String("x"), Flags: publicVar, ReturnType: b.Type("kotlin.Int", false)}},
	})
	b.Functions = append(b.Functions, meta.Function{Name: b.String("main"), Flags: public})
	return b.Fragment()
}

func writeFragment(t *testing.T, path string, f *meta.Fragment) {
	t.Helper()
	data, err := meta.MarshalFragment(f)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestDumpFilesIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	frag := pointFragment()
	writeFragment(t, filepath.Join(dir, "good.kmeta"), frag)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.kmeta"), []byte{0xc1}, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))
	missing := filepath.Join(dir, "missing.kmeta")

	fs, results, err := testSession(t).DumpFiles(context.Background(), []string{dir, missing})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, 2, fs.Len())

	bad, good, lost := results[0], results[1], results[2]

	assert.Equal(t, filepath.Join(dir, "bad.kmeta"), filepath.FromSlash(bad.Path))
	require.Error(t, bad.Err)
	assert.True(t, errors.Is(bad.Err, meta.ErrMalformedTable))
	assert.Nil(t, bad.Output)
	assert.Equal(t, []diag.Code{diag.MetaMalformedTable}, codes(bad.Bag))

	require.NoError(t, good.Err)
	want, err := dump.Render(frag)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(good.Output))
	assert.Equal(t, Counts{Classes: 1, Functions: 1}, good.Counts)
	assert.False(t, good.Bag.HasErrors())

	require.Error(t, lost.Err)
	assert.True(t, errors.Is(lost.Err, os.ErrNotExist))
	assert.Equal(t, []diag.Code{diag.IOLoadFileError}, codes(lost.Bag))
}

func TestDumpFilesEmpty(t *testing.T) {
	fs, results, err := testSession(t).DumpFiles(context.Background(), []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, fs.Len())
}

func TestDumpFilesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "point.kmeta")
	writeFragment(t, path, pointFragment())

	cache, err := NewDiskCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	s := testSession(t)
	s.Cache = cache

	_, first, err := s.DumpFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.NoError(t, first[0].Err)
	assert.False(t, first[0].Cached)

	_, second, err := s.DumpFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.NoError(t, second[0].Err)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Output, second[0].Output)
	assert.Equal(t, first[0].Counts, second[0].Counts)

	require.NoError(t, cache.DropAll())
	_, third, err := s.DumpFiles(context.Background(), []string{path})
	require.NoError(t, err)
	assert.False(t, third[0].Cached)
}

func TestDiskCacheMissAndRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)

	var key Digest
	key[0] = 7
	_, hit, err := cache.Get(key)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Put(key, &DiskPayload{Path: "a.kmeta", Output: []byte("Ok\n"), Classes: 2}))
	got, hit, err := cache.Get(key)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "Ok\n", string(got.Output))
	assert.Equal(t, 2, got.Classes)

	var nilCache *DiskCache
	_, hit, err = nilCache.Get(key)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestDumpFilesTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point.kmeta")
	writeFragment(t, path, pointFragment())
	s := testSession(t)
	s.Timings = true

	_, results, err := s.DumpFiles(context.Background(), []string{path})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	items := results[0].Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.ObsTimings, items[0].Code)
	assert.Equal(t, diag.SevInfo, items[0].Severity)
	require.Len(t, items[0].Notes, 1)
	assert.Contains(t, items[0].Notes[0].Msg, `"phases"`)
}

func TestDumpFilesCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point.kmeta")
	writeFragment(t, path, pointFragment())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := testSession(t).DumpFiles(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMigrateInlineDumpsLikeIndexed(t *testing.T) {
	dir := t.TempDir()
	b := meta.NewBuilder()
	point := b.Name("demo.Point")
	x := b.String("x")
	intName := b.Name("kotlin.Int")
	tables := b.Tables()
	strBlob, err := tables.Strings.MarshalBlob()
	require.NoError(t, err)
	nameBlob, err := tables.Names.MarshalBlob()
	require.NoError(t, err)

	inline := &meta.InlineFragment{
		Schema:  meta.SchemaInline,
		Strings: strBlob,
		Names:   nameBlob,
		Classes: []meta.InlineClass{{
			FqName:     point,
			Flags:      public,
			Properties: []meta.InlineProperty{{Name: x, Flags: public, ReturnType: meta.InlineType{ClassName: intName, TypeParameterName: meta.NoName}}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(inline))
	in := filepath.Join(dir, "old.kmeta")
	out := filepath.Join(dir, "new.kmeta")
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o600))

	s := testSession(t)
	res, err := s.Migrate(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, meta.SchemaInline, res.FromSchema)
	assert.Equal(t, 1, res.Counts.Classes)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	schema, err := meta.PeekSchema(data)
	require.NoError(t, err)
	assert.Equal(t, meta.SchemaIndexed, schema)

	// тот же фрагмент, собранный сразу в индексной форме
	ib := meta.NewBuilder()
	ib.Classes = append(ib.Classes, meta.Class{
		FqName:     ib.Name("demo.Point"),
		Flags:      public,
		Properties: []meta.Property{{Name: ib.String("x"), Flags: public, ReturnType: ib.Type("kotlin.Int", false)}},
	})
	want, err := dump.Render(ib.Fragment())
	require.NoError(t, err)

	_, results, err := s.DumpFiles(context.Background(), []string{in, out})
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, string(want), string(r.Output), r.Path)
	}
}

func TestMigrateRejectsUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "future.kmeta")
	data, err := msgpack.Marshal(map[string]any{"schema": 9})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, data, 0o600))

	_, err = testSession(t).Migrate(context.Background(), in, filepath.Join(dir, "out.kmeta"))
	require.Error(t, err)
	assert.Equal(t, diag.MetaUnknownSchema, Classify(err))
	assert.NoFileExists(t, filepath.Join(dir, "out.kmeta"))
}

func TestClassify(t *testing.T) {
	tables := meta.NewBuilder().Tables()
	_, rangeErr := meta.NewDecoder(tables).ResolveName(3)
	require.Error(t, rangeErr)
	_, flagErr := meta.DecodeVisibility(7)
	require.Error(t, flagErr)

	tests := []struct {
		err  error
		want diag.Code
	}{
		{fmt.Errorf("class #0: %w", rangeErr), diag.MetaOutOfRange},
		{flagErr, diag.MetaUnknownFlag},
		{&ir.RewriteError{Detail: "x"}, diag.IRIncompleteRewrite},
		{fmt.Errorf("wrap: %w", target.ErrUnknownTarget), diag.TargetUnknown},
		{target.Config{Target: target.IPhoneArm64, Host: target.LinuxX8664}.Validate(), diag.TargetUnavailable},
		{os.ErrNotExist, diag.IOLoadFileError},
		{errors.New("other"), diag.UnknownCode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

func TestListFragments(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, name := range []string{"b.kmeta", "a.kmeta", "sub/c.kmeta", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	explicit := filepath.Join(dir, "readme.md")

	got, err := ListFragments([]string{explicit, dir, filepath.Join(dir, "a.kmeta")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		explicit,
		filepath.Join(dir, "a.kmeta"),
		filepath.Join(dir, "b.kmeta"),
		filepath.Join(sub, "c.kmeta"),
	}, got)
}

func TestLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(path, []byte("ab\ncd\n"), 0o600))

	got, err := Lines(path, []uint32{0, 2, 3, 4, 6, 99})
	require.NoError(t, err)
	assert.Equal(t, []LinePosition{
		{Offset: 0, Line: 0, Column: 0, Width: 0},
		{Offset: 2, Line: 0, Column: 2, Width: 2},
		{Offset: 3, Line: 1, Column: 0, Width: 0},
		{Offset: 4, Line: 1, Column: 1, Width: 1},
		{Offset: 6, Line: 2, Column: 0, Width: 0},
		{Offset: 99, Line: 2, Column: 0, Width: 0, Clamped: true},
	}, got)
	assert.Equal(t, "99\t2:0\t(clamped)", got[5].String())
}

func TestLinesWideRunes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.txt")
	// "日本" занимает 6 байт и 4 ячейки
	require.NoError(t, os.WriteFile(path, []byte("日本x"), 0o600))

	got, err := Lines(path, []uint32{6})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(6), got[0].Column)
	assert.Equal(t, 4, got[0].Width)
	assert.Equal(t, "6\t0:6\tcells 4", got[0].String())
}
