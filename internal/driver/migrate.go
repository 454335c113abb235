package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"metair/internal/meta"
	"metair/internal/trace"
)

// MigrateResult describes one rewritten fragment.
type MigrateResult struct {
	FromSchema uint8
	Counts     Counts
	Bytes      int
}

// Migrate rewrites the fragment at in as an indexed-generation fragment at
// out. Indexed input is re-encoded unchanged in meaning.
func (s *Session) Migrate(ctx context.Context, in, out string) (MigrateResult, error) {
	tr := s.tracer()
	span := trace.Begin(tr, trace.ScopePass, "migrate", trace.ParentID(ctx))
	defer span.End("")

	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(in)
	if err != nil {
		return MigrateResult{}, err
	}
	schema, err := meta.PeekSchema(data)
	if err != nil {
		trace.Failure(tr, trace.ScopePass, "migrate", err)
		return MigrateResult{}, fmt.Errorf("%s: %w", in, err)
	}
	frag, err := meta.UnmarshalFragment(data)
	if err != nil {
		trace.Failure(tr, trace.ScopePass, "migrate", err)
		return MigrateResult{}, fmt.Errorf("%s: %w", in, err)
	}
	// Проверяем, что результат декодируется целиком
	if _, err := meta.DecodeFragment(frag); err != nil {
		trace.Failure(tr, trace.ScopePass, "migrate", err)
		return MigrateResult{}, fmt.Errorf("%s: %w", in, err)
	}
	encoded, err := meta.MarshalFragment(frag)
	if err != nil {
		return MigrateResult{}, err
	}
	if err := writeAtomic(out, encoded); err != nil {
		return MigrateResult{}, err
	}
	span.WithExtra("schema", fmt.Sprint(schema))
	return MigrateResult{
		FromSchema: schema,
		Counts:     Counts{Classes: len(frag.Classes), Functions: len(frag.Functions), Properties: len(frag.Properties)},
		Bytes:      len(encoded),
	}, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".metair-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
