package ir

import (
	"fmt"
	"sync"

	"metair/internal/source"
)

// Registry resolves file keys held by ReturnableBlocks. Files of independent
// compilation units may be registered from different goroutines.
type Registry struct {
	mu    sync.RWMutex
	files map[source.FileID]*File
}

func NewRegistry() *Registry {
	return &Registry{files: make(map[source.FileID]*File)}
}

// Register adds f. A second file with the same ID is an error.
func (r *Registry) Register(f *File) error {
	if f == nil || f.ID == source.NoFileID {
		return fmt.Errorf("register file: missing file id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.files[f.ID]; ok && prev != f {
		return fmt.Errorf("register file %d: already registered as %q", f.ID, prev.Path)
	}
	r.files[f.ID] = f
	return nil
}

func (r *Registry) Lookup(id source.FileID) (*File, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	return f, ok
}

// FileOf returns the file an inlined block came from.
func (r *Registry) FileOf(rb *ReturnableBlock) (*File, bool) {
	if rb == nil || rb.File == source.NoFileID {
		return nil, false
	}
	return r.Lookup(rb.File)
}

// Position maps an offset inside file id to a 1-based line and column.
func (r *Registry) Position(id source.FileID, off uint32) (source.LineCol, bool) {
	f, ok := r.Lookup(id)
	if !ok || f.Lines == nil {
		return source.LineCol{}, false
	}
	return f.Lines.Position(off), true
}
