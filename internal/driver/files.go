package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FragmentExt is the extension of serialized metadata fragments.
const FragmentExt = ".kmeta"

// ListFragments expands paths into fragment files. Directories are walked
// for *.kmeta files in sorted order; plain files are kept as given. A path
// named twice is listed once.
func ListFragments(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{}, len(paths))
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			// Missing files surface later as load diagnostics.
			if os.IsNotExist(err) {
				add(p)
				continue
			}
			return nil, err
		}
		if !st.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, FragmentExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		// Сортируем для детерминированного порядка
		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}
