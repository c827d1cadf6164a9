package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Collect walks root recursively and returns the content of every regular
// file whose name ends in suffix, keyed by its slash path within fsys (root
// prefix and suffix included). Any read failure aborts the whole collection.
//
// A file named exactly suffix (such as ".md") has no stem and is skipped.
func Collect(fsys fs.FS, root, suffix string) (map[string]string, error) {
	if suffix == "" {
		return nil, errors.New("storage: suffix is required")
	}
	if strings.ContainsAny(suffix, `*?[]{}\/`) {
		return nil, fmt.Errorf("storage: invalid suffix %q", suffix)
	}

	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", root)
	}

	pattern := path.Join(root, "**", "*"+suffix)
	matches, err := doublestar.Glob(fsys, pattern,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: glob %s: %w", pattern, err)
	}

	out := make(map[string]string, len(matches))
	for _, m := range matches {
		if path.Base(m) == suffix {
			continue
		}
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", m, err)
		}
		out[m] = string(data)
	}
	return out, nil
}
