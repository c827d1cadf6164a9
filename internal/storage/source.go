// Package storage locates the note tree and reads it into memory.
package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/starford/folio/content"
)

// OriginEmbedded is the Origin of the note tree compiled into the binary.
const OriginEmbedded = "embedded"

// Source is a file system holding notes under Root.
type Source struct {
	FS     fs.FS
	Root   string
	Origin string // "embedded" or the absolute directory path
}

// Open resolves where notes are read from. An empty dir selects the tree
// embedded at build time; anything else must be an existing directory.
func Open(dir string) (*Source, error) {
	if dir == "" {
		return Embedded(), nil
	}
	return NewDir(dir)
}

// Embedded returns the note tree compiled into the binary.
func Embedded() *Source {
	return &Source{FS: content.FS, Root: content.Root, Origin: OriginEmbedded}
}

// NewDir creates a Source rooted at the given directory.
// The directory must already exist.
func NewDir(dir string) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Source{FS: os.DirFS(abs), Root: ".", Origin: abs}, nil
}

// Collect reads every note in the source. See the package-level Collect.
func (s *Source) Collect(suffix string) (map[string]string, error) {
	return Collect(s.FS, s.Root, suffix)
}
