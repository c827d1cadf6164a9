// Package testutil provides shared fixtures for building note catalogs in tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/noteservice"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/storage"
)

// Root is the directory holding the fixture notes.
const Root = "notes"

// Fixtures is the note tree shared by tests, keyed by collector path.
var Fixtures = map[string]string{
	"notes/README.md":               "# Notes\n",
	"notes/React/hooks/useRef.md":   "# Title",
	"notes/React/hooks/useState.md": "# useState\n\nstate hook\n",
	"notes/Tools/git.md":            "| cmd | effect |\n|---|---|\n| `git log` | history |\n",
	"notes/a/x.md":                  "a x",
	"notes/b/x.md":                  "b x",
}

// FixtureFS returns Fixtures as an in-memory file system.
func FixtureFS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range Fixtures {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

// TestCatalog collects and indexes the fixtures.
func TestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	sources, err := storage.Collect(FixtureFS(), Root, ".md")
	if err != nil {
		t.Fatal(err)
	}
	c, err := catalog.New(catalog.Index(sources, Root, ".md"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// TestService returns a note service over the fixture catalog with tables enabled.
func TestService(t *testing.T) *noteservice.Service {
	t.Helper()
	r, err := render.New(render.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return noteservice.NewService(TestCatalog(t), r)
}

// TestDir writes the fixtures to a temporary directory and returns the path
// of the directory holding the notes.
func TestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range Fixtures {
		p := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, Root+"/")))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
