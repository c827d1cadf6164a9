package storage

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func TestCollect_RecursiveSuffixMatch(t *testing.T) {
	fsys := mapFS(map[string]string{
		"notes/README.md":             "top",
		"notes/React/hooks/useRef.md": "# Title",
		"notes/Go/embed.md":           "embed",
		"notes/Go/image.png":          "binary",
		"notes/draft.txt":             "not a note",
		"other/outside.md":            "wrong root",
	})

	got, err := Collect(fsys, "notes", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := map[string]string{
		"notes/README.md":             "top",
		"notes/React/hooks/useRef.md": "# Title",
		"notes/Go/embed.md":           "embed",
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestCollect_ContentVerbatim(t *testing.T) {
	raw := "---\ntitle: kept\n---\n\n# Body\r\n\ttabbed ünïcode\n"
	got, err := Collect(mapFS(map[string]string{"notes/a.md": raw}), "notes", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got["notes/a.md"] != raw {
		t.Errorf("content = %q, want %q", got["notes/a.md"], raw)
	}
}

func TestCollect_DotRoot(t *testing.T) {
	fsys := mapFS(map[string]string{
		"README.md": "r",
		"a/x.md":    "ax",
	})
	got, err := Collect(fsys, ".", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got["README.md"] != "r" || got["a/x.md"] != "ax" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestCollect_SkipsEmptyStem(t *testing.T) {
	fsys := mapFS(map[string]string{
		"notes/.md":   "no stem",
		"notes/ok.md": "ok",
	})
	got, err := Collect(fsys, "notes", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if _, ok := got["notes/.md"]; ok {
		t.Error("file with empty stem should be skipped")
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestCollect_DirectoryWithSuffixIgnored(t *testing.T) {
	fsys := mapFS(map[string]string{
		"notes/odd.md/inner.md": "inner",
	})
	got, err := Collect(fsys, "notes", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 1 || got["notes/odd.md/inner.md"] != "inner" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestCollect_MissingRoot(t *testing.T) {
	_, err := Collect(mapFS(map[string]string{"a.md": "a"}), "notes", ".md")
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestCollect_RootIsFile(t *testing.T) {
	_, err := Collect(mapFS(map[string]string{"notes": "file"}), "notes", ".md")
	if err == nil {
		t.Fatal("expected error when root is a file")
	}
}

func TestCollect_InvalidSuffix(t *testing.T) {
	fsys := mapFS(map[string]string{"notes/a.md": "a"})
	for _, suffix := range []string{"", "*.md", ".m?", "a/b"} {
		if _, err := Collect(fsys, "notes", suffix); err == nil {
			t.Errorf("expected error for suffix %q", suffix)
		}
	}
}

func TestCollect_EmptyTree(t *testing.T) {
	fsys := fstest.MapFS{"notes": &fstest.MapFile{Mode: os.ModeDir}}
	got, err := Collect(fsys, "notes", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestNewDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "React", "hooks"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "React", "hooks", "useRef.md"), []byte("# Title"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if src.Root != "." {
		t.Errorf("root = %q, want %q", src.Root, ".")
	}
	got, err := src.Collect(".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got["React/hooks/useRef.md"] != "# Title" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestNewDir_NonExistentDir(t *testing.T) {
	_, err := NewDir("/tmp/folio-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewDir_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "folio-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewDir(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestOpen_EmptyDirSelectsEmbedded(t *testing.T) {
	src, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if src.Origin != OriginEmbedded {
		t.Errorf("origin = %q, want %q", src.Origin, OriginEmbedded)
	}
	got, err := src.Collect(".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if _, ok := got["notes/React/hooks/useRef.md"]; !ok {
		t.Errorf("embedded tree missing useRef note: %v", keys(got))
	}
}

func TestCollect_UnderscoreAndDotPrefixed(t *testing.T) {
	fsys := mapFS(map[string]string{
		"notes/_intro.md":       "intro",
		"notes/_drafts/idea.md": "idea",
		"notes/.hidden/plan.md": "plan",
	})
	got, err := Collect(fsys, "notes", ".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, k := range []string{"notes/_intro.md", "notes/_drafts/idea.md", "notes/.hidden/plan.md"} {
		if _, ok := got[k]; !ok {
			t.Errorf("missing %s: %v", k, keys(got))
		}
	}
}

func TestEmbedded_IncludesUnderscorePrefixed(t *testing.T) {
	got, err := Embedded().Collect(".md")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got["notes/_intro.md"] == "" {
		t.Errorf("embedded tree missing notes/_intro.md: %v", keys(got))
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
