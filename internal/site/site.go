// Package site exports the list and detail views as a static HTML tree.
package site

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/starford/folio/internal/noteservice"
	"github.com/starford/folio/internal/web"
)

// Exporter writes rendered pages under an output directory.
type Exporter struct {
	svc    *noteservice.Service
	pages  *web.Pages
	root   string // absolute output directory
	logger *slog.Logger
}

// NewExporter creates the output directory if needed and returns an
// Exporter rooted there. Pages should be built with web.WithStaticLinks.
func NewExporter(svc *noteservice.Service, pages *web.Pages, outDir string, logger *slog.Logger) (*Exporter, error) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("site: resolve out dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("site: create out dir: %w", err)
	}
	return &Exporter{svc: svc, pages: pages, root: abs, logger: logger}, nil
}

// LockPath returns the lock file guarding the output directory. It sits next
// to the directory so it never ends up in the published tree.
func (e *Exporter) LockPath() string {
	return filepath.Join(filepath.Dir(e.root), "."+filepath.Base(e.root)+".lock")
}

// Export writes index.html, 404.html and notes/<path>/index.html for every
// note. It returns the number of note pages written. Only one export may
// write to the same output directory at a time.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	l := flock.New(e.LockPath())
	locked, err := l.TryLock()
	if err != nil {
		return 0, fmt.Errorf("site: acquire lock: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("site: another export is writing to %s (lock: %s)", e.root, l.Path())
	}
	defer func() { _ = l.Unlock() }()

	return e.export(ctx)
}

func (e *Exporter) export(ctx context.Context) (int, error) {
	var buf bytes.Buffer
	if err := e.pages.List(&buf, e.svc.Groups(ctx)); err != nil {
		return 0, fmt.Errorf("site: render list: %w", err)
	}
	if err := e.write("index.html", buf.Bytes()); err != nil {
		return 0, err
	}

	buf.Reset()
	if err := e.pages.NotFound(&buf, ""); err != nil {
		return 0, fmt.Errorf("site: render not found: %w", err)
	}
	if err := e.write("404.html", buf.Bytes()); err != nil {
		return 0, err
	}

	written := 0
	for _, item := range e.svc.ListNotes(ctx) {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		note, err := e.svc.GetNote(ctx, item.Path)
		if err != nil {
			return written, fmt.Errorf("site: %s: %w", item.Path, err)
		}
		buf.Reset()
		if err := e.pages.Detail(&buf, note); err != nil {
			return written, fmt.Errorf("site: render %s: %w", item.Path, err)
		}
		if err := e.write(notePagePath(item.Path), buf.Bytes()); err != nil {
			return written, err
		}
		e.logger.Debug("site: wrote note", slog.String("path", item.Path))
		written++
	}
	return written, nil
}

// notePagePath maps a note path to its page file relative to the output root.
func notePagePath(notePath string) string {
	return filepath.Join("notes", filepath.FromSlash(notePath), "index.html")
}

// safePath resolves a relative path against the output root and rejects
// any result that escapes it (directory traversal).
func (e *Exporter) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("site: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(e.root, cleaned)
	if !strings.HasPrefix(abs, e.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("site: path escapes output root: %s", rel)
	}
	return abs, nil
}

// write atomically writes content: tmp file → fsync → rename.
func (e *Exporter) write(rel string, content []byte) error {
	abs, err := e.safePath(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("site: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".folio-tmp-*")
	if err != nil {
		return fmt.Errorf("site: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("site: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("site: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("site: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("site: chmod: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("site: rename: %w", err)
	}
	success = true
	return nil
}
