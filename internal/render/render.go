// Package render converts note Markdown into HTML using goldmark.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown source into HTML.
type Renderer interface {
	Render(src []byte) (template.HTML, error)
}

// Options controls the goldmark engine.
type Options struct {
	// Extensions names goldmark extensions to enable, e.g. "table".
	Extensions []string
	// UnsafeHTML passes raw HTML in notes through to the output.
	UnsafeHTML bool
	HardWraps  bool
}

// DefaultOptions enables tables only.
func DefaultOptions() Options {
	return Options{Extensions: []string{"table"}}
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// gfmIncludes lists the extensions extension.GFM already registers.
var gfmIncludes = map[string]struct{}{
	"table":         {},
	"strikethrough": {},
	"linkify":       {},
	"tasklist":      {},
}

// Extensions returns the supported extension names, sorted.
func Extensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Goldmark implements Renderer. The engine is built once and is safe for
// concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

var _ Renderer = (*Goldmark)(nil)

// New builds a goldmark engine from opts.
func New(opts Options) (*Goldmark, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.UnsafeHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Goldmark{md: md}, nil
}

// Render converts src to HTML. goldmark errors are returned wrapped.
func (g *Goldmark) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML unless UnsafeHTML is set
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	var keys []string
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := extensionRegistry[key]; !ok {
			return nil, fmt.Errorf("render: unknown extension %q", name)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	_, withGFM := seen["gfm"]
	extenders := make([]goldmark.Extender, 0, len(keys))
	for _, key := range keys {
		if _, covered := gfmIncludes[key]; withGFM && covered {
			continue
		}
		extenders = append(extenders, extensionRegistry[key])
	}
	return extenders, nil
}
