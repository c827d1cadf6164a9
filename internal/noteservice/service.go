// Package noteservice resolves note lookups against the catalog and renders
// found notes for the view layers.
package noteservice

import (
	"context"
	"fmt"
	"html/template"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/render"
)

// NoteDetail is the full representation of a found note.
type NoteDetail struct {
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Content  string        `json:"content"`
	HTML     template.HTML `json:"html"`
	Checksum string        `json:"checksum"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Service coordinates catalog lookups and Markdown rendering.
type Service struct {
	catalog  *catalog.Catalog
	renderer render.Renderer
	cache    *lru.Cache[string, template.HTML] // nil when disabled
}

// NewService creates a new note service.
func NewService(c *catalog.Catalog, r render.Renderer) *Service {
	return &Service{catalog: c, renderer: r}
}

// EnableCache keeps up to size rendered notes in memory, keyed by path.
// Notes never change after load, so entries are never invalidated.
// Call before the service is shared.
func (s *Service) EnableCache(size int) error {
	if size <= 0 {
		return fmt.Errorf("noteservice: cache size must be greater than zero")
	}
	cache, err := lru.New[string, template.HTML](size)
	if err != nil {
		return fmt.Errorf("noteservice: init cache: %w", err)
	}
	s.cache = cache
	return nil
}

// GetNote looks up path exactly and renders the note. It returns
// apperr.ErrNotFound when no note has that path, including the empty path.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	n, ok := s.catalog.Lookup(path)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	html, err := s.render(n)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Path:     n.Path,
		Name:     n.Name,
		Category: n.Category,
		Content:  n.Content,
		HTML:     html,
		Checksum: checksum.Sum([]byte(n.Content)),
	}, nil
}

// ListNotes returns every note in catalog order.
func (s *Service) ListNotes(_ context.Context) []NoteListItem {
	all := s.catalog.All()
	items := make([]NoteListItem, len(all))
	for i, n := range all {
		items[i] = listItem(n)
	}
	return items
}

// GroupItems is one category with its notes.
type GroupItems struct {
	Category string         `json:"category"`
	Notes    []NoteListItem `json:"notes"`
}

// Groups returns notes grouped by category.
func (s *Service) Groups(_ context.Context) []GroupItems {
	groups := s.catalog.Groups()
	out := make([]GroupItems, len(groups))
	for i, g := range groups {
		items := make([]NoteListItem, len(g.Notes))
		for j, n := range g.Notes {
			items[j] = listItem(n)
		}
		out[i] = GroupItems{Category: g.Category, Notes: items}
	}
	return out
}

// Categories returns the category names in display order.
func (s *Service) Categories(_ context.Context) []string {
	return s.catalog.Categories()
}

// Checksum returns the content checksum of the note at path without
// rendering it.
func (s *Service) Checksum(_ context.Context, path string) (string, error) {
	n, ok := s.catalog.Lookup(path)
	if !ok {
		return "", apperr.ErrNotFound
	}
	return checksum.Sum([]byte(n.Content)), nil
}

func (s *Service) render(n catalog.Note) (template.HTML, error) {
	if s.cache != nil {
		if html, ok := s.cache.Get(n.Path); ok {
			return html, nil
		}
	}
	html, err := s.renderer.Render([]byte(n.Content))
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Add(n.Path, html)
	}
	return html, nil
}

func listItem(n catalog.Note) NoteListItem {
	return NoteListItem{Path: n.Path, Name: n.Name, Category: n.Category}
}
