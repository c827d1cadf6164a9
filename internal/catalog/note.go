// Package catalog turns collected note sources into an immutable,
// path-keyed set of notes grouped by category.
package catalog

// RootCategory is the category of notes whose path has a single segment.
const RootCategory = "root"

// Note represents one Markdown source file.
type Note struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Content  string `json:"-"`
}

// Group holds the notes sharing one category, in catalog order.
type Group struct {
	Category string `json:"category"`
	Notes    []Note `json:"notes"`
}
