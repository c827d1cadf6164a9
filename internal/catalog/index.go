package catalog

import (
	"slices"
	"strings"
)

// Index converts collector output into notes. Each key has the root prefix
// and the suffix removed once to form the note path. The result is sorted
// by path.
func Index(sources map[string]string, root, suffix string) []Note {
	prefix := ""
	if root != "" && root != "." {
		prefix = strings.TrimSuffix(root, "/") + "/"
	}

	notes := make([]Note, 0, len(sources))
	for key, content := range sources {
		p := strings.TrimSuffix(strings.TrimPrefix(key, prefix), suffix)
		name, category := ParsePath(p)
		notes = append(notes, Note{
			Path:     p,
			Name:     name,
			Category: category,
			Content:  content,
		})
	}
	slices.SortFunc(notes, func(a, b Note) int {
		return strings.Compare(a.Path, b.Path)
	})
	return notes
}

// ParsePath derives a note's name (last segment) and category (first
// segment, or RootCategory for a single-segment path).
func ParsePath(p string) (name, category string) {
	segments := strings.Split(p, "/")
	name = segments[len(segments)-1]
	category = RootCategory
	if len(segments) > 1 {
		category = segments[0]
	}
	return name, category
}
