package api

import "github.com/starford/folio/internal/noteservice"

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// CategoryGroup is one category with its notes (aliased from the domain layer).
type CategoryGroup = noteservice.GroupItems

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// CategoriesResponse wraps the grouped listing.
type CategoriesResponse struct {
	Groups []CategoryGroup `json:"groups"`
}
