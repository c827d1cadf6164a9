package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// chi matches on r.URL.RawPath when it is set (e.g. encoded slashes such as
// React%2Fhooks%2FuseRef) and on the already decoded r.URL.Path otherwise,
// so the wildcard is unescaped only in the first case.
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" || r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// etagMatches reports whether an If-None-Match header value matches the
// checksum. It accepts "*", weak tags (W/"...") and comma-separated lists,
// using weak comparison as RFC 9110 requires for If-None-Match.
func etagMatches(header, cs string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
		if strings.Trim(tag, `"`) == cs {
			return true
		}
	}
	return false
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List all notes
//	@Tags			notes
//	@Produce		json
//	@Success		200		{object}	NoteListResponse
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListNotes(r.Context())
	writeJSON(w, http.StatusOK, NoteListResponse{
		Notes: items,
		Total: len(items),
	})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path			path		string	true	"Note path"
//	@Param			If-None-Match	header		string	false	"Checksum from a previous response"
//	@Success		200				{object}	NoteDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)

	cs, err := h.svc.Checksum(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	etag := checksum.ETag(cs)
	if etagMatches(r.Header.Get("If-None-Match"), cs) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, note)
}

// Categories handles GET /api/categories.
//
//	@Summary		List notes grouped by category
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{
		Groups: h.svc.Groups(r.Context()),
	})
}
