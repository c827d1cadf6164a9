// Package web serves the list and detail views as server-rendered HTML.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/noteservice"
)

// Handler holds the HTML view handlers.
type Handler struct {
	svc   *noteservice.Service
	pages *Pages
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, pages *Pages) *Handler {
	return &Handler{svc: svc, pages: pages}
}

// NewRouter creates a chi router with the list and detail views, served for
// GET and HEAD. Any other path or method redirects to the list view.
func NewRouter(svc *noteservice.Service, pages *Pages) chi.Router {
	h := NewHandler(svc, pages)

	r := chi.NewRouter()
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		r.MethodFunc(method, "/", h.List)
		r.MethodFunc(method, "/notes", h.Detail)
		r.MethodFunc(method, "/notes/*", h.Detail)
	}
	r.NotFound(h.Fallback)
	r.MethodNotAllowed(h.Fallback)
	return r
}

// notePath extracts the note path from the URL (everything after /notes/).
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

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.pages.List(&buf, h.svc.Groups(r.Context())); err != nil {
		slog.Error("render list failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// Detail handles GET /notes/*. A path with no note renders the not-found
// page with a link back to the list.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)

	var buf bytes.Buffer
	note, err := h.svc.GetNote(r.Context(), path)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		if err := h.pages.NotFound(&buf, path); err != nil {
			slog.Error("render not found failed", slog.String("path", path), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeHTML(w, http.StatusNotFound, buf.Bytes())
		return
	case err != nil:
		slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := h.pages.Detail(&buf, note); err != nil {
		slog.Error("render detail failed", slog.String("path", path), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// Fallback redirects unknown routes to the list view.
func (h *Handler) Fallback(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
