package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/noteservice"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/testutil"
)

func testEnv(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(testutil.TestService(t))
}

func do(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListNotes(t *testing.T) {
	router := testEnv(t)
	w := do(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp NoteListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != len(testutil.Fixtures) || len(resp.Notes) != resp.Total {
		t.Errorf("total = %d, notes = %d, want %d", resp.Total, len(resp.Notes), len(testutil.Fixtures))
	}
	if resp.Notes[0].Path != "README" {
		t.Errorf("first note = %+v, want README", resp.Notes[0])
	}
}

func TestGetNote(t *testing.T) {
	router := testEnv(t)
	w := do(t, router, http.MethodGet, "/notes/React/hooks/useRef", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var note NoteDetail
	if err := json.Unmarshal(w.Body.Bytes(), &note); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if note.Path != "React/hooks/useRef" || note.Name != "useRef" || note.Category != "React" {
		t.Errorf("note = %+v", note)
	}
	if note.Content != "# Title" {
		t.Errorf("content = %q", note.Content)
	}
	if etag := w.Header().Get("ETag"); etag != `"`+note.Checksum+`"` {
		t.Errorf("etag = %q, checksum = %q", etag, note.Checksum)
	}
}

func TestGetNote_EncodedSlashes(t *testing.T) {
	router := testEnv(t)
	w := do(t, router, http.MethodGet, "/notes/React%2Fhooks%2FuseRef", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestGetNote_NotModified(t *testing.T) {
	router := testEnv(t)
	first := do(t, router, http.MethodGet, "/notes/a/x", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	w := do(t, router, http.MethodGet, "/notes/a/x", map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("304 body should be empty, got %q", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/notes/b/x", map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusOK {
		t.Errorf("other note status = %d, want 200", w.Code)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	router := testEnv(t)
	for _, target := range []string{"/notes/does/not/exist", "/notes/", "/notes/README.md"} {
		w := do(t, router, http.MethodGet, target, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, w.Code)
		}
		var resp errResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Error != "not found" {
			t.Errorf("%s: error = %q", target, resp.Error)
		}
	}
}

func TestCategories(t *testing.T) {
	router := testEnv(t)
	w := do(t, router, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp CategoriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	total := 0
	for _, g := range resp.Groups {
		for _, n := range g.Notes {
			if n.Category != g.Category {
				t.Errorf("note %q listed under %q", n.Path, g.Category)
			}
		}
		total += len(g.Notes)
	}
	if total != len(testutil.Fixtures) {
		t.Errorf("grouped %d notes, want %d", total, len(testutil.Fixtures))
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	router := testEnv(t)
	if w := do(t, router, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/notes", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", w.Code)
	}
}

func TestGetNote_PercentInPathDecodedOnce(t *testing.T) {
	c, err := catalog.New(catalog.Index(map[string]string{
		"notes/Go/50%25 rule.md": "# Half",
	}, "notes", ".md"))
	if err != nil {
		t.Fatal(err)
	}
	r, _ := render.New(render.DefaultOptions())
	router := NewRouter(noteservice.NewService(c, r))

	target := "/notes/Go/" + url.PathEscape("50%25 rule")
	w := do(t, router, http.MethodGet, target, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status = %d, body = %s", target, w.Code, w.Body.String())
	}
	var note NoteDetail
	if err := json.NewDecoder(w.Body).Decode(&note); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if note.Path != "Go/50%25 rule" {
		t.Errorf("path = %q, want %q", note.Path, "Go/50%25 rule")
	}
}

func TestHead(t *testing.T) {
	router := testEnv(t)
	for _, target := range []string{"/notes", "/notes/a/x", "/categories"} {
		if w := do(t, router, http.MethodHead, target, nil); w.Code != http.StatusOK {
			t.Errorf("HEAD %s: status = %d, want 200", target, w.Code)
		}
	}
}

func TestGetNote_IfNoneMatchForms(t *testing.T) {
	router := testEnv(t)
	etag := do(t, router, http.MethodGet, "/notes/a/x", nil).Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	tests := []struct {
		header string
		want   int
	}{
		{etag, http.StatusNotModified},
		{"W/" + etag, http.StatusNotModified},
		{`"other", ` + etag, http.StatusNotModified},
		{`"other",W/` + etag, http.StatusNotModified},
		{"*", http.StatusNotModified},
		{`"other"`, http.StatusOK},
		{`"other", W/"another"`, http.StatusOK},
	}
	for _, tt := range tests {
		w := do(t, router, http.MethodGet, "/notes/a/x", map[string]string{"If-None-Match": tt.header})
		if w.Code != tt.want {
			t.Errorf("If-None-Match %s: status = %d, want %d", tt.header, w.Code, tt.want)
		}
	}

	if w := do(t, router, http.MethodGet, "/notes/nope", map[string]string{"If-None-Match": "*"}); w.Code != http.StatusNotFound {
		t.Errorf("missing note with *: status = %d, want 404", w.Code)
	}
}
