package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/starford/folio/internal/noteservice"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTitle is the site title used when none is configured.
const DefaultTitle = "Notes"

// Pages renders the list, detail and not-found pages.
type Pages struct {
	title       string
	staticLinks bool

	list     *template.Template
	detail   *template.Template
	notFound *template.Template
}

// PageOption configures Pages.
type PageOption func(*Pages)

// WithTitle sets the site title shown in the header.
func WithTitle(title string) PageOption {
	return func(p *Pages) {
		if title != "" {
			p.title = title
		}
	}
}

// WithStaticLinks makes note links point at directory indexes
// (/notes/a/b/) so exported pages work from a plain file server.
func WithStaticLinks() PageOption {
	return func(p *Pages) {
		p.staticLinks = true
	}
}

// NewPages parses the embedded templates.
func NewPages(opts ...PageOption) (*Pages, error) {
	p := &Pages{title: DefaultTitle}
	for _, opt := range opts {
		opt(p)
	}

	funcs := template.FuncMap{"noteHref": p.NoteHref}
	parse := func(page string) (*template.Template, error) {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", page, err)
		}
		return t, nil
	}

	var err error
	if p.list, err = parse("list.html"); err != nil {
		return nil, err
	}
	if p.detail, err = parse("detail.html"); err != nil {
		return nil, err
	}
	if p.notFound, err = parse("notfound.html"); err != nil {
		return nil, err
	}
	return p, nil
}

// NoteHref returns the detail-view URL of a note path, escaping each segment.
func (p *Pages) NoteHref(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	href := "/notes/" + strings.Join(segments, "/")
	if p.staticLinks {
		href += "/"
	}
	return href
}

type pageData struct {
	Site   string
	Groups []noteservice.GroupItems
	Note   *noteservice.NoteDetail
	Path   string
}

// List renders the list view.
func (p *Pages) List(w io.Writer, groups []noteservice.GroupItems) error {
	return p.list.ExecuteTemplate(w, "layout", pageData{Site: p.title, Groups: groups})
}

// Detail renders the detail view of a found note.
func (p *Pages) Detail(w io.Writer, note *noteservice.NoteDetail) error {
	return p.detail.ExecuteTemplate(w, "layout", pageData{Site: p.title, Note: note})
}

// NotFound renders the not-found view for path, which may be empty.
func (p *Pages) NotFound(w io.Writer, path string) error {
	return p.notFound.ExecuteTemplate(w, "layout", pageData{Site: p.title, Path: path})
}
