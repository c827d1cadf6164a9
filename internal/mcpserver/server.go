// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note catalog read-only over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/noteservice"
)

// IndexURI is the resource holding the Markdown index of all notes.
const IndexURI = "folio://index"

// Server wraps the MCP server with note tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all note tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes, or the notes of one category. "+
			"Returns JSON objects with path, name and category."),
		mcp.WithString("category", mcp.Description("Optional category to list (exact match, empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the raw Markdown of a note by its exact path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note path without extension (e.g. React/hooks/useRef)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the category names notes are grouped under."),
	), s.listCategories)

	s.mcp.AddResource(
		mcp.NewResource(IndexURI, "Note Index",
			mcp.WithResourceDescription("Every note path grouped by category, as Markdown."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readIndexResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")

	items := s.svc.ListNotes(ctx)
	if category != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.Category == category {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(note.Content), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(s.svc.Categories(ctx), "\n")), nil
}

func (s *Server) readIndexResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      IndexURI,
			MIMEType: "text/markdown",
			Text:     IndexMarkdown(s.svc.Groups(ctx)),
		},
	}, nil
}

// IndexMarkdown renders groups as a Markdown outline: one heading per
// category and one bullet per note path.
func IndexMarkdown(groups []noteservice.GroupItems) string {
	var b strings.Builder
	b.WriteString("# Notes\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "\n## %s\n\n", g.Category)
		for _, n := range g.Notes {
			fmt.Fprintf(&b, "- `%s`\n", n.Path)
		}
	}
	return b.String()
}
