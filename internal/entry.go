// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/noteservice"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/site"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/web"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger initializes the structured JSON logger and makes it the default.
func (app *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadCatalog collects and indexes every note once. Any read failure is
// fatal: the application never starts with a partial note set.
func loadCatalog(cfg *Config, logger *slog.Logger) (*catalog.Catalog, error) {
	src, err := storage.Open(cfg.Notes.Dir)
	if err != nil {
		return nil, fmt.Errorf("open notes: %w", err)
	}
	sources, err := src.Collect(cfg.Notes.Suffix)
	if err != nil {
		return nil, fmt.Errorf("collect notes: %w", err)
	}
	c, err := catalog.New(catalog.Index(sources, src.Root, cfg.Notes.Suffix))
	if err != nil {
		return nil, fmt.Errorf("index notes: %w", err)
	}
	logger.Info("Notes loaded",
		slog.String("origin", src.Origin),
		slog.Int("notes", c.Len()),
		slog.Int("categories", len(c.Categories())))
	return c, nil
}

// newService builds the catalog and the note service over it.
func newService(cfg *Config, logger *slog.Logger) (*noteservice.Service, error) {
	c, err := loadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}
	r, err := render.New(cfg.Render.Options())
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	svc := noteservice.NewService(c, r)
	if cfg.Render.CacheSize > 0 {
		if err := svc.EnableCache(cfg.Render.CacheSize); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// NewHandler builds the full HTTP handler: health checks, the JSON API
// under /api and the HTML views for everything else.
func NewHandler(cfg *Config, svc *noteservice.Service) (http.Handler, error) {
	pages, err := web.NewPages(web.WithTitle(cfg.Site.Title))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(svc))
	r.Mount("/", web.NewRouter(svc, pages))
	return r, nil
}

// Run loads the notes and serves the browser over HTTP until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("notes_dir", cfg.Notes.Dir),
		slog.String("notes_suffix", cfg.Notes.Suffix),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	handler, err := NewHandler(cfg, svc)
	if err != nil {
		return fmt.Errorf("init handler: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// Export loads the notes and writes the static site to outDir.
func Export(ctx context.Context, outDir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	pages, err := web.NewPages(web.WithTitle(cfg.Site.Title), web.WithStaticLinks())
	if err != nil {
		return err
	}
	exporter, err := site.NewExporter(svc, pages, outDir, logger)
	if err != nil {
		return err
	}

	n, err := exporter.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("Site exported", slog.String("out", outDir), slog.Int("notes", n))
	return nil
}

// ServeMCP loads the notes and serves the MCP tools on stdin/stdout.
// Logs go to the configured log output, which must not be stdout.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if app.logOutput == os.Stdout {
		app.logOutput = os.Stderr
	}
	logger := app.logger()

	svc, err := newService(app.config, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc, app.version).ServeStdio()
}
