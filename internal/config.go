package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/web"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Notes  NotesConfig       `yaml:"notes"`
	Render RenderConfig      `yaml:"render"`
	Site   SiteConfig        `yaml:"site"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	return c.Site.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

var suffixRe = regexp.MustCompile(`^(\.[A-Za-z0-9_-]+)+$`)

// NotesConfig says where notes are read from.
//
// Dir empty (default) serves the notes embedded in the binary at build time;
// otherwise Dir is read once at start.
type NotesConfig struct {
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Suffix, validation.Required, validation.Match(suffixRe).Error("must look like .md")),
	)
}

// RenderConfig holds Markdown rendering options.
type RenderConfig struct {
	Extensions []string `yaml:"extensions"`
	UnsafeHTML bool     `yaml:"unsafe_html"`
	HardWraps  bool     `yaml:"hard_wraps"`
	// CacheSize bounds the rendered-note cache; 0 disables it.
	CacheSize int `yaml:"cache_size"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	known := render.Extensions()
	allowed := make([]any, len(known))
	for i, name := range known {
		allowed[i] = name
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Extensions, validation.Each(validation.In(allowed...))),
		validation.Field(&c.CacheSize, validation.Min(0)),
	)
}

// Options converts the configuration for the render package.
func (c *RenderConfig) Options() render.Options {
	return render.Options{
		Extensions: c.Extensions,
		UnsafeHTML: c.UnsafeHTML,
		HardWraps:  c.HardWraps,
	}
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Title string `yaml:"title"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required, validation.Length(1, 120)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Notes: NotesConfig{
			Suffix: ".md",
		},
		Render: RenderConfig{
			Extensions: render.DefaultOptions().Extensions,
			CacheSize:  128,
		},
		Site: SiteConfig{
			Title: web.DefaultTitle,
		},
	}
}
