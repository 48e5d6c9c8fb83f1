package inkpress

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for an inkpress site. Branding fields
// can also be loaded from a YAML config file; secrets are env-only.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/blog.db")

	LinkCheckEnabled bool   `yaml:"link_check_enabled"` // Enable outbound link checking
	LinkDatabasePath string `yaml:"link_database_path"` // Link results SQLite path (default "data/links.db")

	AdminPassword string `yaml:"-"` // Required: admin login password
	SessionSecret string `yaml:"-"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"` // Set true for HTTPS

	PostCacheTTL Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 5min)
}

// Duration wraps time.Duration so YAML configs can use strings like "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("inkpress: invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(v)
	return nil
}

// ApplyDefaults fills in defaults for any unset fields. New calls this for
// the server path; the CLI calls it directly.
func (c *SiteConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.LinkDatabasePath == "" {
		c.LinkDatabasePath = "data/links.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = Duration(5 * time.Minute)
	}
}

// LoadSiteConfig reads a YAML site config file (conventionally config.yml)
// into cfg. File values overwrite whatever cfg already holds for the keys
// present in the file. Secrets are never read from the file.
func LoadSiteConfig(path string, cfg *SiteConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("inkpress: read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("inkpress: parse config file: %w", err)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
