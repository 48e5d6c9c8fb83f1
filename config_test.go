package inkpress

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSiteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `name: "My Blog"
url: "https://blog.example.com/"
description: "Notes"
author: "Jane"
addr: ":8080"
link_check_enabled: true
post_cache_ttl: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := SiteConfig{AdminPassword: "secret", SessionSecret: "session"}
	if err := LoadSiteConfig(path, &cfg); err != nil {
		t.Fatalf("LoadSiteConfig failed: %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Name != "My Blog" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.URL != "https://blog.example.com" {
		t.Errorf("URL = %q, want trailing slash trimmed", cfg.URL)
	}
	if !cfg.LinkCheckEnabled {
		t.Error("LinkCheckEnabled not set")
	}
	if cfg.PostCacheTTL != Duration(30*time.Second) {
		t.Errorf("PostCacheTTL = %v", time.Duration(cfg.PostCacheTTL))
	}
	// Secrets are env-only and must survive a file load untouched.
	if cfg.AdminPassword != "secret" || cfg.SessionSecret != "session" {
		t.Error("secrets were clobbered by file load")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.ApplyDefaults()

	if cfg.Name != "Blog" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DatabasePath != "data/blog.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.LinkDatabasePath != "data/links.db" {
		t.Errorf("LinkDatabasePath = %q", cfg.LinkDatabasePath)
	}
	if cfg.PostCacheTTL != Duration(5*time.Minute) {
		t.Errorf("PostCacheTTL = %v", time.Duration(cfg.PostCacheTTL))
	}
}

func TestLoadSiteConfigRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("post_cache_ttl: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg SiteConfig
	if err := LoadSiteConfig(path, &cfg); err == nil {
		t.Error("expected error for invalid duration")
	}
}
