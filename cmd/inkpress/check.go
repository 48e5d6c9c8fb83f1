package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/inkpress/inkpress"
	"github.com/inkpress/inkpress/linkcheck"
	"github.com/inkpress/inkpress/links"
	"github.com/inkpress/inkpress/markdown"
)

// runCheck probes every outbound link in published posts and writes a
// Markdown report to outPath, or stdout when outPath is empty. The run
// also replaces the stored results so the admin dashboard shows them.
func runCheck(outPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := inkpress.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	posts, err := store.ListPosts("")
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No published posts to check.")
		return nil
	}

	sources := make([]linkcheck.Source, 0, len(posts))
	for _, p := range posts {
		var buf bytes.Buffer
		markdown.RenderMarkdown(&buf, p.Content)
		sources = append(sources, linkcheck.Source{Slug: p.Slug, HTML: buf.String()})
	}

	checker := linkcheck.NewChecker(links.NewClassifier(cfg.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	fmt.Printf("Checking outbound links in %d post(s)...\n", len(posts))
	results, err := checker.Run(ctx, sources)
	if err != nil {
		return err
	}

	linkStore, err := linkcheck.NewStore(cfg.LinkDatabasePath)
	if err != nil {
		return err
	}
	defer linkStore.Close()
	if err := linkStore.ReplaceAll(results); err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := linkcheck.WriteReport(out, cfg.Name, results); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("Report written to %s\n", outPath)
	}

	broken := 0
	for _, r := range results {
		if !r.OK {
			broken++
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d broken link(s) found", broken)
	}
	return nil
}

// loadConfig reads config.yml from the working directory when present,
// falling back to defaults so the CLI works in a fresh checkout.
func loadConfig() (inkpress.SiteConfig, error) {
	var cfg inkpress.SiteConfig
	if _, err := os.Stat("config.yml"); err == nil {
		if err := inkpress.LoadSiteConfig("config.yml", &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
