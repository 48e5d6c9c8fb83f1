package frontmatter

import (
	"strings"
	"testing"
)

func TestParseFullHeader(t *testing.T) {
	src := `---
title: Nested Forms In Rails
date: 2015-09-02 08:41:20 -0400
tags:
  - rails
  - forms
summary: Building nested forms.
---

Body text here.`

	meta, body, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Nested Forms In Rails" {
		t.Errorf("Title = %q", meta.Title)
	}
	if !strings.HasPrefix(meta.Date, "2015-09-02") {
		t.Errorf("Date = %q", meta.Date)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "rails" || meta.Tags[1] != "forms" {
		t.Errorf("Tags = %v", meta.Tags)
	}
	if !meta.IsPublished() {
		t.Error("published should default to true")
	}
	if strings.TrimSpace(body) != "Body text here." {
		t.Errorf("body = %q", body)
	}
}

func TestParseScalarCategories(t *testing.T) {
	src := "---\ntitle: T\ncategories: rails oauth\n---\nbody"
	meta, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(meta.Categories) != 2 || meta.Categories[0] != "rails" || meta.Categories[1] != "oauth" {
		t.Errorf("Categories = %v", meta.Categories)
	}
}

func TestParsePublishedFalse(t *testing.T) {
	src := "---\ntitle: Draft\npublished: false\n---\nbody"
	meta, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.IsPublished() {
		t.Error("published: false should be respected")
	}
}

func TestParseNoFrontMatter(t *testing.T) {
	src := "# Just Markdown\n\nNo header."
	meta, body, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "" {
		t.Errorf("Title = %q, want empty", meta.Title)
	}
	if body != src {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestParseUnterminatedHeader(t *testing.T) {
	src := "---\ntitle: Broken"
	if _, _, err := Parse(src); err == nil {
		t.Error("expected error for unterminated front matter")
	}
}

func TestParseDelimiterLineMustBeExact(t *testing.T) {
	// Lines that merely start with dashes never close the header.
	src := "---\ntitle: T\n--- # not the end\nbody"
	if _, _, err := Parse(src); err == nil {
		t.Error("expected error when no exact closing delimiter exists")
	}

	src = "---\ntitle: T\n----\nbody"
	if _, _, err := Parse(src); err == nil {
		t.Error("expected error for a four-dash pseudo-delimiter")
	}
}

func TestParseBodyKeepsHorizontalRules(t *testing.T) {
	src := "---\ntitle: T\n---\nintro\n---\nmore"
	meta, body, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "T" {
		t.Errorf("Title = %q", meta.Title)
	}
	if body != "intro\n---\nmore" {
		t.Errorf("body = %q", body)
	}
}

func TestParseDelimiterAtEndOfInput(t *testing.T) {
	src := "---\ntitle: T\n---"
	meta, body, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "T" || body != "" {
		t.Errorf("meta = %+v, body = %q", meta, body)
	}
}

func TestAllTagsMergesAndDeduplicates(t *testing.T) {
	meta := Meta{
		Tags:       StringList{"rails", "forms"},
		Categories: StringList{"rails", "web"},
	}
	got := meta.AllTags()
	want := []string{"rails", "forms", "web"}
	if len(got) != len(want) {
		t.Fatalf("AllTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseCRLFInput(t *testing.T) {
	src := "---\r\ntitle: Windows\r\n---\r\nbody"
	meta, body, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Windows" {
		t.Errorf("Title = %q", meta.Title)
	}
	if strings.TrimSpace(body) != "body" {
		t.Errorf("body = %q", body)
	}
}
