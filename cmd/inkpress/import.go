package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/inkpress/inkpress"
	"github.com/inkpress/inkpress/frontmatter"
)

// jekyllName matches post filenames like 2015-09-02-my-first-post.md.
var jekyllName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

func runImport(dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := inkpress.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	imported := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".markdown" {
			return nil
		}

		post, err := readPost(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := store.SavePost(post); err != nil {
			return fmt.Errorf("%s: save: %w", path, err)
		}
		fmt.Printf("  imported %s -> /blog/%s/\n", path, post.Slug)
		imported++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nImported %d post(s) into %s\n", imported, cfg.DatabasePath)
	return nil
}

// readPost parses one Markdown file into a BlogPost. The front matter wins
// over the filename for slug and date; Jekyll-style names like
// 2015-09-02-title.md supply both when the header omits them.
func readPost(path string) (inkpress.BlogPost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inkpress.BlogPost{}, err
	}

	meta, body, err := frontmatter.Parse(string(data))
	if err != nil {
		return inkpress.BlogPost{}, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	nameDate, nameSlug := "", base
	if m := jekyllName.FindStringSubmatch(base); m != nil {
		nameDate, nameSlug = m[1], m[2]
	}

	slug := meta.Slug
	if slug == "" {
		slug = inkpress.Slugify(nameSlug)
	}
	if slug == "" {
		return inkpress.BlogPost{}, fmt.Errorf("cannot derive a slug")
	}

	date := normalizeDate(meta.Date)
	if date == "" {
		date = nameDate
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	title := meta.Title
	if title == "" {
		title = toTitle(nameSlug)
	}

	return inkpress.BlogPost{
		Slug:      slug,
		Title:     title,
		Date:      date,
		Tags:      meta.AllTags(),
		Summary:   meta.Summary,
		Content:   body,
		Published: meta.IsPublished(),
	}, nil
}

// normalizeDate reduces a Jekyll date value (which may carry a time and zone,
// e.g. "2015-09-02 10:00:00 -0500") to YYYY-MM-DD.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < 10 {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw[:10]); err != nil {
		return ""
	}
	return raw[:10]
}
