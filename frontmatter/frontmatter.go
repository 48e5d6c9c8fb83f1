// Package frontmatter parses Jekyll-style YAML front matter from Markdown
// post files.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Meta is the decoded YAML header of a post file.
type Meta struct {
	Title      string     `yaml:"title"`
	Date       string     `yaml:"date"`
	Slug       string     `yaml:"slug"`
	Tags       StringList `yaml:"tags"`
	Categories StringList `yaml:"categories"`
	Summary    string     `yaml:"summary"`
	Published  *bool      `yaml:"published"`
}

// IsPublished reports the published flag, defaulting to true when the header
// omits it (Jekyll semantics).
func (m Meta) IsPublished() bool {
	return m.Published == nil || *m.Published
}

// AllTags merges tags and categories into one deduplicated slice,
// preserving order.
func (m Meta) AllTags() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range append(append([]string{}, m.Tags...), m.Categories...) {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// StringList decodes either a YAML sequence or a space-separated scalar.
// Jekyll accepts both forms for tags and categories.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = strings.Fields(s)
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = ss
		return nil
	default:
		return fmt.Errorf("frontmatter: cannot decode %v node into string list", value.Kind)
	}
}

// Parse splits src into front matter and body. Documents without a leading
// front matter block return a zero Meta and the full input as body.
func Parse(src string) (Meta, string, error) {
	var meta Meta
	normalized := strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(normalized, delimiter+"\n") {
		return meta, src, nil
	}
	// The closing delimiter is a line that is exactly "---"; lines that
	// merely start with dashes ("----", "--- draft") belong to the header.
	lines := strings.Split(normalized, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == delimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return meta, src, fmt.Errorf("frontmatter: unterminated front matter block")
	}
	header := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return Meta{}, src, fmt.Errorf("frontmatter: decode header: %w", err)
	}
	return meta, body, nil
}
