// Package links classifies anchor elements as external or internal and
// rewrites external anchors so activating them opens a new browsing context.
//
// Classification is a pure predicate over an href string plus an injected
// site hostname, so it is testable without a running server. The rewrite is
// a one-shot pass over a rendered HTML fragment and is idempotent.
package links

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Classifier decides whether anchors point away from the site.
type Classifier struct {
	host string
}

// NewClassifier returns a Classifier for the given site URL. A bare hostname
// is accepted too.
func NewClassifier(site string) *Classifier {
	return &Classifier{host: Hostname(site)}
}

// Hostname extracts the hostname from a URL string, dropping scheme, port,
// and path. Input that does not parse as a URL with a host is returned
// trimmed, on the assumption it already is a hostname.
func Hostname(site string) string {
	site = strings.TrimSpace(site)
	if u, err := url.Parse(site); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return site
}

// IsExternal reports whether href resolves to a hostname different from the
// site's. Empty hrefs, mailto: and javascript: schemes, relative URLs, and
// hrefs that cannot be parsed into a hostname are never external.
//
// Hostname comparison is case-sensitive byte equality. Ports and schemes are
// ignored: two URLs differing only by port share a hostname and count as
// internal.
func (c *Classifier) IsExternal(href string) bool {
	if href == "" {
		return false
	}
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	return host != c.host
}

// Rewrite parses an HTML fragment, sets target="_blank" and
// rel="noopener noreferrer" on every external anchor, and returns the
// fragment re-serialized. Non-external anchors are left untouched. Running
// the pass again on its own output yields identical output.
func (c *Classifier) Rewrite(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("links: parse fragment: %w", err)
	}
	doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		return ok && c.IsExternal(href)
	}).Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("target", "_blank")
		s.SetAttr("rel", "noopener noreferrer")
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("links: serialize fragment: %w", err)
	}
	return out, nil
}

// ExternalHrefs returns the deduplicated external hrefs found in an HTML
// fragment, in document order.
func (c *Classifier) ExternalHrefs(fragment string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("links: parse fragment: %w", err)
	}
	seen := make(map[string]struct{})
	var hrefs []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !c.IsExternal(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		hrefs = append(hrefs, href)
	})
	return hrefs, nil
}
