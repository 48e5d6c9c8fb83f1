package inkpress

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSitemapListsPostsAndTagPages(t *testing.T) {
	a := feedTestApp()
	posts := []BlogPost{
		{Slug: "new", Date: "2024-05-01"},
		{Slug: "old", Date: "2023-01-15"},
	}
	tags := []string{"go", "web dev"}

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	if err := a.renderSitemap(c, posts, tags); err != nil {
		t.Fatalf("renderSitemap: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<loc>https://blog.example.com/blog/new/</loc>",
		"<loc>https://blog.example.com/blog/old/</loc>",
		"<loc>https://blog.example.com/?tag=go</loc>",
		"<loc>https://blog.example.com/?tag=web+dev</loc>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q:\n%s", want, body)
		}
	}
}

func TestSitemapHomeLastModTracksNewestPost(t *testing.T) {
	a := feedTestApp()
	posts := []BlogPost{
		{Slug: "new", Date: "2024-05-01"},
		{Slug: "old", Date: "2023-01-15"},
	}

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	if err := a.renderSitemap(c, posts, nil); err != nil {
		t.Fatalf("renderSitemap: %v", err)
	}

	body := rec.Body.String()
	want := "<loc>https://blog.example.com</loc><lastmod>2024-05-01</lastmod>"
	if !strings.Contains(body, want) {
		t.Fatalf("expected home entry %q:\n%s", want, body)
	}
}
