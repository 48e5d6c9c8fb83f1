package inkpress

import (
	"encoding/xml"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, tags)
}

// renderSitemap lists the home page, every published post, and one filtered
// listing per tag. Posts arrive newest first, so the first post's date
// doubles as the home page's lastmod.
func (a *App) renderSitemap(c echo.Context, posts []BlogPost, tags []string) error {
	base := a.Config.URL
	home := sitemapURL{Loc: BuildURL(base)}
	if len(posts) > 0 {
		home.LastMod = posts[0].Date
	}
	urls := []sitemapURL{home}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: p.Date,
		})
	}
	for _, tag := range tags {
		urls = append(urls, sitemapURL{
			Loc: BuildURL(base) + "/?tag=" + url.QueryEscape(tag),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
