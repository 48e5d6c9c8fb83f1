// Package theme provides a default set of templ components for inkpress.
// It is a plain, dependency-light theme meant to get a new blog rendering
// immediately; sites that want their own look supply their own ViewFuncs.
package theme

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/inkpress/inkpress"
	"github.com/inkpress/inkpress/linkcheck"
)

// Views returns the complete ViewFuncs set for the default theme.
func Views(cfg inkpress.SiteConfig) inkpress.ViewFuncs {
	t := &theme{cfg: cfg}
	return inkpress.ViewFuncs{
		Home:             t.home,
		HomePartial:      t.homePartial,
		BlogSection:      t.blogSection,
		Post:             t.post,
		PostPartial:      t.postPartial,
		AdminLogin:       t.adminLogin,
		AdminDashboard:   t.adminDashboard,
		AdminFormPartial: t.adminFormPartial,
		AdminImages:      t.adminImages,
		AdminLinks:       t.adminLinks,
		NotFound:         t.notFound,
		ServerError:      t.serverError,
	}
}

type theme struct {
	cfg inkpress.SiteConfig
}

// pw tracks the first write error so render helpers can stay unconditional.
type pw struct {
	w   io.Writer
	err error
}

func (p *pw) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *pw) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pw) component(ctx context.Context, cmp templ.Component) {
	if p.err != nil {
		return
	}
	p.err = cmp.Render(ctx, p.w)
}

func esc(s string) string { return html.EscapeString(s) }

func (t *theme) layout(title string, meta inkpress.PageMeta, body func(ctx context.Context, p *pw)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pw{w: w}
		p.raw("<!DOCTYPE html><html lang=\"en\"><head>")
		p.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.printf("<title>%s</title>", esc(title))
		if meta.Description != "" {
			p.printf(`<meta name="description" content="%s">`, esc(meta.Description))
		}
		if meta.URL != "" {
			p.printf(`<link rel="canonical" href="%s">`, esc(meta.URL))
			p.printf(`<meta property="og:url" content="%s">`, esc(meta.URL))
		}
		p.printf(`<meta property="og:title" content="%s">`, esc(meta.Title))
		if meta.OGType != "" {
			p.printf(`<meta property="og:type" content="%s">`, esc(meta.OGType))
		}
		p.raw(`<link rel="stylesheet" href="/public/inkpress.css">`)
		p.printf(`<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml">`, esc(t.cfg.Name))
		p.printf(`<script type="application/ld+json">%s</script>`, websiteJsonLD(t.cfg))
		p.raw("</head><body>")
		p.printf(`<header class="site-header"><a class="site-title" href="/">%s</a><nav><a href="/feed.xml">RSS</a></nav></header>`, esc(t.cfg.Name))
		p.raw("<main>")
		body(ctx, p)
		p.raw("</main>")
		p.printf(`<footer class="site-footer">%s`, esc(t.cfg.Name))
		if t.cfg.Author != "" {
			p.printf(" — %s", esc(t.cfg.Author))
		}
		p.raw("</footer></body></html>")
		return p.err
	})
}

func (t *theme) home(posts []inkpress.BlogPost, activeTag string, tags []string, siteURL string) templ.Component {
	meta := inkpress.PageMeta{
		Title:       t.cfg.Name,
		Description: t.cfg.Description,
		URL:         inkpress.BuildURL(siteURL),
		OGType:      "website",
	}
	return t.layout(t.cfg.Name, meta, func(ctx context.Context, p *pw) {
		if t.cfg.Description != "" {
			p.printf("<p>%s</p>", esc(t.cfg.Description))
		}
		p.component(ctx, t.blogSection(posts, activeTag, tags))
	})
}

func (t *theme) homePartial(posts []inkpress.BlogPost, activeTag string, tags []string, siteURL string) templ.Component {
	return t.blogSection(posts, activeTag, tags)
}

func (t *theme) blogSection(posts []inkpress.BlogPost, activeTag string, tags []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pw{w: w}
		if len(tags) > 0 {
			p.raw(`<nav class="tags">`)
			cls := ""
			if activeTag == "" {
				cls = ` class="active"`
			}
			p.printf(`<a href="/"%s>all</a>`, cls)
			for _, tag := range tags {
				cls = ""
				if tag == activeTag {
					cls = ` class="active"`
				}
				p.printf(`<a href="/?tag=%s"%s>%s</a>`, url.PathEscape(tag), cls, esc(tag))
			}
			p.raw("</nav>")
		}
		if len(posts) == 0 {
			p.raw("<p>No posts yet.</p>")
			return p.err
		}
		p.raw(`<ul class="post-list">`)
		for _, post := range posts {
			p.printf(`<li><a href="%s">%s</a><time datetime="%s">%s</time></li>`,
				esc(post.Link+"/"), esc(post.Title), esc(post.Date), esc(post.Date))
		}
		p.raw("</ul>")
		return p.err
	})
}

func (t *theme) post(post inkpress.BlogPost, posts []inkpress.BlogPost, siteURL string) templ.Component {
	meta := inkpress.PageMeta{
		Title:       post.Title,
		Description: post.Summary,
		URL:         inkpress.BuildURL(siteURL, "blog", post.Slug),
		OGType:      "article",
	}
	return t.layout(post.Title+" — "+t.cfg.Name, meta, func(ctx context.Context, p *pw) {
		p.printf(`<script type="application/ld+json">%s</script>`, blogPostingJsonLD(post, t.cfg))
		p.component(ctx, t.postPartial(post, posts, siteURL))
	})
}

func (t *theme) postPartial(post inkpress.BlogPost, posts []inkpress.BlogPost, siteURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pw{w: w}
		p.raw(`<article class="post">`)
		p.printf("<h1>%s</h1>", esc(post.Title))
		p.printf(`<p><time datetime="%s">%s</time>`, esc(post.Date), esc(post.Date))
		if len(post.Tags) > 0 {
			p.printf(" · %s", esc(joinTags(post.Tags)))
		}
		p.raw("</p>")
		p.component(ctx, inkpress.PostBody(siteURL, post.Content))
		p.raw("</article>")
		if related := relatedPosts(post, posts); len(related) > 0 {
			p.raw(`<h2>Related posts</h2><ul class="post-list">`)
			for _, r := range related {
				p.printf(`<li><a href="%s">%s</a><time datetime="%s">%s</time></li>`,
					esc(r.Link+"/"), esc(r.Title), esc(r.Date), esc(r.Date))
			}
			p.raw("</ul>")
		}
		return p.err
	})
}

func (t *theme) adminLogin(showError bool, csrfToken string) templ.Component {
	return t.layout("Admin — "+t.cfg.Name, inkpress.PageMeta{Title: "Admin"}, func(ctx context.Context, p *pw) {
		p.raw("<h1>Admin login</h1>")
		if showError {
			p.raw(`<div class="flash">Wrong password.</div>`)
		}
		p.printf(`<form class="admin-form" method="post" action="/admin/login/">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<label for="password">Password</label>`+
			`<input type="password" id="password" name="password" autofocus>`+
			`<p><button type="submit">Log in</button></p></form>`, esc(csrfToken))
	})
}

func (t *theme) adminDashboard(posts []inkpress.BlogPost, message string, brokenLinks int, csrfToken string) templ.Component {
	return t.layout("Dashboard — "+t.cfg.Name, inkpress.PageMeta{Title: "Dashboard"}, func(ctx context.Context, p *pw) {
		p.raw("<h1>Posts</h1>")
		p.raw(`<p><a href="/admin/images/">Images</a> · <a href="/admin/links/">Outbound links</a></p>`)
		if brokenLinks > 0 {
			p.printf(`<div class="flash status-broken">%d broken outbound link(s). <a href="/admin/links/">Review</a>.</div>`, brokenLinks)
		}
		if message != "" {
			p.printf(`<div class="flash">%s</div>`, esc(message))
		}
		p.raw(`<table class="admin-table"><thead><tr><th>Date</th><th>Title</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, post := range posts {
			status := "draft"
			if post.Published {
				status = "published"
			}
			p.printf(`<tr><td>%s</td><td><a href="/admin/post/%s/">%s</a></td><td>%s</td>`,
				esc(post.Date), url.PathEscape(post.Slug), esc(post.Title), status)
			p.printf(`<td><form method="post" action="/admin/post/%s/" onsubmit="return confirm('Delete %s?')">`+
				`<input type="hidden" name="_csrf" value="%s"><input type="hidden" name="_method" value="DELETE">`+
				`<button class="secondary" type="submit">Delete</button></form></td></tr>`,
				url.PathEscape(post.Slug), esc(post.Title), esc(csrfToken))
		}
		p.raw("</tbody></table>")
		p.raw("<h2>New post</h2>")
		p.component(ctx, t.adminFormPartial(inkpress.BlogPost{}, csrfToken))
		p.printf(`<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="%s">`+
			`<p><button class="secondary" type="submit">Log out</button></p></form>`, esc(csrfToken))
	})
}

func (t *theme) adminFormPartial(post inkpress.BlogPost, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pw{w: w}
		p.raw(`<form class="admin-form" method="post" action="/admin/save/">`)
		p.printf(`<input type="hidden" name="_csrf" value="%s">`, esc(csrfToken))
		p.printf(`<label for="title">Title</label><input type="text" id="title" name="title" value="%s">`, esc(post.Title))
		p.printf(`<label for="slug">Slug</label><input type="text" id="slug" name="slug" value="%s">`, esc(post.Slug))
		p.printf(`<label for="date">Date</label><input type="date" id="date" name="date" value="%s">`, esc(post.Date))
		p.printf(`<label for="tags">Tags</label><input type="text" id="tags" name="tags" value="%s">`, esc(joinTags(post.Tags)))
		p.printf(`<label for="summary">Summary</label><input type="text" id="summary" name="summary" value="%s">`, esc(post.Summary))
		p.printf(`<label for="content">Content</label><textarea id="content" name="content">%s</textarea>`, esc(post.Content))
		checked := ""
		if post.Published {
			checked = " checked"
		}
		p.printf(`<p><label><input type="checkbox" name="published" value="1"%s> Published</label></p>`, checked)
		p.raw(`<p><button type="submit">Save</button></p></form>`)
		return p.err
	})
}

func (t *theme) adminImages(images []inkpress.Image, csrfToken string) templ.Component {
	return t.layout("Images — "+t.cfg.Name, inkpress.PageMeta{Title: "Images"}, func(ctx context.Context, p *pw) {
		p.raw(`<h1>Images</h1><p><a href="/admin/">Back to posts</a></p>`)
		p.printf(`<form class="admin-form" method="post" action="/admin/images/upload/" enctype="multipart/form-data">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<label for="image">Upload image</label><input type="file" id="image" name="image" accept="image/*">`+
			`<p><button type="submit">Upload</button></p></form>`, esc(csrfToken))
		if len(images) == 0 {
			p.raw("<p>No images uploaded.</p>")
			return
		}
		p.raw(`<table class="admin-table"><thead><tr><th>File</th><th>Markdown</th><th>Size</th><th>Uploaded</th></tr></thead><tbody>`)
		for _, img := range images {
			p.printf(`<tr><td><a href="/public/uploads/%s">%s</a> (%dx%d)</td><td><code>%s</code></td><td>%d bytes</td><td>%s</td></tr>`,
				url.PathEscape(img.Filename), esc(img.Filename), img.Width, img.Height, esc(img.Markdown()), img.Size, esc(img.UploadedAt))
		}
		p.raw("</tbody></table>")
	})
}

func (t *theme) adminLinks(results []linkcheck.Result, csrfToken string) templ.Component {
	return t.layout("Outbound links — "+t.cfg.Name, inkpress.PageMeta{Title: "Outbound links"}, func(ctx context.Context, p *pw) {
		p.raw(`<h1>Outbound links</h1><p><a href="/admin/">Back to posts</a> · <a href="/api/links/report.md">Markdown report</a></p>`)
		p.printf(`<form method="post" action="/admin/links/check/"><input type="hidden" name="_csrf" value="%s">`+
			`<p><button type="submit">Run check</button></p></form>`, esc(csrfToken))
		if len(results) == 0 {
			p.raw("<p>No results yet. Run a check to verify every outbound link in published posts.</p>")
			return
		}
		p.raw(`<table class="admin-table"><thead><tr><th>Post</th><th>URL</th><th>Status</th><th>Error</th></tr></thead><tbody>`)
		for _, r := range results {
			cls := "status-ok"
			if !r.OK {
				cls = "status-broken"
			}
			status := "-"
			if r.Status != 0 {
				status = fmt.Sprintf("%d", r.Status)
			}
			p.printf(`<tr><td>%s</td><td><a href="%s" target="_blank" rel="noopener noreferrer">%s</a></td><td class="%s">%s</td><td>%s</td></tr>`,
				esc(r.Slug), esc(r.URL), esc(truncate(r.URL, 80)), cls, status, esc(r.Error))
		}
		p.raw("</tbody></table>")
	})
}

func (t *theme) notFound() templ.Component {
	return t.layout("Not found — "+t.cfg.Name, inkpress.PageMeta{Title: "Not found"}, func(ctx context.Context, p *pw) {
		p.raw(`<h1>Page not found</h1><p>The page you were looking for does not exist. <a href="/">Go home</a>.</p>`)
	})
}

func (t *theme) serverError() templ.Component {
	return t.layout("Error — "+t.cfg.Name, inkpress.PageMeta{Title: "Error"}, func(ctx context.Context, p *pw) {
		p.raw(`<h1>Something went wrong</h1><p>An unexpected error occurred. <a href="/">Go home</a>.</p>`)
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "…"
}
