package inkpress

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/inkpress/inkpress/links"
	"github.com/inkpress/inkpress/markdown"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// RenderPostHTML returns the final HTML of a post body: Markdown rendered,
// then every external anchor rewritten to open in a new tab. This is the
// canonical render path for post content wherever it appears (pages, feeds).
//
// If the rewrite pass cannot parse the rendered fragment, the body is
// returned unrewritten: a link opening in the wrong context beats a broken
// page.
func RenderPostHTML(siteURL, content string) string {
	var buf bytes.Buffer
	markdown.RenderMarkdown(&buf, content)
	out, err := links.NewClassifier(siteURL).Rewrite(buf.String())
	if err != nil {
		return buf.String()
	}
	return out
}

// PostBody wraps RenderPostHTML as a templ component for templates.
func PostBody(siteURL, content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderPostHTML(siteURL, content))
		return err
	})
}
