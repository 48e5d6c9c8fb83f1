package inkpress

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// isPartialRequest reports whether the client asked for an htmx fragment
// swap rather than a full page.
func isPartialRequest(c echo.Context, name string) bool {
	return c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == name
}

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	switch {
	case isPartialRequest(c, "blog"):
		return Render(c, a.Views.BlogSection(posts, tag, tags))
	case isPartialRequest(c, "home"):
		return Render(c, a.Views.HomePartial(posts, tag, tags, a.Config.URL))
	}
	return Render(c, a.Views.Home(posts, tag, tags, a.Config.URL))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	if isPartialRequest(c, "post") {
		return Render(c, a.Views.PostPartial(post, posts, a.Config.URL))
	}
	return Render(c, a.Views.Post(post, posts, a.Config.URL))
}

// Legacy /blog listing URL; the post list lives on the home page.
func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	case code >= 500:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
