// Package inkpress is a blog publishing engine built with Go, Echo, and templ.
// It provides blog CRUD, an admin dashboard, RSS, sitemap, and outbound-link
// handling out of the box: post bodies are rendered from Markdown and every
// anchor pointing away from the site is rewritten to open in a new tab.
//
// Users provide their own templ components via the ViewFuncs struct (the
// theme package ships a default set), and inkpress handles handler logic,
// middleware, and database operations.
package inkpress

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/inkpress/inkpress/linkcheck"
	"github.com/inkpress/inkpress/links"
	"github.com/inkpress/inkpress/markdown"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets
// users own and customize all templates.
type ViewFuncs struct {
	Home             func(posts []BlogPost, activeTag string, tags []string, siteURL string) templ.Component
	HomePartial      func(posts []BlogPost, activeTag string, tags []string, siteURL string) templ.Component
	BlogSection      func(posts []BlogPost, activeTag string, tags []string) templ.Component
	Post             func(post BlogPost, posts []BlogPost, siteURL string) templ.Component
	PostPartial      func(post BlogPost, posts []BlogPost, siteURL string) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []BlogPost, message string, brokenLinks int, csrfToken string) templ.Component
	AdminFormPartial func(post BlogPost, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	AdminLinks       func(results []linkcheck.Result, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central inkpress application. It wires together the store,
// cache, link checker, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	linkStore    *linkcheck.Store
	checker      *linkcheck.Checker
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new inkpress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.ApplyDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, middleware, routes, and starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("inkpress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkpress: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("inkpress: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, time.Duration(a.Config.PostCacheTTL))
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.LinkCheckEnabled {
		linkStore, err := linkcheck.NewStore(a.Config.LinkDatabasePath)
		if err != nil {
			return fmt.Errorf("inkpress: init link store: %w", err)
		}
		a.linkStore = linkStore
		a.checker = linkcheck.NewChecker(links.NewClassifier(a.Config.URL))
		stopCleanup := linkStore.StartCleanupScheduler(90, 24*time.Hour)
		defer stopCleanup()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded engine assets (default stylesheet) are served under /public/
	// and fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/inkpress.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Link check routes
	if a.Config.LinkCheckEnabled && a.linkStore != nil {
		linkHandler := linkcheck.NewHandler(a.linkStore, a.Config.Name, a.RunLinkCheck)
		authMiddleware := func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if !IsAdmin(c) {
					return c.Redirect(http.StatusSeeOther, "/admin/")
				}
				return next(c)
			}
		}
		linkHandler.RegisterRoutes(e, authMiddleware)
		e.GET("/admin/links/", a.handleAdminLinks)
		e.POST("/admin/links/check/", a.handleAdminLinkCheck)
	}
}

// RunLinkCheck renders every published post and probes its outbound links,
// replacing the stored results with the fresh run.
func (a *App) RunLinkCheck(ctx context.Context) error {
	if a.checker == nil || a.linkStore == nil {
		return fmt.Errorf("inkpress: link checking is not enabled")
	}
	posts, err := a.Store.ListPosts("")
	if err != nil {
		return fmt.Errorf("inkpress: list posts for link check: %w", err)
	}
	sources := make([]linkcheck.Source, 0, len(posts))
	for _, p := range posts {
		var buf bytes.Buffer
		markdown.RenderMarkdown(&buf, p.Content)
		sources = append(sources, linkcheck.Source{Slug: p.Slug, HTML: buf.String()})
	}
	results, err := a.checker.Run(ctx, sources)
	if err != nil {
		return err
	}
	return a.linkStore.ReplaceAll(results)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.linkStore != nil {
		a.linkStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("inkpress: required environment variable %s is not set", key)
	}
	return v
}
