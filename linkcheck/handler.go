package linkcheck

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// Handler exposes link check results and run triggering over HTTP.
// All routes are admin-only; the caller supplies the auth middleware.
type Handler struct {
	store    *Store
	run      func(ctx context.Context) error
	siteName string

	mu      sync.Mutex
	running bool
}

// NewHandler creates a Handler backed by store. run performs a full check
// when the trigger endpoint is called.
func NewHandler(store *Store, siteName string, run func(ctx context.Context) error) *Handler {
	return &Handler{store: store, run: run, siteName: siteName}
}

// RegisterRoutes mounts the link check API under /api/links.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware echo.MiddlewareFunc) {
	g := e.Group("/api/links", authMiddleware)
	g.GET("/results", h.handleResults)
	g.GET("/broken", h.handleBroken)
	g.GET("/report.md", h.handleReport)
	g.POST("/check", h.handleCheck)
}

func (h *Handler) handleResults(c echo.Context) error {
	results, err := h.store.ListResults()
	if err != nil {
		return err
	}
	if results == nil {
		results = []Result{}
	}
	return c.JSON(http.StatusOK, results)
}

func (h *Handler) handleBroken(c echo.Context) error {
	results, err := h.store.ListBroken()
	if err != nil {
		return err
	}
	if results == nil {
		results = []Result{}
	}
	return c.JSON(http.StatusOK, results)
}

func (h *Handler) handleReport(c echo.Context) error {
	results, err := h.store.ListResults()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/markdown; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteReport(c.Response(), h.siteName, results)
}

// handleCheck starts a check run in the background. Only one run may be in
// flight at a time.
func (h *Handler) handleCheck(c echo.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return c.JSON(http.StatusConflict, map[string]string{"status": "already running"})
	}
	h.running = true
	h.mu.Unlock()

	logger := c.Logger()
	go func() {
		defer func() {
			h.mu.Lock()
			h.running = false
			h.mu.Unlock()
		}()
		if err := h.run(context.Background()); err != nil {
			logger.Errorf("link check run: %v", err)
		}
	}()
	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
