package inkpress

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func middlewareTestApp() *App {
	a := New(SiteConfig{
		Name:          "Test Blog",
		URL:           "https://blog.example.com",
		AdminPassword: "pw",
		SessionSecret: "0123456789abcdef",
	}, ViewFuncs{})
	a.setupMiddleware()
	return a
}

func TestCSRFGuardsLinkCheckTrigger(t *testing.T) {
	a := middlewareTestApp()
	triggered := false
	a.Echo.POST("/api/links/check", func(c echo.Context) error {
		triggered = true
		return c.NoContent(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/links/check", nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a CSRF token, got %d", rec.Code)
	}
	if triggered {
		t.Fatalf("handler must not run without a CSRF token")
	}
}

func TestCSRFAllowsTokenFreeReads(t *testing.T) {
	a := middlewareTestApp()
	a.Echo.GET("/api/links/results", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/links/results", nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a read without a token, got %d", rec.Code)
	}
}
