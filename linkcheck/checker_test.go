package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/inkpress/links"
)

// testClassifier treats example.com as the site, so any httptest server
// (127.0.0.1) counts as external.
func testClassifier() *links.Classifier {
	return links.NewClassifier("https://example.com")
}

func TestRunProbesExternalLinks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer ts.Close()

	sources := []Source{
		{Slug: "post-a", HTML: `<p><a href="` + ts.URL + `/ok">good</a> <a href="` + ts.URL + `/missing">bad</a></p>`},
		{Slug: "post-b", HTML: `<p><a href="/internal">skip</a> <a href="mailto:x@y.z">skip</a></p>`},
	}

	ch := NewChecker(testClassifier(), WithPerHostInterval(0))
	results, err := ch.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (internal and mailto links must be skipped)", len(results))
	}

	byURL := make(map[string]Result)
	for _, r := range results {
		byURL[r.URL] = r
	}
	if r := byURL[ts.URL+"/ok"]; !r.OK || r.Status != http.StatusOK || r.Slug != "post-a" {
		t.Errorf("unexpected result for /ok: %+v", r)
	}
	if r := byURL[ts.URL+"/missing"]; r.OK || r.Status != http.StatusNotFound {
		t.Errorf("unexpected result for /missing: %+v", r)
	}
}

func TestRunFallsBackToGET(t *testing.T) {
	var sawGet bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ch := NewChecker(testClassifier(), WithPerHostInterval(0))
	results, err := ch.Run(context.Background(), []Source{
		{Slug: "a", HTML: `<a href="` + ts.URL + `/page">x</a>`},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !sawGet {
		t.Error("checker did not fall back to GET after 405")
	}
	if !results[0].OK {
		t.Errorf("result should be OK after GET fallback: %+v", results[0])
	}
}

func TestRunRecordsTransportErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close() // connection refused from here on

	ch := NewChecker(testClassifier(), WithPerHostInterval(0))
	results, err := ch.Run(context.Background(), []Source{
		{Slug: "a", HTML: `<a href="` + url + `">dead</a>`},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.OK || r.Status != 0 || r.Error == "" {
		t.Errorf("transport error not recorded: %+v", r)
	}
}

func TestHostLimiterSpacesRequests(t *testing.T) {
	l := newHostLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.wait(ctx, "example.com"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three probes to one host took %v, want at least 100ms", elapsed)
	}

	// A different host is not delayed by the first one's schedule.
	start = time.Now()
	if err := l.wait(ctx, "other.org"); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond {
		t.Errorf("probe to a fresh host was delayed %v", elapsed)
	}
}

func TestHostLimiterRespectsContext(t *testing.T) {
	l := newHostLimiter(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.wait(ctx, "example.com"); err != nil {
		t.Fatalf("first wait should pass immediately: %v", err)
	}
	if err := l.wait(ctx, "example.com"); err == nil {
		t.Error("second wait should fail once the context is done")
	}
}

func TestWriteReport(t *testing.T) {
	results := []Result{
		{Slug: "a", URL: "https://ok.example/", Status: 200, OK: true},
		{Slug: "b", URL: "https://gone.example/", Status: 404, Error: "Not Found"},
	}
	var sb strings.Builder
	if err := WriteReport(&sb, "My Blog", results); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	got := sb.String()
	for _, want := range []string{"Outbound Link Report", "My Blog", "Broken Links", "https://gone.example/", "404"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "https://ok.example/") {
		t.Errorf("healthy links should not be listed in the broken table:\n%s", got)
	}
}
