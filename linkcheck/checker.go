// Package linkcheck verifies the outbound links of published posts and
// records the results.
package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inkpress/inkpress/links"
)

const (
	defaultWorkers      = 8
	defaultHostInterval = 500 * time.Millisecond
	defaultTimeout      = 10 * time.Second
	userAgent           = "inkpress-linkcheck/1.0"
)

// Source is one post's rendered HTML body, identified by its slug.
type Source struct {
	Slug string
	HTML string
}

// Checker probes the external links of post bodies.
type Checker struct {
	classifier *links.Classifier
	client     *http.Client
	limiter    *hostLimiter
	workers    int
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) CheckerOption {
	return func(ch *Checker) { ch.client = c }
}

// WithWorkers bounds the number of concurrent probes.
func WithWorkers(n int) CheckerOption {
	return func(ch *Checker) { ch.workers = n }
}

// WithPerHostInterval sets the minimum delay between probes to the same host.
func WithPerHostInterval(d time.Duration) CheckerOption {
	return func(ch *Checker) { ch.limiter = newHostLimiter(d) }
}

// NewChecker creates a Checker that classifies links with cls.
func NewChecker(cls *links.Classifier, opts ...CheckerOption) *Checker {
	ch := &Checker{
		classifier: cls,
		client:     &http.Client{Timeout: defaultTimeout},
		limiter:    newHostLimiter(defaultHostInterval),
		workers:    defaultWorkers,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Run collects the external hrefs of every source and probes each once per
// post. Probes run concurrently, bounded by the worker limit and the per-host
// interval. Probe failures are recorded as results, not returned as errors.
func (ch *Checker) Run(ctx context.Context, sources []Source) ([]Result, error) {
	type job struct {
		slug, url string
	}
	var jobs []job
	for _, src := range sources {
		hrefs, err := ch.classifier.ExternalHrefs(src.HTML)
		if err != nil {
			return nil, fmt.Errorf("linkcheck: collect links of %q: %w", src.Slug, err)
		}
		for _, h := range hrefs {
			jobs = append(jobs, job{slug: src.Slug, url: h})
		}
	}

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ch.workers)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = ch.probe(ctx, j.slug, j.url)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// probe issues a HEAD request, falling back to GET when the server does not
// support HEAD. Anything below 200 or at 400 and above counts as broken.
func (ch *Checker) probe(ctx context.Context, slug, rawURL string) Result {
	result := Result{
		Slug:      slug,
		URL:       rawURL,
		CheckedAt: time.Now().UTC(),
	}

	target := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		if u.Scheme == "" {
			// Protocol-relative hrefs are probed over https.
			u.Scheme = "https"
			target = u.String()
		}
		if err := ch.limiter.wait(ctx, u.Hostname()); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	status, err := ch.request(ctx, http.MethodHead, target)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = ch.request(ctx, http.MethodGet, target)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Status = status
	result.OK = status >= 200 && status < 400
	if !result.OK {
		result.Error = http.StatusText(status)
	}
	return result
}

func (ch *Checker) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := ch.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// hostLimiter enforces a minimum interval between requests to the same host.
type hostLimiter struct {
	mu    sync.Mutex
	next  map[string]time.Time
	every time.Duration
}

func newHostLimiter(every time.Duration) *hostLimiter {
	return &hostLimiter{
		next:  make(map[string]time.Time),
		every: every,
	}
}

// wait blocks until a request to host is allowed or ctx is done.
func (l *hostLimiter) wait(ctx context.Context, host string) error {
	if l.every <= 0 || host == "" {
		return nil
	}
	for {
		l.mu.Lock()
		now := time.Now()
		at, ok := l.next[host]
		if !ok || !now.Before(at) {
			l.next[host] = now.Add(l.every)
			l.mu.Unlock()
			return nil
		}
		d := at.Sub(now)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
}
