package inkpress

import (
	"sync"
	"time"
)

// LoginLimiter tracks failed admin logins per IP over a sliding window.
// Only recorded failures consume budget; a successful login costs nothing,
// so a legitimate admin behind a shared IP is never locked out by their own
// activity.
type LoginLimiter struct {
	mu     sync.Mutex
	fails  map[string][]time.Time
	max    int
	window time.Duration
	stop   chan struct{}
}

// NewLoginLimiter allows max failed attempts per IP per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		fails:  make(map[string][]time.Time),
		max:    max,
		window: window,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop terminates the background cleanup goroutine.
func (l *LoginLimiter) Stop() {
	close(l.stop)
}

func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.window)
			l.mu.Lock()
			for ip, hits := range l.fails {
				if kept := pruneBefore(hits, cutoff); len(kept) == 0 {
					delete(l.fails, ip)
				} else {
					l.fails[ip] = kept
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Check reports whether ip still has login budget. It never consumes any;
// call Record when an attempt actually fails.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := pruneBefore(l.fails[ip], time.Now().Add(-l.window))
	l.fails[ip] = kept
	return len(kept) < l.max
}

// Record registers a failed login attempt for ip.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	l.fails[ip] = append(l.fails[ip], time.Now())
	l.mu.Unlock()
}
