// Package ratelimit provides a fixed-window request limiter keyed by
// client address. It exists to slow down credential guessing against
// the login and registration forms.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Config controls how many requests a single key may make per window.
type Config struct {
	Requests int
	Window   time.Duration
}

// DefaultConfig allows ten attempts per minute: enough for a person
// mistyping a password, far too slow for a dictionary run.
func DefaultConfig() Config {
	return Config{Requests: 10, Window: time.Minute}
}

type window struct {
	start time.Time
	count int
}

// Limiter counts requests per key over a fixed window. Expired entries
// are pruned inline on each check, so the limiter owns no goroutine.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	requests int
	window   time.Duration

	now func() time.Time
}

// NewLimiter returns a limiter enforcing cfg. Non-positive values fall
// back to DefaultConfig.
func NewLimiter(cfg Config) *Limiter {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		cfg = DefaultConfig()
	}
	return &Limiter{
		windows:  make(map[string]*window),
		requests: cfg.Requests,
		window:   cfg.Window,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is still within
// the window's budget.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	w, ok := l.windows[key]
	if !ok {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.requests
}

// prune drops windows that expired before now. Caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}

// ActiveKeys reports how many keys currently hold a live window.
func (l *Limiter) ActiveKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Middleware applies the limiter to a route. keyFn extracts the client
// key from the request; onLimit writes the rejection response, or nil
// for a plain 429 with a Retry-After hint.
func (l *Limiter) Middleware(keyFn func(*http.Request) string, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(keyFn(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
