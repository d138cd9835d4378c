package middleware

import (
	"net/http"
	"sync"
	"time"

	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

// slidingWindow tracks request timestamps per key. Memory-only; a multi
// instance deployment needs a shared store behind the same interface.
type slidingWindow struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	limit   int
	window  time.Duration
	nowFunc func() time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		hits:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		nowFunc: time.Now,
	}
}

func (w *slidingWindow) allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.nowFunc()
	cutoff := now.Add(-w.window)
	w.sweep(cutoff)
	kept := w.hits[key][:0]
	for _, ts := range w.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= w.limit {
		w.hits[key] = kept
		return false
	}
	w.hits[key] = append(kept, now)
	return true
}

// sweep drops keys whose every timestamp fell out of the window, so the map
// does not grow with each principal ever seen. Timestamps are appended in
// order; a key is dead when its newest entry is past the cutoff.
func (w *slidingWindow) sweep(cutoff time.Time) {
	for k, ts := range w.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(w.hits, k)
		}
	}
}

// RateLimit throttles write endpoints per authenticated principal. Reads are
// not limited; unauthenticated requests fall through to RequireAuth.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	buckets := newSlidingWindow(limit, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !buckets.allow(principal.ID.String()) {
				w.Header().Set("Retry-After", window.String())
				httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             string(dErrors.CodeRateLimited),
					"error_description": "too many requests, slow down",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
