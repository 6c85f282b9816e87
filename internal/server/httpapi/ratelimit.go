package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// In-memory fixed-window counters. Single-instance only; a multi-instance
// deployment would need a shared store behind the same interface.

type bucket struct {
	window time.Time
	count  int
}

type rateLimiter struct {
	mu   sync.Mutex
	data map[string]bucket
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{data: make(map[string]bucket)}
}

// allow reports whether a request identified by key fits its window.
func (rl *rateLimiter) allow(key string, limit int, per time.Duration, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.data[key]
	win := now.Truncate(per)
	if !ok || b.window.Before(win) {
		rl.data[key] = bucket{window: win, count: 1}
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	rl.data[key] = b
	return true
}

// limitIP enforces a coarse per-IP limit on the unauthenticated credential
// endpoints.
func (s *Server) limitIP(limit, perSec int) middleware {
	per := time.Duration(perSec) * time.Second
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyIP(r)
			if key != "" && !s.limiter.allow(key, limit, per, s.now()) {
				w.Header().Set("Retry-After", strconv.Itoa(perSec))
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func keyIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return ""
	}
	return "ip:" + host
}
