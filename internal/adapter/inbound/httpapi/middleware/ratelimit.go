package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket is a token bucket for one remote IP.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// limiter tracks per-IP buckets. Entries idle longer than staleAfter are
// dropped during lookups so the map stays bounded without a background
// goroutine.
type limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	perMinute  float64
	maxEntries int
	staleAfter time.Duration
	lastSweep  time.Time
}

func newLimiter(requestsPerMinute int) *limiter {
	return &limiter{
		buckets:    make(map[string]*bucket),
		perMinute:  float64(requestsPerMinute),
		maxEntries: 10000,
		staleAfter: 10 * time.Minute,
		lastSweep:  time.Now(),
	}
}

func (l *limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.staleAfter {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.staleAfter {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		if len(l.buckets) >= l.maxEntries {
			return false
		}
		b = &bucket{tokens: l.perMinute, lastSeen: now}
		l.buckets[ip] = b
	}

	b.tokens += now.Sub(b.lastSeen).Minutes() * l.perMinute
	if b.tokens > l.perMinute {
		b.tokens = l.perMinute
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// NewRateLimiter limits requests per minute per remote IP.
func NewRateLimiter(requestsPerMinute int) func(http.Handler) http.Handler {
	l := newLimiter(requestsPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(remoteIP(r, false)) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// remoteIP extracts the client IP. X-Forwarded-For is honored only when
// trustProxy is set, i.e. behind a known reverse proxy.
func remoteIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.IndexByte(xff, ','); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}
	}
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
