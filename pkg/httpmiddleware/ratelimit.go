package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the sliding-window limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per Window. Zero disables limiting.
	Max    int
	Window time.Duration
	// KeyFunc identifies the caller. Defaults to ClientIP.
	KeyFunc func(*http.Request) string
	// Now defaults to time.Now.
	Now func() time.Time
}

// window holds counts for the current and previous fixed windows. The
// effective count weights the previous window by its remaining overlap.
type window struct {
	prev, curr float64
	start      time.Time
}

type limiter struct {
	max    float64
	size   time.Duration
	mu     sync.Mutex
	counts map[string]*window
}

func newLimiter(max int, size time.Duration) *limiter {
	return &limiter{
		max:    float64(max),
		size:   size,
		counts: make(map[string]*window),
	}
}

// take records a request for key if it fits and reports the remaining budget
// and the end of the current window.
func (l *limiter) take(key string, now time.Time) (remaining int, reset time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := now.Truncate(l.size)
	w, found := l.counts[key]
	switch {
	case !found:
		w = &window{start: start}
		l.counts[key] = w
	case start.Sub(w.start) >= 2*l.size:
		w.prev, w.curr, w.start = 0, 0, start
	case start.After(w.start):
		w.prev, w.curr, w.start = w.curr, 0, start
	}

	overlap := 1 - float64(now.Sub(w.start))/float64(l.size)
	used := w.prev*overlap + w.curr
	reset = w.start.Add(l.size)
	if used >= l.max {
		return 0, reset, false
	}
	w.curr++
	return max(0, int(l.max-used-1)), reset, true
}

// sweep drops keys idle for two windows.
func (l *limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, w := range l.counts {
		if now.Sub(w.start) >= 2*l.size {
			delete(l.counts, k)
		}
	}
}

func (l *limiter) keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counts)
}

// RateLimit limits requests per key. Every response carries X-RateLimit-*
// headers; rejected requests get 429 with Retry-After. When ctx is non-nil a
// goroutine sweeps idle keys until ctx is done.
func RateLimit(ctx context.Context, cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := newLimiter(cfg.Max, cfg.Window)
	if ctx != nil {
		go func() {
			t := time.NewTicker(2 * cfg.Window)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-t.C:
					l.sweep(now)
				}
			}
		}()
	}
	limit := strconv.Itoa(cfg.Max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := cfg.Now()
			remaining, reset, ok := l.take(cfg.KeyFunc(r), now)

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			if !ok {
				retry := max(0, reset.Sub(now).Seconds())
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retry))))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP keys by the first X-Forwarded-For hop, then X-Real-IP, then the
// remote address host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CookieOrIP keys by the named cookie when present and falls back to
// ClientIP.
func CookieOrIP(name string) func(*http.Request) string {
	return func(r *http.Request) string {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return "c:" + c.Value
		}
		return "ip:" + ClientIP(r)
	}
}
