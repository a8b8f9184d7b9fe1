package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func doRequest(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_UnderAndOverLimit(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 10, 0, time.UTC)}
	h := RateLimit(nil, RateLimitConfig{Max: 3, Window: time.Minute, Now: clock.Now})(okHandler())

	for i := range 3 {
		w := doRequest(h, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doRequest(h, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "50", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())

	// Other clients have their own budget.
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1234").Code)
}

func TestRateLimit_SlidingWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := RateLimit(nil, RateLimitConfig{Max: 4, Window: time.Minute, Now: clock.Now})(okHandler())

	for range 4 {
		require.Equal(t, http.StatusOK, doRequest(h, "1.1.1.1:1").Code)
	}

	// A quarter into the next window three quarters of the previous count
	// still applies: 4*0.75 = 3, so one request fits.
	clock.t = clock.t.Add(75 * time.Second)
	assert.Equal(t, http.StatusOK, doRequest(h, "1.1.1.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "1.1.1.1:1").Code)

	// Two windows later everything is forgotten.
	clock.t = clock.t.Add(2 * time.Minute)
	for range 4 {
		assert.Equal(t, http.StatusOK, doRequest(h, "1.1.1.1:1").Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(nil, RateLimitConfig{})(okHandler())
	for range 100 {
		w := doRequest(h, "1.1.1.1:1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l := newLimiter(10, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.take("a", now)
	l.take("b", now.Add(90*time.Second))
	require.Equal(t, 2, l.keys())

	l.sweep(now.Add(2 * time.Minute))
	assert.Equal(t, 1, l.keys())
}

func TestRateLimit_SweeperStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := RateLimit(ctx, RateLimitConfig{Max: 1, Window: time.Millisecond})(okHandler())
	assert.Equal(t, http.StatusOK, doRequest(h, "1.1.1.1:1").Code)
	cancel()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:80", "198.51.100.7"},
		{"remote addr", nil, "192.0.2.1:4567", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestCookieOrIP(t *testing.T) {
	key := CookieOrIP("sid")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1"
	assert.Equal(t, "ip:192.0.2.1", key(req))

	req.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
	assert.Equal(t, "c:abc", key(req))
}
