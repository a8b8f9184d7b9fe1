package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_Order(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(okHandler(), mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, trace)
}

func TestRequestID(t *testing.T) {
	var gotID string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	t.Run("generates", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, gotID, 36)
		assert.Equal(t, gotID, w.Header().Get(HeaderRequestID))
	})

	t.Run("reuses valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", gotID)
	})

	t.Run("replaces invalid", func(t *testing.T) {
		for _, bad := range []string{strings.Repeat("x", 129), "bad\x01id"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderRequestID, bad)
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.NotEqual(t, bad, gotID)
			assert.Len(t, gotID, 36)
		}
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Wrap(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		InjectLogger(zap.New(core)),
		Recovery(),
	)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}

func TestRecovery_RequestID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Wrap(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		InjectLogger(zap.New(core)),
		Recovery(),
		RequestID(),
	)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
}

func TestRecovery_AbortHandler(t *testing.T) {
	h := Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

type testRoute struct {
	name, id, pattern string
}

func (r testRoute) Name() string        { return r.name }
func (r testRoute) OperationID() string { return r.id }
func (r testRoute) PathPattern() string { return r.pattern }

type testServer map[string]testRoute

func (s testServer) FindPath(method string, u *url.URL) (testRoute, bool) {
	r, ok := s[method+" "+u.Path]
	return r, ok
}

func testFinder() RouteFinder {
	return MakeRouteFinder(testServer{
		"GET /items/7": {name: "GetItem", id: "getItem", pattern: "/items/{id}"},
	})
}

func TestMakeRouteFinder(t *testing.T) {
	find := testFinder()

	route, ok := find(http.MethodGet, &url.URL{Path: "/items/7"})
	require.True(t, ok)
	assert.Equal(t, "getItem", route.OperationID())
	assert.Equal(t, "/items/{id}", route.PathPattern())

	_, ok = find(http.MethodPost, &url.URL{Path: "/items/7"})
	assert.False(t, ok)

	var none RouteFinder
	assert.Equal(t, "/x", none.pattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

func TestSpanName(t *testing.T) {
	find := testFinder()
	assert.Equal(t, "getItem", spanName(find, httptest.NewRequest(http.MethodGet, "/items/7", nil)))
	assert.Equal(t, "GET /other", spanName(find, httptest.NewRequest(http.MethodGet, "/other", nil)))
	assert.Equal(t, "GET /items/7", spanName(nil, httptest.NewRequest(http.MethodGet, "/items/7", nil)))
}

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	timeNow = func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * 10 * time.Millisecond)
	}
	t.Cleanup(func() { timeNow = time.Now })

	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	mux.HandleFunc("GET /fail", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := Wrap(mux, InjectLogger(zap.New(core)), RequestID(), LogRequests(testFinder()))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "/items/{id}", first["route"])
	assert.Equal(t, "getItem", first["operation"])
	assert.Equal(t, int64(200), first["status"])
	assert.Equal(t, int64(5), first["bytes"])
	assert.Equal(t, time.Duration(10*time.Millisecond), first["duration"])
	assert.NotEmpty(t, first["request_id"])
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	second := entries[1].ContextMap()
	assert.Equal(t, "/fail", second["route"])
	assert.NotContains(t, second, "operation")
	assert.Equal(t, int64(502), second["status"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestLabeler(t *testing.T) {
	var called bool
	h := Labeler(testFinder())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	assert.True(t, called)
}

func TestInjectLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := InjectLogger(zap.New(core))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		zctx.From(r.Context()).Info("inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 1, logs.FilterMessage("inside").Len())
}

func TestCORS(t *testing.T) {
	mw := CORS(CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "https://Chat.Example.com/"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	h := mw(okHandler())

	t.Run("preflight allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "https://chat.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://Chat.Example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
		assert.Contains(t, w.Header().Values("Vary"), "Access-Control-Request-Method")
	})

	t.Run("preflight denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("actual request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, []string{"Origin"}, w.Header().Values("Vary"))
	})

	t.Run("no origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard without credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://anything.example")
		w := httptest.NewRecorder()
		CORS(CORSConfig{AllowOrigins: []string{"*"}})(okHandler()).ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
