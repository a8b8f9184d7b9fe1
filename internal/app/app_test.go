package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/kart-chat/internal/paystack/paystacktest"
	"github.com/xenking/kart-chat/pkg/health"
)

func TestOpenStores_Memory(t *testing.T) {
	hc := health.New()
	st, cleanup, err := openStores(context.Background(), zap.NewNop(), &Config{Store: StoreMemory}, hc)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, st.orders)
	assert.NotNil(t, st.catalog)
	assert.NotNil(t, st.sessions)
	assert.NotNil(t, st.ledger)

	hc.SetReady(true)
	assert.True(t, hc.IsReady(), "memory store registers no readiness checks")
}

func TestOpenStores_BadRedisURL(t *testing.T) {
	_, cleanup, err := openStores(context.Background(), zap.NewNop(), &Config{
		Store:    StoreMemory,
		RedisURL: "not-a-url",
	}, health.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis")
	cleanup()
}

func TestNew_MemoryEndToEnd(t *testing.T) {
	gateway := paystacktest.NewServer()
	defer gateway.Close()

	cfg := &Config{
		Store:     StoreMemory,
		ClientURL: "https://chat.example.com",
		Paystack: PaystackConfig{
			BaseURL:     gateway.URL,
			SecretKey:   paystacktest.SecretKey,
			Timeout:     5 * time.Second,
			AmountScale: 100,
			EmailDomain: "example.com",
		},
		Session: SessionConfig{CookieName: "sid"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := New(ctx, zap.NewNop(), metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider(), cfg)
	require.NoError(t, err)
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	call := func(method, path, body string, status int) map[string]any {
		t.Helper()
		req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, status, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	call(http.MethodPost, "/api/chat", `{"input":"10"}`, http.StatusOK)
	call(http.MethodPost, "/api/chat", `{"input":"10"}`, http.StatusOK)
	placed := call(http.MethodPost, "/api/chat", `{"input":"99"}`, http.StatusOK)
	ref := placed["reference"].(string)
	require.NotEmpty(t, ref)
	assert.Equal(t, float64(5000), placed["total"])

	initRes := call(http.MethodPost, "/api/pay/init", `{"reference":"`+ref+`"}`, http.StatusOK)
	assert.Equal(t, ref, initRes["reference"])
	assert.Contains(t, initRes["authorizationUrl"], "/checkout/"+ref)

	tr, ok := gateway.Transaction(ref)
	require.True(t, ok)
	assert.Equal(t, int64(500000), tr.AmountMinor)
	assert.Equal(t, "https://chat.example.com/chat?paid=1&ref="+ref, tr.CallbackURL)
	assert.True(t, strings.HasSuffix(tr.Email, "@example.com"))

	pending := call(http.MethodGet, "/api/pay/verify?reference="+ref, "", http.StatusBadRequest)
	assert.Equal(t, "abandoned", pending["status"])
	assert.Equal(t, "Payment not successful", pending["message"])

	gateway.Complete(ref)
	paid := call(http.MethodGet, "/api/pay/verify?reference="+ref, "", http.StatusOK)
	assert.Equal(t, "paid", paid["status"])

	again := call(http.MethodGet, "/api/pay/verify?reference="+ref, "", http.StatusOK)
	assert.Equal(t, "paid", again["status"])
	assert.Equal(t, 2, gateway.VerifyCalls(ref), "paid orders are not re-verified")

	history := call(http.MethodPost, "/api/chat", `{"input":"98"}`, http.StatusOK)["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "paid", history[0].(map[string]any)["status"])
}

func TestNew_RequestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := New(ctx, zap.New(core), metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider(), &Config{
		Store:    StoreMemory,
		Session:  SessionConfig{CookieName: "sid"},
		Paystack: PaystackConfig{SecretKey: paystacktest.SecretKey},
	})
	require.NoError(t, err)
	defer srv.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/pay/init", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	requests := logs.FilterMessage("Request").All()
	require.Len(t, requests, 1)
	fields := requests[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "/pay/init", fields["route"])
	assert.Equal(t, "payInit", fields["operation"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])

	rejected := logs.FilterMessage("Request rejected").All()
	require.Len(t, rejected, 1)
	fields = rejected[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.NotEmpty(t, fields["sid"])
}
