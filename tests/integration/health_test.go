//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	c := newClient(t)

	live := expectJSON[healthResponse](t, c.do(http.MethodGet, "/livez", nil), http.StatusOK)
	if live.Status != "ok" {
		t.Fatalf("expected ok, got %+v", live)
	}
	ready := expectJSON[healthResponse](t, c.do(http.MethodGet, "/readyz", nil), http.StatusOK)
	if ready.Status != "ok" {
		t.Fatalf("expected ok, got %+v", ready)
	}

	readiness.SetReady(false)
	defer readiness.SetReady(true)
	draining := expectJSON[healthResponse](t, c.do(http.MethodGet, "/readyz", nil), http.StatusServiceUnavailable)
	if draining.Checks["_readiness"] == "" {
		t.Fatalf("expected readiness failure, got %+v", draining)
	}
}

func TestMiddleware_RequestIDAndCORS(t *testing.T) {
	c := newClient(t)

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/menu", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("X-Request-ID", "integration-req-1")
	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "integration-req-1" {
		t.Errorf("expected request id echoed, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://chat.example.com" {
		t.Errorf("expected client origin allowed, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
}

func TestMiddleware_Preflight(t *testing.T) {
	c := newClient(t)

	for origin, want := range map[string]string{
		"https://chat.example.com": "https://chat.example.com",
		"https://evil.example.com": "",
	} {
		req, err := http.NewRequest(http.MethodOptions, baseURL+"/api/chat", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := c.http.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("%s: expected 204, got %d", origin, resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("%s: expected allow origin %q, got %q", origin, want, got)
		}
	}
}
