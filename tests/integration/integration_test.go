//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/kart-chat/internal/app"
	"github.com/xenking/kart-chat/internal/paystack/paystacktest"
	"github.com/xenking/kart-chat/internal/storage/postgres"
)

var (
	baseURL     string
	databaseURL string
	pool        *pgxpool.Pool
	gateway     *paystacktest.Server
	readiness   interface{ SetReady(bool) }
)

// Response types are defined locally to keep the HTTP tests black-box.

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type menuItem struct {
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type menuResponse struct {
	Menu []menuItem `json:"menu"`
}

type orderLine struct {
	Code     int    `json:"code"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type orderView struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Lines     []orderLine `json:"lines"`
	Total     int64       `json:"total"`
	Reference string      `json:"reference"`
	PaidAt    string      `json:"paidAt"`
}

type chatResponse struct {
	SID       string      `json:"sid"`
	Message   string      `json:"message"`
	Options   []string    `json:"options"`
	Menu      []menuItem  `json:"menu"`
	Current   *orderView  `json:"current"`
	History   []orderView `json:"history"`
	Reference string      `json:"reference"`
	Total     *int64      `json:"total"`
}

type payInitResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
	Message          string `json:"message"`
}

type payVerifyResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dc, err := tc.NewDockerCompose("docker-compose.test.yml")
	if err != nil {
		log.Fatalf("compose init: %v", err)
	}

	err = dc.
		WaitForService("postgres", wait.ForLog("database system is ready to accept connections").WithOccurrence(2)).
		Up(ctx, tc.Wait(true))
	if err != nil {
		log.Fatalf("compose up: %v", err)
	}
	defer func() {
		if err := dc.Down(context.Background(), tc.RemoveOrphans(true)); err != nil {
			log.Printf("compose down: %v", err)
		}
	}()

	pg, err := dc.ServiceContainer(ctx, "postgres")
	if err != nil {
		log.Fatalf("postgres container: %v", err)
	}
	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}
	databaseURL = fmt.Sprintf("postgres://chat:chat@%s:%s/chat?sslmode=disable", host, port.Port())

	gateway = paystacktest.NewServer()
	defer gateway.Close()

	srvCtx, stop := context.WithCancel(ctx)
	defer stop()
	srv, err := app.New(srvCtx, zap.NewNop(), metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider(), &app.Config{
		Store:       app.StorePostgres,
		DatabaseURL: databaseURL,
		ClientURL:   "https://chat.example.com",
		Paystack: app.PaystackConfig{
			BaseURL:     gateway.URL,
			SecretKey:   paystacktest.SecretKey,
			Timeout:     5 * time.Second,
			AmountScale: 100,
			EmailDomain: "example.com",
		},
		Session: app.SessionConfig{CookieName: "sid", TTL: time.Hour},
		CORS:    app.CORSConfig{AllowCredentials: true},
	})
	if err != nil {
		log.Fatalf("build app: %v", err)
	}
	defer srv.Close()
	srv.Health.Start(srvCtx, time.Second)
	srv.Health.SetReady(true)
	readiness = srv.Health

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()
	baseURL = ts.URL
	log.Printf("API available at %s", baseURL)

	pool, err = postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("test pool: %v", err)
	}
	defer pool.Close()

	return m.Run()
}

// client is one visitor: it keeps its session cookie across requests.
type client struct {
	t    *testing.T
	http *http.Client
}

func newClient(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &client{t: t, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, &buf)
	if err != nil {
		c.t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (c *client) chat(input any) chatResponse {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/chat", map[string]any{"input": input})
	return expectJSON[chatResponse](c.t, resp, http.StatusOK)
}

func expectJSON[T any](t *testing.T, resp *http.Response, status int) T {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
