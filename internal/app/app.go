// Package app wires configuration, storage, domain services and the HTTP
// server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/kart-chat/internal/domain/chat"
	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/order"
	"github.com/xenking/kart-chat/internal/domain/payment"
	"github.com/xenking/kart-chat/internal/domain/session"
	"github.com/xenking/kart-chat/internal/handler"
	"github.com/xenking/kart-chat/internal/oas"
	"github.com/xenking/kart-chat/internal/paystack"
	"github.com/xenking/kart-chat/internal/storage/memory"
	"github.com/xenking/kart-chat/internal/storage/postgres"
	"github.com/xenking/kart-chat/internal/storage/redis"
	"github.com/xenking/kart-chat/pkg/health"
	"github.com/xenking/kart-chat/pkg/httpmiddleware"
)

const serviceName = "kart-chat"

// stores groups the storage implementations selected by Config.Store.
type stores struct {
	orders   order.Store
	catalog  menu.Store
	sessions session.Store
	ledger   payment.Ledger
}

// openStores connects the configured backends and registers their readiness
// checks. The returned cleanup closes every connection that was opened.
func openStores(ctx context.Context, lg *zap.Logger, cfg *Config, hc *health.Health) (_ *stores, cleanup func(), rerr error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if rerr != nil {
			cleanup()
		}
	}()

	var s stores
	switch cfg.Store {
	case StoreMemory:
		lg.Warn("Using in-memory store; state is lost on restart")
		s = stores{
			orders:   memory.NewOrderStore(),
			catalog:  memory.NewMenuStore(),
			sessions: memory.NewSessionStore(),
			ledger:   memory.NewLedger(),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.WithMaxConns(cfg.DBMaxConns))
		if err != nil {
			return nil, cleanup, errors.Wrap(err, "create db pool")
		}
		closers = append(closers, pool.Close)
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, cleanup, errors.Wrap(err, "run migrations")
		}
		hc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
		s = stores{
			orders:   postgres.NewOrderStore(pool),
			catalog:  postgres.NewMenuStore(pool),
			sessions: postgres.NewSessionStore(pool),
			ledger:   postgres.NewLedger(pool),
		}
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, cleanup, errors.Wrap(err, "connect redis")
		}
		closers = append(closers, func() { _ = client.Close() })
		hc.AddReadinessCheck("redis", 2*time.Second, health.ErrCheck(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
		s.sessions = redis.NewSessionStore(client, cfg.Session.TTL)
		lg.Info("Sessions stored in Redis")
	}

	return &s, cleanup, nil
}

// Server is the assembled HTTP application.
type Server struct {
	Handler http.Handler
	Health  *health.Health

	close func()
}

// Close releases the storage connections.
func (s *Server) Close() {
	s.close()
}

// New connects storage, builds the domain services and returns the
// middleware-wrapped HTTP handler. Health checks are registered but not
// started.
func New(ctx context.Context, lg *zap.Logger, mp metric.MeterProvider, tp trace.TracerProvider, cfg *Config) (_ *Server, rerr error) {
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	st, closeStores, err := openStores(ctx, lg, cfg, healthSvc)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr != nil {
			closeStores()
		}
	}()

	if seeded, err := menu.EnsureSeeded(ctx, st.catalog, menu.DefaultItems); err != nil {
		return nil, errors.Wrap(err, "seed menu")
	} else if seeded {
		lg.Info("Menu seeded", zap.Int("items", len(menu.DefaultItems)))
	}

	// Gateway.
	gateway, err := paystack.NewClient(paystack.Config{
		BaseURL:   cfg.Paystack.BaseURL,
		SecretKey: cfg.Paystack.SecretKey,
		Timeout:   cfg.Paystack.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithMeterProvider(mp),
			otelhttp.WithTracerProvider(tp),
		),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create paystack client")
	}

	// Domain services.
	orderService := order.NewService(st.catalog, st.orders, order.NewBloomMinter(0))
	dispatcher := chat.NewDispatcher(st.catalog, orderService, chat.Config{MaxInput: cfg.Chat.MaxInput})
	reconciler, err := payment.NewReconciler(st.orders, orderService, gateway, st.ledger,
		payment.Config{
			ClientURL:     cfg.ClientURL,
			EmailDomain:   cfg.Paystack.EmailDomain,
			AmountScale:   cfg.Paystack.AmountScale,
			VerifyTimeout: cfg.Paystack.VerifyTimeout,
		},
		payment.WithMeterProvider(mp),
		payment.WithTracerProvider(tp),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create reconciler")
	}

	// HTTP handlers.
	h := handler.New(
		handler.Config{
			CookieName:   cfg.Session.CookieName,
			CookieTTL:    cfg.Session.TTL,
			SecureCookie: cfg.Session.Secure,
		},
		st.catalog,
		session.NewResolver(st.sessions),
		dispatcher,
		reconciler,
	)

	api, err := oas.NewServer(h, h,
		oas.WithPathPrefix("/api"),
		oas.WithTracerProvider(tp),
		oas.WithMeterProvider(mp),
		oas.WithErrorHandler(h.HandleError),
		oas.WithNotFound(h.NotFound),
		oas.WithMethodNotAllowed(h.MethodNotAllowed),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create api server")
	}
	routeFinder := httpmiddleware.MakeRouteFinder(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Cookies(api))

	return &Server{
		Health: healthSvc,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.InjectLogger(lg),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.AllowedOrigins(),
				AllowHeaders:     []string{"Content-Type", httpmiddleware.HeaderRequestID},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:     cfg.RateLimit.Max,
				Window:  cfg.RateLimit.Window,
				KeyFunc: httpmiddleware.CookieOrIP(h.CookieName()),
			}),
			httpmiddleware.Instrument(serviceName, routeFinder, mp, tp),
			httpmiddleware.LogRequests(routeFinder),
			httpmiddleware.Labeler(routeFinder),
		),
		close: closeStores,
	}, nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store),
	)

	srv, err := New(ctx, lg, m.MeterProvider(), m.TracerProvider(), cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	healthSvc := srv.Health
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.Paystack.Timeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           srv.Handler,
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
