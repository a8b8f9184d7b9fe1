// Package handler implements the generated API server interfaces on top of
// the chat, menu and payment domain services.
package handler

import (
	"context"
	"net/http"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/xenking/kart-chat/internal/domain/chat"
	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/payment"
	"github.com/xenking/kart-chat/internal/oas"
)

const maxBodySize = 64 << 10

// Sessions resolves the client cookie to a session key.
type Sessions interface {
	Resolve(ctx context.Context, token, userAgent string) (key string, issued bool, err error)
}

// Chat interprets one chat input.
type Chat interface {
	Handle(ctx context.Context, sessionKey, input string) (*chat.Reply, error)
}

// Payments opens and verifies gateway transactions.
type Payments interface {
	Initiate(ctx context.Context, sessionKey, reference string) (*payment.InitiateResult, error)
	Verify(ctx context.Context, reference string) (*payment.VerifyResult, error)
}

var (
	_ Chat     = (*chat.Dispatcher)(nil)
	_ Payments = (*payment.Reconciler)(nil)

	_ oas.Handler         = (*Handler)(nil)
	_ oas.SecurityHandler = (*Handler)(nil)
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// CookieName is the session cookie. Defaults to "sid".
	CookieName string
	// CookieTTL is the cookie Max-Age. Zero makes it a browser-session cookie.
	CookieTTL    time.Duration
	SecureCookie bool
}

// Handler implements oas.Handler and oas.SecurityHandler.
type Handler struct {
	cfg      Config
	catalog  menu.Store
	sessions Sessions
	chat     Chat
	payments Payments
	validate *validatorv10.Validate
}

// New creates a Handler.
func New(cfg Config, catalog menu.Store, sessions Sessions, c Chat, payments Payments) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}
	return &Handler{
		cfg:      cfg,
		catalog:  catalog,
		sessions: sessions,
		chat:     c,
		payments: payments,
		validate: newValidator(),
	}
}

// CookieName returns the session cookie name.
func (h *Handler) CookieName() string {
	return h.cfg.CookieName
}

// Cookies caps request bodies and lets the session resolution issue a cookie
// on the response. Mount it in front of the generated server.
func (h *Handler) Cookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		}
		ctx := context.WithValue(r.Context(), responseKey{}, &response{
			header:    w.Header(),
			userAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
