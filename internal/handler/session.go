package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/kart-chat/internal/oas"
)

type (
	sessionKey  struct{}
	responseKey struct{}
)

// response is the part of the http exchange the session resolution needs.
type response struct {
	header    http.Header
	userAgent string
}

func responseFrom(ctx context.Context) *response {
	if r, ok := ctx.Value(responseKey{}).(*response); ok {
		return r
	}
	return &response{header: http.Header{}}
}

func sessionFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionKey{}).(string)
	return sid, ok
}

// HandleSid implements oas.SecurityHandler. It resolves the presented cookie,
// issuing a new session when it is malformed, and binds the key to ctx.
func (h *Handler) HandleSid(ctx context.Context, _ oas.OperationName, t oas.Sid) (context.Context, error) {
	return h.bindSession(ctx, t.APIKey)
}

// session returns the caller's session key. Requests that carried no cookie
// never reach HandleSid, so a session is issued here.
func (h *Handler) session(ctx context.Context) (context.Context, string, error) {
	if sid, ok := sessionFromContext(ctx); ok {
		return ctx, sid, nil
	}
	ctx, err := h.bindSession(ctx, "")
	if err != nil {
		return ctx, "", err
	}
	sid, _ := sessionFromContext(ctx)
	return ctx, sid, nil
}

func (h *Handler) bindSession(ctx context.Context, token string) (context.Context, error) {
	resp := responseFrom(ctx)
	sid, issued, err := h.sessions.Resolve(ctx, token, resp.userAgent)
	if err != nil {
		return ctx, errors.Wrap(err, "resolve session")
	}
	if issued {
		resp.header.Add("Set-Cookie", h.cookie(sid).String())
	}

	ctx = context.WithValue(ctx, sessionKey{}, sid)
	ctx = zctx.With(ctx, zap.String("sid", sid))
	return ctx, nil
}

func (h *Handler) cookie(sid string) *http.Cookie {
	c := &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.CookieTTL > 0 {
		c.MaxAge = int(h.cfg.CookieTTL.Seconds())
	}
	return c
}
