// Package httpmiddleware contains net/http middleware shared by the API server.
package httpmiddleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares to h. The first middleware is the outermost.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// InjectLogger stores lg in every request context for zctx.From.
func InjectLogger(lg *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := zctx.Base(r.Context(), lg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Route is an API operation matched by a RouteFinder.
type Route interface {
	Name() string
	OperationID() string
	PathPattern() string
}

// RouteFinder finds the Route serving method and u.
type RouteFinder func(method string, u *url.URL) (Route, bool)

// MakeRouteFinder creates a RouteFinder from a generated API server.
func MakeRouteFinder[R Route, S interface {
	FindPath(method string, u *url.URL) (R, bool)
}](server S) RouteFinder {
	return func(method string, u *url.URL) (Route, bool) {
		return server.FindPath(method, u)
	}
}

func (f RouteFinder) find(r *http.Request) (Route, bool) {
	if f == nil {
		return nil, false
	}
	return f(r.Method, r.URL)
}

// pattern returns the path pattern of the matched operation, or the raw
// path when no operation matches.
func (f RouteFinder) pattern(r *http.Request) string {
	if route, ok := f.find(r); ok {
		return route.PathPattern()
	}
	return r.URL.Path
}

var timeNow = time.Now

// LogRequests logs one line per request with the logger from the context.
// Server errors are logged at Error, everything else at Info.
func LogRequests(find RouteFinder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := timeNow()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("route", find.pattern(r)),
				zap.Int("status", status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", timeNow().Sub(start)),
			}
			if route, ok := find.find(r); ok {
				fields = append(fields, zap.String("operation", route.OperationID()))
			}
			lg := zctx.From(r.Context())
			if status >= http.StatusInternalServerError {
				lg.Error("Request", fields...)
				return
			}
			lg.Info("Request", fields...)
		})
	}
}

// Instrument traces and measures requests with otelhttp. Span names are the
// matched operation, resolved by find before the request is routed.
func Instrument(service string, find RouteFinder, mp metric.MeterProvider, tp trace.TracerProvider) Middleware {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, service,
			otelhttp.WithMeterProvider(mp),
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return spanName(find, r)
			}),
		)
	}
}

func spanName(find RouteFinder, r *http.Request) string {
	if route, ok := find.find(r); ok {
		return route.OperationID()
	}
	return r.Method + " " + r.URL.Path
}

// Labeler adds the matched operation to the otelhttp metric labels. It must
// run inside Instrument.
func Labeler(find RouteFinder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if route, ok := find.find(r); ok {
				labeler, _ := otelhttp.LabelerFromContext(r.Context())
				labeler.Add(
					attribute.String("http.route", route.PathPattern()),
					attribute.String("oas.operation", route.OperationID()),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}
