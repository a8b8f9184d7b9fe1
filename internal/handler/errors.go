package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	ht "github.com/ogen-go/ogen/http"
	"github.com/ogen-go/ogen/ogenerrors"
	"github.com/ogen-go/ogen/validate"
	"go.uber.org/zap"

	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/order"
	"github.com/xenking/kart-chat/internal/domain/payment"
	"github.com/xenking/kart-chat/internal/oas"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func (e *badRequestError) Is(target error) bool { return target == errBadRequest }

func badRequest(msg string) error {
	return &badRequestError{msg: msg}
}

// statusOf maps domain errors to HTTP status codes and client-facing
// messages. Unknown errors are reported as 500 without their text.
func statusOf(err error) (int, string) {
	var (
		notPayable  *payment.NotPayableError
		upstream    *payment.UpstreamError
		transition  *order.InvalidTransitionError
		tooLarge    *http.MaxBytesError
		contentType *validate.InvalidContentTypeError
		decodeBody  *ogenerrors.DecodeRequestError
		decodeQuery *ogenerrors.DecodeParamsError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.As(err, &contentType):
		return http.StatusUnsupportedMediaType, "unsupported content type"
	case errors.As(err, &decodeBody):
		return http.StatusBadRequest, "malformed JSON body"
	case errors.As(err, &decodeQuery):
		return http.StatusBadRequest, "invalid query parameters"
	case errors.Is(err, ht.ErrNotImplemented):
		return http.StatusNotImplemented, "not implemented"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, payment.ErrEmptyReference):
		return http.StatusBadRequest, payment.ErrEmptyReference.Error()
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound, order.ErrNotFound.Error()
	case errors.Is(err, menu.ErrNotFound):
		return http.StatusNotFound, menu.ErrNotFound.Error()
	case errors.Is(err, payment.ErrAlreadyPaid):
		return http.StatusConflict, payment.ErrAlreadyPaid.Error()
	case errors.Is(err, payment.ErrOrderChanged):
		return http.StatusConflict, payment.ErrOrderChanged.Error()
	case errors.As(err, &notPayable):
		return http.StatusUnprocessableEntity, notPayable.Error()
	case errors.As(err, &transition):
		return http.StatusUnprocessableEntity, transition.Error()
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "payment gateway unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func logError(ctx context.Context, status int, err error) {
	lg := zctx.From(ctx)
	if status >= http.StatusInternalServerError {
		lg.Error("Request failed", zap.Int("status", status), zap.Error(err))
		return
	}
	lg.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
}

// NewError implements oas.Handler.
func (h *Handler) NewError(ctx context.Context, err error) *oas.ErrorStatusCode {
	status, msg := statusOf(err)
	logError(ctx, status, err)
	return &oas.ErrorStatusCode{
		StatusCode: status,
		Response:   oas.Error{Error: msg},
	}
}

// HandleError writes errors raised before an operation runs: security,
// parameter and body decoding.
func (h *Handler) HandleError(ctx context.Context, w http.ResponseWriter, _ *http.Request, err error) {
	status, msg := statusOf(err)
	logError(ctx, status, err)
	writeError(w, status, msg)
}

// NotFound answers unknown API paths with the JSON error shape.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers known API paths called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	resp := oas.Error{Error: msg}
	resp.Encode(&e)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
