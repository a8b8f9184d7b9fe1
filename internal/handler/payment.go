package handler

import (
	"context"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/xenking/kart-chat/internal/domain/payment"
	"github.com/xenking/kart-chat/internal/oas"
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// newValidator returns a validator with the "reference" tag registered.
func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	_ = v.RegisterValidation("reference", func(fl validatorv10.FieldLevel) bool {
		return referencePattern.MatchString(fl.Field().String())
	})
	return v
}

type payInitRequest struct {
	Reference string `validate:"omitempty,max=128,reference"`
}

type payVerifyRequest struct {
	Reference string `validate:"omitempty,max=128,reference"`
}

func (h *Handler) check(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fields []string
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
	}
	if len(fields) == 0 {
		return badRequest("invalid request")
	}
	return badRequest("invalid " + strings.Join(fields, ", "))
}

// PayInit opens a gateway transaction for the session's payable order.
func (h *Handler) PayInit(ctx context.Context, body oas.OptPayInitRequest) (*oas.PayInitResponse, error) {
	ctx, sid, err := h.session(ctx)
	if err != nil {
		return nil, err
	}

	var req payInitRequest
	if b, ok := body.Get(); ok {
		req.Reference = strings.TrimSpace(b.Reference.Or(""))
	}
	if err := h.check(req); err != nil {
		return nil, err
	}

	res, err := h.payments.Initiate(ctx, sid, req.Reference)
	if err != nil {
		return nil, err
	}
	return &oas.PayInitResponse{
		AuthorizationURL: res.AuthorizationURL,
		AccessCode:       res.AccessCode,
		Reference:        res.Reference,
		Message:          "Redirecting to Paystack to complete payment.",
	}, nil
}

// PayVerify checks the gateway status of the reference and marks the order
// paid on success. Any other gateway status is answered with 400.
func (h *Handler) PayVerify(ctx context.Context, params oas.PayVerifyParams) (oas.PayVerifyRes, error) {
	req := payVerifyRequest{Reference: strings.TrimSpace(params.Reference.Or(""))}
	if err := h.check(req); err != nil {
		return nil, err
	}

	res, err := h.payments.Verify(ctx, req.Reference)
	if err != nil {
		return nil, err
	}

	var ref oas.OptString
	if res.Reference != "" {
		ref = oas.NewOptString(res.Reference)
	}
	if res.Status != payment.StatusPaid {
		return &oas.PayVerifyBadRequest{
			Status:    res.Status,
			Reference: ref,
			Message:   "Payment not successful",
		}, nil
	}
	return &oas.PaymentStatus{
		Status:    res.Status,
		Reference: ref,
		Message:   "Payment successful",
	}, nil
}
