// Package payment reconciles local orders with an external payment gateway.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-chat/internal/domain/order"
)

// GatewayStatusSuccess is the only gateway status trusted to mark an order paid.
const GatewayStatusSuccess = "success"

// Sentinel errors for payment operations.
var (
	ErrEmptyReference = errors.New("reference is required")
	ErrAlreadyPaid    = errors.New("order already paid")
	ErrOrderChanged   = errors.New("order changed during payment initialization")
)

// NotPayableError indicates the order is in a status that cannot be paid.
type NotPayableError struct {
	Status order.Status
	Reason string
}

func (e *NotPayableError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("order in status %s cannot be paid", e.Status)
}

// UpstreamError wraps a gateway failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// InitializeRequest describes a transaction to open at the gateway.
type InitializeRequest struct {
	AmountMinor int64
	Email       string
	Reference   string
	CallbackURL string
}

// Authorization is the gateway's answer to InitializeRequest.
type Authorization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// Transaction is the gateway's view of a transaction.
type Transaction struct {
	Reference   string
	Status      string
	AmountMinor int64
	Currency    string
	PaidAt      *time.Time
}

// Gateway is an external payment processor.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*Authorization, error)
	Verify(ctx context.Context, reference string) (*Transaction, error)
}

// Event is one verification outcome reported by the gateway.
type Event struct {
	Reference  string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	PaidAt     *time.Time
	RecordedAt time.Time
}

// Ledger is an append-only log of gateway verification outcomes.
type Ledger interface {
	Record(ctx context.Context, e Event) error
}
