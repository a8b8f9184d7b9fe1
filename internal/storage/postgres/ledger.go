package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/kart-chat/internal/domain/payment"
)

const (
	recordPaymentEventSQL = `INSERT INTO payment_events (reference, status, amount, currency, paid_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	listPaymentEventsSQL = `SELECT reference, status, amount, currency, paid_at, recorded_at
		FROM payment_events WHERE reference = $1 ORDER BY id`
)

var _ payment.Ledger = (*Ledger)(nil)

// Ledger appends gateway verification outcomes to payment_events.
type Ledger struct {
	pool *pgxpool.Pool
}

// NewLedger returns a Ledger that uses the given pool.
func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// Record inserts one event. Amount is stored as NUMERIC via shopspring/decimal.
func (l *Ledger) Record(ctx context.Context, e payment.Event) error {
	_, err := l.pool.Exec(ctx, recordPaymentEventSQL,
		e.Reference, e.Status, e.Amount, e.Currency, e.PaidAt, e.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("recording payment event for %q: %w", e.Reference, err)
	}
	return nil
}

// Events returns the events recorded for reference, oldest first.
func (l *Ledger) Events(ctx context.Context, reference string) ([]payment.Event, error) {
	rows, err := l.pool.Query(ctx, listPaymentEventsSQL, reference)
	if err != nil {
		return nil, fmt.Errorf("listing payment events: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[payment.Event])
}
