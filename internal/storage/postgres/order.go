package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/kart-chat/internal/domain/order"
)

const (
	orderColumns = `id, sid, lines, total, status, reference, paid_at, created_at, updated_at`

	lockSessionSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	pendingOrderSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE sid = $1 AND status = 'pending'`

	latestOrderSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE sid = $1 AND status = ANY($2)
		ORDER BY updated_at DESC LIMIT 1`

	orderByReferenceSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE reference = $1`

	orderHistorySQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE sid = $1 AND status = ANY($2)
		ORDER BY created_at DESC`

	createOrderSQL = `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateOrderSQL = `UPDATE orders
		SET lines = $2, total = $3, status = $4, reference = $5, paid_at = $6, updated_at = $7
		WHERE id = $1`
)

var (
	_ order.Store = (*OrderStore)(nil)
	_ order.Tx    = (*orderTx)(nil)
)

// OrderStore implements order.Store backed by PostgreSQL. Atomic takes a
// transaction-scoped advisory lock on the session key.
type OrderStore struct {
	pool *pgxpool.Pool
	orderReader
}

// NewOrderStore returns an OrderStore that uses the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool, orderReader: orderReader{q: pool}}
}

// Atomic implements order.Store.
func (s *OrderStore) Atomic(ctx context.Context, sessionKey string, fn func(ctx context.Context, tx order.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, lockSessionSQL, sessionKey); err != nil {
		return fmt.Errorf("locking session: %w", err)
	}
	if err := fn(ctx, &orderTx{orderReader: orderReader{q: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order transaction: %w", err)
	}
	return nil
}

type orderReader struct {
	q querier
}

func (r orderReader) one(ctx context.Context, sql string, args ...any) (*order.Order, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Pending implements order.Reader.
func (r orderReader) Pending(ctx context.Context, sessionKey string) (*order.Order, error) {
	o, err := r.one(ctx, pendingOrderSQL, sessionKey)
	if err != nil && !errors.Is(err, order.ErrNotFound) {
		return nil, fmt.Errorf("getting pending order: %w", err)
	}
	return o, err
}

// Latest implements order.Reader.
func (r orderReader) Latest(ctx context.Context, sessionKey string, statuses ...order.Status) (*order.Order, error) {
	o, err := r.one(ctx, latestOrderSQL, sessionKey, statusStrings(statuses))
	if err != nil && !errors.Is(err, order.ErrNotFound) {
		return nil, fmt.Errorf("getting latest order: %w", err)
	}
	return o, err
}

// ByReference implements order.Reader.
func (r orderReader) ByReference(ctx context.Context, reference string) (*order.Order, error) {
	if reference == "" {
		return nil, order.ErrNotFound
	}
	o, err := r.one(ctx, orderByReferenceSQL, reference)
	if err != nil && !errors.Is(err, order.ErrNotFound) {
		return nil, fmt.Errorf("getting order by reference %q: %w", reference, err)
	}
	return o, err
}

// History implements order.Reader.
func (r orderReader) History(ctx context.Context, sessionKey string) ([]order.Order, error) {
	rows, err := r.q.Query(ctx, orderHistorySQL, sessionKey, statusStrings(order.HistoryStatuses))
	if err != nil {
		return nil, fmt.Errorf("listing order history: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing order history: %w", err)
	}
	return orders, nil
}

type orderTx struct {
	orderReader
}

func (t *orderTx) Create(ctx context.Context, o *order.Order) error {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshaling order lines: %w", err)
	}
	_, err = t.q.Exec(ctx, createOrderSQL,
		o.ID, o.SessionKey, linesJSON, o.Total, string(o.Status),
		nullString(o.Reference), o.PaidAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

func (t *orderTx) Update(ctx context.Context, o *order.Order) error {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshaling order lines: %w", err)
	}
	tag, err := t.q.Exec(ctx, updateOrderSQL,
		o.ID, linesJSON, o.Total, string(o.Status),
		nullString(o.Reference), o.PaidAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating order %q: %w", o.ID, order.ErrNotFound)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		linesJSON []byte
		status    string
		reference *string
		paidAt    *time.Time
	)
	if err := row.Scan(
		&o.ID, &o.SessionKey, &linesJSON, &o.Total, &status,
		&reference, &paidAt, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return o, err
	}
	if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
		return o, fmt.Errorf("unmarshaling order lines: %w", err)
	}
	if o.Lines == nil {
		o.Lines = []order.Line{}
	}
	o.Status = order.Status(status)
	if reference != nil {
		o.Reference = *reference
	}
	if paidAt != nil {
		t := paidAt.UTC()
		o.PaidAt = &t
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

func statusStrings(statuses []order.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
