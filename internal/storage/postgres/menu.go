package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/kart-chat/internal/domain/menu"
)

const (
	listMenuSQL = `SELECT code, name, price, description FROM menu_items ORDER BY code`

	getMenuItemSQL = `SELECT code, name, price, description FROM menu_items WHERE code = $1`

	countMenuSQL = `SELECT count(*) FROM menu_items`

	upsertMenuItemSQL = `INSERT INTO menu_items (code, name, price, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, description = EXCLUDED.description`
)

var _ menu.Store = (*MenuStore)(nil)

// MenuStore implements menu.Store backed by PostgreSQL.
type MenuStore struct {
	pool *pgxpool.Pool
}

// NewMenuStore returns a MenuStore that uses the given pool.
func NewMenuStore(pool *pgxpool.Pool) *MenuStore {
	return &MenuStore{pool: pool}
}

// List returns all menu items ordered by code.
func (s *MenuStore) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := s.pool.Query(ctx, listMenuSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[menu.Item])
}

// GetByCode returns a single menu item by its code.
func (s *MenuStore) GetByCode(ctx context.Context, code int) (*menu.Item, error) {
	rows, err := s.pool.Query(ctx, getMenuItemSQL, code)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %d: %w", code, err)
	}
	it, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[menu.Item])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", code, err)
	}
	return &it, nil
}

// Count returns the number of menu items.
func (s *MenuStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, countMenuSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting menu items: %w", err)
	}
	return n, nil
}

// Upsert inserts or replaces items in a single batch.
func (s *MenuStore) Upsert(ctx context.Context, items []menu.Item) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(upsertMenuItemSQL, it.Code, it.Name, it.Price, it.Description)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting menu items: %w", err)
	}
	return nil
}
