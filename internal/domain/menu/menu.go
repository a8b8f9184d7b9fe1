// Package menu holds the read-mostly catalog that chat item codes resolve against.
package menu

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no catalog entry matches a code.
var ErrNotFound = errors.New("menu item not found")

// Item is a catalog entry. Code is the only identifier clients ever see.
type Item struct {
	Code        int
	Name        string
	Price       int64
	Description string
}

// Repository defines read operations for the catalog.
type Repository interface {
	// List returns every item ordered by code ascending.
	List(ctx context.Context) ([]Item, error)
	// GetByCode returns ErrNotFound when the code is unknown.
	GetByCode(ctx context.Context, code int) (*Item, error)
}

// Store is a Repository that can also be seeded.
type Store interface {
	Repository
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, items []Item) error
}

// DefaultItems is the catalog installed on first start.
var DefaultItems = []Item{
	{Code: 10, Name: "Jollof Rice", Price: 2500, Description: "Served with chicken"},
	{Code: 11, Name: "Fried Rice", Price: 2400, Description: "Served with fish"},
	{Code: 12, Name: "Burger", Price: 1800, Description: "Beef burger with fries"},
	{Code: 13, Name: "Pizza Slice", Price: 1500, Description: "Cheese pizza"},
	{Code: 14, Name: "Salad", Price: 1200, Description: "Mixed veggies"},
}

// EnsureSeeded installs items when the catalog is empty and reports whether
// anything was written.
func EnsureSeeded(ctx context.Context, s Store, items []Item) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, errors.Wrap(err, "count menu items")
	}
	if n > 0 {
		return false, nil
	}
	if err := s.Upsert(ctx, items); err != nil {
		return false, errors.Wrap(err, "seed menu items")
	}
	return true, nil
}
