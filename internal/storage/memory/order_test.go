package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/order"
)

func pendingOrder(id, sid string, at time.Time) *order.Order {
	return &order.Order{
		ID:         id,
		SessionKey: sid,
		Lines:      []order.Line{},
		Status:     order.StatusPending,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func TestOrderStore_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	boom := errors.New("boom")
	err := s.Atomic(ctx, "s1", func(ctx context.Context, tx order.Tx) error {
		require.NoError(t, tx.Create(ctx, pendingOrder("o1", "s1", time.Now())))
		_, err := tx.Pending(ctx, "s1")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Pending(ctx, "s1")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestOrderStore_OnePendingPerSession(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()
	now := time.Now()

	require.NoError(t, s.Atomic(ctx, "s1", func(ctx context.Context, tx order.Tx) error {
		return tx.Create(ctx, pendingOrder("o1", "s1", now))
	}))
	err := s.Atomic(ctx, "s1", func(ctx context.Context, tx order.Tx) error {
		return tx.Create(ctx, pendingOrder("o2", "s1", now))
	})
	require.ErrorIs(t, err, ErrConstraint)

	// Other sessions are independent.
	require.NoError(t, s.Atomic(ctx, "s2", func(ctx context.Context, tx order.Tx) error {
		return tx.Create(ctx, pendingOrder("o3", "s2", now))
	}))
}

func TestOrderStore_UniqueReference(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()
	now := time.Now()

	a := pendingOrder("a", "s1", now)
	a.Status, a.Reference = order.StatusPlaced, "R"
	b := pendingOrder("b", "s2", now)
	b.Status, b.Reference = order.StatusPlaced, "R"

	require.NoError(t, s.Atomic(ctx, "s1", func(ctx context.Context, tx order.Tx) error { return tx.Create(ctx, a) }))
	err := s.Atomic(ctx, "s2", func(ctx context.Context, tx order.Tx) error { return tx.Create(ctx, b) })
	require.ErrorIs(t, err, ErrConstraint)

	got, err := s.ByReference(ctx, "R")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestOrderStore_LatestAndHistory(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	orders := []*order.Order{
		{ID: "1", SessionKey: "s1", Status: order.StatusCancelled, CreatedAt: base, UpdatedAt: base.Add(5 * time.Minute)},
		{ID: "2", SessionKey: "s1", Status: order.StatusPlaced, Reference: "R2", CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(2 * time.Minute)},
		{ID: "3", SessionKey: "s1", Status: order.StatusPending, CreatedAt: base.Add(3 * time.Minute), UpdatedAt: base.Add(3 * time.Minute)},
		{ID: "4", SessionKey: "s2", Status: order.StatusPaid, Reference: "R4", CreatedAt: base, UpdatedAt: base},
	}
	for _, o := range orders {
		require.NoError(t, s.Atomic(ctx, o.SessionKey, func(ctx context.Context, tx order.Tx) error {
			return tx.Create(ctx, o)
		}))
	}

	latest, err := s.Latest(ctx, "s1", order.StatusPlaced, order.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, "3", latest.ID)

	latest, err = s.Latest(ctx, "s1", order.StatusPlaced)
	require.NoError(t, err)
	assert.Equal(t, "2", latest.ID)

	_, err = s.Latest(ctx, "s1", order.StatusPaid)
	require.ErrorIs(t, err, order.ErrNotFound)

	hist, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2", hist[0].ID)
	assert.Equal(t, "1", hist[1].ID)

	_, err = s.ByReference(ctx, "")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestOrderStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()
	o := pendingOrder("o1", "s1", time.Now())
	o.Lines = []order.Line{{Code: 10, Quantity: 1, UnitPrice: 100}}
	require.NoError(t, s.Atomic(ctx, "s1", func(ctx context.Context, tx order.Tx) error { return tx.Create(ctx, o) }))

	o.Lines[0].Quantity = 99
	got, err := s.Pending(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Lines[0].Quantity)
}

func TestOrderStore_ServiceConcurrency(t *testing.T) {
	ctx := context.Background()
	items := NewMenuStore()
	require.NoError(t, items.Upsert(ctx, menu.DefaultItems))
	store := NewOrderStore()
	svc := order.NewService(items, store, order.NewBloomMinter(1000))

	const perSession = 40
	var wg sync.WaitGroup
	for i := range 4 {
		sid := fmt.Sprintf("s%d", i)
		for range perSession {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.AddItem(ctx, sid, 10)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	for i := range 4 {
		cur, err := svc.Current(ctx, fmt.Sprintf("s%d", i))
		require.NoError(t, err)
		require.Len(t, cur.Lines, 1)
		assert.Equal(t, perSession, cur.Lines[0].Quantity)
		assert.Equal(t, int64(perSession*2500), cur.Total)
	}
	assert.Empty(t, store.locks)
}

func TestMenuStore(t *testing.T) {
	ctx := context.Background()
	s := NewMenuStore()

	seeded, err := menu.EnsureSeeded(ctx, s, menu.DefaultItems)
	require.NoError(t, err)
	assert.True(t, seeded)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].Code, items[i].Code)
	}

	_, err = s.GetByCode(ctx, 99)
	require.ErrorIs(t, err, menu.ErrNotFound)
}
