package chat

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/order"
)

// --- Mock implementations ---

type mockMenu struct {
	items []menu.Item
	err   error
}

func (m *mockMenu) List(_ context.Context) ([]menu.Item, error) {
	return m.items, m.err
}

func (m *mockMenu) GetByCode(_ context.Context, code int) (*menu.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.items {
		if m.items[i].Code == code {
			return &m.items[i], nil
		}
	}
	return nil, menu.ErrNotFound
}

type mockEngine struct {
	calls []string

	added    *order.Order
	cancel   *order.CancelResult
	checkout *order.CheckoutResult
	current  *order.Order
	history  []order.Order
	err      error
}

func (m *mockEngine) AddItem(_ context.Context, _ string, _ int) (*order.Order, error) {
	m.calls = append(m.calls, "add")
	return m.added, m.err
}

func (m *mockEngine) CancelCurrent(_ context.Context, _ string) (*order.CancelResult, error) {
	m.calls = append(m.calls, "cancel")
	return m.cancel, m.err
}

func (m *mockEngine) Checkout(_ context.Context, _ string) (*order.CheckoutResult, error) {
	m.calls = append(m.calls, "checkout")
	return m.checkout, m.err
}

func (m *mockEngine) Current(_ context.Context, _ string) (*order.Order, error) {
	m.calls = append(m.calls, "current")
	return m.current, m.err
}

func (m *mockEngine) History(_ context.Context, _ string) ([]order.Order, error) {
	m.calls = append(m.calls, "history")
	return m.history, m.err
}

func testMenu() *mockMenu {
	return &mockMenu{items: menu.DefaultItems}
}

// --- Tests ---

func TestHandle_Invalid(t *testing.T) {
	for _, input := range []string{"12a", "-1", "5000", ""} {
		t.Run(input, func(t *testing.T) {
			engine := &mockEngine{}
			d := NewDispatcher(testMenu(), engine, Config{})

			reply, err := d.Handle(context.Background(), "s1", input)
			require.NoError(t, err)
			assert.Equal(t, "s1", reply.SessionKey)
			assert.Contains(t, reply.Message, "Invalid input")
			assert.Equal(t, Options, reply.Options)
			assert.Empty(t, engine.calls)
		})
	}
}

func TestHandle_Browse(t *testing.T) {
	engine := &mockEngine{}
	d := NewDispatcher(testMenu(), engine, Config{})

	reply, err := d.Handle(context.Background(), "s1", "1")
	require.NoError(t, err)
	assert.Len(t, reply.Menu, len(menu.DefaultItems))
	assert.Empty(t, engine.calls)
	assert.Empty(t, reply.Reference)
}

func TestHandle_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("placed", func(t *testing.T) {
		engine := &mockEngine{checkout: &order.CheckoutResult{
			Outcome: order.OutcomePlaced, Reference: "R1", Total: 5000,
		}}
		d := NewDispatcher(testMenu(), engine, Config{})

		reply, err := d.Handle(ctx, "s1", "99")
		require.NoError(t, err)
		assert.Equal(t, "R1", reply.Reference)
		require.NotNil(t, reply.Total)
		assert.Equal(t, int64(5000), *reply.Total)
		assert.Contains(t, reply.Message, "Paystack")
		assert.Contains(t, reply.Message, "5000.00")
	})

	t.Run("nothing to place", func(t *testing.T) {
		engine := &mockEngine{checkout: &order.CheckoutResult{Outcome: order.OutcomeNothing}}
		d := NewDispatcher(testMenu(), engine, Config{})

		reply, err := d.Handle(ctx, "s1", "99")
		require.NoError(t, err)
		assert.Empty(t, reply.Reference)
		assert.Nil(t, reply.Total)
		assert.Equal(t, Options, reply.Options)
		assert.Contains(t, reply.Message, "No order to place")
	})

	t.Run("already paid", func(t *testing.T) {
		engine := &mockEngine{checkout: &order.CheckoutResult{
			Outcome: order.OutcomeAlreadyPaid, Reference: "R1", Total: 100,
		}}
		d := NewDispatcher(testMenu(), engine, Config{})

		reply, err := d.Handle(ctx, "s1", "99")
		require.NoError(t, err)
		assert.Equal(t, "R1", reply.Reference)
		assert.Contains(t, reply.Message, "already paid")
	})

	t.Run("engine error", func(t *testing.T) {
		engine := &mockEngine{err: errors.New("db down")}
		d := NewDispatcher(testMenu(), engine, Config{})

		_, err := d.Handle(ctx, "s1", "99")
		require.Error(t, err)
	})
}

func TestHandle_History(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		d := NewDispatcher(testMenu(), &mockEngine{history: []order.Order{}}, Config{})
		reply, err := d.Handle(ctx, "s1", "98")
		require.NoError(t, err)
		assert.Equal(t, "You have no order history yet.", reply.Message)
		assert.Empty(t, reply.History)
	})

	t.Run("orders", func(t *testing.T) {
		hist := []order.Order{{ID: "a", Status: order.StatusPaid}, {ID: "b", Status: order.StatusCancelled}}
		d := NewDispatcher(testMenu(), &mockEngine{history: hist}, Config{})
		reply, err := d.Handle(ctx, "s1", "98")
		require.NoError(t, err)
		assert.Equal(t, hist, reply.History)
	})
}

func TestHandle_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		d := NewDispatcher(testMenu(), &mockEngine{current: order.Empty("s1")}, Config{})
		reply, err := d.Handle(ctx, "s1", "97")
		require.NoError(t, err)
		assert.Equal(t, "Your cart is empty.", reply.Message)
		require.NotNil(t, reply.Current)
		assert.Equal(t, order.StatusNone, reply.Current.Status)
	})

	t.Run("with lines", func(t *testing.T) {
		cur := &order.Order{
			Status: order.StatusPending,
			Lines:  []order.Line{{Code: 10, Name: "Jollof Rice", UnitPrice: 2500, Quantity: 2}},
			Total:  5000,
		}
		d := NewDispatcher(testMenu(), &mockEngine{current: cur}, Config{})
		reply, err := d.Handle(ctx, "s1", "97")
		require.NoError(t, err)
		assert.Equal(t, "Current order: Jollof Rice x2. Total: 5000.00", reply.Message)
	})
}

func TestHandle_Cancel(t *testing.T) {
	ctx := context.Background()

	d := NewDispatcher(testMenu(), &mockEngine{cancel: &order.CancelResult{}}, Config{})
	reply, err := d.Handle(ctx, "s1", "0")
	require.NoError(t, err)
	assert.Equal(t, "No current order to cancel.", reply.Message)

	d = NewDispatcher(testMenu(), &mockEngine{cancel: &order.CancelResult{Cancelled: true}}, Config{})
	reply, err = d.Handle(ctx, "s1", "0")
	require.NoError(t, err)
	assert.Equal(t, "Order cancelled.", reply.Message)
}

func TestHandle_Select(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code does not mutate", func(t *testing.T) {
		engine := &mockEngine{}
		d := NewDispatcher(testMenu(), engine, Config{})

		reply, err := d.Handle(ctx, "s1", "42")
		require.NoError(t, err)
		assert.Equal(t, "Invalid selection. Choose from the menu options.", reply.Message)
		assert.Empty(t, engine.calls)
	})

	t.Run("adds item", func(t *testing.T) {
		engine := &mockEngine{added: &order.Order{
			Status: order.StatusPending,
			Lines:  []order.Line{{Code: 10, Name: "Jollof Rice", UnitPrice: 2500, Quantity: 1}},
			Total:  2500,
		}}
		d := NewDispatcher(testMenu(), engine, Config{})

		reply, err := d.Handle(ctx, "s1", "10")
		require.NoError(t, err)
		assert.Equal(t, []string{"add"}, engine.calls)
		assert.Equal(t, "Jollof Rice added to your order. Jollof Rice x1. Total: 2500.00", reply.Message)
		assert.NotNil(t, reply.Current)
	})

	t.Run("catalog error", func(t *testing.T) {
		d := NewDispatcher(&mockMenu{err: errors.New("boom")}, &mockEngine{}, Config{})
		_, err := d.Handle(ctx, "s1", "10")
		require.Error(t, err)
	})
}

func TestNewDispatcher_MaxInput(t *testing.T) {
	engine := &mockEngine{}
	d := NewDispatcher(testMenu(), engine, Config{MaxInput: 20})

	reply, err := d.Handle(context.Background(), "s1", "97")
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Invalid input")
	assert.Empty(t, engine.calls)
}
