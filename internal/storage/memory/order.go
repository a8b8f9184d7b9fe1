// Package memory provides in-process stores for local development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/kart-chat/internal/domain/order"
)

// ErrConstraint is returned when a commit would break a store invariant.
var ErrConstraint = errors.New("constraint violation")

var (
	_ order.Store = (*OrderStore)(nil)
	_ order.Tx    = (*orderTx)(nil)
)

// OrderStore keeps orders in memory. Atomic serializes callers per session
// with a reference-counted mutex and commits staged writes on success.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*order.Order

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]*order.Order),
		locks:  make(map[string]*sessionLock),
	}
}

func (s *OrderStore) lock(sessionKey string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionKey]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionKey] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionKey)
		}
		s.locksMu.Unlock()
	}
}

// Atomic implements order.Store.
func (s *OrderStore) Atomic(ctx context.Context, sessionKey string, fn func(ctx context.Context, tx order.Tx) error) error {
	unlock := s.lock(sessionKey)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &orderTx{store: s, staged: make(map[string]*order.Order)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx.staged)
}

func (s *OrderStore) commit(staged map[string]*order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range staged {
		for otherID, other := range s.orders {
			if otherID == id {
				continue
			}
			if _, replaced := staged[otherID]; replaced {
				other = staged[otherID]
			}
			if o.Status == order.StatusPending && other.Status == order.StatusPending && other.SessionKey == o.SessionKey {
				return fmt.Errorf("committing order %q: second pending order for session: %w", id, ErrConstraint)
			}
			if o.Reference != "" && other.Reference == o.Reference {
				return fmt.Errorf("committing order %q: duplicate reference: %w", id, ErrConstraint)
			}
		}
	}
	for id, o := range staged {
		s.orders[id] = o
	}
	return nil
}

// find returns a copy of the most recently updated order matching pred.
// Staged orders shadow committed ones.
func (s *OrderStore) find(staged map[string]*order.Order, pred func(*order.Order) bool) (*order.Order, error) {
	var best *order.Order
	s.each(staged, func(o *order.Order) {
		if pred(o) && (best == nil || o.UpdatedAt.After(best.UpdatedAt)) {
			best = o
		}
	})
	if best == nil {
		return nil, order.ErrNotFound
	}
	return best.Clone(), nil
}

func (s *OrderStore) each(staged map[string]*order.Order, fn func(*order.Order)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, o := range s.orders {
		if st, ok := staged[id]; ok {
			o = st
		}
		fn(o)
	}
	for id, o := range staged {
		if _, ok := s.orders[id]; !ok {
			fn(o)
		}
	}
}

func (s *OrderStore) pending(staged map[string]*order.Order, sessionKey string) (*order.Order, error) {
	return s.find(staged, func(o *order.Order) bool {
		return o.SessionKey == sessionKey && o.Status == order.StatusPending
	})
}

func (s *OrderStore) latest(staged map[string]*order.Order, sessionKey string, statuses []order.Status) (*order.Order, error) {
	return s.find(staged, func(o *order.Order) bool {
		return o.SessionKey == sessionKey && slices.Contains(statuses, o.Status)
	})
}

func (s *OrderStore) byReference(staged map[string]*order.Order, reference string) (*order.Order, error) {
	if reference == "" {
		return nil, order.ErrNotFound
	}
	return s.find(staged, func(o *order.Order) bool {
		return o.Reference == reference
	})
}

func (s *OrderStore) history(staged map[string]*order.Order, sessionKey string) []order.Order {
	out := []order.Order{}
	s.each(staged, func(o *order.Order) {
		if o.SessionKey == sessionKey && slices.Contains(order.HistoryStatuses, o.Status) {
			out = append(out, *o.Clone())
		}
	})
	slices.SortFunc(out, func(a, b order.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Pending implements order.Reader.
func (s *OrderStore) Pending(_ context.Context, sessionKey string) (*order.Order, error) {
	return s.pending(nil, sessionKey)
}

// Latest implements order.Reader.
func (s *OrderStore) Latest(_ context.Context, sessionKey string, statuses ...order.Status) (*order.Order, error) {
	return s.latest(nil, sessionKey, statuses)
}

// ByReference implements order.Reader.
func (s *OrderStore) ByReference(_ context.Context, reference string) (*order.Order, error) {
	return s.byReference(nil, reference)
}

// History implements order.Reader.
func (s *OrderStore) History(_ context.Context, sessionKey string) ([]order.Order, error) {
	return s.history(nil, sessionKey), nil
}

type orderTx struct {
	store  *OrderStore
	staged map[string]*order.Order
}

func (t *orderTx) Pending(_ context.Context, sessionKey string) (*order.Order, error) {
	return t.store.pending(t.staged, sessionKey)
}

func (t *orderTx) Latest(_ context.Context, sessionKey string, statuses ...order.Status) (*order.Order, error) {
	return t.store.latest(t.staged, sessionKey, statuses)
}

func (t *orderTx) ByReference(_ context.Context, reference string) (*order.Order, error) {
	return t.store.byReference(t.staged, reference)
}

func (t *orderTx) History(_ context.Context, sessionKey string) ([]order.Order, error) {
	return t.store.history(t.staged, sessionKey), nil
}

func (t *orderTx) Create(_ context.Context, o *order.Order) error {
	if _, err := t.store.find(t.staged, func(x *order.Order) bool { return x.ID == o.ID }); err == nil {
		return fmt.Errorf("creating order %q: duplicate id: %w", o.ID, ErrConstraint)
	}
	t.staged[o.ID] = o.Clone()
	return nil
}

func (t *orderTx) Update(_ context.Context, o *order.Order) error {
	if _, err := t.store.find(t.staged, func(x *order.Order) bool { return x.ID == o.ID }); err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	t.staged[o.ID] = o.Clone()
	return nil
}
