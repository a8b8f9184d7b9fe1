package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/kart-chat/internal/domain/menu"
	"github.com/xenking/kart-chat/internal/domain/payment"
	"github.com/xenking/kart-chat/internal/domain/session"
)

var (
	_ menu.Store     = (*MenuStore)(nil)
	_ session.Store  = (*SessionStore)(nil)
	_ payment.Ledger = (*Ledger)(nil)
)

// MenuStore is an in-memory catalog.
type MenuStore struct {
	mu    sync.RWMutex
	items map[int]menu.Item
}

// NewMenuStore creates an empty MenuStore.
func NewMenuStore() *MenuStore {
	return &MenuStore{items: make(map[int]menu.Item)}
}

// List returns items ordered by code.
func (s *MenuStore) List(_ context.Context) ([]menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]menu.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b menu.Item) int { return a.Code - b.Code })
	return out, nil
}

// GetByCode returns menu.ErrNotFound for unknown codes.
func (s *MenuStore) GetByCode(_ context.Context, code int) (*menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[code]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return &it, nil
}

func (s *MenuStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *MenuStore) Upsert(_ context.Context, items []menu.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.Code] = it
	}
	return nil
}

// SessionStore keeps the latest record per session key.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session.Session)}
}

func (s *SessionStore) Touch(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Key] = sess
	return nil
}

// Get returns the stored session record.
func (s *SessionStore) Get(key string) (session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	return sess, ok
}

// Ledger appends payment events to a slice.
type Ledger struct {
	mu     sync.Mutex
	events []payment.Event
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Record(_ context.Context, e payment.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

// Events returns a copy of the recorded events in order.
func (l *Ledger) Events() []payment.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}
