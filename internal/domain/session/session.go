// Package session maps client-presented tokens to stable session keys.
package session

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Session is the persisted record of a visitor.
type Session struct {
	Key        string
	LastSeenAt time.Time
	UserAgent  string
}

// Store persists session records.
type Store interface {
	// Touch creates the session or refreshes its last-seen time.
	Touch(ctx context.Context, s Session) error
}

// Resolver issues and refreshes session keys.
type Resolver struct {
	store  Store
	now    func() time.Time
	newKey func() string
}

// NewResolver creates a Resolver backed by the given Store.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:  store,
		now:    time.Now,
		newKey: uuid.NewString,
	}
}

// Resolve returns the session key for token. A fresh key is issued when the
// token is empty or is not a key this resolver could have issued; issued
// reports whether that happened so the transport can set its cookie.
func (r *Resolver) Resolve(ctx context.Context, token, userAgent string) (key string, issued bool, err error) {
	key = token
	if !ValidKey(key) {
		key = r.newKey()
		issued = true
	}

	if err := r.store.Touch(ctx, Session{
		Key:        key,
		LastSeenAt: r.now().UTC(),
		UserAgent:  userAgent,
	}); err != nil {
		return "", false, errors.Wrap(err, "touch session")
	}

	return key, issued, nil
}

// ValidKey reports whether key has the shape of an issued session key.
func ValidKey(key string) bool {
	if len(key) != 36 {
		return false
	}
	_, err := uuid.Parse(key)
	return err == nil
}
