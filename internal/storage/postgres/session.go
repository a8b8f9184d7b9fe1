package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/kart-chat/internal/domain/session"
)

const touchSessionSQL = `INSERT INTO sessions (sid, last_seen_at, user_agent)
	VALUES ($1, $2, $3)
	ON CONFLICT (sid) DO UPDATE
	SET last_seen_at = EXCLUDED.last_seen_at, user_agent = EXCLUDED.user_agent`

var _ session.Store = (*SessionStore)(nil)

// SessionStore implements session.Store backed by PostgreSQL.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore returns a SessionStore that uses the given pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Touch upserts the session's last-seen time and user agent.
func (s *SessionStore) Touch(ctx context.Context, sess session.Session) error {
	if _, err := s.pool.Exec(ctx, touchSessionSQL, sess.Key, sess.LastSeenAt, sess.UserAgent); err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}
