// Package redis implements session.Store on Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xenking/kart-chat/internal/domain/session"
)

const (
	sessionKeyPrefix = "session:"

	fieldLastSeenAt = "last_seen_at"
	fieldUserAgent  = "user_agent"
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore keeps one hash per session and refreshes its expiry on
// every touch.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. A zero ttl keeps records forever.
func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func key(sid string) string {
	return sessionKeyPrefix + sid
}

// Touch writes the session record and resets its expiry atomically.
func (s *SessionStore) Touch(ctx context.Context, sess session.Session) error {
	k := key(sess.Key)
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, k,
			fieldLastSeenAt, sess.LastSeenAt.UTC().Format(time.RFC3339Nano),
			fieldUserAgent, sess.UserAgent,
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// Get returns the stored session record and whether it exists.
func (s *SessionStore) Get(ctx context.Context, sid string) (session.Session, bool, error) {
	vals, err := s.client.HGetAll(ctx, key(sid)).Result()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("getting session: %w", err)
	}
	if len(vals) == 0 {
		return session.Session{}, false, nil
	}
	sess := session.Session{Key: sid, UserAgent: vals[fieldUserAgent]}
	if ts := vals[fieldLastSeenAt]; ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return session.Session{}, false, fmt.Errorf("parsing last seen: %w", err)
		}
		sess.LastSeenAt = t
	}
	return sess, true, nil
}
