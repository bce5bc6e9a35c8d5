// Package service implements rentald's auth and token logic on top of the
// repositories and the refresh-session store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var ErrRefreshSessionNotFound = errors.New("refresh session not found")

// RefreshSessionStore tracks which refresh-token JTIs are live. A JTI is
// consumed exactly once during rotation; presenting a consumed or unknown
// JTI invalidates the refresh attempt.
type RefreshSessionStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	// Consume atomically looks up and deletes the JTI, returning the user
	// it belonged to.
	Consume(ctx context.Context, jti string) (string, error)
	RevokeUser(ctx context.Context, userID string) error
}

type RedisRefreshSessionStore struct {
	client *redis.Client
}

func NewRedisRefreshSessionStore(client *redis.Client) *RedisRefreshSessionStore {
	return &RedisRefreshSessionStore{client: client}
}

func sessionKey(jti string) string     { return "refresh_session:" + jti }
func userSessionsKey(id string) string { return "user_sessions:" + id }

func (s *RedisRefreshSessionStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(jti), userID, ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), jti)
	// The member set outlives individual sessions slightly; stale JTIs in
	// it are harmless because the session key is the source of truth.
	pipe.Expire(ctx, userSessionsKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

var consumeScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return false
end
redis.call("DEL", KEYS[1])
return v
`)

func (s *RedisRefreshSessionStore) Consume(ctx context.Context, jti string) (string, error) {
	v, err := consumeScript.Run(ctx, s.client, []string{sessionKey(jti)}).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh session: %w", err)
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return "", ErrRefreshSessionNotFound
	}
	s.client.SRem(ctx, userSessionsKey(userID), jti)
	return userID, nil
}

func (s *RedisRefreshSessionStore) RevokeUser(ctx context.Context, userID string) error {
	jtis, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("list user sessions: %w", err)
	}
	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, sessionKey(jti))
	}
	keys = append(keys, userSessionsKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

// NewRedisClient connects to an external redis when addr is set, and
// boots an in-process miniredis otherwise so the dev server has no hard
// dependency. The returned closer stops the embedded instance.
func NewRedisClient(addr string) (*redis.Client, func(), error) {
	if addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		return client, func() { _ = client.Close() }, nil
	}
	embedded, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start embedded redis: %w", err)
	}
	client := redis.NewClient(&redis.Options{Addr: embedded.Addr()})
	return client, func() {
		_ = client.Close()
		embedded.Close()
	}, nil
}
