package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	domain "gymadmin/internal/domain/session"
)

// KeyPrefix namespaces session hashes in Redis.
const KeyPrefix = "gymadmin:session:"

// RedisStore implements Store with one Redis hash per session.
// A positive ttl is applied as the key expiry so Redis purges old sessions itself.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns the session or domain.ErrNotFound
func (s *RedisStore) Get(ctx context.Context, token string) (domain.Session, error) {
	fields, err := s.rdb.HGetAll(ctx, KeyPrefix+token).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return domain.Session{}, domain.ErrNotFound
	}
	gymID, err := strconv.Atoi(fields["gym_id"])
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session gym_id: %w", err)
	}
	created, err := time.Parse(timeLayout, fields["created_at"])
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session created_at: %w", err)
	}
	return domain.Session{
		Token:         token,
		GymID:         gymID,
		AdminUsername: fields["admin_username"],
		CreatedAt:     created,
	}, nil
}

// Save writes the session hash and refreshes its expiry.
// PRE: s has been validated
// POST: Session is persisted
func (s *RedisStore) Save(ctx context.Context, sess domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	key := KeyPrefix + sess.Token
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"gym_id", sess.GymID,
			"admin_username", sess.AdminUsername,
			"created_at", sess.CreatedAt.UTC().Format(timeLayout),
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, KeyPrefix+token).Err()
}
