package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ports "yatube/internal/domain/ports/output"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "session:"

// Commander is the subset of redis.Cmdable used by Store.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store keeps scs session data in Redis with the session expiry as key TTL.
type Store struct {
	client Commander
	prefix string
	log    ports.Logger
}

func NewStore(client Commander, log ports.Logger) *Store {
	return &Store{client: client, prefix: defaultPrefix, log: log}
}

func (s *Store) key(token string) string {
	return s.prefix + token
}

func (s *Store) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		s.log.Error("Failed to load session", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}
	return b, true, nil
}

func (s *Store) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.DeleteCtx(ctx, token)
	}
	if err := s.client.Set(ctx, s.key(token), b, ttl).Err(); err != nil {
		s.log.Error("Failed to save session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) DeleteCtx(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		s.log.Error("Failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *Store) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *Store) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}
