// Package cache keeps JSON values in Redis: classifications per message and
// the assembled feed per user.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, prefix string, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, prefix: prefix, logger: logger}
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Get decodes the value at key into out. A missing key reports false with a
// nil error.
func (s *Store) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// 缓存内容损坏，当作未命中
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.rdb.Del(ctx, s.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
