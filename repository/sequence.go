package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PostgresSequencer keeps one counter row per user in order_sequences and
// bumps it with a single upsert, so concurrent callers serialize on the row.
type PostgresSequencer struct {
	db *gorm.DB
}

func NewPostgresSequencer(db *gorm.DB) *PostgresSequencer {
	return &PostgresSequencer{db: db}
}

func (s *PostgresSequencer) Next(ctx context.Context, userID uint) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO order_sequences (user_id, last_value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET last_value = order_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value
	`, userID).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance order sequence for user %d: %w", userID, err)
	}
	return value, nil
}

// RedisSequencer uses INCR on a per-user key.
type RedisSequencer struct {
	client *redis.Client
	prefix string
}

func NewRedisSequencer(client *redis.Client, prefix string) *RedisSequencer {
	if prefix == "" {
		prefix = "paygate:order_seq"
	}
	return &RedisSequencer{client: client, prefix: prefix}
}

func (s *RedisSequencer) Next(ctx context.Context, userID uint) (int64, error) {
	value, err := s.client.Incr(ctx, fmt.Sprintf("%s:%d", s.prefix, userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance order sequence for user %d: %w", userID, err)
	}
	return value, nil
}
