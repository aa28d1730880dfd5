package implementation

import (
	"context"
	"fmt"
	"time"

	"field-survey-bot/internal/repository/contract"
	"field-survey-bot/internal/repository/memory"

	"github.com/redis/go-redis/v9"
)

const updateKeyPrefix = "survey:update:"

// RedisUpdateRepository dedups webhook updates across instances.
type RedisUpdateRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisUpdateRepository(rdb *redis.Client, ttl time.Duration) contract.UpdateRepository {
	if ttl <= 0 {
		ttl = memory.DefaultUpdateTTL
	}
	return &RedisUpdateRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisUpdateRepository) MarkProcessed(ctx context.Context, updateID int64) (bool, error) {
	fresh, err := r.rdb.SetNX(ctx, fmt.Sprintf("%s%d", updateKeyPrefix, updateID), 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx update %d: %w", updateID, err)
	}
	return fresh, nil
}
