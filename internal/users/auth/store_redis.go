package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkovalyov/revory/internal/platform/constants"
)

// RedisUsedCodeRepository records spent confirmation-code digests with a TTL
// slightly past the code's own expiry, after which replay is impossible anyway.
type RedisUsedCodeRepository struct {
	client *redis.Client
}

func NewRedisUsedCodeRepository(client *redis.Client) *RedisUsedCodeRepository {
	return &RedisUsedCodeRepository{client: client}
}

func usedCodeKey(digest string) string {
	return constants.RedisPrefixUsedCode + digest
}

func (repository *RedisUsedCodeRepository) MarkUsed(context context.Context, digest string, ttl time.Duration) error {
	if err := repository.client.Set(context, usedCodeKey(digest), "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: failed to mark code used: %w", err)
	}
	return nil
}

func (repository *RedisUsedCodeRepository) IsUsed(context context.Context, digest string) (bool, error) {
	count, err := repository.client.Exists(context, usedCodeKey(digest)).Result()
	if err != nil {
		return false, fmt.Errorf("auth: failed to check code usage: %w", err)
	}
	return count > 0, nil
}
