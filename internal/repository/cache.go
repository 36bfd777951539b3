package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finbook-back/internal/apperrors"
)

const resultKeyPrefix = "result:"

// ResultCacheRepository keeps rendered terminal command results in redis.
type ResultCacheRepository struct {
	rdb *redis.Client
}

func NewResultCacheRepository(rdb *redis.Client) *ResultCacheRepository {
	return &ResultCacheRepository{
		rdb: rdb,
	}
}

func (r *ResultCacheRepository) Get(ctx context.Context, id int64) ([]byte, error) {
	data, err := r.rdb.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrCacheMiss
		}

		return nil, err
	}

	return data, nil
}

func (r *ResultCacheRepository) Set(ctx context.Context, id int64, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, resultKey(id), value, ttl).Err()
}

func resultKey(id int64) string {
	return fmt.Sprintf("%s%d", resultKeyPrefix, id)
}
