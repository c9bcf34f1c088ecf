package redis

import (
	"context"
	"errors"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	goredis "github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *goredis.Client
}

func NewRedisRepository(client *goredis.Client) contracts.RedisRepository {
	return &redisRepository{
		client: client,
	}
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, exceptions.ErrRedisSetData(err)
	}
	return ok, nil
}

func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", exceptions.ErrRedisGetData(err)
	}
	return val, nil
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return exceptions.ErrRedisDeleteData(err)
	}
	return nil
}
