package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	TrySetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
