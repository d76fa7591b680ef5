package storage

import (
	"context"
	"time"

	"lezat-lumer/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RedisAdapter keeps each snapshot under its own Redis string key.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter accepts either a redis:// URL or a bare host:port address.
func NewRedisAdapter(ctx context.Context, addr string) (*RedisAdapter, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	a := &RedisAdapter{client: redis.NewClient(opts)}
	if err := a.Ping(ctx); err != nil {
		a.client.Close()
		return nil, err
	}

	logger.L().Info("Redis snapshot storage ready", zap.String("addr", opts.Addr))
	return a, nil
}

func (a *RedisAdapter) Read(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	val, err := a.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis GET %s", key)
	}
	return val, nil
}

func (a *RedisAdapter) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := a.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %s", key)
	}
	return nil
}

func (a *RedisAdapter) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.client.Ping(pingCtx).Err(); err != nil {
		return errors.Wrap(err, "redis ping")
	}
	return nil
}

func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
