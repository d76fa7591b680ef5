// Package storage holds the key/value adapters that keep serialized cart snapshots
// across restarts.
package storage

import (
	"context"
	"database/sql"

	"lezat-lumer/internal/config"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("snapshot not found")
	ErrEmptyKey     = errors.New("snapshot key is empty")
	ErrUnknownStore = errors.New("unknown storage driver")
)

// Adapter reads and writes one serialized snapshot per key.
type Adapter interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Open builds the adapter selected by cfg.StorageDriver. db is only used by the
// postgres driver and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, db *sql.DB) (Adapter, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return NewMemoryAdapter(), nil
	case config.DriverFile:
		return NewFileAdapter(cfg.StorageDir)
	case config.DriverRedis:
		return NewRedisAdapter(ctx, cfg.RedisAddr)
	case config.DriverPostgres:
		if db == nil {
			return nil, errors.New("postgres storage requires a database handle")
		}
		return NewPostgresAdapter(db), nil
	default:
		return nil, errors.Wrapf(ErrUnknownStore, "driver %q", cfg.StorageDriver)
	}
}
