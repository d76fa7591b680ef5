package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// PostgresAdapter stores snapshots in the cart_snapshots table created by cmd/migrate.
type PostgresAdapter struct {
	db *sql.DB
}

func NewPostgresAdapter(db *sql.DB) *PostgresAdapter {
	return &PostgresAdapter{db: db}
}

func (p *PostgresAdapter) Read(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var payload []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT payload
		FROM cart_snapshots
		WHERE key = $1
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select snapshot %s", key)
	}
	return payload, nil
}

func (p *PostgresAdapter) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
	`, key, string(data))
	if err != nil {
		return errors.Wrapf(err, "upsert snapshot %s", key)
	}
	return nil
}
