package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresKV stores values in the portal_kv table.
type PostgresKV struct {
	db *sqlx.DB
}

type kvRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewPostgresKV constructs a Postgres-backed store.
func NewPostgresKV(db *sqlx.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

// EnsureSchema creates the backing table when missing.
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS portal_kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create portal_kv: %w", err)
	}
	return nil
}

// Load implements KVStore.
func (p *PostgresKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM portal_kv WHERE key = $1`
	var value string
	if err := p.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Save implements KVStore.
func (p *PostgresKV) Save(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO portal_kv (key, value, updated_at)
VALUES (:key, :value, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	row := kvRow{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	if _, err := p.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Close implements KVStore.
func (p *PostgresKV) Close() error {
	return p.db.Close()
}
