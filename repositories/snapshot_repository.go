package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresSnapshotRepository persists lineup snapshots as key-value rows,
// one session key to one row. It implements lineup.SnapshotStore.
type PostgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

func (r *PostgresSnapshotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM lineup_snapshots WHERE key = $1`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot %q: %w", key, err)
	}
	return value, true, nil
}

func (r *PostgresSnapshotRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO lineup_snapshots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("put snapshot %q: %w", key, err)
	}
	return nil
}

// Delete is idempotent: removing an absent key succeeds.
func (r *PostgresSnapshotRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM lineup_snapshots WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}
