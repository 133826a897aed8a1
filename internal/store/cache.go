package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetCache returns the cached upstream response for key, or nil when the
// entry is missing or expired.
func (db *DB) GetCache(ctx context.Context, key string) ([]byte, error) {
	type cacheRow struct {
		ExpiresAt sql.NullTime `db:"expires_at"`
		Data      string       `db:"data"`
	}

	var row cacheRow
	err := db.GetContext(ctx, &row, db.Rebind("SELECT data, expires_at FROM response_cache WHERE cache_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache %s: %w", key, err)
	}

	if row.ExpiresAt.Valid && time.Now().UTC().After(row.ExpiresAt.Time) {
		_, _ = db.ExecContext(ctx, db.Rebind("DELETE FROM response_cache WHERE cache_key = ?"), key)
		return nil, nil
	}

	return []byte(row.Data), nil
}

func (db *DB) SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expiresAt = &t
	}

	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO response_cache (cache_key, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`), key, string(data), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache %s: %w", key, err)
	}
	return nil
}

// PurgeExpiredCache deletes entries past their expiry and reports how many
// were removed. Entries without an expiry are kept.
func (db *DB) PurgeExpiredCache(ctx context.Context) (int64, error) {
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM response_cache WHERE expires_at IS NOT NULL AND expires_at < ?`), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return result.RowsAffected()
}
