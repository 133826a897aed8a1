package store

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/purplemusic/catalog/internal/constants"
)

// DB is the catalog store. Queries are written with ? placeholders and
// rebound for the driver in use.
type DB struct {
	*sqlx.DB
}

// Open connects to sqlite (modernc) or postgres (pgx) and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if driver == constants.DriverSQLite {
		// one connection serializes writers instead of surfacing SQLITE_BUSY
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=30000"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{db}, nil
}

// New wraps an existing connection without touching the schema.
func New(db *sqlx.DB) *DB {
	return &DB{db}
}

func (db *DB) Close() error {
	return db.DB.Close()
}
