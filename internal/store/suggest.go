package store

import (
	"context"
	"fmt"
	"time"

	"github.com/purplemusic/catalog/internal/domain"
)

// InsertSuggestEntry adds an entry unless its (prefix, type, ref) key already
// exists. It reports whether a row was written.
func (db *DB) InsertSuggestEntry(ctx context.Context, e *domain.SuggestEntry) (bool, error) {
	if e.LastSeenAt.IsZero() {
		e.LastSeenAt = time.Now().UTC()
	}
	result, err := db.NamedExecContext(ctx, `
		INSERT INTO suggest_entries (prefix, entity_type, entity_ref, payload, hit_count, last_seen_at)
		VALUES (:prefix, :entity_type, :entity_ref, :payload, :hit_count, :last_seen_at)
		ON CONFLICT(prefix, entity_type, entity_ref) DO NOTHING
	`, e)
	if err != nil {
		return false, fmt.Errorf("failed to insert suggest entry %s/%s: %w", e.Prefix, e.EntityRef, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// UpsertSuggestEntry writes an entry, refreshing the payload and last-seen time
// of an existing one. Hit counts are kept.
func (db *DB) UpsertSuggestEntry(ctx context.Context, e *domain.SuggestEntry) error {
	e.LastSeenAt = time.Now().UTC()
	_, err := db.NamedExecContext(ctx, `
		INSERT INTO suggest_entries (prefix, entity_type, entity_ref, payload, hit_count, last_seen_at)
		VALUES (:prefix, :entity_type, :entity_ref, :payload, :hit_count, :last_seen_at)
		ON CONFLICT(prefix, entity_type, entity_ref) DO UPDATE SET
			payload = excluded.payload,
			last_seen_at = excluded.last_seen_at
	`, e)
	if err != nil {
		return fmt.Errorf("failed to upsert suggest entry %s/%s: %w", e.Prefix, e.EntityRef, err)
	}
	return nil
}

// SuggestEntries returns entries for an exact normalized prefix, most used first.
func (db *DB) SuggestEntries(ctx context.Context, prefix string, limit int) ([]domain.SuggestEntry, error) {
	var out []domain.SuggestEntry
	err := db.SelectContext(ctx, &out, db.Rebind(`
		SELECT prefix, entity_type, entity_ref, payload, hit_count, last_seen_at
		FROM suggest_entries WHERE prefix = ?
		ORDER BY hit_count DESC, last_seen_at DESC, entity_ref ASC
		LIMIT ?`), prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggest entries for %q: %w", prefix, err)
	}
	return out, nil
}

// TouchSuggestEntries bumps the hit count of the given refs under prefix.
func (db *DB) TouchSuggestEntries(ctx context.Context, prefix string, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, ref := range refs {
		_, err := db.ExecContext(ctx, db.Rebind(`
			UPDATE suggest_entries SET hit_count = hit_count + 1, last_seen_at = ?
			WHERE prefix = ? AND entity_ref = ?
		`), now, prefix, ref)
		if err != nil {
			return fmt.Errorf("failed to touch suggest entry %s/%s: %w", prefix, ref, err)
		}
	}
	return nil
}

func (db *DB) CountSuggestEntries(ctx context.Context, entityType, entityRef string) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, db.Rebind(`
		SELECT COUNT(*) FROM suggest_entries WHERE entity_type = ? AND entity_ref = ?`), entityType, entityRef)
	if err != nil {
		return 0, fmt.Errorf("failed to count suggest entries: %w", err)
	}
	return n, nil
}

func (db *DB) MarkSuggestProcessed(ctx context.Context, artistKey string) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO suggest_processed (artist_key, processed_at) VALUES (?, ?)
		ON CONFLICT(artist_key) DO UPDATE SET processed_at = excluded.processed_at
	`), artistKey, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark %s processed: %w", artistKey, err)
	}
	return nil
}

func (db *DB) IsSuggestProcessed(ctx context.Context, artistKey string) (bool, error) {
	var n int
	err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM suggest_processed WHERE artist_key = ?`), artistKey)
	if err != nil {
		return false, fmt.Errorf("failed to read processed marker: %w", err)
	}
	return n > 0, nil
}
