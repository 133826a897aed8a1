package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/purplemusic/catalog/internal/domain"
)

const artistColumns = `artist_key, display_name, normalized_name,
	COALESCE(external_channel_ref, '') AS external_channel_ref, thumbnails, created_at, updated_at`

func (db *DB) GetArtist(ctx context.Context, key string) (*domain.Artist, error) {
	var a domain.Artist
	err := db.GetContext(ctx, &a, db.Rebind(`SELECT `+artistColumns+` FROM artists WHERE artist_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist %s: %w", key, err)
	}
	return &a, nil
}

func (db *DB) GetArtistByChannel(ctx context.Context, channelRef string) (*domain.Artist, error) {
	var a domain.Artist
	err := db.GetContext(ctx, &a, db.Rebind(`SELECT `+artistColumns+` FROM artists WHERE external_channel_ref = ?`), channelRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist by channel %s: %w", channelRef, err)
	}
	return &a, nil
}

// InsertArtist creates a new artist row. A duplicate key or channel ref
// returns an error matching ErrConflict.
func (db *DB) InsertArtist(ctx context.Context, a *domain.Artist) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	_, err := db.NamedExecContext(ctx, `
		INSERT INTO artists (artist_key, display_name, normalized_name, external_channel_ref, thumbnails, created_at, updated_at)
		VALUES (:artist_key, :display_name, :normalized_name, NULLIF(:external_channel_ref, ''), :thumbnails, :created_at, :updated_at)
	`, a)
	if err != nil {
		return fmt.Errorf("failed to insert artist %s: %w", a.ArtistKey, conflictOr(err))
	}
	return nil
}

// BackfillArtist fills empty metadata fields from fill and never replaces a
// non-empty one. It reports whether the row changed.
func (db *DB) BackfillArtist(ctx context.Context, key string, fill domain.Artist) (bool, error) {
	var sets, conds []string
	var args []interface{}

	if fill.DisplayName != "" {
		sets = append(sets, "display_name = CASE WHEN display_name = '' THEN ? ELSE display_name END")
		conds = append(conds, "display_name = ''")
		args = append(args, fill.DisplayName)
	}
	if fill.NormalizedName != "" {
		sets = append(sets, "normalized_name = CASE WHEN normalized_name = '' THEN ? ELSE normalized_name END")
		conds = append(conds, "normalized_name = ''")
		args = append(args, fill.NormalizedName)
	}
	if len(fill.Thumbnails) > 0 {
		thumbs, err := fill.Thumbnails.Value()
		if err != nil {
			return false, fmt.Errorf("failed to encode thumbnails: %w", err)
		}
		sets = append(sets, "thumbnails = CASE WHEN thumbnails = '' OR thumbnails = '[]' THEN ? ELSE thumbnails END")
		conds = append(conds, "thumbnails = '' OR thumbnails = '[]'")
		args = append(args, thumbs)
	}
	if len(sets) == 0 {
		return false, nil
	}

	query := `UPDATE artists SET ` + strings.Join(sets, ", ") + `, updated_at = ?
		WHERE artist_key = ? AND (` + strings.Join(conds, " OR ") + `)`
	args = append(args, time.Now().UTC(), key)

	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("failed to backfill artist %s: %w", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// AttachChannelRef links a channel ref to an artist that has none. A ref
// already owned by another artist returns an error matching ErrConflict.
func (db *DB) AttachChannelRef(ctx context.Context, key, channelRef string) (bool, error) {
	result, err := db.ExecContext(ctx, db.Rebind(`
		UPDATE artists SET external_channel_ref = ?, updated_at = ?
		WHERE artist_key = ? AND external_channel_ref IS NULL
	`), channelRef, time.Now().UTC(), key)
	if err != nil {
		return false, fmt.Errorf("failed to attach channel %s to %s: %w", channelRef, key, conflictOr(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// TouchArtist bumps updated_at, moving the artist to the back of
// NextArtistsLackingSuggest.
func (db *DB) TouchArtist(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, db.Rebind(`UPDATE artists SET updated_at = ? WHERE artist_key = ?`), time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("failed to touch artist %s: %w", key, err)
	}
	return nil
}

func (db *DB) CountArtists(ctx context.Context) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM artists`); err != nil {
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return n, nil
}

// ListArtists pages through all artists in key order.
func (db *DB) ListArtists(ctx context.Context, offset, limit int) ([]domain.Artist, error) {
	var out []domain.Artist
	err := db.SelectContext(ctx, &out, db.Rebind(`SELECT `+artistColumns+`
		FROM artists ORDER BY artist_key LIMIT ? OFFSET ?`), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return out, nil
}

// NextArtistsLackingSuggest returns artists with a channel ref, no processed
// marker and no artist suggest entries, oldest update first.
func (db *DB) NextArtistsLackingSuggest(ctx context.Context, limit int) ([]domain.Artist, error) {
	var out []domain.Artist
	err := db.SelectContext(ctx, &out, db.Rebind(`SELECT `+artistColumns+`
		FROM artists a
		WHERE a.external_channel_ref IS NOT NULL AND a.external_channel_ref <> ''
			AND NOT EXISTS (SELECT 1 FROM suggest_processed p WHERE p.artist_key = a.artist_key)
			AND NOT EXISTS (
				SELECT 1 FROM suggest_entries e
				WHERE e.entity_type = 'artist' AND e.entity_ref = a.external_channel_ref
			)
		ORDER BY a.updated_at ASC, a.artist_key ASC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select artists lacking suggest: %w", err)
	}
	return out, nil
}
