package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/purplemusic/catalog/internal/domain"
)

const trackColumns = `t.youtube_id, t.title, COALESCE(t.artist_key, '') AS artist_key,
	COALESCE(t.album_id, '') AS album_id, t.thumbnail, t.duration_seconds, t.created_at, t.updated_at`

// UpsertTrack inserts a track or refreshes its metadata. The video id never
// changes, and a known artist or album is not cleared by a sparser sighting.
func (db *DB) UpsertTrack(ctx context.Context, t *domain.Track) error {
	if !domain.ValidVideoID(t.YoutubeID) {
		return fmt.Errorf("invalid video id %q", t.YoutubeID)
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := db.NamedExecContext(ctx, `
		INSERT INTO tracks (youtube_id, title, artist_key, album_id, thumbnail, duration_seconds, created_at, updated_at)
		VALUES (:youtube_id, :title, NULLIF(:artist_key, ''), NULLIF(:album_id, ''), :thumbnail, :duration_seconds, :created_at, :updated_at)
		ON CONFLICT(youtube_id) DO UPDATE SET
			title = CASE WHEN excluded.title <> '' THEN excluded.title ELSE tracks.title END,
			artist_key = COALESCE(excluded.artist_key, tracks.artist_key),
			album_id = COALESCE(excluded.album_id, tracks.album_id),
			thumbnail = CASE WHEN excluded.thumbnail <> '' THEN excluded.thumbnail ELSE tracks.thumbnail END,
			duration_seconds = CASE WHEN excluded.duration_seconds > 0 THEN excluded.duration_seconds ELSE tracks.duration_seconds END,
			updated_at = excluded.updated_at
	`, t)
	if err != nil {
		return fmt.Errorf("failed to upsert track %s: %w", t.YoutubeID, err)
	}
	return nil
}

func (db *DB) GetTrack(ctx context.Context, youtubeID string) (*domain.Track, error) {
	var t domain.Track
	err := db.GetContext(ctx, &t, db.Rebind(`SELECT `+trackColumns+` FROM tracks t WHERE t.youtube_id = ?`), youtubeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", youtubeID, err)
	}
	return &t, nil
}
