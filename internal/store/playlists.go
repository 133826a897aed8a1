package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/purplemusic/catalog/internal/domain"
)

func (db *DB) UpsertPlaylist(ctx context.Context, p *domain.Playlist) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := db.NamedExecContext(ctx, `
		INSERT INTO playlists (external_id, title, description, thumbnail, created_at, updated_at)
		VALUES (:external_id, :title, :description, :thumbnail, :created_at, :updated_at)
		ON CONFLICT(external_id) DO UPDATE SET
			title = CASE WHEN excluded.title <> '' THEN excluded.title ELSE playlists.title END,
			description = CASE WHEN excluded.description <> '' THEN excluded.description ELSE playlists.description END,
			thumbnail = CASE WHEN excluded.thumbnail <> '' THEN excluded.thumbnail ELSE playlists.thumbnail END,
			updated_at = excluded.updated_at
	`, p)
	if err != nil {
		return fmt.Errorf("failed to upsert playlist %s: %w", p.ExternalID, err)
	}
	return nil
}

func (db *DB) GetPlaylist(ctx context.Context, externalID string) (*domain.Playlist, error) {
	var p domain.Playlist
	err := db.GetContext(ctx, &p, db.Rebind(`
		SELECT external_id, title, description, thumbnail, created_at, updated_at
		FROM playlists WHERE external_id = ?`), externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", externalID, err)
	}
	return &p, nil
}

// LinkPlaylistTrack records a track at its source position. A repeat sighting
// moves the track to the newer position.
func (db *DB) LinkPlaylistTrack(ctx context.Context, playlistID, trackID string, position int) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO playlist_tracks (playlist_id, track_id, position) VALUES (?, ?, ?)
		ON CONFLICT(playlist_id, track_id) DO UPDATE SET position = excluded.position
	`), playlistID, trackID, position)
	if err != nil {
		return fmt.Errorf("failed to link track %s to playlist %s: %w", trackID, playlistID, err)
	}
	return nil
}

func (db *DB) ListPlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	var out []domain.Track
	err := db.SelectContext(ctx, &out, db.Rebind(`SELECT `+trackColumns+`
		FROM playlist_tracks l JOIN tracks t ON t.youtube_id = l.track_id
		WHERE l.playlist_id = ? ORDER BY l.position, t.youtube_id`), playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist tracks: %w", err)
	}
	return out, nil
}

func (db *DB) CountPlaylistTracks(ctx context.Context, playlistID string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ?`), playlistID); err != nil {
		return 0, fmt.Errorf("failed to count playlist tracks: %w", err)
	}
	return n, nil
}
