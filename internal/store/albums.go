package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/purplemusic/catalog/internal/domain"
)

const albumColumns = `external_id, title, COALESCE(artist_key, '') AS artist_key, release_date,
	track_count, thumbnail, created_at, updated_at`

// UpsertAlbum inserts or refreshes an album. The expected track count is set
// once and kept on later upserts.
func (db *DB) UpsertAlbum(ctx context.Context, a *domain.Album) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	_, err := db.NamedExecContext(ctx, `
		INSERT INTO albums (external_id, title, artist_key, release_date, track_count, thumbnail, created_at, updated_at)
		VALUES (:external_id, :title, NULLIF(:artist_key, ''), :release_date, :track_count, :thumbnail, :created_at, :updated_at)
		ON CONFLICT(external_id) DO UPDATE SET
			title = CASE WHEN excluded.title <> '' THEN excluded.title ELSE albums.title END,
			artist_key = COALESCE(albums.artist_key, excluded.artist_key),
			release_date = CASE WHEN albums.release_date = '' THEN excluded.release_date ELSE albums.release_date END,
			track_count = COALESCE(albums.track_count, excluded.track_count),
			thumbnail = CASE WHEN excluded.thumbnail <> '' THEN excluded.thumbnail ELSE albums.thumbnail END,
			updated_at = excluded.updated_at
	`, a)
	if err != nil {
		return fmt.Errorf("failed to upsert album %s: %w", a.ExternalID, err)
	}
	return nil
}

func (db *DB) GetAlbum(ctx context.Context, externalID string) (*domain.Album, error) {
	var a domain.Album
	err := db.GetContext(ctx, &a, db.Rebind(`SELECT `+albumColumns+` FROM albums WHERE external_id = ?`), externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", externalID, err)
	}
	return &a, nil
}

// AlbumCompletion compares linked tracks to the stored expected count. An
// unknown album is reported with the caller's expected count.
func (db *DB) AlbumCompletion(ctx context.Context, externalID string, fallbackExpected *int) (domain.Completion, error) {
	expected := fallbackExpected
	album, err := db.GetAlbum(ctx, externalID)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return domain.Completion{}, err
	case album.TrackCount != nil:
		expected = album.TrackCount
	}

	actual, err := db.CountAlbumTracks(ctx, externalID)
	if err != nil {
		return domain.Completion{}, err
	}
	return domain.ComputeCompletion(expected, actual), nil
}

func (db *DB) CountAlbumTracks(ctx context.Context, albumID string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM album_tracks WHERE album_id = ?`), albumID); err != nil {
		return 0, fmt.Errorf("failed to count album tracks: %w", err)
	}
	return n, nil
}

// LinkAlbumTrack keeps the first recorded position of a track.
func (db *DB) LinkAlbumTrack(ctx context.Context, albumID, trackID string, position int) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO album_tracks (album_id, track_id, position) VALUES (?, ?, ?)
		ON CONFLICT(album_id, track_id) DO NOTHING
	`), albumID, trackID, position)
	if err != nil {
		return fmt.Errorf("failed to link track %s to album %s: %w", trackID, albumID, err)
	}
	return nil
}

func (db *DB) ListAlbumTracks(ctx context.Context, albumID string) ([]domain.Track, error) {
	var out []domain.Track
	err := db.SelectContext(ctx, &out, db.Rebind(`SELECT `+trackColumns+`
		FROM album_tracks l JOIN tracks t ON t.youtube_id = l.track_id
		WHERE l.album_id = ? ORDER BY l.position, t.youtube_id`), albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list album tracks: %w", err)
	}
	return out, nil
}
