package store

import (
	"context"
	"fmt"
)

func (db *DB) LinkArtistTrack(ctx context.Context, artistKey, trackID string) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO artist_tracks (artist_key, track_id) VALUES (?, ?)
		ON CONFLICT(artist_key, track_id) DO NOTHING
	`), artistKey, trackID)
	if err != nil {
		return fmt.Errorf("failed to link artist %s to track %s: %w", artistKey, trackID, err)
	}
	return nil
}

func (db *DB) LinkArtistAlbum(ctx context.Context, artistKey, albumID string) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO artist_albums (artist_key, album_id) VALUES (?, ?)
		ON CONFLICT(artist_key, album_id) DO NOTHING
	`), artistKey, albumID)
	if err != nil {
		return fmt.Errorf("failed to link artist %s to album %s: %w", artistKey, albumID, err)
	}
	return nil
}

func (db *DB) CountArtistTracks(ctx context.Context, artistKey string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM artist_tracks WHERE artist_key = ?`), artistKey); err != nil {
		return 0, fmt.Errorf("failed to count artist tracks: %w", err)
	}
	return n, nil
}

func (db *DB) CountArtistAlbums(ctx context.Context, artistKey string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM artist_albums WHERE artist_key = ?`), artistKey); err != nil {
		return 0, fmt.Errorf("failed to count artist albums: %w", err)
	}
	return n, nil
}
