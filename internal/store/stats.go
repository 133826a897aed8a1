package store

import (
	"context"
	"fmt"

	"github.com/purplemusic/catalog/internal/domain"
)

func (db *DB) CatalogStats(ctx context.Context) (domain.CatalogStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM artists) AS artists,
		(SELECT COUNT(*) FROM albums) AS albums,
		(SELECT COUNT(*) FROM tracks) AS tracks,
		(SELECT COUNT(*) FROM playlists) AS playlists,
		(SELECT COUNT(*) FROM suggest_entries) AS suggest_entries,
		(SELECT COUNT(*) FROM response_cache) AS cached_responses`

	var stats domain.CatalogStats
	if err := db.GetContext(ctx, &stats, query); err != nil {
		return stats, fmt.Errorf("failed to read catalog stats: %w", err)
	}
	return stats, nil
}

// ArtistStats returns ErrNotFound for an unknown key.
func (db *DB) ArtistStats(ctx context.Context, key string) (domain.ArtistStats, error) {
	a, err := db.GetArtist(ctx, key)
	if err != nil {
		return domain.ArtistStats{}, err
	}
	stats := domain.ArtistStats{
		ArtistKey:  a.ArtistKey,
		Name:       a.BestName(),
		ChannelRef: a.ExternalChannelRef,
	}
	if stats.Tracks, err = db.CountArtistTracks(ctx, key); err != nil {
		return stats, err
	}
	if stats.Albums, err = db.CountArtistAlbums(ctx, key); err != nil {
		return stats, err
	}
	if a.ExternalChannelRef != "" {
		if stats.SuggestEntries, err = db.CountSuggestEntries(ctx, domain.SuggestArtist, a.ExternalChannelRef); err != nil {
			return stats, err
		}
	}
	if stats.SuggestProcessed, err = db.IsSuggestProcessed(ctx, key); err != nil {
		return stats, err
	}
	return stats, nil
}
