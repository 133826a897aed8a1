package app

import (
	"context"
	"errors"
	"strings"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/ingest"
	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/store"
)

// BrowsePlaylist fetches a playlist page, ingests it as one unit and returns its tracks.
func (s *CatalogService) BrowsePlaylist(ctx context.Context, id string) domain.BrowseResponse {
	playlistID := domain.PlaylistID(id)
	page, ok := s.browse(ctx, domain.PlaylistBrowseID(playlistID))
	if !ok {
		return domain.EmptyBrowseResponse(playlistID)
	}

	s.ingest(ctx, ingest.Request{
		ExternalID:         playlistID,
		Kind:               domain.KindPlaylist,
		Title:              page.Header.Title,
		Subtitle:           page.Header.Subtitle,
		Description:        page.Header.Description,
		Thumbnail:          page.Header.Thumbnail,
		ExpectedTrackCount: page.Header.ExpectedTrackCount,
		Tracks:             page.Tracks,
		Mode:               ingest.ModeSingle,
	})
	return browseResponse(playlistID, page, "")
}

// BrowseAlbum serves a complete album from the catalog. Otherwise it fetches
// the album page and ingests it when its primary artist is known.
func (s *CatalogService) BrowseAlbum(ctx context.Context, id string) domain.BrowseResponse {
	if resp, ok := s.storedAlbum(ctx, id); ok {
		return resp
	}

	page, ok := s.browse(ctx, id)
	if !ok {
		return domain.EmptyBrowseResponse(id)
	}

	s.ingest(ctx, ingest.Request{
		ExternalID:         id,
		Kind:               domain.KindAlbum,
		Title:              page.Header.Title,
		Subtitle:           page.Header.Subtitle,
		ArtistText:         page.Header.ArtistText,
		Artists:            page.Header.Artists,
		Thumbnail:          page.Header.Thumbnail,
		ReleaseDate:        page.Header.Year,
		ExpectedTrackCount: page.Header.ExpectedTrackCount,
		Tracks:             page.Tracks,
	})
	return browseResponse(id, page, page.Header.ArtistText)
}

// BrowseArtist fetches a channel page and records the artist, top songs and albums.
func (s *CatalogService) BrowseArtist(ctx context.Context, channelID string) domain.BrowseResponse {
	page, ok := s.browse(ctx, channelID)
	if !ok {
		return domain.EmptyBrowseResponse(channelID)
	}

	if _, err := s.ingester.IngestArtistPage(ctx, channelID, page); err != nil {
		s.logger.Warn("Artist page ingestion failed", "channel", channelID, "error", err)
	}
	return browseResponse(channelID, page, page.Header.Title)
}

// storedAlbum reports false unless the album exists and is complete.
func (s *CatalogService) storedAlbum(ctx context.Context, id string) (domain.BrowseResponse, bool) {
	if s.albums == nil {
		return domain.BrowseResponse{}, false
	}
	album, err := s.albums.GetAlbum(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("Stored album lookup failed", "album_id", id, "error", err)
		}
		return domain.BrowseResponse{}, false
	}
	completion, err := s.albums.AlbumCompletion(ctx, id, nil)
	if err != nil || !completion.IsComplete() {
		return domain.BrowseResponse{}, false
	}
	tracks, err := s.albums.ListAlbumTracks(ctx, id)
	if err != nil {
		s.logger.Warn("Stored album tracks failed", "album_id", id, "error", err)
		return domain.BrowseResponse{}, false
	}

	names := make(map[string]string)
	artistName := func(key string) string {
		if key == "" {
			return ""
		}
		if n, ok := names[key]; ok {
			return n
		}
		var n string
		if a, err := s.albums.GetArtist(ctx, key); err == nil {
			n = a.BestName()
		}
		names[key] = n
		return n
	}

	albumArtist := artistName(album.ArtistKey)
	resp := domain.EmptyBrowseResponse(id)
	resp.Title = album.Title
	resp.Thumbnail = album.Thumbnail
	resp.Subtitle = joinNonEmpty(" • ", "Album", albumArtist, album.ReleaseDate)
	for _, t := range tracks {
		artist := artistName(t.ArtistKey)
		if artist == "" {
			artist = albumArtist
		}
		thumb := t.Thumbnail
		if thumb == "" {
			thumb = album.Thumbnail
		}
		resp.Tracks = append(resp.Tracks, domain.BrowseTrack{
			VideoID:   t.YoutubeID,
			Title:     t.Title,
			Artist:    artist,
			Duration:  t.DurationSeconds,
			Thumbnail: thumb,
		})
	}
	s.logger.Debug("Album served from catalog", "album_id", id, "tracks", len(resp.Tracks))
	return resp, true
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func (s *CatalogService) browse(ctx context.Context, browseID string) (parser.Browse, bool) {
	raw, err := s.fetcher.Browse(ctx, browseID)
	if err != nil {
		s.logger.Warn("Browse fetch failed", "browse_id", browseID, "error", err)
		return parser.Browse{}, false
	}
	page, err := parser.ParseBrowse(raw)
	if err != nil {
		s.logger.Warn("Browse parse failed", "browse_id", browseID, "error", err)
		return parser.Browse{}, false
	}
	return page, true
}

// ingest runs the pipeline inline. The page is still returned when it fails;
// the next browse of the same id converges the catalog.
func (s *CatalogService) ingest(ctx context.Context, req ingest.Request) {
	res, err := s.ingester.Ingest(ctx, req)
	if err != nil {
		s.logger.Warn("Ingestion failed", "external_id", req.ExternalID, "kind", req.Kind, "error", err)
		return
	}
	if res.Skipped {
		s.logger.Debug("Ingestion skipped", "external_id", req.ExternalID, "reason", res.SkipReason)
	}
}

func browseResponse(id string, page parser.Browse, fallbackArtist string) domain.BrowseResponse {
	resp := domain.EmptyBrowseResponse(id)
	resp.Title = page.Header.Title
	resp.Subtitle = page.Header.Subtitle
	resp.Thumbnail = page.Header.Thumbnail

	for _, t := range page.Tracks {
		if !domain.ValidVideoID(t.ID) {
			continue
		}
		artist := t.ArtistText
		if artist == "" {
			artist = fallbackArtist
		}
		resp.Tracks = append(resp.Tracks, domain.BrowseTrack{
			VideoID:   t.ID,
			Title:     t.Title,
			Artist:    artist,
			Duration:  t.DurationSeconds,
			Thumbnail: t.Thumbnail,
		})
	}
	return resp
}
