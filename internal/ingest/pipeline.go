// Package ingest persists parsed albums, playlists and artist pages.
//
// Every write is an upsert on a natural key, so re-running an ingestion is
// safe and converges. There is no cross-entity transaction: rows committed
// before a failure stay, and the next run fills in the rest.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/identity"
	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/store"
)

// Mode says whether a call carries exactly one unit or is part of a bulk flow.
type Mode int

const (
	ModeSingle Mode = iota
	ModeBulk
)

var (
	// ErrBulkPlaylist rejects playlist ingestion outside single mode.
	ErrBulkPlaylist     = errors.New("playlists must be ingested one per call")
	ErrUnsupportedKind  = errors.New("unsupported ingest kind")
	ErrMissingReference = errors.New("external id is required")
)

// Store is the catalog write surface used by the pipeline.
type Store interface {
	AlbumCompletion(ctx context.Context, externalID string, fallbackExpected *int) (domain.Completion, error)
	UpsertAlbum(ctx context.Context, a *domain.Album) error
	UpsertTrack(ctx context.Context, t *domain.Track) error
	UpsertPlaylist(ctx context.Context, p *domain.Playlist) error
	LinkAlbumTrack(ctx context.Context, albumID, trackID string, position int) error
	LinkPlaylistTrack(ctx context.Context, playlistID, trackID string, position int) error
	LinkArtistTrack(ctx context.Context, artistKey, trackID string) error
	LinkArtistAlbum(ctx context.Context, artistKey, albumID string) error
}

// Resolver maps artist sightings to canonical keys.
type Resolver interface {
	Resolve(ctx context.Context, in identity.Input) (string, error)
	Lookup(ctx context.Context, name, channelRef string) (*domain.Artist, error)
}

// Enqueuer accepts background work. Enqueue reports false when the task was dropped.
type Enqueuer interface {
	Enqueue(name string, fn func(ctx context.Context) error) bool
}

// ArtistTask is run in the background for every artist an ingestion resolved.
type ArtistTask func(ctx context.Context, artistKey string) error

// Request is one album or playlist ingestion unit.
type Request struct {
	ExpectedTrackCount *int
	ExternalID         string
	Kind               domain.EntityKind
	Title              string
	Subtitle           string
	ArtistText         string
	Description        string
	Thumbnail          string
	ReleaseDate        string
	Artists            []parser.ArtistRef
	Tracks             []parser.ParsedNode
	Mode               Mode
}

// Result counts the rows processed by one ingestion.
type Result struct {
	Completion         *domain.Completion `json:"completion,omitempty"`
	SkipReason         string             `json:"skip_reason,omitempty"`
	TrackCount         int                `json:"track_count"`
	AlbumTrackCount    int                `json:"album_track_count"`
	PlaylistTrackCount int                `json:"playlist_track_count"`
	ArtistTrackCount   int                `json:"artist_track_count"`
	ArtistAlbumCount   int                `json:"artist_album_count"`
	Skipped            bool               `json:"skipped"`
}

type Pipeline struct {
	store    Store
	resolver Resolver
	logger   *logger.Logger
	queue    Enqueuer
	onArtist ArtistTask
}

func NewPipeline(s Store, r Resolver, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Default()
	}
	return &Pipeline{store: s, resolver: r, logger: log.WithComponent("ingest")}
}

// OnArtistResolved schedules task on q for each artist key an ingestion resolves.
func (p *Pipeline) OnArtistResolved(q Enqueuer, task ArtistTask) {
	p.queue = q
	p.onArtist = task
}

// Ingest persists one album or playlist with its tracks and links.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (Result, error) {
	if req.ExternalID == "" {
		return Result{}, ErrMissingReference
	}
	switch req.Kind {
	case domain.KindAlbum:
		return p.ingestAlbum(ctx, req)
	case domain.KindPlaylist:
		if req.Mode != ModeSingle {
			return Result{}, ErrBulkPlaylist
		}
		return p.ingestPlaylist(ctx, req)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, req.Kind)
	}
}

func (p *Pipeline) ingestAlbum(ctx context.Context, req Request) (Result, error) {
	log := p.logger.WithIngest(req.ExternalID, string(req.Kind))
	var res Result

	before, err := p.store.AlbumCompletion(ctx, req.ExternalID, req.ExpectedTrackCount)
	if err != nil {
		return res, fmt.Errorf("failed to read album completion: %w", err)
	}
	if before.IsComplete() {
		log.Debug("Album already complete", "actual", before.Actual)
		res.Completion = &before
		return res, nil
	}

	// album ingestion never creates artists; the first credit is the primary
	names := creditedArtists(req.ArtistText, req.Subtitle, req.Artists)
	if len(names) == 0 {
		res.Skipped = true
		res.SkipReason = "no credited artist"
		log.Warn("Skipping album without artist credits")
		return res, nil
	}
	first, err := p.resolver.Lookup(ctx, names[0].Name, names[0].ChannelRef)
	if errors.Is(err, store.ErrNotFound) {
		res.Skipped = true
		res.SkipReason = "primary artist not in catalog"
		log.Warn("Skipping album without a known primary artist", "artist_name", names[0].Name)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to look up album artist %q: %w", names[0].Name, err)
	}
	primary := first.ArtistKey

	artistKeys := []string{primary}
	for _, n := range names[1:] {
		a, err := p.resolver.Lookup(ctx, n.Name, n.ChannelRef)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to look up album artist %q: %w", n.Name, err)
		}
		artistKeys = appendUnique(artistKeys, a.ArtistKey)
	}

	album := &domain.Album{
		ExternalID:  req.ExternalID,
		Title:       req.Title,
		ArtistKey:   primary,
		ReleaseDate: req.ReleaseDate,
		TrackCount:  req.ExpectedTrackCount,
		Thumbnail:   req.Thumbnail,
	}
	if err := p.store.UpsertAlbum(ctx, album); err != nil {
		return res, err
	}
	for _, key := range artistKeys {
		if err := p.store.LinkArtistAlbum(ctx, key, req.ExternalID); err != nil {
			return res, err
		}
		res.ArtistAlbumCount++
	}

	position := 0
	for _, t := range req.Tracks {
		if !domain.ValidVideoID(t.ID) {
			continue
		}
		keys, err := p.trackArtists(ctx, t, false)
		if err != nil {
			return res, err
		}
		if len(keys) == 0 {
			keys = []string{primary}
		}
		if err := p.writeTrack(ctx, t, keys, req.ExternalID, &res); err != nil {
			return res, err
		}
		if err := p.store.LinkAlbumTrack(ctx, req.ExternalID, t.ID, position); err != nil {
			return res, err
		}
		res.AlbumTrackCount++
		position++
	}

	after, err := p.store.AlbumCompletion(ctx, req.ExternalID, req.ExpectedTrackCount)
	if err != nil {
		return res, fmt.Errorf("failed to recompute album completion: %w", err)
	}
	res.Completion = &after
	log.Info("Album ingested",
		"tracks", res.TrackCount,
		"expected", expectedAttr(after.Expected),
		"actual", after.Actual,
		"state", after.State,
		"percent", after.Percent,
	)
	return res, nil
}

func (p *Pipeline) ingestPlaylist(ctx context.Context, req Request) (Result, error) {
	log := p.logger.WithIngest(req.ExternalID, string(req.Kind))
	var res Result

	playlistID := domain.PlaylistID(req.ExternalID)
	playlist := &domain.Playlist{
		ExternalID:  playlistID,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	}
	if err := p.store.UpsertPlaylist(ctx, playlist); err != nil {
		return res, err
	}

	var resolved []string
	for _, n := range creditedArtists("", req.Subtitle, nil) {
		key, err := p.resolve(ctx, identity.Input{DisplayName: n.Name})
		if errors.Is(err, identity.ErrEmptyName) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to resolve playlist artist %q: %w", n.Name, err)
		}
		resolved = appendUnique(resolved, key)
	}

	position := 0
	for _, t := range req.Tracks {
		if !domain.ValidVideoID(t.ID) {
			continue
		}
		keys, err := p.trackArtists(ctx, t, true)
		if err != nil {
			return res, err
		}
		if err := p.writeTrack(ctx, t, keys, t.AlbumID, &res); err != nil {
			return res, err
		}
		if err := p.store.LinkPlaylistTrack(ctx, playlistID, t.ID, position); err != nil {
			return res, err
		}
		res.PlaylistTrackCount++
		position++
		for _, k := range keys {
			resolved = appendUnique(resolved, k)
		}
	}

	p.scheduleArtists(resolved)
	log.Info("Playlist ingested", "tracks", res.TrackCount, "artists", len(resolved))
	return res, nil
}

// IngestArtistPage resolves the artist behind a channel page, then records its
// top songs and album stubs.
func (p *Pipeline) IngestArtistPage(ctx context.Context, channelID string, page parser.Browse) (Result, error) {
	var res Result
	if channelID == "" {
		return res, ErrMissingReference
	}
	log := p.logger.WithIngest(channelID, string(domain.KindArtist))

	key, err := p.resolve(ctx, identity.Input{
		DisplayName: page.Header.Title,
		ChannelRef:  channelID,
		Thumbnails:  page.Header.Thumbnails,
	})
	if err != nil {
		return res, fmt.Errorf("failed to resolve artist page %s: %w", channelID, err)
	}
	resolved := []string{key}

	for _, t := range page.Tracks {
		if !domain.ValidVideoID(t.ID) {
			continue
		}
		keys, err := p.trackArtists(ctx, t, true)
		if err != nil {
			return res, err
		}
		keys = appendUnique(keys, key)
		if err := p.writeTrack(ctx, t, keys, t.AlbumID, &res); err != nil {
			return res, err
		}
		for _, k := range keys {
			resolved = appendUnique(resolved, k)
		}
	}

	for _, a := range page.Albums {
		album := &domain.Album{
			ExternalID:  a.ID,
			Title:       a.Title,
			ArtistKey:   key,
			ReleaseDate: releaseYear(a.Subtitle),
			Thumbnail:   a.Thumbnail,
		}
		if err := p.store.UpsertAlbum(ctx, album); err != nil {
			return res, err
		}
		if err := p.store.LinkArtistAlbum(ctx, key, a.ID); err != nil {
			return res, err
		}
		res.ArtistAlbumCount++
	}

	p.scheduleArtists(resolved)
	log.Info("Artist page ingested", "artist_key", key, "tracks", res.TrackCount, "albums", res.ArtistAlbumCount)
	return res, nil
}

// trackArtists returns the artist keys credited on a track. With create set,
// unknown artists are resolved into the catalog; otherwise only existing
// artists are returned.
func (p *Pipeline) trackArtists(ctx context.Context, t parser.ParsedNode, create bool) ([]string, error) {
	var keys []string
	for _, n := range creditedArtists(t.ArtistText, "", t.Artists) {
		if create {
			key, err := p.resolve(ctx, identity.Input{DisplayName: n.Name, ChannelRef: n.ChannelRef})
			if errors.Is(err, identity.ErrEmptyName) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to resolve artist %q for %s: %w", n.Name, t.ID, err)
			}
			keys = appendUnique(keys, key)
			continue
		}
		a, err := p.resolver.Lookup(ctx, n.Name, n.ChannelRef)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up artist %q for %s: %w", n.Name, t.ID, err)
		}
		keys = appendUnique(keys, a.ArtistKey)
	}
	return keys, nil
}

// resolve treats a conflict that outlived the resolver's own re-reads as
// "already resolved" and re-derives the key.
func (p *Pipeline) resolve(ctx context.Context, in identity.Input) (string, error) {
	key, err := p.resolver.Resolve(ctx, in)
	if err == nil || !store.IsConflict(err) {
		return key, err
	}
	p.logger.Debug("Artist conflict treated as resolved", "artist_name", in.DisplayName)
	a, lookupErr := p.resolver.Lookup(ctx, in.DisplayName, in.ChannelRef)
	if lookupErr == nil {
		return a.ArtistKey, nil
	}
	return identity.ArtistKey(in.DisplayName)
}

func (p *Pipeline) writeTrack(ctx context.Context, t parser.ParsedNode, artistKeys []string, albumID string, res *Result) error {
	track := &domain.Track{
		YoutubeID:       t.ID,
		Title:           t.Title,
		AlbumID:         albumID,
		Thumbnail:       t.Thumbnail,
		DurationSeconds: t.DurationSeconds,
	}
	if len(artistKeys) > 0 {
		track.ArtistKey = artistKeys[0]
	}
	if err := p.store.UpsertTrack(ctx, track); err != nil {
		return err
	}
	res.TrackCount++

	for _, key := range artistKeys {
		if err := p.store.LinkArtistTrack(ctx, key, t.ID); err != nil {
			return err
		}
		res.ArtistTrackCount++
	}
	return nil
}

func (p *Pipeline) scheduleArtists(keys []string) {
	if p.queue == nil || p.onArtist == nil {
		return
	}
	for _, key := range keys {
		key := key
		if !p.queue.Enqueue("artist:"+key, func(ctx context.Context) error {
			return p.onArtist(ctx, key)
		}) {
			p.logger.Debug("Artist task dropped", "artist_key", key)
		}
	}
}

func appendUnique(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}

func expectedAttr(expected *int) any {
	if expected == nil {
		return nil
	}
	return *expected
}
