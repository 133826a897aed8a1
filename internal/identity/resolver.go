// Package identity maps artist names to one canonical artist key.
//
// The key is derived from the normalized display name only. An upstream
// channel ref is attached to the row as a lookup convenience and never
// takes part in deriving the key.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/store"
	"github.com/purplemusic/catalog/internal/textnorm"
)

// ErrEmptyName is returned when a name normalizes to nothing and no known
// channel ref can stand in for it.
var ErrEmptyName = errors.New("artist name is empty after normalization")

var artistNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://purplemusic.dev/catalog/artist"))

// maxAttempts bounds the re-read loop after insert conflicts.
const maxAttempts = 3

// Store is the part of the catalog store the resolver needs.
type Store interface {
	GetArtist(ctx context.Context, key string) (*domain.Artist, error)
	GetArtistByChannel(ctx context.Context, channelRef string) (*domain.Artist, error)
	InsertArtist(ctx context.Context, a *domain.Artist) error
	BackfillArtist(ctx context.Context, key string, fill domain.Artist) (bool, error)
	AttachChannelRef(ctx context.Context, key, channelRef string) (bool, error)
}

// Input describes one artist sighting.
type Input struct {
	DisplayName string
	ChannelRef  string
	Thumbnails  domain.Thumbnails
}

type Resolver struct {
	store  Store
	logger *logger.Logger
}

func NewResolver(s Store, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Default()
	}
	return &Resolver{store: s, logger: log.WithComponent("identity")}
}

// ArtistKey derives the canonical key for a display name.
func ArtistKey(name string) (string, error) {
	normalized := textnorm.NormalizeQuery(name)
	if normalized == "" {
		return "", ErrEmptyName
	}
	return uuid.NewSHA1(artistNamespace, []byte(normalized)).String(), nil
}

// Resolve returns the canonical key for an artist, creating the row on first
// sighting. Empty metadata on an existing row is filled from the input and
// non-empty fields are never replaced.
func (r *Resolver) Resolve(ctx context.Context, in Input) (string, error) {
	name := strings.TrimSpace(in.DisplayName)
	ref := strings.TrimSpace(in.ChannelRef)
	fill := domain.Artist{
		DisplayName:    name,
		NormalizedName: textnorm.Normalize(name),
		Thumbnails:     in.Thumbnails,
	}

	if ref != "" {
		existing, err := r.store.GetArtistByChannel(ctx, ref)
		switch {
		case err == nil:
			r.backfill(ctx, existing.ArtistKey, fill)
			return existing.ArtistKey, nil
		case !errors.Is(err, store.ErrNotFound):
			return "", err
		}
	}

	key, err := ArtistKey(name)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		existing, err := r.store.GetArtist(ctx, key)
		if err == nil {
			r.backfill(ctx, key, fill)
			if ref != "" && existing.ExternalChannelRef == "" {
				r.attach(ctx, key, ref)
			}
			return key, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}

		artist := &domain.Artist{
			ArtistKey:          key,
			DisplayName:        fill.DisplayName,
			NormalizedName:     fill.NormalizedName,
			ExternalChannelRef: ref,
			Thumbnails:         fill.Thumbnails,
		}
		err = r.store.InsertArtist(ctx, artist)
		if err == nil {
			r.logger.WithArtist(key, name).Debug("Artist created", "channel_ref", ref)
			return key, nil
		}
		if !store.IsConflict(err) {
			return "", fmt.Errorf("failed to resolve artist %q: %w", name, err)
		}

		r.logger.WithArtist(key, name).Debug("Artist insert conflict, re-reading", "attempt", attempt+1)
		if _, err := r.store.GetArtist(ctx, key); errors.Is(err, store.ErrNotFound) {
			// the ref, not the key, collided; keep the row without it
			ref = ""
		}
	}
	return "", fmt.Errorf("failed to resolve artist %q after %d attempts: %w", name, maxAttempts, store.ErrConflict)
}

// Lookup finds an existing artist by channel ref, then by name. It never writes.
func (r *Resolver) Lookup(ctx context.Context, name, channelRef string) (*domain.Artist, error) {
	if channelRef != "" {
		a, err := r.store.GetArtistByChannel(ctx, channelRef)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	key, err := ArtistKey(name)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return r.store.GetArtist(ctx, key)
}

func (r *Resolver) backfill(ctx context.Context, key string, fill domain.Artist) {
	if _, err := r.store.BackfillArtist(ctx, key, fill); err != nil {
		r.logger.Warn("Failed to backfill artist", "artist_key", key, "error", err)
	}
}

func (r *Resolver) attach(ctx context.Context, key, ref string) {
	_, err := r.store.AttachChannelRef(ctx, key, ref)
	switch {
	case err == nil:
	case store.IsConflict(err):
		r.logger.Debug("Channel ref owned by another artist", "artist_key", key, "channel_ref", ref)
	default:
		r.logger.Warn("Failed to attach channel ref", "artist_key", key, "channel_ref", ref, "error", err)
	}
}
