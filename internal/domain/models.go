package domain

import (
	"time"
)

// EntityKind is the classified kind of a catalog entity.
type EntityKind string

const (
	KindSong     EntityKind = "song"
	KindArtist   EntityKind = "artist"
	KindAlbum    EntityKind = "album"
	KindPlaylist EntityKind = "playlist"
)

// Artist is the canonical identity row for one performer.
type Artist struct {
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	ArtistKey          string     `json:"artist_key" db:"artist_key"`
	DisplayName        string     `json:"display_name" db:"display_name"`
	NormalizedName     string     `json:"normalized_name" db:"normalized_name"`
	ExternalChannelRef string     `json:"external_channel_ref,omitempty" db:"external_channel_ref"`
	Thumbnails         Thumbnails `json:"thumbnails" db:"thumbnails"`
}

// BestName returns the first non-empty of display name, normalized name and key.
func (a *Artist) BestName() string {
	switch {
	case a.DisplayName != "":
		return a.DisplayName
	case a.NormalizedName != "":
		return a.NormalizedName
	default:
		return a.ArtistKey
	}
}

// Album is an upstream album. TrackCount is the expected total and is set once.
type Album struct {
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	TrackCount  *int      `json:"track_count,omitempty" db:"track_count"`
	ExternalID  string    `json:"external_id" db:"external_id"`
	Title       string    `json:"title" db:"title"`
	ArtistKey   string    `json:"artist_key,omitempty" db:"artist_key"`
	ReleaseDate string    `json:"release_date,omitempty" db:"release_date"`
	Thumbnail   string    `json:"thumbnail,omitempty" db:"thumbnail"`
}

// Track is keyed by its 11-character video id.
type Track struct {
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
	YoutubeID       string    `json:"youtube_id" db:"youtube_id"`
	Title           string    `json:"title" db:"title"`
	ArtistKey       string    `json:"artist_key,omitempty" db:"artist_key"`
	AlbumID         string    `json:"album_id,omitempty" db:"album_id"`
	Thumbnail       string    `json:"thumbnail,omitempty" db:"thumbnail"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
}

// Playlist is an upstream playlist. Track order lives in the link rows.
type Playlist struct {
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	ExternalID  string    `json:"external_id" db:"external_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty" db:"thumbnail"`
}

// SuggestEntry maps one normalized prefix to a cached autocomplete candidate.
type SuggestEntry struct {
	LastSeenAt time.Time      `json:"last_seen_at" db:"last_seen_at"`
	Prefix     string         `json:"prefix" db:"prefix"`
	EntityType string         `json:"entity_type" db:"entity_type"`
	EntityRef  string         `json:"entity_ref" db:"entity_ref"`
	Payload    SuggestPayload `json:"payload" db:"payload"`
	HitCount   int            `json:"hit_count" db:"hit_count"`
}
