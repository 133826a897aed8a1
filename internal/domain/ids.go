package domain

import (
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidVideoID reports whether id is exactly 11 characters of [A-Za-z0-9_-].
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// KindFromBrowseID infers an entity kind from the prefix of an upstream browse id.
func KindFromBrowseID(id string) (EntityKind, bool) {
	switch {
	case strings.HasPrefix(id, "UC"):
		return KindArtist, true
	case strings.HasPrefix(id, "MPRE"):
		return KindAlbum, true
	case strings.HasPrefix(id, "OLAK"), strings.HasPrefix(id, "VL"), strings.HasPrefix(id, "PL"):
		return KindPlaylist, true
	}
	return "", false
}

// Upstream page-type hints carried on browse endpoints.
const (
	PageTypeArtist      = "MUSIC_PAGE_TYPE_ARTIST"
	PageTypeUserChannel = "MUSIC_PAGE_TYPE_USER_CHANNEL"
	PageTypeAlbum       = "MUSIC_PAGE_TYPE_ALBUM"
	PageTypeAudiobook   = "MUSIC_PAGE_TYPE_AUDIOBOOK"
	PageTypePlaylist    = "MUSIC_PAGE_TYPE_PLAYLIST"
	PageTypePodcastShow = "MUSIC_PAGE_TYPE_PODCAST_SHOW_DETAIL_PAGE"
)

// KindFromPageType maps a page-type hint to an entity kind.
func KindFromPageType(pageType string) (EntityKind, bool) {
	switch pageType {
	case PageTypeArtist, PageTypeUserChannel:
		return KindArtist, true
	case PageTypeAlbum, PageTypeAudiobook:
		return KindAlbum, true
	case PageTypePlaylist, PageTypePodcastShow:
		return KindPlaylist, true
	}
	return "", false
}

// PlaylistBrowseID returns the browse id for a playlist id ("VL" prefixed).
func PlaylistBrowseID(id string) string {
	if strings.HasPrefix(id, "VL") {
		return id
	}
	return "VL" + id
}

// PlaylistID strips the browse prefix from a playlist browse id.
func PlaylistID(browseID string) string {
	return strings.TrimPrefix(browseID, "VL")
}
