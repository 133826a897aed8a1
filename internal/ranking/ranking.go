// Package ranking picks the featured search result, builds typed sections and
// orders autocomplete suggestions.
package ranking

import (
	"strings"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/textnorm"
)

// Rank selects a featured item and partitions the remaining items by kind.
// all is the unfiltered walk order; items are the filtered, deduped nodes.
func Rank(all, items []parser.ParsedNode, query string) domain.SearchResponse {
	resp := domain.EmptySearchResponse()

	featured, ok := Featured(all, items, query)
	if ok {
		resp.Featured = &featured
	}

	for _, n := range items {
		item := ToSearchItem(n)
		if ok && sameItem(featured, item) {
			continue
		}
		switch n.Kind {
		case domain.KindSong:
			resp.Sections.Songs = append(resp.Sections.Songs, item)
		case domain.KindArtist:
			resp.Sections.Artists = append(resp.Sections.Artists, item)
		case domain.KindAlbum:
			resp.Sections.Albums = append(resp.Sections.Albums, item)
		case domain.KindPlaylist:
			resp.Sections.Playlists = append(resp.Sections.Playlists, item)
		}
	}
	return resp
}

// Featured applies, in order: a hero artist card; any artist in the full tree
// whose title equals the query; the first matching artist of the artists
// section; an artist synthesized from a song or album subtitle.
func Featured(all, items []parser.ParsedNode, query string) (domain.SearchItem, bool) {
	nq := textnorm.NormalizeQuery(query)

	for _, n := range items {
		if n.Hero && n.Kind == domain.KindArtist {
			return ToSearchItem(n), true
		}
	}

	if nq != "" {
		for _, n := range all {
			if n.Kind == domain.KindArtist && !parser.IsNonMusic(n) && textnorm.NormalizeQuery(n.Title) == nq {
				return ToSearchItem(n), true
			}
		}
	}

	if n, ok := firstSectionArtist(items, nq); ok {
		return ToSearchItem(n), true
	}

	if nq == "" {
		return domain.SearchItem{}, false
	}
	for _, n := range items {
		if n.Kind != domain.KindSong && n.Kind != domain.KindAlbum {
			continue
		}
		if n.Subtitle == "" {
			continue
		}
		seg := firstArtistSegment(n.Subtitle)
		if seg == "" || textnorm.NormalizeQuery(seg) != nq {
			continue
		}
		return domain.SearchItem{
			Type:      domain.KindArtist,
			ID:        n.ChannelFor(seg),
			Title:     seg,
			Subtitle:  "Artist",
			Thumbnail: n.Thumbnail,
		}, true
	}
	return domain.SearchItem{}, false
}

func firstSectionArtist(items []parser.ParsedNode, nq string) (parser.ParsedNode, bool) {
	var artists []parser.ParsedNode
	for _, n := range items {
		if n.Kind == domain.KindArtist && n.Section == "artists" {
			artists = append(artists, n)
		}
	}
	if len(artists) == 0 {
		for _, n := range items {
			if n.Kind == domain.KindArtist {
				artists = append(artists, n)
			}
		}
	}
	for _, n := range artists {
		if nq == "" || strings.Contains(textnorm.NormalizeQuery(n.Title), nq) {
			return n, true
		}
	}
	return parser.ParsedNode{}, false
}

// firstArtistSegment skips leading type labels such as "Song" or "Album".
func firstArtistSegment(subtitle string) string {
	for _, seg := range strings.FieldsFunc(subtitle, func(r rune) bool { return r == '•' || r == '·' }) {
		if parser.IsArtistSegment(seg) {
			return strings.TrimSpace(seg)
		}
	}
	return ""
}

func sameItem(featured, item domain.SearchItem) bool {
	if featured.Type != item.Type {
		return false
	}
	if featured.ID != "" {
		return featured.ID == item.ID
	}
	return textnorm.NormalizeQuery(featured.Title) == textnorm.NormalizeQuery(item.Title)
}

// ToSearchItem converts a parsed node to the outbound search shape.
func ToSearchItem(n parser.ParsedNode) domain.SearchItem {
	return domain.SearchItem{
		Type:      n.Kind,
		ID:        n.ID,
		Title:     n.Title,
		Subtitle:  n.Subtitle,
		Thumbnail: n.Thumbnail,
		Duration:  n.DurationSeconds,
	}
}
