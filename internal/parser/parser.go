package parser

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/purplemusic/catalog/internal/domain"
)

// ErrInvalidJSON is returned when the response body is not JSON at all.
var ErrInvalidJSON = errors.New("response is not valid JSON")

// Walk returns every recognized node in walk order, duplicates included.
func Walk(raw []byte) ([]ParsedNode, *Header, error) {
	if !json.Valid(raw) {
		return nil, nil, ErrInvalidJSON
	}
	w := &walker{}
	w.walk(raw, 0)
	return w.nodes, w.header, nil
}

// ParseSearch classifies a search response for query.
func ParseSearch(raw []byte, query string) (SearchParse, error) {
	all, _, err := Walk(raw)
	if err != nil {
		return SearchParse{}, err
	}
	deduped := Dedupe(all)
	items := make([]ParsedNode, 0, len(deduped))
	for _, n := range deduped {
		if Keep(n, query) {
			items = append(items, n)
		}
	}
	return SearchParse{All: all, Items: items}, nil
}

// ParseBrowse flattens a playlist, album or artist page.
func ParseBrowse(raw []byte) (Browse, error) {
	all, header, err := Walk(raw)
	if err != nil {
		return Browse{}, err
	}
	var b Browse
	if header != nil {
		b.Header = *header
	}
	for _, n := range Dedupe(all) {
		if IsNonMusic(n) {
			continue
		}
		switch n.Kind {
		case domain.KindSong:
			b.Tracks = append(b.Tracks, n)
		case domain.KindAlbum:
			b.Albums = append(b.Albums, n)
		case domain.KindPlaylist:
			b.Playlists = append(b.Playlists, n)
		case domain.KindArtist:
			b.Artists = append(b.Artists, n)
		}
	}
	return b, nil
}

// ParseDuration parses "m:ss" or "h:mm:ss" into seconds.
func ParseDuration(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for i, p := range parts {
		if p == "" || len(p) > 2 && i > 0 {
			return 0, false
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, false
		}
		if i > 0 && v >= 60 {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}
