package ingest

import (
	"regexp"

	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/textnorm"
)

type credit struct {
	Name       string
	ChannelRef string
}

// creditedArtists derives artist names from free artist text, or from the
// subtitle when there is none, and pairs each with a linked channel ref when
// one carries the same name. Linked refs not named in the text are appended.
func creditedArtists(artistText, subtitle string, refs []parser.ArtistRef) []credit {
	var names []string
	if artistText != "" {
		names = textnorm.SplitArtists(artistText)
	} else {
		for _, seg := range textnorm.SplitArtists(subtitle) {
			if parser.IsArtistSegment(seg) {
				names = append(names, seg)
			}
		}
	}

	byName := make(map[string]string, len(refs))
	for _, r := range refs {
		byName[textnorm.NormalizeQuery(r.Name)] = r.ChannelID
	}

	out := make([]credit, 0, len(names)+len(refs))
	seen := make(map[string]struct{}, len(names)+len(refs))
	for _, n := range names {
		key := textnorm.NormalizeQuery(n)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, credit{Name: n, ChannelRef: byName[key]})
	}
	for _, r := range refs {
		key := textnorm.NormalizeQuery(r.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, credit{Name: r.Name, ChannelRef: r.ChannelID})
	}
	return out
}

var yearInText = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// releaseYear picks a four-digit year out of an album subtitle.
func releaseYear(subtitle string) string {
	return yearInText.FindString(subtitle)
}
