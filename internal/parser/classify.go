package parser

import (
	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/textnorm"
)

// classify decides the kind of a candidate: a valid video reference makes a
// song; otherwise the page-type hint, then the browse-id prefix.
func classify(c candidate) (ParsedNode, bool) {
	n := ParsedNode{
		Title:           c.title,
		Subtitle:        c.subtitle,
		PageType:        c.pageType,
		Thumbnails:      c.thumbs,
		Thumbnail:       c.thumbs.Largest(),
		DurationSeconds: c.duration,
		Artists:         artistRefs(c.runs),
		AlbumID:         albumRef(c.runs),
		Official:        textnorm.HasToken(c.subtitle, "official"),
		Hero:            c.hero,
	}

	switch {
	case domain.ValidVideoID(c.videoID):
		n.Kind, n.ID = domain.KindSong, c.videoID
	case c.browseID == "":
		return ParsedNode{}, false
	default:
		kind, ok := domain.KindFromPageType(c.pageType)
		if !ok {
			kind, ok = domain.KindFromBrowseID(c.browseID)
		}
		if !ok {
			return ParsedNode{}, false
		}
		n.Kind, n.ID = kind, c.browseID
	}

	if n.Kind == domain.KindArtist {
		// artist rows carry the artist itself, not credits
		n.Artists = nil
		n.AlbumID = ""
	} else {
		n.ArtistText = artistTextFrom(n.Artists, n.Subtitle)
	}
	return n, true
}

var nonMusicWords = []string{"profile", "podcast", "podcasts", "episode", "episodes", "show", "shows"}

var ambiguousArtistWords = []string{"tribute", "tributes", "cover", "covers", "karaoke"}

// IsNonMusic reports a profile, podcast, episode or show signal in subtitle or page type.
func IsNonMusic(n ParsedNode) bool {
	return textnorm.HasToken(n.Subtitle, nonMusicWords...) || textnorm.HasToken(n.PageType, nonMusicWords...)
}

// IsAmbiguousArtist reports an artist labeled as a tribute, cover or karaoke act.
func IsAmbiguousArtist(n ParsedNode) bool {
	if n.Kind != domain.KindArtist {
		return false
	}
	return textnorm.HasToken(n.Title, ambiguousArtistWords...) || textnorm.HasToken(n.Subtitle, ambiguousArtistWords...)
}

// ExactMatch reports whether the node's title equals the query after normalization.
func ExactMatch(n ParsedNode, query string) bool {
	q := textnorm.NormalizeQuery(query)
	return q != "" && textnorm.NormalizeQuery(n.Title) == q
}

// Keep applies the non-music filter. An exact-title artist match survives the
// tribute/cover/karaoke rule but not the non-music rule.
func Keep(n ParsedNode, query string) bool {
	if IsNonMusic(n) {
		return false
	}
	if IsAmbiguousArtist(n) && !ExactMatch(n, query) {
		return false
	}
	return true
}

// Dedupe keeps the first node per (kind, id).
func Dedupe(nodes []ParsedNode) []ParsedNode {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]ParsedNode, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := seen[n.Key()]; dup {
			continue
		}
		seen[n.Key()] = struct{}{}
		out = append(out, n)
	}
	return out
}
