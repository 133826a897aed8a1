package ranking

import (
	"sort"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/parser"
)

// Priority is the round-robin order of suggestion types.
var Priority = []string{domain.SuggestTrack, domain.SuggestArtist, domain.SuggestPlaylist, domain.SuggestAlbum}

// Interleave buckets candidates by type (perType each, input order), then
// round-robins over Priority until limit is reached or every bucket is
// exhausted. Duplicate (type, id) pairs are skipped as they come up.
func Interleave(cands []domain.Suggestion, limit, perType int) []domain.Suggestion {
	buckets := make(map[string][]domain.Suggestion, len(Priority))
	for _, c := range cands {
		if len(buckets[c.Type]) < perType {
			buckets[c.Type] = append(buckets[c.Type], c)
		}
	}

	out := make([]domain.Suggestion, 0, limit)
	seen := make(map[string]struct{}, limit)
	for round := 0; len(out) < limit; round++ {
		progressed := false
		for _, typ := range Priority {
			b := buckets[typ]
			if round >= len(b) {
				continue
			}
			progressed = true
			s := b[round]
			key := s.Type + "\x00" + s.ID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
			if len(out) == limit {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

// ToSuggestion converts a parsed node to a suggestion candidate.
func ToSuggestion(n parser.ParsedNode) domain.Suggestion {
	s := domain.Suggestion{
		ID:              n.ID,
		Name:            n.Title,
		ImageURL:        n.Thumbnail,
		Subtitle:        n.Subtitle,
		EndpointType:    "browse",
		EndpointPayload: n.ID,
	}
	switch n.Kind {
	case domain.KindSong:
		s.Type = domain.SuggestTrack
		s.EndpointType = "watch"
	case domain.KindArtist:
		s.Type = domain.SuggestArtist
	case domain.KindAlbum:
		s.Type = domain.SuggestAlbum
	case domain.KindPlaylist:
		s.Type = domain.SuggestPlaylist
	}
	return s
}

// Suggestions turns a parsed search into ordered candidates. Artists are
// ordered by score with non-positive scores dropped; override artists found
// anywhere in all are placed first regardless of score.
func Suggestions(all, items []parser.ParsedNode, query string, overrides Overrides) []domain.Suggestion {
	var forced, others []domain.Suggestion
	type scored struct {
		s     domain.Suggestion
		score int
	}
	var artists []scored
	forcedIDs := make(map[string]struct{})

	if overrides.Len() > 0 {
		for _, n := range all {
			if n.Kind != domain.KindArtist || !overrides.Applies(n.Title, query) {
				continue
			}
			if _, dup := forcedIDs[n.ID]; dup {
				continue
			}
			forcedIDs[n.ID] = struct{}{}
			forced = append(forced, ToSuggestion(n))
		}
	}

	for _, n := range items {
		if n.Kind != domain.KindArtist {
			others = append(others, ToSuggestion(n))
			continue
		}
		if _, ok := forcedIDs[n.ID]; ok {
			continue
		}
		if score := ScoreArtist(CandidateFromNode(n), query); score > 0 {
			artists = append(artists, scored{ToSuggestion(n), score})
		}
	}
	sort.SliceStable(artists, func(i, j int) bool { return artists[i].score > artists[j].score })

	out := make([]domain.Suggestion, 0, len(forced)+len(artists)+len(others))
	out = append(out, forced...)
	for _, a := range artists {
		out = append(out, a.s)
	}
	return append(out, others...)
}
