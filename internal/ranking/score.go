package ranking

import (
	"strings"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/textnorm"
)

// Artist match weights.
const (
	scoreExact     = 220
	scoreSubstring = 40
	scoreOfficial  = 40
	scorePageType  = 30
	scoreChannelID = 10
	scoreProfile   = -1000
	scoreAmbiguous = -200
)

// ArtistCandidate is an artist result from any source.
type ArtistCandidate struct {
	Name      string
	Subtitle  string
	ID        string
	PageType  string
	Thumbnail string
	Official  bool
}

// CandidateFromNode adapts a parsed artist node.
func CandidateFromNode(n parser.ParsedNode) ArtistCandidate {
	return ArtistCandidate{
		Name:      n.Title,
		Subtitle:  n.Subtitle,
		ID:        n.ID,
		PageType:  n.PageType,
		Thumbnail: n.Thumbnail,
		Official:  n.Official,
	}
}

// ScoreArtist rates how well c answers query.
func ScoreArtist(c ArtistCandidate, query string) int {
	nq := textnorm.NormalizeQuery(query)
	name := textnorm.NormalizeQuery(c.Name)

	score := 0
	switch {
	case nq != "" && name == nq:
		score += scoreExact
	case nq != "" && strings.Contains(name, nq):
		score += scoreSubstring
	}
	if c.Official {
		score += scoreOfficial
	}
	if c.PageType == domain.PageTypeArtist {
		score += scorePageType
	}
	if strings.HasPrefix(c.ID, "UC") {
		score += scoreChannelID
	}
	if textnorm.HasToken(c.Subtitle, "profile") {
		score += scoreProfile
	}
	if textnorm.HasToken(c.Name, "tribute", "cover", "covers", "karaoke") ||
		textnorm.HasToken(c.Subtitle, "tribute", "cover", "covers", "karaoke") {
		score += scoreAmbiguous
	}
	return score
}

// BestArtist returns the highest positive-scoring candidate; ties keep the first.
func BestArtist(cands []ArtistCandidate, query string) (ArtistCandidate, bool) {
	var best ArtistCandidate
	bestScore := 0
	found := false
	for _, c := range cands {
		if s := ScoreArtist(c, query); s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}

// Overrides is a set of artist names always eligible as suggestions.
type Overrides struct {
	names map[string]struct{}
}

// NewOverrides builds the set from configured display names.
func NewOverrides(names []string) Overrides {
	o := Overrides{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if k := textnorm.NormalizeQuery(n); k != "" {
			o.names[k] = struct{}{}
		}
	}
	return o
}

// Applies reports whether name is an override the query is typing toward.
func (o Overrides) Applies(name, query string) bool {
	nq := textnorm.NormalizeQuery(query)
	key := textnorm.NormalizeQuery(name)
	if nq == "" || key == "" {
		return false
	}
	if _, ok := o.names[key]; !ok {
		return false
	}
	return strings.HasPrefix(key, nq)
}

// Len is the number of configured overrides.
func (o Overrides) Len() int {
	return len(o.names)
}
