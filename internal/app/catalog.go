// Package app orchestrates search, suggest and browse requests over the
// upstream fetcher, the parser, the ranker and the ingestion pipeline.
package app

import (
	"context"
	"strings"

	"github.com/purplemusic/catalog/internal/constants"
	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/identity"
	"github.com/purplemusic/catalog/internal/ingest"
	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/ranking"
	"github.com/purplemusic/catalog/internal/textnorm"
)

type Fetcher interface {
	Search(ctx context.Context, query string) ([]byte, error)
	Browse(ctx context.Context, browseID string) ([]byte, error)
}

type Ingester interface {
	Ingest(ctx context.Context, req ingest.Request) (ingest.Result, error)
	IngestArtistPage(ctx context.Context, channelID string, page parser.Browse) (ingest.Result, error)
}

type ArtistResolver interface {
	Resolve(ctx context.Context, in identity.Input) (string, error)
}

// Suggester serves locally indexed suggestions.
type Suggester interface {
	Lookup(ctx context.Context, query string) ([]domain.Suggestion, error)
}

// AlbumStore reads albums the catalog already holds.
type AlbumStore interface {
	GetAlbum(ctx context.Context, externalID string) (*domain.Album, error)
	AlbumCompletion(ctx context.Context, externalID string, fallbackExpected *int) (domain.Completion, error)
	ListAlbumTracks(ctx context.Context, albumID string) ([]domain.Track, error)
	GetArtist(ctx context.Context, key string) (*domain.Artist, error)
}

type Enqueuer interface {
	Enqueue(name string, fn func(ctx context.Context) error) bool
}

// CatalogService answers the public read endpoints. Failures past input
// validation degrade to empty, well-formed responses.
type CatalogService struct {
	fetcher   Fetcher
	ingester  Ingester
	resolver  ArtistResolver
	suggester Suggester
	albums    AlbumStore
	overrides ranking.Overrides
	logger    *logger.Logger

	queue    Enqueuer
	onArtist ingest.ArtistTask
}

type Deps struct {
	Fetcher   Fetcher
	Ingester  Ingester
	Resolver  ArtistResolver
	Suggester Suggester
	Albums    AlbumStore
	Overrides ranking.Overrides
}

func NewCatalogService(d Deps, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.Default()
	}
	return &CatalogService{
		fetcher:   d.Fetcher,
		ingester:  d.Ingester,
		resolver:  d.Resolver,
		suggester: d.Suggester,
		albums:    d.Albums,
		overrides: d.Overrides,
		logger:    log.WithComponent("catalog"),
	}
}

// OnArtistResolved resolves search-result artists on q and runs task for each key.
func (s *CatalogService) OnArtistResolved(q Enqueuer, task ingest.ArtistTask) {
	s.queue = q
	s.onArtist = task
}

func (s *CatalogService) Search(ctx context.Context, query string) domain.SearchResponse {
	query = strings.TrimSpace(query)
	if textnorm.NormalizeQuery(query) == "" {
		return domain.EmptySearchResponse()
	}

	raw, err := s.fetcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("Search fetch failed", "query", query, "error", err)
		return domain.EmptySearchResponse()
	}
	parsed, err := parser.ParseSearch(raw, query)
	if err != nil {
		s.logger.Warn("Search parse failed", "query", query, "error", err)
		return domain.EmptySearchResponse()
	}

	resp := ranking.Rank(parsed.All, parsed.Items, query)
	s.resolveArtists(parsed.Items)
	return resp
}

// resolveArtists records the channel artists a search surfaced.
func (s *CatalogService) resolveArtists(items []parser.ParsedNode) {
	if s.queue == nil || s.resolver == nil {
		return
	}
	for _, n := range items {
		if n.Kind != domain.KindArtist || !strings.HasPrefix(n.ID, "UC") {
			continue
		}
		in := identity.Input{DisplayName: n.Title, ChannelRef: n.ID, Thumbnails: n.Thumbnails}
		if !s.queue.Enqueue("resolve:"+n.ID, func(ctx context.Context) error {
			key, err := s.resolver.Resolve(ctx, in)
			if err != nil {
				return err
			}
			if s.onArtist != nil {
				return s.onArtist(ctx, key)
			}
			return nil
		}) {
			s.logger.Debug("Artist resolution dropped", "channel", n.ID)
		}
	}
}

// Suggest answers from the local index first. When the index holds fewer
// than a full page, live search results fill the remaining slots behind the
// local entries.
func (s *CatalogService) Suggest(ctx context.Context, query string) domain.SuggestResponse {
	resp := domain.SuggestResponse{Query: query, Suggestions: []domain.Suggestion{}}
	trimmed := strings.TrimSpace(query)
	if len([]rune(textnorm.Normalize(trimmed))) < constants.MinPrefixLength {
		return resp
	}

	var local []domain.Suggestion
	if s.suggester != nil {
		var err error
		local, err = s.suggester.Lookup(ctx, trimmed)
		if err != nil {
			s.logger.Warn("Local suggest lookup failed", "query", trimmed, "error", err)
		}
		if len(local) >= constants.SuggestLimit {
			resp.Suggestions = local[:constants.SuggestLimit]
			return resp
		}
		if len(local) > 0 {
			resp.Suggestions = local
		}
	}

	live, err := s.liveSuggestions(ctx, trimmed)
	if err != nil {
		s.logger.Warn("Live suggest failed", "query", trimmed, "error", err)
		return resp
	}
	resp.Suggestions = ranking.Interleave(mergeSuggestions(local, live), constants.SuggestLimit, constants.SuggestPerType)
	return resp
}

func (s *CatalogService) liveSuggestions(ctx context.Context, query string) ([]domain.Suggestion, error) {
	raw, err := s.fetcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.ParseSearch(raw, query)
	if err != nil {
		return nil, err
	}
	return ranking.Suggestions(parsed.All, parsed.Items, query, s.overrides), nil
}

// mergeSuggestions keeps local entries ahead of live ones and drops live
// entries the index already returned.
func mergeSuggestions(local, live []domain.Suggestion) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, len(local)+len(live))
	seen := make(map[string]struct{}, len(local))
	for _, l := range local {
		seen[l.Type+"\x00"+l.ID] = struct{}{}
		out = append(out, l)
	}
	for _, l := range live {
		if _, dup := seen[l.Type+"\x00"+l.ID]; dup {
			continue
		}
		out = append(out, l)
	}
	return out
}
