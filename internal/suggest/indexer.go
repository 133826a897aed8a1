// Package suggest maintains the prefix autocomplete index.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/purplemusic/catalog/internal/constants"
	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/parser"
	"github.com/purplemusic/catalog/internal/ranking"
	"github.com/purplemusic/catalog/internal/store"
	"github.com/purplemusic/catalog/internal/textnorm"
)

// Store is the catalog surface the indexer reads and writes.
type Store interface {
	GetArtist(ctx context.Context, key string) (*domain.Artist, error)
	CountArtists(ctx context.Context) (int, error)
	ListArtists(ctx context.Context, offset, limit int) ([]domain.Artist, error)
	NextArtistsLackingSuggest(ctx context.Context, limit int) ([]domain.Artist, error)
	TouchArtist(ctx context.Context, key string) error
	InsertSuggestEntry(ctx context.Context, e *domain.SuggestEntry) (bool, error)
	UpsertSuggestEntry(ctx context.Context, e *domain.SuggestEntry) error
	MarkSuggestProcessed(ctx context.Context, artistKey string) error
	IsSuggestProcessed(ctx context.Context, artistKey string) (bool, error)
	SuggestEntries(ctx context.Context, prefix string, limit int) ([]domain.SuggestEntry, error)
	TouchSuggestEntries(ctx context.Context, prefix string, refs []string) error
}

// Searcher runs a live upstream search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]byte, error)
}

// Enqueuer accepts background work.
type Enqueuer interface {
	Enqueue(name string, fn func(ctx context.Context) error) bool
}

type Config struct {
	TickBatch  int
	DailyBatch int
	DailyDelay time.Duration
	Overrides  ranking.Overrides
}

type Indexer struct {
	store    Store
	searcher Searcher
	queue    Enqueuer
	logger   *logger.Logger
	cfg      Config
	now      func() time.Time
}

func NewIndexer(s Store, searcher Searcher, cfg Config, log *logger.Logger) *Indexer {
	if log == nil {
		log = logger.Default()
	}
	if cfg.TickBatch <= 0 {
		cfg.TickBatch = constants.DefaultSuggestTickBatch
	}
	if cfg.DailyBatch <= 0 {
		cfg.DailyBatch = constants.DefaultSuggestDailyBatch
	}
	return &Indexer{
		store:    s,
		searcher: searcher,
		logger:   log.WithComponent("suggest"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// UseQueue routes hit-count updates from Lookup through q.
func (ix *Indexer) UseQueue(q Enqueuer) {
	ix.queue = q
}

// Tick indexes the next artists lacking entries, oldest update first. An
// artist is marked processed only after all its entries are written. A failed
// artist is moved behind the others and retried on a later tick.
func (ix *Indexer) Tick(ctx context.Context) (int, error) {
	artists, err := ix.store.NextArtistsLackingSuggest(ctx, ix.cfg.TickBatch)
	if err != nil {
		return 0, err
	}

	done := 0
	var errs []error
	for i := range artists {
		a := &artists[i]
		log := ix.logger.WithArtist(a.ArtistKey, a.BestName())
		written, err := ix.indexArtist(ctx, a)
		if err != nil {
			log.Warn("Failed to index artist", "error", err)
			errs = append(errs, fmt.Errorf("failed to index artist %s: %w", a.ArtistKey, err))
			if err := ix.store.TouchArtist(ctx, a.ArtistKey); err != nil {
				log.Warn("Failed to defer artist", "error", err)
			}
			continue
		}
		log.Debug("Artist indexed", "entries", written)
		done++
	}
	if done > 0 || len(errs) > 0 {
		ix.logger.Info("Suggest tick", "artists", done, "failed", len(errs))
	}
	return done, errors.Join(errs...)
}

// IndexArtist indexes one artist by key. Artists without a channel ref have
// nothing to point entries at and are left for later; processed artists are
// skipped.
func (ix *Indexer) IndexArtist(ctx context.Context, artistKey string) error {
	a, err := ix.store.GetArtist(ctx, artistKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if a.ExternalChannelRef == "" {
		return nil
	}
	processed, err := ix.store.IsSuggestProcessed(ctx, artistKey)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}
	_, err = ix.indexArtist(ctx, a)
	return err
}

func (ix *Indexer) indexArtist(ctx context.Context, a *domain.Artist) (int, error) {
	name := a.BestName()
	payload := domain.SuggestPayload{
		Name:            name,
		ImageURL:        a.Thumbnails.Largest(),
		Subtitle:        "Artist",
		EndpointType:    "browse",
		EndpointPayload: a.ExternalChannelRef,
	}

	written := 0
	for _, prefix := range prefixesFor(name) {
		inserted, err := ix.store.InsertSuggestEntry(ctx, &domain.SuggestEntry{
			Prefix:     prefix,
			EntityType: domain.SuggestArtist,
			EntityRef:  a.ExternalChannelRef,
			Payload:    payload,
		})
		if err != nil {
			return written, err
		}
		if inserted {
			written++
		}
	}

	if err := ix.store.MarkSuggestProcessed(ctx, a.ArtistKey); err != nil {
		return written, err
	}
	return written, nil
}

// DailyJob runs the daily batch for the current UTC day.
func (ix *Indexer) DailyJob(ctx context.Context) error {
	day := int(ix.now().UTC().Unix() / int64(constants.DailyInterval/time.Second))
	_, err := ix.DailyBatch(ctx, day)
	return err
}

// DailyBatch refreshes a rotating window of artists from live search results.
// The window starts at (day*batch) mod total and wraps around the artist set.
// It sleeps DailyDelay between artists.
func (ix *Indexer) DailyBatch(ctx context.Context, day int) (int, error) {
	if ix.searcher == nil {
		return 0, nil
	}
	total, err := ix.store.CountArtists(ctx)
	if err != nil || total == 0 {
		return 0, err
	}

	artists, err := ix.window(ctx, day, total)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range artists {
		if i > 0 {
			if err := sleep(ctx, ix.cfg.DailyDelay); err != nil {
				return refreshed, err
			}
		}
		a := &artists[i]
		if err := ix.refreshArtist(ctx, a); err != nil {
			if ctx.Err() != nil {
				return refreshed, ctx.Err()
			}
			ix.logger.WithArtist(a.ArtistKey, a.BestName()).Warn("Daily suggest refresh failed", "error", err)
			continue
		}
		refreshed++
	}
	ix.logger.Info("Daily suggest batch", "day", day, "artists", len(artists), "refreshed", refreshed)
	return refreshed, nil
}

func (ix *Indexer) window(ctx context.Context, day, total int) ([]domain.Artist, error) {
	batch := ix.cfg.DailyBatch
	if batch > total {
		batch = total
	}
	if day < 0 {
		day = -day
	}
	offset := (day % total) * batch % total

	artists, err := ix.store.ListArtists(ctx, offset, batch)
	if err != nil {
		return nil, err
	}
	if rest := batch - len(artists); rest > 0 {
		head, err := ix.store.ListArtists(ctx, 0, rest)
		if err != nil {
			return nil, err
		}
		artists = append(artists, head...)
	}
	return artists, nil
}

func (ix *Indexer) refreshArtist(ctx context.Context, a *domain.Artist) error {
	name := a.BestName()
	raw, err := ix.searcher.Search(ctx, name)
	if err != nil {
		return err
	}
	res, err := parser.ParseSearch(raw, name)
	if err != nil {
		return err
	}
	top := ranking.Interleave(
		ranking.Suggestions(res.All, res.Items, name, ix.cfg.Overrides),
		constants.SuggestLimit, constants.SuggestPerType,
	)

	for _, prefix := range prefixesFor(name) {
		for _, s := range top {
			err := ix.store.UpsertSuggestEntry(ctx, &domain.SuggestEntry{
				Prefix:     prefix,
				EntityType: s.Type,
				EntityRef:  s.ID,
				Payload: domain.SuggestPayload{
					Name:            s.Name,
					ImageURL:        s.ImageURL,
					Subtitle:        s.Subtitle,
					EndpointType:    s.EndpointType,
					EndpointPayload: s.EndpointPayload,
				},
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Lookup returns interleaved local suggestions for a query prefix.
func (ix *Indexer) Lookup(ctx context.Context, query string) ([]domain.Suggestion, error) {
	prefix := truncate(textnorm.Normalize(query), constants.MaxPrefixLength)
	if len([]rune(prefix)) < constants.MinPrefixLength {
		return nil, nil
	}

	entries, err := ix.store.SuggestEntries(ctx, prefix, constants.SuggestLimit*constants.SuggestPerType)
	if err != nil {
		return nil, err
	}

	cands := make([]domain.Suggestion, 0, len(entries))
	for _, e := range entries {
		cands = append(cands, domain.Suggestion{
			Type:            e.EntityType,
			ID:              e.EntityRef,
			Name:            e.Payload.Name,
			ImageURL:        e.Payload.ImageURL,
			Subtitle:        e.Payload.Subtitle,
			EndpointType:    e.Payload.EndpointType,
			EndpointPayload: e.Payload.EndpointPayload,
		})
	}
	out := ranking.Interleave(cands, constants.SuggestLimit, constants.SuggestPerType)
	ix.recordHits(prefix, out)
	return out, nil
}

func (ix *Indexer) recordHits(prefix string, hits []domain.Suggestion) {
	if ix.queue == nil || len(hits) == 0 {
		return
	}
	refs := make([]string, len(hits))
	for i, h := range hits {
		refs[i] = h.ID
	}
	ix.queue.Enqueue("suggest-hits", func(ctx context.Context) error {
		return ix.store.TouchSuggestEntries(ctx, prefix, refs)
	})
}

func prefixesFor(name string) []string {
	return textnorm.Prefixes(textnorm.Normalize(name), constants.MinPrefixLength, constants.MaxPrefixLength)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
