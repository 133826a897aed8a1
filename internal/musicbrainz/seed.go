package musicbrainz

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/purplemusic/catalog/internal/identity"
	"github.com/purplemusic/catalog/internal/logger"
)

// ErrMissingColumns is returned for a seed file without id or name columns.
var ErrMissingColumns = errors.New("seed file needs mbid and name columns")

// Seed is one artist to look up.
type Seed struct {
	MBID    string
	Name    string
	Country string
}

var (
	mbidColumns    = []string{"mbid", "artist_mbid", "gid"}
	nameColumns    = []string{"name", "artist", "artist_name"}
	countryColumns = []string{"country", "country_code"}
)

// ReadSeeds parses a CSV with a header row. Column names are matched
// case-insensitively; rows without a valid MBID are skipped.
func ReadSeeds(r io.Reader) ([]Seed, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	mbidCol, nameCol, countryCol := findColumn(cols, mbidColumns), findColumn(cols, nameColumns), findColumn(cols, countryColumns)
	if mbidCol < 0 || nameCol < 0 {
		return nil, ErrMissingColumns
	}

	var seeds []Seed
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read seed row: %w", err)
		}
		id, err := uuid.Parse(strings.TrimSpace(field(rec, mbidCol)))
		if err != nil {
			continue
		}
		seeds = append(seeds, Seed{
			MBID:    id.String(),
			Name:    strings.TrimSpace(field(rec, nameCol)),
			Country: strings.TrimSpace(field(rec, countryCol)),
		})
	}
	return seeds, nil
}

// Dedupe keeps one seed per MBID. The last row wins, at the position of the
// first.
func Dedupe(seeds []Seed) []Seed {
	index := make(map[string]int, len(seeds))
	out := make([]Seed, 0, len(seeds))
	for _, s := range seeds {
		if i, ok := index[s.MBID]; ok {
			out[i] = s
			continue
		}
		index[s.MBID] = len(out)
		out = append(out, s)
	}
	return out
}

func findColumn(cols, names []string) int {
	for _, name := range names {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Resolver records an artist with its channel ref.
type Resolver interface {
	Resolve(ctx context.Context, in identity.Input) (string, error)
}

// SeedResult counts the outcome of one seeding run.
type SeedResult struct {
	Looked    int `json:"looked"`
	Linked    int `json:"linked"`
	NoChannel int `json:"no_channel"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
}

// Seeder looks artists up on MusicBrainz and hands those with a YouTube
// channel to the resolver, so the suggest indexer can pick them up.
type Seeder struct {
	lookup   ArtistLookup
	resolver Resolver
	logger   *logger.Logger
}

// NewSeeder returns a seeder. A nil resolver makes it a dry run that only
// reports what would be linked.
func NewSeeder(lookup ArtistLookup, resolver Resolver, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Default()
	}
	return &Seeder{lookup: lookup, resolver: resolver, logger: log.WithComponent("seed")}
}

// Seed processes seeds in order. Per-artist failures are counted and logged;
// only cancellation stops the run.
func (s *Seeder) Seed(ctx context.Context, seeds []Seed) (SeedResult, error) {
	var res SeedResult
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Looked++
		log := s.logger.With("mbid", seed.MBID, "artist_name", seed.Name)

		a, err := s.lookup.LookupArtist(ctx, seed.MBID)
		switch {
		case errors.Is(err, ErrNotFound):
			res.NotFound++
			log.Debug("Artist not on MusicBrainz")
			continue
		case ctx.Err() != nil:
			return res, ctx.Err()
		case err != nil:
			res.Failed++
			log.Warn("MusicBrainz lookup failed", "error", err)
			continue
		}
		if a.ChannelID == "" {
			res.NoChannel++
			log.Debug("No YouTube channel", "youtube_url", a.YouTubeURL)
			continue
		}

		name := seed.Name
		if name == "" {
			name = a.Name
		}
		if s.resolver == nil {
			res.Linked++
			log.Info("Would link channel", "channel_ref", a.ChannelID, "country", seed.Country)
			continue
		}
		key, err := s.resolver.Resolve(ctx, identity.Input{DisplayName: name, ChannelRef: a.ChannelID})
		if err != nil {
			res.Failed++
			log.Warn("Failed to record artist channel", "channel_ref", a.ChannelID, "error", err)
			continue
		}
		res.Linked++
		log.Debug("Artist channel linked", "artist_key", key, "channel_ref", a.ChannelID)
	}

	s.logger.Info("Seeding finished",
		"looked", res.Looked,
		"linked", res.Linked,
		"no_channel", res.NoChannel,
		"not_found", res.NotFound,
		"failed", res.Failed,
	)
	return res, nil
}
