// Command seed-channels links catalog artists to their YouTube channels using
// MusicBrainz url relations, so the suggest indexer has refs to work with.
//
// Input is a CSV file, or a directory of them, with mbid and name columns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/purplemusic/catalog/internal/config"
	"github.com/purplemusic/catalog/internal/identity"
	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/musicbrainz"
	"github.com/purplemusic/catalog/internal/store"
	"github.com/purplemusic/catalog/internal/upstream"
)

func main() {
	in := flag.String("in", "", "seed CSV file or directory of CSV files")
	dryRun := flag.Bool("dry-run", false, "look artists up without writing to the catalog")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *in, *dryRun, appLogger); err != nil {
		appLogger.Error("Seeding stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, in string, dryRun bool, appLogger *logger.Logger) error {
	seeds, err := loadSeeds(in)
	if err != nil {
		return err
	}
	appLogger.Info("Loaded seeds", "path", in, "count", len(seeds), "dry_run", dryRun)

	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	var cache musicbrainz.Cache = upstream.NewStoreCache(db)
	if cfg.ValkeyURL != "" {
		vc, err := upstream.NewValkeyCache(ctx, cfg.ValkeyURL)
		if err != nil {
			return err
		}
		defer vc.Close()
		cache = vc
	}

	lookup := musicbrainz.NewCachedClient(
		musicbrainz.NewClient(musicbrainz.ClientConfig{
			BaseURL:     cfg.MusicBrainzURL,
			UserAgent:   cfg.MusicBrainzUserAgent,
			Timeout:     cfg.UpstreamTimeout,
			MinInterval: cfg.MusicBrainzMinInterval,
		}, appLogger),
		cache, cfg.MusicBrainzCacheTTL, appLogger,
	)

	var resolver musicbrainz.Resolver
	if !dryRun {
		resolver = identity.NewResolver(db, appLogger)
	}

	res, err := musicbrainz.NewSeeder(lookup, resolver, appLogger).Seed(ctx, seeds)
	fmt.Printf("looked=%d linked=%d no_channel=%d not_found=%d failed=%d\n",
		res.Looked, res.Linked, res.NoChannel, res.NotFound, res.Failed)
	return err
}

// loadSeeds reads one CSV file, or every .csv file in a directory in name
// order, and dedupes the combined rows by MBID.
func loadSeeds(path string) ([]musicbrainz.Seed, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		files = files[:0]
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
		sort.Strings(files)
		if len(files) == 0 {
			return nil, fmt.Errorf("no .csv files in %s", path)
		}
	}

	var all []musicbrainz.Seed
	for _, f := range files {
		seeds, err := readSeedFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, seeds...)
	}
	return musicbrainz.Dedupe(all), nil
}

func readSeedFile(path string) ([]musicbrainz.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seeds, err := musicbrainz.ReadSeeds(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return seeds, nil
}
