// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort                = "8080"
	DefaultDBDriver            = "sqlite"
	DefaultDBDSN               = "catalog.db"
	DefaultUpstreamURL         = "https://music.youtube.com/youtubei/v1"
	DefaultUpstreamMinInterval = 250 * time.Millisecond
	DefaultUpstreamTimeout     = 15 * time.Second
	DefaultRetryCount          = 3
	DefaultRetryBase           = 1 * time.Second
	DefaultCacheTTL            = 12 * time.Hour
	DefaultTaskQueueSize       = 256
	DefaultTaskWorkers         = 2
	CachePurgeInterval         = time.Hour
)

// MusicBrainz
const (
	DefaultMusicBrainzURL       = "https://musicbrainz.org/ws/2"
	DefaultMusicBrainzUserAgent = "PurpleMusicCatalog/1.0 ( https://github.com/purplemusic/catalog )"
	MusicBrainzMinInterval      = 1050 * time.Millisecond
	MusicBrainzCacheTTL         = 30 * 24 * time.Hour
)

// Upstream client identity sent in every request context.
const (
	UpstreamClientName    = "WEB_REMIX"
	UpstreamClientVersion = "1.20241028.01.00"
	UpstreamLanguage      = "en"
)

// Suggest indexing
const (
	DefaultSuggestTickInterval = 30 * time.Second
	DefaultSuggestTickBatch    = 1
	DefaultSuggestDailyBatch   = 50
	DefaultSuggestDailyDelay   = 2 * time.Second
	DailyInterval              = 24 * time.Hour
	MinPrefixLength            = 2
	MaxPrefixLength            = 120
)

// Suggestion interleaving
const (
	SuggestLimit   = 12
	SuggestPerType = 4
)

// Drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)
