package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/purplemusic/catalog/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"catalog.db"`

	UpstreamURL         string        `envconfig:"UPSTREAM_URL" default:"https://music.youtube.com/youtubei/v1"`
	UpstreamAPIKey      string        `envconfig:"UPSTREAM_API_KEY"`
	UpstreamMinInterval time.Duration `envconfig:"UPSTREAM_MIN_INTERVAL" default:"250ms"`
	UpstreamTimeout     time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`
	CacheTTL            time.Duration `envconfig:"CACHE_TTL" default:"12h"`
	ValkeyURL           string        `envconfig:"VALKEY_URL"`

	MusicBrainzURL         string        `envconfig:"MUSICBRAINZ_URL" default:"https://musicbrainz.org/ws/2"`
	MusicBrainzUserAgent   string        `envconfig:"MUSICBRAINZ_USER_AGENT"`
	MusicBrainzMinInterval time.Duration `envconfig:"MUSICBRAINZ_MIN_INTERVAL" default:"1050ms"`
	MusicBrainzCacheTTL    time.Duration `envconfig:"MUSICBRAINZ_CACHE_TTL" default:"720h"`

	SuggestTickInterval time.Duration `envconfig:"SUGGEST_TICK_INTERVAL" default:"30s"`
	SuggestTickBatch    int           `envconfig:"SUGGEST_TICK_BATCH" default:"1"`
	SuggestDailyBatch   int           `envconfig:"SUGGEST_DAILY_BATCH" default:"50"`
	SuggestDailyDelay   time.Duration `envconfig:"SUGGEST_DAILY_DELAY" default:"2s"`
	SuggestDailyEnabled bool          `envconfig:"SUGGEST_DAILY_ENABLED" default:"true"`

	// Names always eligible as artist suggestions when they match the query.
	ArtistOverrides []string `envconfig:"ARTIST_OVERRIDES"`

	TaskQueueSize int `envconfig:"TASK_QUEUE_SIZE" default:"256"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBDriver != constants.DriverSQLite && c.DBDriver != constants.DriverPostgres {
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of: sqlite, pgx, got: %s", c.DBDriver))
	}

	if c.DBDSN == "" {
		errors = append(errors, "DB_DSN cannot be empty")
	}

	if c.UpstreamURL == "" {
		errors = append(errors, "UPSTREAM_URL cannot be empty")
	} else if u, err := url.Parse(c.UpstreamURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("UPSTREAM_URL is not a valid URL: %s", c.UpstreamURL))
	}

	if c.ValkeyURL != "" {
		if _, err := url.Parse(c.ValkeyURL); err != nil {
			errors = append(errors, fmt.Sprintf("VALKEY_URL is not a valid URL: %s", c.ValkeyURL))
		}
	}

	if u, err := url.Parse(c.MusicBrainzURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("MUSICBRAINZ_URL is not a valid URL: %s", c.MusicBrainzURL))
	}
	if c.MusicBrainzMinInterval < 0 {
		errors = append(errors, "MUSICBRAINZ_MIN_INTERVAL cannot be negative")
	}

	if c.UpstreamTimeout <= 0 {
		errors = append(errors, "UPSTREAM_TIMEOUT must be positive")
	}
	if c.UpstreamMinInterval < 0 {
		errors = append(errors, "UPSTREAM_MIN_INTERVAL cannot be negative")
	}
	if c.CacheTTL < 0 {
		errors = append(errors, "CACHE_TTL cannot be negative")
	}

	if c.SuggestTickInterval <= 0 {
		errors = append(errors, "SUGGEST_TICK_INTERVAL must be positive")
	}
	if c.SuggestTickBatch < 1 {
		errors = append(errors, fmt.Sprintf("SUGGEST_TICK_BATCH must be at least 1, got: %d", c.SuggestTickBatch))
	}
	if c.SuggestDailyBatch < 1 {
		errors = append(errors, fmt.Sprintf("SUGGEST_DAILY_BATCH must be at least 1, got: %d", c.SuggestDailyBatch))
	}
	if c.SuggestDailyDelay < 0 {
		errors = append(errors, "SUGGEST_DAILY_DELAY cannot be negative")
	}
	if c.TaskQueueSize < 1 {
		errors = append(errors, fmt.Sprintf("TASK_QUEUE_SIZE must be at least 1, got: %d", c.TaskQueueSize))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Overrides returns the trimmed, non-empty override names.
func (c *Config) Overrides() []string {
	var out []string
	for _, name := range c.ArtistOverrides {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Defaults returns a configuration populated only from constants, for tests and tools.
func Defaults() Config {
	return Config{
		Port:                   constants.DefaultPort,
		DBDriver:               constants.DefaultDBDriver,
		DBDSN:                  constants.DefaultDBDSN,
		UpstreamURL:            constants.DefaultUpstreamURL,
		UpstreamMinInterval:    constants.DefaultUpstreamMinInterval,
		UpstreamTimeout:        constants.DefaultUpstreamTimeout,
		CacheTTL:               constants.DefaultCacheTTL,
		MusicBrainzURL:         constants.DefaultMusicBrainzURL,
		MusicBrainzMinInterval: constants.MusicBrainzMinInterval,
		MusicBrainzCacheTTL:    constants.MusicBrainzCacheTTL,
		SuggestTickInterval:    constants.DefaultSuggestTickInterval,
		SuggestTickBatch:       constants.DefaultSuggestTickBatch,
		SuggestDailyBatch:      constants.DefaultSuggestDailyBatch,
		SuggestDailyDelay:      constants.DefaultSuggestDailyDelay,
		SuggestDailyEnabled:    true,
		TaskQueueSize:          constants.DefaultTaskQueueSize,
		LogLevel:               "info",
		LogFormat:              "text",
	}
}
