// Package musicbrainz finds artists' YouTube channels through MusicBrainz url
// relations and feeds them to the catalog as channel refs.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/purplemusic/catalog/internal/constants"
	"github.com/purplemusic/catalog/internal/httpclient"
	"github.com/purplemusic/catalog/internal/logger"
)

var (
	ErrNotFound    = errors.New("musicbrainz artist not found")
	ErrInvalidMBID = errors.New("invalid musicbrainz id")
)

// StatusError reports an unexpected MusicBrainz response.
type StatusError struct {
	MBID   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("musicbrainz lookup %s failed with status %d", e.MBID, e.Status)
}

// Artist is the YouTube link found for one MusicBrainz artist. YouTubeURL is
// the first YouTube relation; ChannelID is set only when that URL names a
// channel by id.
type Artist struct {
	MBID       string `json:"mbid"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
	YouTubeURL string `json:"youtube_url,omitempty"`
	ChannelID  string `json:"channel_id,omitempty"`
}

// ArtistLookup resolves one MusicBrainz id.
type ArtistLookup interface {
	LookupArtist(ctx context.Context, mbid string) (*Artist, error)
}

var _ ArtistLookup = (*Client)(nil)
var _ ArtistLookup = (*CachedClient)(nil)

type ClientConfig struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration
}

// Client calls the MusicBrainz web service over the paced, retrying transport.
// MusicBrainz asks for at most one request per second and a descriptive
// User-Agent.
type Client struct {
	http   *resty.Client
	logger *logger.Logger
}

func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultUpstreamTimeout
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = constants.MusicBrainzMinInterval
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.DefaultMusicBrainzUserAgent
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = constants.DefaultMusicBrainzURL
	}

	rc := resty.NewWithClient(httpclient.NewClient(cfg.Timeout, cfg.MinInterval)).
		SetBaseURL(base).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, logger: log.WithComponent("musicbrainz")}
}

type artistResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Country   string     `json:"country"`
	Relations []relation `json:"relations"`
}

type relation struct {
	Type string `json:"type"`
	URL  *struct {
		Resource string `json:"resource"`
	} `json:"url"`
}

// LookupArtist fetches the artist with its url relations.
func (c *Client) LookupArtist(ctx context.Context, mbid string) (*Artist, error) {
	id, err := uuid.Parse(strings.TrimSpace(mbid))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMBID, mbid)
	}
	mbid = id.String()

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("mbid", mbid).
		SetQueryParams(map[string]string{"fmt": "json", "inc": "url-rels"}).
		Get("/artist/{mbid}")
	if err != nil {
		return nil, fmt.Errorf("musicbrainz lookup %s failed: %w", mbid, err)
	}
	c.logger.Debug("MusicBrainz call", "mbid", mbid, "status", resp.StatusCode(), "duration", time.Since(start))

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices:
		return nil, &StatusError{MBID: mbid, Status: resp.StatusCode()}
	}

	var body artistResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode musicbrainz artist %s: %w", mbid, err)
	}

	a := &Artist{MBID: mbid, Name: body.Name, Country: body.Country}
	a.YouTubeURL = youTubeRelation(body.Relations)
	a.ChannelID = ChannelIDFromURL(a.YouTubeURL)
	return a, nil
}

// youTubeRelation returns the first related URL on a YouTube host.
func youTubeRelation(rels []relation) string {
	for _, r := range rels {
		if r.URL == nil || r.URL.Resource == "" {
			continue
		}
		low := strings.ToLower(r.URL.Resource)
		if strings.Contains(low, "youtube.com") || strings.Contains(low, "youtu.be") {
			return r.URL.Resource
		}
	}
	return ""
}

var channelIDPattern = regexp.MustCompile(`^UC[0-9A-Za-z_-]{20,}$`)

// ChannelIDFromURL extracts the id from a /channel/UC... URL. User, handle
// and video URLs yield "".
func ChannelIDFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && strings.EqualFold(parts[0], "channel") && channelIDPattern.MatchString(parts[1]) {
		return parts[1]
	}
	return ""
}
