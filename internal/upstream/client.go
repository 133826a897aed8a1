// Package upstream fetches raw search and browse responses from the music service.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/purplemusic/catalog/internal/constants"
	"github.com/purplemusic/catalog/internal/httpclient"
	"github.com/purplemusic/catalog/internal/logger"
)

// Fetcher returns raw upstream JSON.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]byte, error)
	Browse(ctx context.Context, browseID string) ([]byte, error)
}

// Error reports a non-2xx upstream response.
type Error struct {
	Operation string
	Status    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream %s failed with status %d", e.Operation, e.Status)
}

type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MinInterval time.Duration
}

type clientInfo struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
}

type requestContext struct {
	Client clientInfo `json:"client"`
}

type searchBody struct {
	Context requestContext `json:"context"`
	Query   string         `json:"query"`
}

type browseBody struct {
	Context  requestContext `json:"context"`
	BrowseID string         `json:"browseId"`
}

// Client posts JSON requests over a paced, retrying transport.
type Client struct {
	http   *resty.Client
	apiKey string
	reqCtx requestContext
	logger *logger.Logger
}

func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultUpstreamTimeout
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = constants.DefaultUpstreamURL
	}

	rc := resty.NewWithClient(httpclient.NewClient(cfg.Timeout, cfg.MinInterval)).
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   rc,
		apiKey: cfg.APIKey,
		reqCtx: requestContext{Client: clientInfo{
			ClientName:    constants.UpstreamClientName,
			ClientVersion: constants.UpstreamClientVersion,
			HL:            constants.UpstreamLanguage,
		}},
		logger: log.WithComponent("upstream"),
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	return c.post(ctx, "search", searchBody{Context: c.reqCtx, Query: query})
}

func (c *Client) Browse(ctx context.Context, browseID string) ([]byte, error) {
	return c.post(ctx, "browse", browseBody{Context: c.reqCtx, BrowseID: browseID})
}

func (c *Client) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetQueryParam("prettyPrint", "false")
	if c.apiKey != "" {
		req.SetQueryParam("key", c.apiKey)
	}

	start := time.Now()
	resp, err := req.Post("/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("upstream %s request failed: %w", endpoint, err)
	}
	c.logger.Debug("Upstream call", "endpoint", endpoint, "status", resp.StatusCode(), "duration", time.Since(start))

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &Error{Operation: endpoint, Status: resp.StatusCode()}
	}
	return resp.Body(), nil
}
