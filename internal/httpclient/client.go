package httpclient

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/purplemusic/catalog/internal/constants"
)

// Transport is an http.RoundTripper that spaces requests by a minimum
// interval and retries transport errors, 429 and 503 responses.
type Transport struct {
	base http.RoundTripper

	minRequestInterval time.Duration
	retryCount         int
	retryBase          time.Duration
	lastRequest        time.Time
	mu                 sync.Mutex
}

// NewTransport wraps base with pacing and retries. A nil base uses a tuned http.Transport.
func NewTransport(base http.RoundTripper, minRequestInterval time.Duration) *Transport {
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		}
	}
	return &Transport{
		base:               base,
		minRequestInterval: minRequestInterval,
		retryCount:         constants.DefaultRetryCount,
		retryBase:          constants.DefaultRetryBase,
	}
}

// NewClient returns an http.Client using a paced Transport.
func NewClient(timeout, minRequestInterval time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(nil, minRequestInterval),
	}
}

// RoundTrip executes req with rate-limiting and retries.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error
	for attempt := 0; attempt < t.retryCount; attempt++ {
		// Check context before claiming a time slot
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := wait(req, t.reserve()); err != nil {
			return nil, err
		}

		attemptReq := req
		if attempt > 0 && req.Body != nil {
			if req.GetBody == nil {
				return nil, lastErr
			}
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attemptReq = req.Clone(ctx)
			attemptReq.Body = body
		}

		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfter(resp)
			if attempt == t.retryCount-1 {
				return resp, nil
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (status %d)", resp.StatusCode)

			backoffWait := time.Duration(attempt+1) * t.retryBase
			if retryAfter > backoffWait {
				backoffWait = retryAfter
			}
			if retryAfter > 0 {
				t.mu.Lock()
				next := time.Now().Add(retryAfter)
				if t.lastRequest.Before(next) {
					t.lastRequest = next
				}
				t.mu.Unlock()
			}
			if err := wait(req, backoffWait); err != nil {
				return nil, err
			}
			continue
		} else {
			return resp, nil
		}

		if err := wait(req, time.Duration(attempt+1)*t.retryBase); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// reserve claims the next request slot and returns how long to wait for it.
func (t *Transport) reserve() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	nextAllowed := t.lastRequest.Add(t.minRequestInterval)
	if now.Before(nextAllowed) {
		t.lastRequest = nextAllowed
		return nextAllowed.Sub(now)
	}
	t.lastRequest = now
	return 0
}

func wait(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}

// parseRetryAfter reads a Retry-After header and returns the duration to wait.
func parseRetryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		return time.Until(t)
	}
	return 0
}
