package dblp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigmetrics/sigsite/internal/log"
	"github.com/sigmetrics/sigsite/metrics"
)

const userAgent = "sigsite/1.0 (offline builder; polite crawler)"

// HTTPError is a non-retryable response status, or a 429 that outlasted the
// retry budget.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("dblp: GET %s: status %d", e.URL, e.Status)
}

// Client fetches table-of-contents listings with retry and backoff on
// rate limiting and transient network errors.
type Client struct {
	BaseURL   string        // search endpoint (default https://dblp.org/search/publ/api)
	HTTP      *http.Client  // default client with Timeout
	Retries   int           // retries after the first attempt
	BaseDelay time.Duration // backoff base; doubled per attempt
	Jitter    float64       // relative jitter applied to each wait

	sleep  func(context.Context, time.Duration) error
	jitter func() float64
	logger zerolog.Logger
}

// NewClient returns a Client with the crawler defaults.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL:   defaultSearchURL,
		HTTP:      &http.Client{Timeout: timeout},
		Retries:   6,
		BaseDelay: time.Second,
		Jitter:    0.25,
		logger:    log.WithComponent("dblp"),
	}
}

// toc returns the hits listed under a TOC key.
func (c *Client) toc(ctx context.Context, key string) ([]hit, error) {
	body, err := c.get(ctx, TOCURL(c.BaseURL, key))
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits(body)
	if err != nil {
		return nil, fmt.Errorf("dblp: decode %s: %w", key, err)
	}
	return hits, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, wait, err := c.try(ctx, url, attempt)
		if err == nil {
			metrics.RecordFetch("dblp", true)
			return body, nil
		}
		if wait == 0 || attempt >= c.Retries || ctx.Err() != nil {
			metrics.RecordFetch("dblp", false)
			return nil, err
		}
		c.logger.Warn().Err(err).
			Dur("wait", wait).
			Int("attempt", attempt+1).
			Int("retries", c.Retries).
			Msg("retrying")
		if err := c.doSleep(ctx, wait); err != nil {
			metrics.RecordFetch("dblp", false)
			return nil, err
		}
	}
}

// try performs one request. A non-zero wait marks the error as retryable.
func (c *Client) try(ctx context.Context, url string, attempt int) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		metrics.RecordRetry("dblp", "network")
		return nil, c.backoff(c.exp(attempt), 500*time.Millisecond), err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		base := c.exp(attempt)
		if s, err := strconv.ParseFloat(strings.TrimSpace(resp.Header.Get("Retry-After")), 64); err == nil && s >= 0 {
			base = time.Duration(s * float64(time.Second))
		}
		metrics.RecordRetry("dblp", "rate_limited")
		return nil, c.backoff(base, time.Second), &HTTPError{URL: url, Status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, 0, &HTTPError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordRetry("dblp", "network")
		return nil, c.backoff(c.exp(attempt), 500*time.Millisecond), err
	}
	return body, 0, nil
}

func (c *Client) exp(attempt int) time.Duration {
	return time.Duration(float64(c.BaseDelay) * math.Pow(2, float64(attempt)))
}

// backoff applies jitter and a floor to a wait.
func (c *Client) backoff(d, floor time.Duration) time.Duration {
	j := c.jitter
	if j == nil {
		j = rand.Float64
	}
	d = time.Duration(float64(d) * (1 + c.Jitter*(2*j()-1)))
	return max(d, floor)
}

func (c *Client) doSleep(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		return c.sleep(ctx, d)
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

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// IsRateLimited reports whether err is a final 429 response.
func IsRateLimited(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusTooManyRequests
}
