// Package fetch issues paced HTTP GETs against the listing site under an
// anti-blocking access policy: rotating browser identities, randomized
// delays that grow with request count, and kind-aware retry backoff.
//
// The client is intentionally serial; a single paced request stream is the
// whole point of the policy, so it must never be shared across goroutines.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Result holds the raw content from a successful fetch.
type Result struct {
	URL        string
	HTML       string
	StatusCode int
}

// Client fetches pages under one pacing profile, tracking cumulative request
// count so delays ramp over the session.
type Client struct {
	http     *http.Client
	policy   Policy
	referer  string
	log      *slog.Logger
	rng      *rand.Rand
	requests int

	// sleep is replaceable in tests to avoid real pauses.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client with the given pacing profile. The referer is
// sent with every request so detail fetches look like same-site navigation.
func NewClient(policy Policy, referer string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: policy.Timeout},
		policy:  policy,
		referer: referer,
		log:     logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepContext,
	}
}

// Requests returns the number of HTTP requests issued so far.
func (c *Client) Requests() int {
	return c.requests
}

// Get retrieves a URL, applying the pre-request delay and retrying transient
// and soft-block failures up to the policy's attempt ceiling.
func (c *Client) Get(ctx context.Context, urlStr string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Kind: KindTerminal, Message: "invalid URL", Cause: err}
	}

	var lastErr *Error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if c.requests > 0 {
			d := c.policy.delay(c.rng, c.requests)
			c.log.Debug("pacing delay", "duration", d, "request", c.requests+1)
			if err := c.sleep(ctx, d); err != nil {
				return nil, err
			}
		}

		result, fetchErr := c.doRequest(ctx, urlStr)
		if fetchErr == nil {
			return result, nil
		}
		lastErr = fetchErr

		switch fetchErr.Kind {
		case KindTerminal:
			return nil, fetchErr
		case KindSoftBlock:
			if attempt < c.policy.MaxAttempts {
				wait := c.policy.softBlockBackoff(c.rng, attempt)
				c.log.Warn("soft block, backing off", "url", urlStr, "attempt", attempt, "wait", wait)
				if err := c.sleep(ctx, wait); err != nil {
					return nil, err
				}
			}
		case KindTransient:
			if attempt < c.policy.MaxAttempts {
				wait := c.policy.transientBackoff(c.rng, attempt)
				c.log.Warn("transient error, retrying", "url", urlStr, "attempt", attempt, "wait", wait, "error", fetchErr.Cause)
				if err := c.sleep(ctx, wait); err != nil {
					return nil, err
				}
			}
		}
	}

	return nil, lastErr
}

// Document retrieves a URL and parses it into a navigable document tree.
func (c *Client) Document(ctx context.Context, urlStr string) (*goquery.Document, error) {
	result, err := c.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindTerminal, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// doRequest performs one HTTP round trip and classifies the outcome.
func (c *Client) doRequest(ctx context.Context, urlStr string) (*Result, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindTerminal, Message: "failed to create request", Cause: err}
	}
	for key, value := range identityHeaders(c.rng, c.referer) {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	c.requests++
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindTransient, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindTransient, Message: "failed to read response body", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return &Result{URL: urlStr, HTML: string(body), StatusCode: resp.StatusCode}, nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{URL: urlStr, Kind: KindSoftBlock, Message: "access denied by server"}
	case resp.StatusCode >= 500:
		return nil, &Error{URL: urlStr, Kind: KindTransient, Message: "server error " + resp.Status}
	default:
		return nil, &Error{URL: urlStr, Kind: KindTerminal, Message: "HTTP status " + resp.Status}
	}
}

// sleepContext pauses for d, returning early if the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
