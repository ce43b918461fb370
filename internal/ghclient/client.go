package ghclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/credential"
	"github.com/hal/ghfolio/internal/log"
	"golang.org/x/oauth2"
)

// RateLimitLowWatermark is the remaining-call count below which a warning
// is logged.
const RateLimitLowWatermark = 50

// rateLimitTransport wraps an http.RoundTripper to handle GitHub rate limits
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Check if we're already rate limited before making the request
	if globalRateLimitState.IsLimited() {
		return nil, ErrRateLimited
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		globalRateLimitState.Update(remaining, limit, resetAt)
	}

	if remaining <= RateLimitLowWatermark && remaining > 0 {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	// Handle rate limit responses (403 with rate limit exceeded or 429)
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			globalRateLimitState.SetLimited(true, resetAt)
			_ = resp.Body.Close()
			return nil, ErrRateLimited
		}
	}

	return resp, err
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// Client wraps the GitHub API client. Unauthenticated clients are
// permitted: they run at the public rate limit.
type Client struct {
	client *gh.Client
	cred   credential.Resolved
}

// NewClient creates a GitHub client for the resolved credential.
func NewClient(ctx context.Context, cred credential.Resolved) *Client {
	var httpClient *http.Client

	if cred.Anonymous() {
		httpClient = &http.Client{
			Transport: &rateLimitTransport{base: http.DefaultTransport},
			Timeout:   30 * time.Second,
		}
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cred.Token()},
		)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Transport = &rateLimitTransport{
			base: httpClient.Transport,
		}
	}

	return &Client{
		client: gh.NewClient(httpClient),
		cred:   cred,
	}
}

// CredentialSource reports which credential source backs this client.
func (c *Client) CredentialSource() credential.Source {
	return c.cred.Source()
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, err
	}
	return limits, nil
}
