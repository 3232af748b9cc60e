package ghclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/constants"
	"github.com/spiffcs/ghinventory/internal/log"
	"golang.org/x/oauth2"
)

// rateLimitTransport wraps an http.RoundTripper to handle GitHub rate limits
type rateLimitTransport struct {
	base  http.RoundTripper
	state *RateLimitState
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Fail fast while the server has told us we're out of quota
	if t.state.IsLimited() {
		return nil, ErrRateLimited
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	log.Trace("request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "elapsed", time.Since(start))

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		t.state.Update(remaining, limit, resetAt)
	}

	if remaining <= constants.RateLimitLowWatermark && remaining > 0 {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	// 403 with an exhausted quota or 429
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			t.state.SetLimited(true, resetAt)
			_ = resp.Body.Close()
			return nil, ErrRateLimited
		}
	}

	return resp, nil
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

// Options configures a Client.
type Options struct {
	// BaseURL is the REST API root, e.g. https://api.github.com or
	// https://ghe.example.com/api/v3.
	BaseURL string
	Token   string

	// CACertFile is an optional PEM bundle trusted in addition to the system roots.
	CACertFile         string
	InsecureSkipVerify bool

	// Timeout bounds each request; zero means constants.RequestTimeout.
	Timeout time.Duration
}

// Client wraps the GitHub API client
type Client struct {
	client *gh.Client
	limits *RateLimitState
}

// NewClient creates a new GitHub client authenticating with a bearer token.
func NewClient(opts Options) (*Client, error) {
	token := opts.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	transport, err := newTLSTransport(opts.CACertFile, opts.InsecureSkipVerify)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.RequestTimeout
	}

	limits := &RateLimitState{}
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &rateLimitTransport{
			base: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
				Base:   transport,
			},
			state: limits,
		},
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = base

	return &Client{
		client: client,
		limits: limits,
	}, nil
}

// parseBaseURL validates the API root and adds the trailing slash go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = constants.DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	return u, nil
}

func newTLSTransport(caFile string, insecure bool) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if caFile == "" && !insecure {
		return transport, nil
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		// #nosec G402 -- opt-in for servers behind intercepting proxies
		InsecureSkipVerify: insecure,
	}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", caFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

// AuthenticatedUser returns the authenticated user's login
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// RateLimitStatus reports the quota seen on the most recent response.
func (c *Client) RateLimitStatus() (remaining, limit int, resetAt time.Time, limited bool) {
	return c.limits.Status()
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.client.BaseURL.String()
}
