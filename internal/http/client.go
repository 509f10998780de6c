package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrStatus is wrapped by every non-200 response error.
var ErrStatus = errors.New("unexpected HTTP status")

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every request.
	UserAgent string

	// CheckTimeout bounds HEAD existence checks.
	CheckTimeout time.Duration

	// PageTimeout bounds HTML page and JSON API requests.
	PageTimeout time.Duration

	// DownloadTimeout bounds asset downloads.
	DownloadTimeout time.Duration

	// Delay is the minimum spacing between two requests. Zero disables pacing.
	Delay time.Duration
}

// DefaultOptions returns the timeouts used by the maintenance passes.
func DefaultOptions() Options {
	return Options{
		UserAgent:       "Mozilla/5.0",
		CheckTimeout:    2 * time.Second,
		PageTimeout:     10 * time.Second,
		DownloadTimeout: 30 * time.Second,
	}
}

// Client wraps HTTP operations with the curator's identity, timeouts and pacing.
//
// Client provides:
//   - Configured User-Agent header
//   - Per-operation timeouts (existence check, page, download)
//   - A fixed minimum delay between requests
//
// Example usage:
//
//	client := NewClient(opts)
//
//	// Check whether a candidate page exists
//	ok := client.Exists(ctx, "https://www.wikiart.org/en/paul-cezanne/the-bathers")
//
//	// Download an image
//	data, err := client.DownloadBytes(ctx, imageURL)
type Client struct {
	resty *resty.Client
	opts  Options
}

// NewClient creates a new HTTP client. Requests are spaced by opts.Delay;
// the first request is never delayed.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions().UserAgent
	}

	rc := resty.New()
	rc.SetHeader("User-Agent", opts.UserAgent)

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{resty: rc, opts: opts}
}

// WithDelay returns a client sharing the configuration but paced by delay.
func (c *Client) WithDelay(delay time.Duration) *Client {
	opts := c.opts
	opts.Delay = delay
	return NewClient(opts)
}

// Options returns the client configuration.
func (c *Client) Options() Options {
	return c.opts
}

// Get performs a GET request bounded by the page timeout and returns the body.
//
// Returns an error wrapping ErrStatus if the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, c.opts.PageTimeout)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching HTML.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON performs a GET request with query parameters and decodes the
// JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, params map[string]string, out any) error {
	ctx, cancel := withTimeout(ctx, c.opts.PageTimeout)
	defer cancel()

	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("Accept", "application/json").
		SetResult(out).
		ForceContentType("application/json").
		Get(url)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

// Exists reports whether url answers a HEAD request with 200 OK.
// Redirects are followed. Any transport error or timeout counts as absent.
func (c *Client) Exists(ctx context.Context, url string) bool {
	ctx, cancel := withTimeout(ctx, c.opts.CheckTimeout)
	defer cancel()

	resp, err := c.resty.R().SetContext(ctx).Head(url)
	if err != nil {
		return false
	}
	return resp.StatusCode() == http.StatusOK
}

// DownloadBytes downloads a file bounded by the download timeout and returns
// the bytes in memory.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, c.opts.DownloadTimeout)
}

func (c *Client) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.resty.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d: %s", ErrStatus, resp.StatusCode(), resp.Status())
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
