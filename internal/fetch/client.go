package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/BrownsugarZeer/fivek-crawler/internal/fivek"
)

// StatusError reports a response with an unexpected status code.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: unexpected status %s", e.Status)
}

// Options configures the fetch client.
type Options struct {
	// Root is the dataset endpoint.
	// Default: fivek.Root
	Root string

	// Timeout bounds one image download attempt, including reading
	// the body. Default: 5s
	Timeout time.Duration

	// ListingTimeout bounds the listing request.
	// Default: 5s
	ListingTimeout time.Duration

	// JitterMin/JitterMax bound the random delay before the listing
	// request. Default: 200ms / 1.2s
	JitterMin time.Duration
	JitterMax time.Duration

	// UserAgents overrides the default User-Agent pool.
	UserAgents []string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Root:           fivek.Root,
		Timeout:        5 * time.Second,
		ListingTimeout: 5 * time.Second,
		JitterMin:      200 * time.Millisecond,
		JitterMax:      1200 * time.Millisecond,
	}
}

// Client fetches the dataset listing and streams image files.
type Client struct {
	client  *http.Client
	listing *http.Client
	opts    Options
}

// NewClient creates a new fetch client with the given options.
func NewClient(opts Options) *Client {
	if opts.Root == "" {
		opts.Root = fivek.Root
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.ListingTimeout <= 0 {
		opts.ListingTimeout = 5 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: 100,
		MaxIdleConns:        200,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		listing: &http.Client{
			Transport: transport,
			Timeout:   opts.ListingTimeout,
		},
		opts: opts,
	}
}

// Listing fetches the dataset listing page and returns its body.
// A short random delay precedes the request to avoid bursts. A non-200
// response is returned as a *StatusError; the caller decides whether
// that is fatal.
func (c *Client) Listing(ctx context.Context) (string, error) {
	if err := c.jitter(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Root, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", randomUserAgent(c.opts.UserAgents))

	resp, err := c.listing.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read listing: %w", err)
	}
	return string(body), nil
}

// Image issues a streaming GET for one image. The returned body must be
// closed by the caller; reads are bounded by the client timeout, so a
// stalled transfer surfaces as a timeout error mid-copy.
func (c *Client) Image(ctx context.Context, remotePath string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Root+"/"+remotePath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", randomUserAgent(c.opts.UserAgents))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return resp.Body, nil
}

// jitter sleeps for a uniform random duration in [JitterMin, JitterMax).
func (c *Client) jitter(ctx context.Context) error {
	span := c.opts.JitterMax - c.opts.JitterMin
	if span <= 0 {
		if c.opts.JitterMin <= 0 {
			return nil
		}
		span = 1
	}
	delay := c.opts.JitterMin + rand.N(span)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// IsTimeout reports whether err was caused by a request or transfer
// timeout, as opposed to any other request-level failure.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
