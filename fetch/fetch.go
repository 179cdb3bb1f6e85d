// Package fetch provides the HTTP client used for font source stylesheets
// and remote resources. Responses are size-capped and read fully into memory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dpc/misc"
)

// DefaultMaxBodySize caps response bodies. Font binaries are the largest
// thing we pull and variable fonts stay well under this.
const DefaultMaxBodySize = 32 << 20

// Options configures the HTTP client.
type Options struct {
	PreferIPv4  bool
	Timeout     time.Duration
	MaxBodySize int64
}

// Client wraps http.Client with logging and body size limits.
type Client struct {
	hc      *http.Client
	log     *zap.Logger
	maxBody int64
}

// New creates a fetch client. A zero Timeout defaults to 30 seconds.
func New(log *zap.Logger, opts Options) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}

	dialer := &net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if opts.PreferIPv4 {
				return dialer.DialContext(ctx, "tcp4", addr)
			}
			return dialer.DialContext(ctx, network, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		hc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log:     log.Named("fetch"),
		maxBody: maxBody,
	}
}

// Get downloads url and returns the body and the Content-Type header.
// Non-2xx responses and oversized bodies are errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", misc.GetAppName()+"/"+misc.GetVersion())
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetching %q: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading body of %q: %w", url, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, "", fmt.Errorf("fetching %q: body exceeds %d bytes", url, c.maxBody)
	}

	c.log.Debug("Fetched resource",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.String("content_type", resp.Header.Get("Content-Type")),
		zap.Duration("elapsed", time.Since(start)))

	return body, resp.Header.Get("Content-Type"), nil
}
