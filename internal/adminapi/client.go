// Package adminapi is the HTTP client for the CMS admin REST API under
// /api/admin. Every call is paced by a client-side limiter, tagged with an
// X-Request-ID and reported as an *Error on failure.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerSecond = 5

	maxErrorBody = 512
)

// ErrRequest is matched by every *Error returned from the client.
var ErrRequest = errors.New("admin api request failed")

// Error is a failed admin API call: either the transport failed (Err set)
// or the server answered with a non-2xx status.
type Error struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRequest, e.Err}
	}
	return []error{ErrRequest}
}

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client talks to one CMS deployment.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// New builds a Client for opts.BaseURL, which must be an absolute http(s) URL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be an absolute http(s) url", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		base:    base,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
		log:     logger.With("component", "adminapi"),
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.base.String() }

// endpoint joins path onto the admin root. path is already escaped, so
// callers PathEscape ids that may hold "/" or spaces.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	raw := strings.TrimRight(u.EscapedPath(), "/") + "/api/admin/" + strings.TrimLeft(path, "/")
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path, u.RawPath = p, raw
	} else {
		u.Path, u.RawPath = raw, ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do issues one request. in, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Op: op, Err: err}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "request_id", reqID, "error", err)
		return &Error{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("request done",
		"op", op,
		"method", method,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
