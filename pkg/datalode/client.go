package datalode

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/datalode-hq/datalode-go/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.datalode.io"
	// DefaultTimeout bounds each request when no override is configured.
	DefaultTimeout = 30 * time.Second

	version   = "0.3.0"
	userAgent = "datalode-go/" + version

	// downloadChunkSize is the platform's recommended streaming read size.
	downloadChunkSize = 32 * 1024

	// maxErrorBody caps how much of a failed stream response is retained.
	maxErrorBody = 64 * 1024
)

// ProgressFunc receives the cumulative number of bytes transferred so far.
type ProgressFunc func(bytes int64)

// Client is a Datalode API client. Its configuration is fixed at
// construction, which makes it safe for concurrent use.
type Client struct {
	http      *resty.Client
	baseURL   string
	token     string
	timeout   time.Duration
	userAgent string
	log       Logger
}

// Option customizes a Client during construction.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSpace(baseURL) }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient supplies a preconfigured resty client. Base URL and the
// authorization header are still applied on top of it.
func WithHTTPClient(hc *resty.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// NewClient builds a Client for the given API token. The token is
// required: construction fails with an authentication error when it is
// empty, so no unauthenticated request can leave the client.
func NewClient(token string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   DefaultBaseURL,
		token:     strings.TrimSpace(token),
		userAgent: userAgent,
		log:       noopLogger{},
	}
	if c.token == "" {
		return nil, authenticationError("new client", "API token is required")
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		timeout := c.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = httpclient.NewRestyHTTPClient(timeout)
	} else if c.timeout > 0 {
		c.http.SetTimeout(c.timeout)
	}
	c.http.SetBaseURL(c.baseURL)
	c.http.SetHeader("User-Agent", c.userAgent)
	return c, nil
}

// BaseURL reports the endpoint the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// newRequest prepares an authenticated request. The token check runs on
// every call so even a zero-value Client refuses to go out unauthenticated.
func (c *Client) newRequest(ctx context.Context, op string) (*resty.Request, error) {
	if c == nil {
		return nil, &Error{Kind: KindTransport, Op: op, Message: "client is not initialized"}
	}
	if strings.TrimSpace(c.token) == "" {
		return nil, authenticationError(op, "API token is required")
	}
	if c.http == nil {
		return nil, &Error{Kind: KindTransport, Op: op, Message: "client is not initialized"}
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token), nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	return c.finish(op, resp, err, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return err
	}
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return c.finish(op, resp, err, out)
}

func (c *Client) patchJSON(ctx context.Context, op, path string, body, out any) error {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return err
	}
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Patch(path)
	return c.finish(op, resp, err, out)
}

func (c *Client) deleteJSON(ctx context.Context, op, path string, query url.Values) error {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Delete(path)
	return c.finish(op, resp, err, nil)
}

// finish maps the outcome of a request to a typed error, decoding the
// body into out on success.
func (c *Client) finish(op string, resp *resty.Response, err error, out any) error {
	if err != nil {
		return transportError(op, err)
	}
	c.log.DebugObj("api call completed", "api_call", map[string]any{
		"op":         op,
		"status":     resp.StatusCode(),
		"elapsed_ms": resp.Time().Milliseconds(),
	})
	if resp.IsError() {
		return apiError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{
			Kind:       KindAPI,
			Op:         op,
			StatusCode: resp.StatusCode(),
			Message:    "unexpected response format",
			RawBody:    resp.Body(),
			cause:      err,
		}
	}
	return nil
}

// openStream issues a GET without buffering the response body. link may
// be a path on the API host or an absolute signed URL.
func (c *Client) openStream(ctx context.Context, op, link string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetDoNotParseResponse(true).Get(link)
	if err != nil {
		return nil, transportError(op, err)
	}
	raw := resp.RawBody()
	if resp.IsError() {
		body, _ := io.ReadAll(io.LimitReader(raw, maxErrorBody))
		raw.Close()
		return nil, &Error{
			Kind:       kindForStatus(resp.StatusCode()),
			Op:         op,
			StatusCode: resp.StatusCode(),
			Message:    serverMessage(body, resp.StatusCode()),
			RawBody:    body,
		}
	}
	return raw, nil
}

// collectStream drains rc in fixed-size chunks, reporting cumulative
// progress after each one, and closes it.
func collectStream(rc io.ReadCloser, progress ProgressFunc) ([]byte, error) {
	defer rc.Close()

	var buf bytes.Buffer
	chunk := make([]byte, downloadChunkSize)
	for {
		n, err := rc.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if progress != nil {
				progress(int64(buf.Len()))
			}
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
