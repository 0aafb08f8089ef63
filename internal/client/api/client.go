// Package api is the request pipeline to the fitness backend.
//
// Every call goes through a transport that reads the current token from a
// TokenSource at dispatch time and sets "Authorization: Bearer <token>" when
// one exists. Responses are classified into distinct errors:
//
//   - ErrAuthenticationRejected for 401; nothing signs the user out.
//   - ErrNetworkUnavailable for transport failures.
//   - *ServerError for every other non-2xx answer.
//   - ctx.Err() unchanged when the caller cancelled the call.
//
// The pipeline never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
	metrics *Metrics
}

type Option func(*Client)

// WithHTTPClient uses hc's transport and timeout as the base of the pipeline.
// hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithTimeout sets the transport-level timeout for a whole call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a Client rooted at baseURL (for example
// "http://127.0.0.1:3000/api") that authenticates with tokens.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	c := &Client{baseURL: u.String(), http: &http.Client{}, log: logging.Nop{}}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api")

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = otelhttp.NewTransport(&bearerTransport{base: base, tokens: tokens, log: c.log})

	return c, nil
}

// endpoint joins the base URL with an already escaped path.
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do performs one call: encode in, dispatch, classify, decode into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	start := time.Now()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.observe(method, outcomeCanceled, time.Since(start))
			return ctxErr
		}
		c.metrics.observe(method, outcomeNetwork, time.Since(start))
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetworkUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		c.metrics.observe(method, outcomeAuthRejected, time.Since(start))
		c.log.Warn(ctx, "credential rejected", "method", method, "path", path)
		return &rejection{message: errorMessage(resp)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.metrics.observe(method, outcomeServerError, time.Since(start))
		return &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.metrics.observe(method, outcomeOK, time.Since(start))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.observe(method, outcomeCanceled, time.Since(start))
			return ctxErr
		}
		if !isDecodeError(err) {
			c.metrics.observe(method, outcomeNetwork, time.Since(start))
			c.log.Warn(ctx, "response body interrupted", "method", method, "path", path, "error", err)
			return fmt.Errorf("%w: %s %s: read body: %w", ErrNetworkUnavailable, method, path, err)
		}
		c.metrics.observe(method, outcomeServerError, time.Since(start))
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	c.metrics.observe(method, outcomeOK, time.Since(start))
	return nil
}

// isDecodeError reports whether err came from malformed JSON rather than from
// the connection dropping while the body was read.
func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		fieldErr  *json.InvalidUnmarshalError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &fieldErr)
}

// errorMessage extracts {"message": "..."} from an error body, falling back
// to the status text.
func errorMessage(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}
