package backend

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"fitflow/internal/adapters/cache"
	"fitflow/internal/adapters/http/perf"
)

// DefaultSlowCallMs is the default threshold for slow backend call warnings.
const DefaultSlowCallMs = 300

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 4 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // per call; 0 means no timeout
	SlowCallMs int
	Cache      cache.Cache // nil disables caching
	CacheTTL   time.Duration
	Collector  *perf.Collector
	Metrics    *Metrics
}

// Client calls the FitFlow REST API on behalf of one viewer per call.
// Safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	timeout   time.Duration
	slowMs    float64
	cache     cache.Cache
	cacheTTL  time.Duration
	collector *perf.Collector
	metrics   *Metrics
}

// New creates a client for the API at opts.BaseURL.
// PRE: opts.BaseURL is an absolute URL
// POST: returns a ready client or an error describing the bad URL
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("backend url %q must be absolute", opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	slow := opts.SlowCallMs
	if slow <= 0 {
		slow = DefaultSlowCallMs
	}
	return &Client{
		base:      base,
		http:      httpClient,
		timeout:   opts.Timeout,
		slowMs:    float64(slow),
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		collector: opts.Collector,
		metrics:   opts.Metrics,
	}, nil
}

// call describes one outbound request.
type call struct {
	method  string
	route   string // path template, used for logs and metric labels
	path    string // escaped path relative to the base URL
	token   string
	body    any
	headers map[string]string
}

// send performs the request and returns the 2xx body.
// Non-2xx responses become *APIError; transport failures are wrapped.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", cl.method, cl.route, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.base.JoinPath(cl.path).String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", cl.method, cl.route, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(cl, 0, start)
		return nil, fmt.Errorf("backend %s %s: %w", cl.method, cl.route, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.record(cl, resp.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", cl.method, cl.route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method: cl.method,
			Route:  cl.route,
			Status: resp.StatusCode,
			Codes:  parseCodes(body),
		}
	}
	return body, nil
}

// record logs and measures one completed or failed call.
func (c *Client) record(cl call, status int, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	if durationMs >= c.slowMs {
		slog.Warn("slow_backend_call", "method", cl.method, "route", cl.route, "status", status, "duration_ms", durationMs)
	} else {
		slog.Debug("backend_call", "method", cl.method, "route", cl.route, "status", status, "duration_ms", durationMs)
	}
	c.metrics.observe(cl.method, cl.route, strconv.Itoa(status), durationMs/1000)
	if c.collector != nil {
		c.collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       cl.method + " " + cl.route,
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// do sends cl and decodes a JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	return decode(cl, body, out)
}

func decode(cl call, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", cl.method, cl.route, err)
	}
	return nil
}

// cachedGet answers a read from the cache when possible.
// Cache failures are logged and the call falls through to the backend.
// INVARIANT: only 2xx bodies are stored
func (c *Client) cachedGet(ctx context.Context, resource string, cl call, out any) error {
	if c.cache == nil || c.cacheTTL <= 0 {
		return c.do(ctx, cl, out)
	}
	gen, err := c.cache.Generation(ctx, resource)
	if err != nil {
		slog.Warn("cache_error", "op", "generation", "resource", resource, "error", err.Error())
		return c.do(ctx, cl, out)
	}
	key := cache.Key(resource, gen, viewerKey(cl.token), cl.path)

	start := time.Now()
	cached, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache_error", "op", "get", "resource", resource, "error", err.Error())
	}
	if ok {
		if decodeErr := decode(cl, cached, out); decodeErr == nil {
			c.metrics.cacheLookup(resource, "hit")
			if c.collector != nil {
				c.collector.Record(perf.Entry{
					Kind:       perf.KindBackend,
					Path:       cl.method + " " + cl.route,
					StatusCode: http.StatusOK,
					DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
					CacheHit:   true,
					Timestamp:  start,
				})
			}
			return nil
		}
	}
	c.metrics.cacheLookup(resource, "miss")

	body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if err := decode(cl, body, out); err != nil {
		return err
	}
	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		slog.Warn("cache_error", "op", "set", "resource", resource, "error", err.Error())
	}
	return nil
}

// invalidate bumps the generation of every resource a mutation touched.
func (c *Client) invalidate(ctx context.Context, resources ...string) {
	if c.cache == nil {
		return
	}
	for _, r := range resources {
		if err := c.cache.Bump(ctx, r); err != nil {
			slog.Warn("cache_error", "op", "bump", "resource", r, "error", err.Error())
		}
	}
}

// mutate sends a state-changing call and invalidates resources on success.
func (c *Client) mutate(ctx context.Context, cl call, out any, resources ...string) error {
	if err := c.do(ctx, cl, out); err != nil {
		return err
	}
	c.invalidate(ctx, resources...)
	return nil
}

// viewerKey derives a stable cache identity from a bearer token
// without putting the token itself into cache keys.
func viewerKey(token string) string {
	if token == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:12])
}

// seg escapes one path segment.
func seg(s string) string {
	return url.PathEscape(s)
}
