// Package gymapi is the typed client of the gym REST API.
package gymapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymadmin/internal/adapters/http/perf"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultSlowCallMs is the default threshold for slow API call warnings.
const DefaultSlowCallMs = 500

// ErrUnreachable wraps transport failures and undecodable responses.
var ErrUnreachable = errors.New("gym api unreachable")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gym api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gym api: status %d", e.Status)
}

// Config holds client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // 0 disables the per-call timeout
	SlowCallMs int
	Collector  *perf.Collector
	HTTPClient *http.Client // optional; overrides Timeout
}

// Client calls the gym REST API. Safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	collector *perf.Collector
	threshold float64
}

// New creates a client.
// PRE: cfg.BaseURL is an absolute URL or empty
// POST: Returns a ready-to-use client
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	slow := cfg.SlowCallMs
	if slow <= 0 {
		slow = DefaultSlowCallMs
	}
	return &Client{
		baseURL:   base,
		http:      hc,
		collector: cfg.Collector,
		threshold: float64(slow),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request. A nil out discards the response body.
// PRE: path starts with "/"
// POST: Returns ErrUnreachable (wrapped) on transport or decode failure, *APIError on non-2xx
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.record(method, path, reqID, status, start)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnreachable, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrUnreachable, method, path, err)
	}
	return nil
}

// errorMessage extracts "error", else "message", from an error body.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// record logs and optionally records an outbound call timing.
func (c *Client) record(method, path, reqID string, status int, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	if durationMs >= c.threshold {
		slog.Warn("slow_api_call",
			"request_id", reqID,
			"method", method,
			"path", path,
			"status", status,
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("api_call",
			"request_id", reqID,
			"method", method,
			"path", path,
			"status", status,
			"duration_ms", durationMs,
		)
	}
	if c.collector != nil {
		c.collector.Record(perf.Entry{
			Kind:       perf.KindAPICall,
			Path:       method + " " + routeOf(path),
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// routeOf collapses numeric path segments so timings aggregate per endpoint.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
