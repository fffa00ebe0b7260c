// internal/common/http/client.go
package http

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

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/metrics"
)

// defaultMaxBodyBytes bounds GET response bodies when Config.MaxBodyBytes is 0.
const defaultMaxBodyBytes = 4 << 20

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxBodyBytes caps catalog (GET) bodies. POST bodies are read in full.
	MaxBodyBytes int64
}

// Client is a small JSON client for the eligibility service. GETs are retried
// with exponential backoff on transport errors and 5xx responses; POSTs are
// sent exactly once.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(config Config, log logger.Logger) *Client {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.Component(log, "http-client"),
	}
}

// WithHTTPClient swaps the underlying transport, used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// GetRaw issues a GET to path (joined with the base URL) and returns the body
// of a 2xx response.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.endpoint(path, query)

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.config.RetryBackoff * time.Duration(1<<(attempt-1))
			c.logger.Warn("retrying request", map[string]interface{}{
				"endpoint": path,
				"attempt":  attempt,
				"backoff":  backoff.String(),
				"error":    lastErr,
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, apperrors.NewNetworkError(path, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, apperrors.NewNetworkError(path, err)
		}
		req.Header.Set("Accept", "application/json")

		body, err := c.do(req, path, c.config.MaxBodyBytes)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// GetJSON is GetRaw followed by a decode into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.GetRaw(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewResponseShapeError(path, err.Error())
	}
	return nil
}

// PostJSON sends in as JSON and returns the raw 2xx body, however large. It
// is never retried.
func (c *Client) PostJSON(ctx context.Context, path string, in interface{}) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewNetworkError(path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, path, 0)
}

// do sends req and reads the body. A positive limit rejects bodies longer
// than limit bytes with a response shape error; 0 reads everything.
func (c *Client) do(req *http.Request, path string, limit int64) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, apperrors.NewNetworkError(path, unwrapURLError(err))
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, apperrors.NewNetworkError(path, err)
	}
	if limit > 0 && int64(len(body)) > limit {
		metrics.RemoteRequestsTotal.WithLabelValues(path, "too_large").Inc()
		return nil, apperrors.NewResponseShapeError(path, fmt.Sprintf("response body exceeds %d bytes", limit))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RemoteRequestsTotal.WithLabelValues(path, "server_error").Inc()
		c.logger.Warn("non-success response", map[string]interface{}{
			"endpoint": path,
			"status":   resp.StatusCode,
		})
		return nil, apperrors.NewServerError(path, resp.StatusCode, string(body))
	}

	metrics.RemoteRequestsTotal.WithLabelValues(path, "ok").Inc()
	c.logger.Debug("request completed", map[string]interface{}{
		"endpoint": path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})
	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func retryable(err error) bool {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// unwrapURLError strips the "Get \"http://...\":" prefix net/http adds so the
// surfaced message is the underlying cause.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
