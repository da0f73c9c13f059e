// Package client pushes samples from a training process to a running dashboard
package client

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

	"github.com/jpillora/backoff"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 5
)

// StatusError is returned when the dashboard answers with a non success status
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Unwrap maps well known statuses onto the core errors
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		if strings.HasPrefix(e.Path, "/api/metrics/") {
			return core.ErrUnknownMetric
		}
		return core.ErrBackupNotFound
	case http.StatusBadRequest:
		return core.ErrInvalidValue
	}
	return nil
}

func (e *StatusError) retryable() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// Client talks to the dashboard HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
	attempts   int
	minBackoff time.Duration
	maxBackoff time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetries sets how many times a request is tried before giving up
func WithRetries(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// WithBackoff sets the wait bounds between attempts
func WithBackoff(lower, upper time.Duration) Option {
	return func(c *Client) {
		c.minBackoff = lower
		c.maxBackoff = upper
	}
}

// New creates a client for the dashboard at baseURL, e.g. http://localhost:8080
func New(baseURL string, log logger.Logger, options ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
		attempts:   defaultAttempts,
		minBackoff: 100 * time.Millisecond,
		maxBackoff: 1 * time.Second,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Meter appends a sample to a metric
func (c *Client) Meter(ctx context.Context, name string, value float64) error {
	return c.do(ctx, http.MethodPost, "/api/metrics/"+url.PathEscape(name), map[string]float64{"value": value}, nil)
}

// Log appends a line to the training log
func (c *Client) Log(ctx context.Context, message string) error {
	return c.do(ctx, http.MethodPost, "/api/logs", map[string]string{"message": message}, nil)
}

// Backup asks the dashboard to back up the current training state
func (c *Client) Backup(ctx context.Context) (core.BackupSummary, error) {
	var summary core.BackupSummary
	err := c.do(ctx, http.MethodPost, "/api/backups", nil, &summary)
	return summary, err
}

// Config returns the live configuration values
func (c *Client) Config(ctx context.Context) (map[string]any, error) {
	var response struct {
		Config map[string]any `json:"config"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &response); err != nil {
		return nil, err
	}
	return response.Config, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	retry := &backoff.Backoff{
		Min:    c.minBackoff,
		Max:    c.maxBackoff,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		err = c.send(ctx, method, path, payload, out)
		if err == nil || !retryable(err) || attempt == c.attempts {
			break
		}

		wait := retry.Duration()
		c.log.WithError(err).Warnf("Request %s %s failed, retrying in %s", method, path, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return err
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		content, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   response.StatusCode,
			Body:   strings.TrimSpace(string(content)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// retryable reports whether err may go away on a later attempt
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.retryable()
	}

	// transport errors: connection refused, reset, timeouts
	return true
}
