package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alex-user-go/getaway/internal/middleware"
	"github.com/alex-user-go/getaway/internal/normalize"
	"github.com/alex-user-go/getaway/internal/obs"
	"github.com/alex-user-go/getaway/internal/search/ratelimit"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// Client calls the booking API over JSON-over-HTTP POST.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	metrics    *obs.Metrics
	logger     *slog.Logger
}

// NewClient creates a new Client. A nil limiter disables throttling.
func NewClient(baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, metrics *obs.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: middleware.Logging(logger)(http.DefaultTransport),
		},
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

// BaseURL returns the booking API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends body as JSON to endpoint and returns the response body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, 0, time.Since(start).Seconds())
		c.metrics.IncUpstreamErrors(endpoint)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Explicitly ignore close error
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.ObserveRequest(endpoint, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		c.metrics.IncUpstreamErrors(endpoint)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncUpstreamErrors(endpoint)
		return nil, &types.UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    normalize.ErrorMessage(respBody, resp.StatusCode),
		}
	}

	return respBody, nil
}
