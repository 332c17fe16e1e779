package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/config"
)

const baseURL = "https://api.themoviedb.org/3"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmdb_requests_total",
		Help: "TMDB API requests by operation and outcome",
	}, []string{"operation", "outcome"})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmdb_rate_limited_total",
		Help: "TMDB API calls rejected by the local rate limiter",
	}, []string{"operation"})
)

// Client handles communication with the TMDB API. Every operation consumes a
// rate-limiter permit before touching the network.
type Client struct {
	baseURL    string
	apiToken   string
	limiter    *RateLimiter
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIToken == "" {
		return nil, fmt.Errorf("TMDB API token is required")
	}

	return &Client{
		baseURL:    baseURL,
		apiToken:   cfg.TMDBAPIToken,
		limiter:    NewRateLimiter(cfg.TMDBRateQuota, time.Duration(cfg.TMDBRateWindowSec)*time.Second),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// consume takes a rate-limiter permit for the operation, recording rejects
func (c *Client) consume(operation, key string) error {
	if err := c.limiter.Consume(key); err != nil {
		rateLimitedTotal.WithLabelValues(operation).Inc()
		c.logger.WithFields(logrus.Fields{
			"operation": operation,
			"key":       key,
		}).Warn("TMDB rate limit reached")
		return err
	}
	return nil
}

// doRequest performs an authenticated GET request against the TMDB API.
// 404 maps to ErrNotFound, every other failure mode to ErrUpstream.
func (c *Client) doRequest(ctx context.Context, operation, path string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"operation": operation,
		"url":       fullURL,
	}).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("request failed: %v: %w", err, ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		requestsTotal.WithLabelValues(operation, "not_found").Inc()
		return fmt.Errorf("%s returned 404: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("%s returned status %d: %w", path, resp.StatusCode, ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("failed to decode response: %v: %w", err, ErrUpstream)
	}

	requestsTotal.WithLabelValues(operation, "ok").Inc()
	return nil
}
