// Package hko retrieves raw weather pages from the Hong Kong Observatory
// website.
package hko

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/config"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
)

// maxBodySize caps page downloads; the HKO pages are well under this.
const maxBodySize = 4 << 20

// ErrorKind classifies a fetch failure.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindStatus     ErrorKind = "status"
)

// NetworkError describes a failed fetch of one resource. It is returned as a
// value for the caller to record; a failure on one resource never affects
// attempts on the others.
type NetworkError struct {
	Resource domain.Facet
	Kind     ErrorKind
	Status   int // HTTP status, set only when Kind is KindStatus
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Resource, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Resource, e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client fetches the three HKO resources over HTTP with a shared timeout and
// client-identity header.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	resources  map[domain.Facet]string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an HKO client from the configured base URL and resource
// paths.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		resources: map[domain.Facet]string{
			domain.FacetWeather:  cfg.WeatherPath,
			domain.FacetRainfall: cfg.RainfallPath,
			domain.FacetWarnings: cfg.WarningsPath,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch retrieves the raw page for one resource. Errors are *NetworkError
// values carrying the resource id and failure kind.
func (c *Client) Fetch(ctx context.Context, resource domain.Facet) ([]byte, error) {
	path, ok := c.resources[resource]
	if !ok {
		return nil, &NetworkError{
			Resource: resource,
			Kind:     KindConnection,
			Err:      fmt.Errorf("unknown resource %q", resource),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, c.fail(&NetworkError{Resource: resource, Kind: KindConnection, Err: err})
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(&NetworkError{Resource: resource, Kind: classifyTransportError(err), Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(&NetworkError{Resource: resource, Kind: KindStatus, Status: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.fail(&NetworkError{Resource: resource, Kind: KindConnection, Err: err})
	}

	c.logger.Debug("resource fetched",
		"resource", resource,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return body, nil
}

func (c *Client) fail(nerr *NetworkError) *NetworkError {
	c.metrics.FetchErrors.WithLabelValues(string(nerr.Resource), string(nerr.Kind)).Inc()
	c.logger.Warn("fetch failed",
		"resource", nerr.Resource,
		"kind", nerr.Kind,
		"error", nerr,
	)
	return nerr
}

func classifyTransportError(err error) ErrorKind {
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindConnection
}
