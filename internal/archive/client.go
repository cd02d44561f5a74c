// Package archive provides the TAP query client for the NASA Exoplanet
// Archive. It is the only network boundary the resolution pipeline touches
// besides the cutout service.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
)

// ErrUnavailable indicates the archive is unreachable or returned a
// protocol-level failure.
var ErrUnavailable = errors.New("exoplanet archive unavailable")

// Querier is the archive lookup capability the resolver and pipeline
// consume. An empty row set is not an error at this layer; callers decide
// whether zero rows means NotFound.
type Querier interface {
	Query(ctx context.Context, query string) ([]domain.CatalogRecord, error)
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS and Burst bound outbound query rate. Zero values fall back to
	// a conservative default.
	RPS   int
	Burst int
}

const defaultRPS = 10

// Metrics receives archive round-trip outcomes. A nil value disables
// recording.
type Metrics interface {
	RecordArchiveQuery(outcome string, duration time.Duration)
}

// Client executes synchronous TAP queries over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	metrics Metrics
	log     logger.Logger
}

// NewClient creates a TAP client.
func NewClient(cfg Config, metrics Metrics, log logger.Logger) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = rps
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    NewHTTPClient(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
		log:     log,
	}
}

// Query runs a TAP query and decodes the JSON row set. Transport failures
// and non-2xx responses surface as Upstream-tagged errors; an empty result
// decodes to an empty slice.
func (c *Client) Query(ctx context.Context, query string) ([]domain.CatalogRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewError(domain.KindUpstream, "archive.query", "rate limiter wait", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "archive.query", "build request", err)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("error", started)
		return nil, domain.NewError(domain.KindUpstream, "archive.query",
			"execute TAP query", fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.observe("error", started)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error("archive TAP query failed",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)),
		)
		return nil, domain.NewError(domain.KindUpstream, "archive.query",
			fmt.Sprintf("TAP query returned status %d", resp.StatusCode), ErrUnavailable)
	}

	var rows []domain.CatalogRecord
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		c.observe("error", started)
		return nil, domain.NewError(domain.KindUpstream, "archive.query", "decode TAP response", err)
	}
	c.observe("ok", started)

	c.log.Debug("archive TAP query completed", logger.Int("rows", len(rows)))
	return rows, nil
}

func (c *Client) observe(outcome string, started time.Time) {
	if c.metrics != nil {
		c.metrics.RecordArchiveQuery(outcome, time.Since(started))
	}
}
