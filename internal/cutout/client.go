// Package cutout queries the TESSCut service for the sectors in which a
// sky position was observed.
package cutout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/exoscout/exoscout/internal/archive"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
)

// ErrUnavailable indicates the cutout service is unreachable.
var ErrUnavailable = errors.New("cutout service unavailable")

// Sector is one observed sector for a sky position.
type Sector struct {
	SectorName string `json:"sectorName"`
	Sector     string `json:"sector"`
	Camera     string `json:"camera"`
	CCD        string `json:"ccd"`
}

type sectorsResponse struct {
	Results []Sector `json:"results"`
}

// SectorLister reports the sectors covering a sky position.
type SectorLister interface {
	Sectors(ctx context.Context, ra, dec float64) ([]Sector, error)
}

// Client is an HTTP client for the TESSCut sector API.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     logger.Logger
}

// NewClient creates a TESSCut client against the given base URL. A zero
// timeout falls back to the shared default.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   archive.NewHTTPClient(timeout),
		log:     log,
	}
}

// Sectors lists the sectors observed at the given coordinates.
func (c *Client) Sectors(ctx context.Context, ra, dec float64) ([]Sector, error) {
	endpoint := fmt.Sprintf("%s/sectors", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "cutout.sectors",
			"building sector request", err)
	}

	params := url.Values{}
	params.Set("ra", strconv.FormatFloat(ra, 'f', -1, 64))
	params.Set("dec", strconv.FormatFloat(dec, 'f', -1, 64))
	req.URL.RawQuery = params.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "cutout.sectors",
			"querying sector service", fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewError(domain.KindUpstream, "cutout.sectors",
			fmt.Sprintf("sector service returned status %d", resp.StatusCode), ErrUnavailable)
	}

	var body sectorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewError(domain.KindUpstream, "cutout.sectors",
			"decoding sector response", err)
	}

	c.log.Debug("sector lookup complete",
		logger.Float64("ra", ra),
		logger.Float64("dec", dec),
		logger.Int("sectors", len(body.Results)))
	return body.Results, nil
}
