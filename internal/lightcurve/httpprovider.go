package lightcurve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/exoscout/exoscout/internal/archive"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
)

// ErrUnavailable indicates the photometry service is unreachable.
var ErrUnavailable = errors.New("photometry service unavailable")

// HTTPProvider fetches photometry series from a JSON photometry mirror.
type HTTPProvider struct {
	baseURL string
	httpc   *http.Client
	log     logger.Logger
}

// NewHTTPProvider creates a provider against the given base URL.
func NewHTTPProvider(baseURL string, log logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		httpc:   archive.NewHTTPClient(0),
		log:     log,
	}
}

// Fetch retrieves the photometry series for a target, optionally limited
// to a single sector.
func (p *HTTPProvider) Fetch(ctx context.Context, targetID, sector string) (Series, error) {
	endpoint := fmt.Sprintf("%s/lightcurve/%s", p.baseURL, url.PathEscape(targetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Series{}, domain.NewError(domain.KindUpstream, "lightcurve.fetch",
			"building photometry request", err)
	}
	if sector != "" {
		q := req.URL.Query()
		q.Set("sector", sector)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return Series{}, domain.NewError(domain.KindUpstream, "lightcurve.fetch",
			"querying photometry service", fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Series{}, domain.NewError(domain.KindNotFound, "lightcurve.fetch",
			fmt.Sprintf("no photometry for target %s", targetID), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Series{}, domain.NewError(domain.KindUpstream, "lightcurve.fetch",
			fmt.Sprintf("photometry service returned status %d", resp.StatusCode), ErrUnavailable)
	}

	var series Series
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return Series{}, domain.NewError(domain.KindUpstream, "lightcurve.fetch",
			"decoding photometry response", err)
	}
	if series.TargetID == "" {
		series.TargetID = targetID
	}
	if series.Sector == "" {
		series.Sector = sector
	}

	p.log.Debug("photometry fetched",
		logger.String("target_id", targetID),
		logger.Int("points", len(series.Time)))
	return series, nil
}
