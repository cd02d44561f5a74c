// Package lightcurve holds time-series photometry types and summary
// statistics used by the lightcurve endpoints.
package lightcurve

import (
	"context"
	"math"
	"sort"
)

// Series is a photometric time series for one target. Time is in days,
// Flux is normalized to the series median.
type Series struct {
	TargetID string    `json:"target_id"`
	Sector   string    `json:"sector,omitempty"`
	Time     []float64 `json:"time"`
	Flux     []float64 `json:"flux"`
}

// Stats summarizes a series for quick-look display.
type Stats struct {
	Points     int     `json:"points"`
	SpanDays   float64 `json:"span_days"`
	MeanFlux   float64 `json:"mean_flux"`
	MedianFlux float64 `json:"median_flux"`
	StdFlux    float64 `json:"std_flux"`
	MinFlux    float64 `json:"min_flux"`
	MaxFlux    float64 `json:"max_flux"`
}

// Provider fetches photometry for a target. Implementations talk to an
// archive mirror; tests use stubs.
type Provider interface {
	Fetch(ctx context.Context, targetID string, sector string) (Series, error)
}

// Summarize computes quick-look statistics over the finite flux samples
// of a series. NaN and infinite samples are skipped.
func Summarize(s Series) Stats {
	flux := make([]float64, 0, len(s.Flux))
	for _, f := range s.Flux {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			flux = append(flux, f)
		}
	}
	if len(flux) == 0 {
		return Stats{}
	}

	st := Stats{
		Points:  len(flux),
		MinFlux: flux[0],
		MaxFlux: flux[0],
	}
	var sum float64
	for _, f := range flux {
		sum += f
		if f < st.MinFlux {
			st.MinFlux = f
		}
		if f > st.MaxFlux {
			st.MaxFlux = f
		}
	}
	st.MeanFlux = sum / float64(len(flux))

	var sq float64
	for _, f := range flux {
		d := f - st.MeanFlux
		sq += d * d
	}
	st.StdFlux = math.Sqrt(sq / float64(len(flux)))

	sorted := make([]float64, len(flux))
	copy(sorted, flux)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		st.MedianFlux = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		st.MedianFlux = sorted[mid]
	}

	if len(s.Time) > 1 {
		st.SpanDays = s.Time[len(s.Time)-1] - s.Time[0]
	}
	return st
}
