package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exoscout/exoscout/internal/cutout"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/lightcurve"
	"github.com/exoscout/exoscout/internal/pipeline"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// FeaturesResponse carries the cleaned catalog row for a target.
type FeaturesResponse struct {
	Mission  string         `json:"mission"`
	TargetID string         `json:"target_id"`
	Features map[string]any `json:"features"`
}

// PredictResponse is the classification verdict for a target.
type PredictResponse struct {
	Mission        string         `json:"mission"`
	TargetID       string         `json:"target_id"`
	Probability    float64        `json:"probability"`
	Threshold      float64        `json:"threshold"`
	Classification string         `json:"classification"`
	UsedFeatures   map[string]any `json:"used_features,omitempty"`
}

// SectorsResponse lists the observed sectors for a target's position.
type SectorsResponse struct {
	Mission  string          `json:"mission"`
	TargetID string          `json:"target_id"`
	RA       float64         `json:"ra"`
	Dec      float64         `json:"dec"`
	Sectors  []cutout.Sector `json:"sectors"`
}

// LightcurveResponse carries a photometry series with summary statistics.
type LightcurveResponse struct {
	Series lightcurve.Series `json:"series"`
	Stats  lightcurve.Stats  `json:"stats"`
}

// statusForKind maps the pipeline error taxonomy to HTTP statuses.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindUnrecognizedFormat:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUpstream:
		return http.StatusBadGateway
	case domain.KindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toPredictResponse(result domain.PredictionResult) PredictResponse {
	return PredictResponse{
		Mission:        result.Mission.String(),
		TargetID:       result.TargetID,
		Probability:    roundProbability(result.Probability),
		Threshold:      result.Threshold,
		Classification: string(result.Classification),
		UsedFeatures:   result.UsedFeatures,
	}
}

// roundProbability rounds to four decimal places for response bodies.
func roundProbability(p float64) float64 {
	return math.Round(p*10000) / 10000
}

// respondError writes the uniform error body for a pipeline failure.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, pipeline.ErrNoPhotometrySource) {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
		return
	}
	kind := domain.KindOf(err)
	c.JSON(statusForKind(kind), ErrorResponse{
		Error: err.Error(),
		Kind:  string(kind),
	})
}
