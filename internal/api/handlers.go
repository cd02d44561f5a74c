package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exoscout/exoscout/internal/cutout"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/lightcurve"
	"github.com/exoscout/exoscout/internal/logger"
	"github.com/exoscout/exoscout/internal/model"
)

// Vetting is the pipeline capability the HTTP layer depends on.
type Vetting interface {
	Resolve(ctx context.Context, rawTarget string) (domain.Resolution, error)
	Features(ctx context.Context, mission domain.Mission, targetID string) (map[string]any, error)
	Predict(ctx context.Context, mission domain.Mission, targetID string) (domain.PredictionResult, error)
	ModelStatus(ctx context.Context) map[domain.Mission]model.Status
	Sectors(ctx context.Context, mission domain.Mission, targetID string) (ra, dec float64, sectors []cutout.Sector, err error)
	Lightcurve(ctx context.Context, mission domain.Mission, targetID, sector string) (lightcurve.Series, lightcurve.Stats, error)
}

// Handler handles HTTP requests for the vetting API
type Handler struct {
	pipeline Vetting
	service  string
	version  string
	started  time.Time
	logger   logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(pipeline Vetting, service, version string, log logger.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		service:  service,
		version:  version,
		started:  time.Now(),
		logger:   log,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// ReadyCheck handles GET /ready. The service is ready once at least one
// mission model is loadable.
func (h *Handler) ReadyCheck(c *gin.Context) {
	statuses := h.pipeline.ModelStatus(c.Request.Context())
	for _, st := range statuses {
		if st.Available {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no models available"})
}

// Resolve handles GET /api/v1/resolve/:target
func (h *Handler) Resolve(c *gin.Context) {
	raw := c.Param("target")

	res, err := h.pipeline.Resolve(c.Request.Context(), raw)
	if err != nil {
		h.logger.Warn("resolution failed",
			logger.String("target", raw),
			logger.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Features handles GET /api/v1/features/:mission/:target_id
func (h *Handler) Features(c *gin.Context) {
	mission, ok := h.missionParam(c)
	if !ok {
		return
	}
	targetID := c.Param("target_id")

	row, err := h.pipeline.Features(c.Request.Context(), mission, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FeaturesResponse{
		Mission:  mission.String(),
		TargetID: targetID,
		Features: row,
	})
}

// Predict handles GET /api/v1/predict/:mission/:target_id
func (h *Handler) Predict(c *gin.Context) {
	mission, ok := h.missionParam(c)
	if !ok {
		return
	}
	targetID := c.Param("target_id")

	result, err := h.pipeline.Predict(c.Request.Context(), mission, targetID)
	if err != nil {
		h.logger.Warn("prediction failed",
			logger.String("mission", mission.String()),
			logger.String("target_id", targetID),
			logger.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPredictResponse(result))
}

// ModelsStatus handles GET /api/v1/predict/models/status
func (h *Handler) ModelsStatus(c *gin.Context) {
	statuses := h.pipeline.ModelStatus(c.Request.Context())

	models := make(map[string]model.Status, len(statuses))
	for mission, st := range statuses {
		models[mission.String()] = st
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

// Sectors handles GET /api/v1/sectors/:mission/:target_id
func (h *Handler) Sectors(c *gin.Context) {
	mission, ok := h.missionParam(c)
	if !ok {
		return
	}
	targetID := c.Param("target_id")

	ra, dec, sectors, err := h.pipeline.Sectors(c.Request.Context(), mission, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SectorsResponse{
		Mission:  mission.String(),
		TargetID: targetID,
		RA:       ra,
		Dec:      dec,
		Sectors:  sectors,
	})
}

// Lightcurve handles GET /api/v1/lightcurve/:mission/:target_id
func (h *Handler) Lightcurve(c *gin.Context) {
	mission, ok := h.missionParam(c)
	if !ok {
		return
	}
	targetID := c.Param("target_id")
	sector := c.Query("sector")

	series, stats, err := h.pipeline.Lightcurve(c.Request.Context(), mission, targetID, sector)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LightcurveResponse{Series: series, Stats: stats})
}

// missionParam parses the :mission path segment, writing a 400 on failure.
func (h *Handler) missionParam(c *gin.Context) (domain.Mission, bool) {
	mission, err := domain.ParseMission(c.Param("mission"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return mission, true
}
