package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exoscout/exoscout/internal/cutout"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/lightcurve"
	"github.com/exoscout/exoscout/internal/logger"
	"github.com/exoscout/exoscout/internal/model"
	"github.com/exoscout/exoscout/internal/pipeline"
	"github.com/exoscout/exoscout/internal/telemetry"
)

// stubVetting implements Vetting with function fields so each test can
// inject exactly the behavior it needs.
type stubVetting struct {
	resolve    func(ctx context.Context, raw string) (domain.Resolution, error)
	features   func(ctx context.Context, mission domain.Mission, id string) (map[string]any, error)
	predict    func(ctx context.Context, mission domain.Mission, id string) (domain.PredictionResult, error)
	status     func(ctx context.Context) map[domain.Mission]model.Status
	sectors    func(ctx context.Context, mission domain.Mission, id string) (float64, float64, []cutout.Sector, error)
	lightcurve func(ctx context.Context, mission domain.Mission, id, sector string) (lightcurve.Series, lightcurve.Stats, error)
}

func (s *stubVetting) Resolve(ctx context.Context, raw string) (domain.Resolution, error) {
	return s.resolve(ctx, raw)
}

func (s *stubVetting) Features(ctx context.Context, mission domain.Mission, id string) (map[string]any, error) {
	return s.features(ctx, mission, id)
}

func (s *stubVetting) Predict(ctx context.Context, mission domain.Mission, id string) (domain.PredictionResult, error) {
	return s.predict(ctx, mission, id)
}

func (s *stubVetting) ModelStatus(ctx context.Context) map[domain.Mission]model.Status {
	return s.status(ctx)
}

func (s *stubVetting) Sectors(ctx context.Context, mission domain.Mission, id string) (float64, float64, []cutout.Sector, error) {
	return s.sectors(ctx, mission, id)
}

func (s *stubVetting) Lightcurve(ctx context.Context, mission domain.Mission, id, sector string) (lightcurve.Series, lightcurve.Stats, error) {
	return s.lightcurve(ctx, mission, id, sector)
}

var testTelemetry = telemetry.NewProvider()

func newTestRouter(v Vetting) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(v, "exoscout", "test", logger.NewNop())
	SetupRoutes(router, handler, testTelemetry)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestResolveEndpoint(t *testing.T) {
	v := &stubVetting{
		resolve: func(_ context.Context, raw string) (domain.Resolution, error) {
			assert.Equal(t, "KOI-752.01", raw)
			return domain.Resolution{
				Mission:        domain.MissionKepler,
				Target:         raw,
				OriginalTarget: raw,
				TargetID:       "10666592",
			}, nil
		},
	}
	w, body := doRequest(t, newTestRouter(v), "/api/v1/resolve/KOI-752.01")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "KEPLER", body["mission"])
	assert.Equal(t, "10666592", body["numeric_id"])
}

func TestResolveEndpoint_UnrecognizedFormat(t *testing.T) {
	v := &stubVetting{
		resolve: func(_ context.Context, raw string) (domain.Resolution, error) {
			return domain.Resolution{}, domain.NewError(domain.KindUnrecognizedFormat,
				"target.parse", "unrecognized target", nil)
		},
	}
	w, body := doRequest(t, newTestRouter(v), "/api/v1/resolve/bogus")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unrecognized_format", body["kind"])
}

func TestPredictEndpoint(t *testing.T) {
	v := &stubVetting{
		predict: func(_ context.Context, mission domain.Mission, id string) (domain.PredictionResult, error) {
			assert.Equal(t, domain.MissionKepler, mission)
			return domain.PredictionResult{
				Mission:        mission,
				TargetID:       id,
				Probability:    0.81757448,
				Threshold:      0.5,
				Classification: domain.Confirmed,
				UsedFeatures:   map[string]any{"koi_period": 9.49},
			}, nil
		},
	}
	// Mission segment is case-insensitive.
	w, body := doRequest(t, newTestRouter(v), "/api/v1/predict/kepler/10666592")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRMED", body["classification"])
	assert.Equal(t, 0.8176, body["probability"])
	assert.Equal(t, 0.5, body["threshold"])
}

func TestPredictEndpoint_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		kind domain.Kind
		want int
	}{
		{"not found", domain.KindNotFound, http.StatusNotFound},
		{"upstream", domain.KindUpstream, http.StatusBadGateway},
		{"model unavailable", domain.KindModelUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &stubVetting{
				predict: func(_ context.Context, _ domain.Mission, _ string) (domain.PredictionResult, error) {
					return domain.PredictionResult{}, domain.NewError(tc.kind, "test", "boom", nil)
				},
			}
			w, body := doRequest(t, newTestRouter(v), "/api/v1/predict/TESS/307210830")

			assert.Equal(t, tc.want, w.Code)
			assert.Equal(t, string(tc.kind), body["kind"])
		})
	}
}

func TestPredictEndpoint_BadMission(t *testing.T) {
	w, _ := doRequest(t, newTestRouter(&stubVetting{}), "/api/v1/predict/JWST/1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeaturesEndpoint(t *testing.T) {
	v := &stubVetting{
		features: func(_ context.Context, mission domain.Mission, id string) (map[string]any, error) {
			return map[string]any{"pl_orbper": 3.69}, nil
		},
	}
	w, body := doRequest(t, newTestRouter(v), "/api/v1/features/TESS/307210830")

	assert.Equal(t, http.StatusOK, w.Code)
	features, ok := body["features"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3.69, features["pl_orbper"])
}

func TestModelsStatusEndpoint(t *testing.T) {
	v := &stubVetting{
		status: func(_ context.Context) map[domain.Mission]model.Status {
			return map[domain.Mission]model.Status{
				domain.MissionTESS:   {Available: true, Features: 10, Threshold: 0.5},
				domain.MissionKepler: {Available: false, Error: "artifact missing"},
			}
		},
	}
	w, body := doRequest(t, newTestRouter(v), "/api/v1/predict/models/status")

	assert.Equal(t, http.StatusOK, w.Code)
	models, ok := body["models"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, models, 2)
}

func TestLightcurveEndpoint_NotConfigured(t *testing.T) {
	v := &stubVetting{
		lightcurve: func(_ context.Context, _ domain.Mission, _, _ string) (lightcurve.Series, lightcurve.Stats, error) {
			return lightcurve.Series{}, lightcurve.Stats{}, pipeline.ErrNoPhotometrySource
		},
	}
	w, _ := doRequest(t, newTestRouter(v), "/api/v1/lightcurve/TESS/307210830")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestSectorsEndpoint(t *testing.T) {
	v := &stubVetting{
		sectors: func(_ context.Context, _ domain.Mission, _ string) (float64, float64, []cutout.Sector, error) {
			return 124.53, -12.78, []cutout.Sector{{Sector: "7"}}, nil
		},
	}
	w, body := doRequest(t, newTestRouter(v), "/api/v1/sectors/TESS/307210830")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 124.53, body["ra"])
}

func TestHealthEndpoint(t *testing.T) {
	w, body := doRequest(t, newTestRouter(&stubVetting{}), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestReadyEndpoint(t *testing.T) {
	v := &stubVetting{
		status: func(_ context.Context) map[domain.Mission]model.Status {
			return map[domain.Mission]model.Status{domain.MissionTESS: {Available: true}}
		},
	}
	w, _ := doRequest(t, newTestRouter(v), "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	down := &stubVetting{
		status: func(_ context.Context) map[domain.Mission]model.Status {
			return map[domain.Mission]model.Status{domain.MissionTESS: {Available: false}}
		},
	}
	w, _ = doRequest(t, newTestRouter(down), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
