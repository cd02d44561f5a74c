package model

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
)

// Metrics receives per-mission load outcomes. A nil value disables
// recording.
type Metrics interface {
	RecordModelLoad(mission, outcome string)
}

// Service owns the per-mission artifact cache. Artifacts load lazily, at
// most once per mission for the process lifetime; concurrent first loads
// for the same mission collapse into a single loader call.
type Service struct {
	loader  Loader
	metrics Metrics
	log     logger.Logger

	mu    sync.RWMutex
	cache map[domain.Mission]*Artifact
	group singleflight.Group
}

// NewService creates a classifier service backed by the given loader.
func NewService(loader Loader, metrics Metrics, log logger.Logger) *Service {
	return &Service{
		loader:  loader,
		metrics: metrics,
		log:     log,
		cache:   make(map[domain.Mission]*Artifact),
	}
}

// Load returns the cached artifact for a mission, loading it on first use.
// Failed loads are not cached, so a mission becomes usable again as soon as
// its artifact files are restored.
func (s *Service) Load(ctx context.Context, mission domain.Mission) (*Artifact, error) {
	s.mu.RLock()
	artifact, ok := s.cache[mission]
	s.mu.RUnlock()
	if ok {
		return artifact, nil
	}

	v, err, _ := s.group.Do(string(mission), func() (any, error) {
		// Re-check under the flight: a prior flight may have populated it.
		s.mu.RLock()
		cached, ok := s.cache[mission]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := s.loader.Load(ctx, mission)
		if err != nil {
			s.recordLoad(mission, "error")
			return nil, err
		}
		s.recordLoad(mission, "ok")

		s.mu.Lock()
		s.cache[mission] = loaded
		s.mu.Unlock()

		s.log.Info("model artifact loaded",
			logger.String("mission", mission.String()),
			logger.Int("features", len(loaded.FeatureOrder)),
			logger.Float64("threshold", loaded.Tau),
		)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

func (s *Service) recordLoad(mission domain.Mission, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordModelLoad(mission.String(), outcome)
	}
}

// Predict scores an assembled feature vector against an artifact.
// Classification uses non-strict >= at the threshold boundary.
func (s *Service) Predict(artifact *Artifact, vector []float64) domain.PredictionResult {
	probability := artifact.Scorer.Score(vector)

	classification := domain.FalsePositive
	if probability >= artifact.Tau {
		classification = domain.Confirmed
	}

	s.log.Info("prediction computed",
		logger.String("mission", artifact.Mission.String()),
		logger.Float64("probability", probability),
		logger.String("classification", string(classification)),
	)

	return domain.PredictionResult{
		Mission:        artifact.Mission,
		Probability:    probability,
		Threshold:      artifact.Tau,
		Classification: classification,
	}
}

// Status reports per-mission artifact availability for the models status
// endpoint. A load attempt is made for any mission not yet cached.
type Status struct {
	Available bool    `json:"available"`
	Features  int     `json:"features_count,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// MissionStatus returns availability for every supported mission.
func (s *Service) MissionStatus(ctx context.Context) map[domain.Mission]Status {
	statuses := make(map[domain.Mission]Status, len(domain.Missions))
	for _, mission := range domain.Missions {
		artifact, err := s.Load(ctx, mission)
		if err != nil {
			statuses[mission] = Status{Available: false, Error: err.Error()}
			continue
		}
		statuses[mission] = Status{
			Available: true,
			Features:  len(artifact.FeatureOrder),
			Threshold: artifact.Tau,
		}
	}
	return statuses
}
