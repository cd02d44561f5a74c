// Package model loads trained classifier artifacts and applies them to
// assembled feature vectors.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/exoscout/exoscout/internal/domain"
)

// Artifact bundles everything needed to score one mission's candidates.
// Loaded once per mission and treated as read-only afterwards.
type Artifact struct {
	Mission      domain.Mission
	Scorer       *Scorer
	FeatureOrder []string
	// Tau is the decision threshold in [0,1], chosen offline to maximize
	// validation F1. Probabilities >= Tau classify as CONFIRMED.
	Tau float64
}

// Loader retrieves the artifact for a mission.
type Loader interface {
	Load(ctx context.Context, mission domain.Mission) (*Artifact, error)
}

// artifactFiles names the three files per mission, mirroring the layout the
// training jobs emit.
type artifactFiles struct {
	scorer    string
	features  string
	threshold string
}

var filesByMission = map[domain.Mission]artifactFiles{
	domain.MissionTESS: {
		scorer:    "toi_model.calibrated.json",
		features:  "toi_feature_order.json",
		threshold: "toi_threshold.json",
	},
	domain.MissionKepler: {
		scorer:    "koi_model.calibrated.json",
		features:  "koi_feature_order.json",
		threshold: "koi_threshold.json",
	},
	domain.MissionK2: {
		scorer:    "k2_model.calibrated.json",
		features:  "k2_feature_order.json",
		threshold: "k2_threshold.json",
	},
}

// FileStore loads artifacts from a directory on disk.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads and validates the three artifact files for a mission. Any
// missing or corrupt file fails the whole load with ModelUnavailable; other
// missions are unaffected.
func (s *FileStore) Load(_ context.Context, mission domain.Mission) (*Artifact, error) {
	files, ok := filesByMission[mission]
	if !ok {
		return nil, unavailable(mission, fmt.Sprintf("unsupported mission %q", mission), nil)
	}

	var scorer Scorer
	if err := readJSON(filepath.Join(s.dir, files.scorer), &scorer); err != nil {
		return nil, unavailable(mission, "load scorer", err)
	}

	var order []string
	if err := readJSON(filepath.Join(s.dir, files.features), &order); err != nil {
		return nil, unavailable(mission, "load feature order", err)
	}
	if len(order) == 0 {
		return nil, unavailable(mission, "feature order is empty", nil)
	}

	tau, err := readThreshold(filepath.Join(s.dir, files.threshold))
	if err != nil {
		return nil, unavailable(mission, "load threshold", err)
	}

	if err := scorer.validate(len(order)); err != nil {
		return nil, unavailable(mission, "scorer inconsistent with feature order", err)
	}

	return &Artifact{
		Mission:      mission,
		Scorer:       &scorer,
		FeatureOrder: order,
		Tau:          tau,
	}, nil
}

// readThreshold accepts either a bare float or a mapping carrying a
// "tau" or "threshold" key, normalizing to a single float. Any other shape
// or a value outside [0,1] is rejected rather than propagated.
func readThreshold(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var bare float64
	if err := json.Unmarshal(data, &bare); err == nil {
		return checkTau(bare)
	}

	var wrapped map[string]float64
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return 0, fmt.Errorf("threshold file %s: unrecognized shape", filepath.Base(path))
	}
	if tau, ok := wrapped["tau"]; ok {
		return checkTau(tau)
	}
	if tau, ok := wrapped["threshold"]; ok {
		return checkTau(tau)
	}
	return 0, fmt.Errorf("threshold file %s: no tau or threshold key", filepath.Base(path))
}

func checkTau(tau float64) (float64, error) {
	if tau < 0 || tau > 1 {
		return 0, fmt.Errorf("threshold %v outside [0,1]", tau)
	}
	return tau, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func unavailable(mission domain.Mission, msg string, err error) error {
	return domain.NewError(domain.KindModelUnavailable, "model.load",
		fmt.Sprintf("%s model: %s", mission, msg), err)
}
