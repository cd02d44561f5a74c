package model

import (
	"fmt"
	"math"
)

// Node is one decision node in a boosted tree. Non-leaf nodes route on
// vector[Feature] < Threshold; missing features arrive as the assembler's
// sentinel and route like any other value, matching training.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// Tree is a single regression tree, nodes indexed from the root at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Calibration maps the raw boosted margin to a probability via a fitted
// sigmoid: p = 1 / (1 + exp(-(slope*margin + intercept))).
type Calibration struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Scorer is a calibrated gradient-boosted tree ensemble. Read-only after
// load; safe for concurrent use.
type Scorer struct {
	ModelType   string      `json:"model_type"`
	BaseScore   float64     `json:"base_score"`
	Calibration Calibration `json:"calibration"`
	Trees       []Tree      `json:"trees"`
}

// Score returns the calibrated positive-class probability for a feature
// vector. Deterministic: same artifact and vector always yield the same
// probability.
func (s *Scorer) Score(vector []float64) float64 {
	margin := s.BaseScore
	for i := range s.Trees {
		margin += s.Trees[i].eval(vector)
	}

	p := 1.0 / (1.0 + math.Exp(-(s.Calibration.Slope*margin + s.Calibration.Intercept)))
	// Guard against FP drift at the extremes.
	return math.Min(1.0, math.Max(0.0, p))
}

func (t *Tree) eval(vector []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value
		}
		if vector[node.Feature] < node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// validate checks structural soundness against the artifact's feature
// count so Score can walk trees without bounds checks.
func (s *Scorer) validate(numFeatures int) error {
	if len(s.Trees) == 0 {
		return fmt.Errorf("scorer has no trees")
	}
	if s.Calibration.Slope == 0 {
		return fmt.Errorf("scorer calibration slope is zero")
	}
	for ti, tree := range s.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= numFeatures {
				return fmt.Errorf("tree %d node %d references feature %d of %d", ti, ni, node.Feature, numFeatures)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) || node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has out-of-range children", ti, ni)
			}
			// Children must come after their parent so evaluation terminates.
			if node.Left <= ni || node.Right <= ni {
				return fmt.Errorf("tree %d node %d has backward children", ti, ni)
			}
		}
	}
	return nil
}
