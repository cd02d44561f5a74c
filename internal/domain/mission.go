// Package domain defines the core value types shared across the ExoScout
// resolution and prediction pipeline.
package domain

import (
	"fmt"
	"strings"
)

// Mission identifies which survey a target belongs to. It selects the
// catalog table, feature schema, and trained model used downstream.
type Mission string

const (
	MissionTESS   Mission = "TESS"
	MissionKepler Mission = "KEPLER"
	MissionK2     Mission = "K2"
)

// Missions lists all supported missions in a stable order.
var Missions = []Mission{MissionTESS, MissionKepler, MissionK2}

// ParseMission normalizes a mission name (case-insensitive) to a Mission.
func ParseMission(s string) (Mission, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TESS":
		return MissionTESS, nil
	case "KEPLER":
		return MissionKepler, nil
	case "K2":
		return MissionK2, nil
	default:
		return "", NewError(KindUnrecognizedFormat, "mission", fmt.Sprintf("unsupported mission %q", s), nil)
	}
}

// String returns the canonical uppercase mission name.
func (m Mission) String() string { return string(m) }
