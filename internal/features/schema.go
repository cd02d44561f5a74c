// Package features assembles fixed-order numeric feature vectors from raw
// archive attribute mappings.
package features

import (
	"fmt"

	"github.com/exoscout/exoscout/internal/domain"
)

// Default feature schemas per mission, in training order. The authoritative
// order for inference ships with each mission's model artifact; these lists
// describe the training columns and back the /features coverage report.
var (
	tessFeatureOrder = []string{
		"pl_orbper",   // orbital period [days]
		"pl_trandurh", // transit duration [hours]
		"pl_trandep",  // transit depth [ppm]
		"pl_rade",     // planet radius [Earth radii]
		"pl_insol",    // insolation flux [Earth flux]
		"pl_eqt",      // equilibrium temperature [K]
		"st_teff",     // stellar effective temperature [K]
		"st_logg",     // stellar surface gravity [log10(cm/s^2)]
		"st_rad",      // stellar radius [Solar radii]
		"st_tmag",     // TESS magnitude
	}

	keplerFeatureOrder = []string{
		"koi_period",
		"koi_duration",
		"koi_depth",
		"koi_model_snr",
		"koi_impact",
		"koi_prad",
		"koi_teq",
		"koi_insol",
		"koi_steff",
		"koi_slogg",
		"koi_srad",
	}

	k2FeatureOrder = []string{
		"pl_orbper",
		"pl_orbsmax",
		"pl_rade",
		"pl_bmasse",
		"pl_insol",
		"pl_eqt",
		"pl_orbeccen",
		"st_teff",
		"st_rad",
		"st_mass",
		"st_logg",
		"st_met",
	}
)

// DefaultOrder returns the training feature order for a mission. The
// returned slice is a copy; callers may not mutate schema state.
func DefaultOrder(mission domain.Mission) ([]string, error) {
	var order []string
	switch mission {
	case domain.MissionTESS:
		order = tessFeatureOrder
	case domain.MissionKepler:
		order = keplerFeatureOrder
	case domain.MissionK2:
		order = k2FeatureOrder
	default:
		return nil, domain.NewError(domain.KindUnrecognizedFormat, "features.order",
			fmt.Sprintf("unsupported mission %q", mission), nil)
	}

	out := make([]string, len(order))
	copy(out, order)
	return out, nil
}
