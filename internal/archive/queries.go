package archive

import (
	"fmt"

	"github.com/exoscout/exoscout/internal/domain"
)

// Query builders for the archive tables. Identifier arguments come from the
// identifier parser, so they are digit-and-dot strings by construction and
// safe to interpolate.

// TOIByNumber looks up a TOI row by its TOI number (decimal suffix kept).
func TOIByNumber(toi string) string {
	return fmt.Sprintf("select * from toi where toi=%s", toi)
}

// TOIByTIC looks up TOI rows for a primary TIC id.
func TOIByTIC(tic string) string {
	return fmt.Sprintf("select * from toi where tid=%s", tic)
}

// KOIByName looks up a cumulative KOI row by its kepoi_name designation.
func KOIByName(name string) string {
	return fmt.Sprintf("select * from cumulative where kepoi_name='%s'", name)
}

// KOIByKepID looks up cumulative KOI rows for a primary Kepler id.
func KOIByKepID(kepid string) string {
	return fmt.Sprintf("select * from cumulative where kepid=%s", kepid)
}

// K2ByEPIC looks up a K2 targets row by EPIC number.
func K2ByEPIC(epic string) string {
	return fmt.Sprintf("select * from k2targets where epic_number=%s", epic)
}

// KeplerPaddedName formats a KOI numeric id as the archive's 8-wide
// zero-padded kepoi_name, keeping any decimal suffix: "752.01" -> "K00752.01".
func KeplerPaddedName(numericID string) string {
	return fmt.Sprintf("K%08s", numericID)
}

// CoordinatesQuery builds the per-mission coordinate lookup for a primary
// catalog id.
func CoordinatesQuery(mission domain.Mission, targetID string) (string, error) {
	switch mission {
	case domain.MissionTESS:
		return fmt.Sprintf("select tic_id, ra, dec, pmra, pmdec, plx, gaia_mag, tess_mag from tic where tic_id=%s", targetID), nil
	case domain.MissionKepler:
		return fmt.Sprintf("select kepid, ra, dec, kepmag from kic where kepid=%s", targetID), nil
	case domain.MissionK2:
		return fmt.Sprintf("select epic_id, ra, dec, kepmag from k2targets where epic_id=%s", targetID), nil
	default:
		return "", domain.NewError(domain.KindUnrecognizedFormat, "archive.coordinates",
			fmt.Sprintf("unsupported mission %q", mission), nil)
	}
}

// FeaturesQuery builds the per-mission feature row lookup for a primary
// catalog id (TIC, KepID, or EPIC).
func FeaturesQuery(mission domain.Mission, targetID string) (string, error) {
	switch mission {
	case domain.MissionTESS:
		return TOIByTIC(targetID), nil
	case domain.MissionKepler:
		return KOIByKepID(targetID), nil
	case domain.MissionK2:
		return K2ByEPIC(targetID), nil
	default:
		return "", domain.NewError(domain.KindUnrecognizedFormat, "archive.features",
			fmt.Sprintf("unsupported mission %q", mission), nil)
	}
}
