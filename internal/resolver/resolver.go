// Package resolver translates secondary designations (TOI, KOI) into
// primary catalog keys (TIC, KepID) and gathers associated metadata from
// the archive.
package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/exoscout/exoscout/internal/archive"
	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
)

// Metadata sub-schemas extracted from the first returned row. Nulls are
// elided so unreliable values never flow downstream.
var (
	toiMetadataColumns = []string{
		"toi", "tid", "tfopwg_disp",
		"pl_orbper", "pl_rade",
		"st_tmag", "st_teff", "st_rad",
	}
	koiMetadataColumns = []string{
		"kepoi_name", "kepid", "koi_disposition",
		"koi_period", "koi_prad", "koi_kepmag",
		"koi_steff", "koi_srad",
	}
)

// Resolver resolves parsed targets against the archive.
type Resolver struct {
	archive archive.Querier
	log     logger.Logger
}

// New creates a resolver backed by the given archive query capability.
func New(querier archive.Querier, log logger.Logger) *Resolver {
	return &Resolver{archive: querier, log: log}
}

// Resolve translates a parsed target into a primary catalog id plus
// metadata. Upstream failures propagate; a TOI with no row degrades to the
// parsed id (the TIC may still resolve features directly), while a KOI
// with no row after the zero-padding fallback is NotFound since a KOI name
// alone cannot fetch features. KIC and Kepler-N spellings already carry a
// primary KepID and skip the KOI lookup entirely.
func (r *Resolver) Resolve(ctx context.Context, parsed domain.ParsedTarget) (domain.Resolution, error) {
	res := domain.Resolution{
		Mission:        parsed.Mission,
		Target:         parsed.OriginalTarget,
		OriginalTarget: parsed.OriginalTarget,
		TargetID:       parsed.NumericID,
		Metadata:       map[string]any{},
	}

	switch parsed.Mission {
	case domain.MissionTESS:
		if err := r.resolveTESS(ctx, parsed, &res); err != nil {
			return domain.Resolution{}, err
		}
	case domain.MissionKepler:
		if err := r.resolveKepler(ctx, parsed, &res); err != nil {
			return domain.Resolution{}, err
		}
	case domain.MissionK2:
		// K2 targets arrive in EPIC form; no secondary resolution exists.
	}

	return res, nil
}

// isTOIForm reports whether the original spelling is a TOI designation.
// Bare numbers count: the parser reads them as TOIs.
func isTOIForm(original string) bool {
	upper := strings.ToUpper(original)
	if strings.HasPrefix(upper, "TOI") {
		return true
	}
	_, err := strconv.ParseFloat(original, 64)
	return err == nil
}

func (r *Resolver) resolveTESS(ctx context.Context, parsed domain.ParsedTarget, res *domain.Resolution) error {
	if !isTOIForm(parsed.OriginalTarget) {
		// Already a primary TIC id.
		return nil
	}

	rows, err := r.archive.Query(ctx, archive.TOIByNumber(parsed.NumericID))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		r.log.Warn("TOI not found in archive, continuing with parsed id",
			logger.String("toi", parsed.NumericID))
		return nil
	}

	row := rows[0]
	if tic, ok := row["tid"]; ok && tic != nil {
		res.TargetID = idString(tic)
	}
	res.RA = floatPtr(row["ra"])
	res.Dec = floatPtr(row["dec"])
	res.Metadata = extractMetadata(row, toiMetadataColumns)
	return nil
}

// isKOIForm reports whether the original spelling names a KOI, either the
// KOI-752.01 form or the catalog literal K00752.01. KIC and Kepler-N
// spellings are KepIDs and fail the check.
func isKOIForm(original string) bool {
	upper := strings.ToUpper(strings.TrimSpace(original))
	if strings.HasPrefix(upper, "KOI") {
		return true
	}
	return len(upper) > 1 && upper[0] == 'K' && upper[1] >= '0' && upper[1] <= '9'
}

func (r *Resolver) resolveKepler(ctx context.Context, parsed domain.ParsedTarget, res *domain.Resolution) error {
	if !isKOIForm(parsed.OriginalTarget) {
		// Already a primary KepID.
		return nil
	}

	padded := archive.KeplerPaddedName(parsed.NumericID)
	rows, err := r.archive.Query(ctx, archive.KOIByName(padded))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		// Naming-convention fallback: retry once with the unpadded literal.
		r.log.Debug("padded KOI lookup empty, retrying unpadded",
			logger.String("padded", padded),
			logger.String("literal", parsed.NumericID))
		rows, err = r.archive.Query(ctx, archive.KOIByName(parsed.NumericID))
		if err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return domain.NewError(domain.KindNotFound, "resolver.kepler",
			fmt.Sprintf("KOI %s not found", parsed.NumericID), nil)
	}

	row := rows[0]
	if kepid, ok := row["kepid"]; ok && kepid != nil {
		res.TargetID = idString(kepid)
	}
	res.RA = floatPtr(row["ra"])
	res.Dec = floatPtr(row["dec"])
	res.Metadata = extractMetadata(row, koiMetadataColumns)
	return nil
}

// Coordinates looks up sky coordinates for a primary catalog id, for the
// cutout service.
func (r *Resolver) Coordinates(ctx context.Context, mission domain.Mission, targetID string) (ra, dec float64, err error) {
	query, err := archive.CoordinatesQuery(mission, targetID)
	if err != nil {
		return 0, 0, err
	}

	rows, err := r.archive.Query(ctx, query)
	if err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, domain.NewError(domain.KindNotFound, "resolver.coordinates",
			fmt.Sprintf("no coordinates for %s %s", mission, targetID), nil)
	}

	raPtr := floatPtr(rows[0]["ra"])
	decPtr := floatPtr(rows[0]["dec"])
	if raPtr == nil || decPtr == nil {
		return 0, 0, domain.NewError(domain.KindNotFound, "resolver.coordinates",
			fmt.Sprintf("coordinates for %s %s are null", mission, targetID), nil)
	}
	return *raPtr, *decPtr, nil
}

// extractMetadata copies the named columns from a row, dropping nulls.
func extractMetadata(row domain.CatalogRecord, columns []string) map[string]any {
	meta := make(map[string]any, len(columns))
	for _, col := range columns {
		if val, ok := row[col]; ok && val != nil {
			meta[col] = val
		}
	}
	return meta
}

// idString renders a catalog id column as a string. TAP JSON decodes
// integer ids as float64, so integral floats print without an exponent or
// a trailing fraction.
func idString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func floatPtr(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case float32:
		f := float64(x)
		return &f
	default:
		return nil
	}
}
