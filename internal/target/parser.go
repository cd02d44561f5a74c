// Package target classifies free-form astronomical target identifiers into
// a mission and a normalized numeric id.
package target

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/exoscout/exoscout/internal/domain"
)

// patternFamily groups the alternative spellings for one identifier
// convention. Families are tried in a fixed precedence order and the first
// matching pattern wins.
type patternFamily struct {
	name     string
	mission  domain.Mission
	patterns []*regexp.Regexp
}

// families is the precedence-ordered pattern table: TOI, KOI, K2, TIC,
// Kepler. The bare-numeric pattern in the TOI family means a plain number
// is read as a TESS TOI. That is a deliberate heuristic, not an
// astronomical convention: bare numbers are ambiguous across missions and
// this service favors TESS.
var families = []patternFamily{
	{
		name:    "TOI",
		mission: domain.MissionTESS,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^TOI[-\s]?(\d+(?:\.\d+)?)$`),
			regexp.MustCompile(`^(\d+(?:\.\d+)?)$`),
		},
	},
	{
		name:    "KOI",
		mission: domain.MissionKepler,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^KOI[-\s]?(\d+(?:\.\d+)?)$`),
			regexp.MustCompile(`(?i)^K(\d+(?:\.\d+)?)$`),
		},
	},
	{
		name:    "K2",
		mission: domain.MissionK2,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^K2[-\s]?(\d+(?:\.\d+)?)$`),
			regexp.MustCompile(`(?i)^EPIC[-\s]?(\d+)$`),
		},
	},
	{
		name:    "TIC",
		mission: domain.MissionTESS,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^TIC[-\s]?(\d+)$`),
			regexp.MustCompile(`(?i)^TESS[-\s]?(\d+)$`),
		},
	},
	{
		name:    "Kepler",
		mission: domain.MissionKepler,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^KIC[-\s]?(\d+)$`),
			regexp.MustCompile(`(?i)^KEPLER[-\s]?(\d+)(?:\s*[a-z])?$`),
		},
	},
}

// Parse classifies a target string into a mission and numeric id. Decimal
// sub-identifiers (e.g. the planet-candidate suffix ".01") are preserved
// verbatim in the numeric id.
func Parse(target string) (domain.ParsedTarget, error) {
	trimmed := strings.TrimSpace(target)

	for _, family := range families {
		for _, pattern := range family.patterns {
			m := pattern.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			return domain.ParsedTarget{
				Mission:        family.mission,
				NumericID:      m[1],
				OriginalTarget: trimmed,
			}, nil
		}
	}

	return domain.ParsedTarget{}, domain.NewError(
		domain.KindUnrecognizedFormat,
		"target.parse",
		fmt.Sprintf("unrecognized target format %q", target),
		nil,
	)
}
