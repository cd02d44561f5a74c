package target

import (
	"testing"

	"github.com/exoscout/exoscout/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		mission   domain.Mission
		numericID string
	}{
		{"toi with dash", "TOI-1019.01", domain.MissionTESS, "1019.01"},
		{"toi with space", "TOI 1019.01", domain.MissionTESS, "1019.01"},
		{"toi lowercase", "toi-1019.01", domain.MissionTESS, "1019.01"},
		{"toi no separator", "TOI1019", domain.MissionTESS, "1019"},
		{"bare number defaults to tess", "1019.01", domain.MissionTESS, "1019.01"},
		{"bare integer defaults to tess", "1019", domain.MissionTESS, "1019"},
		{"koi with dash", "KOI-752.01", domain.MissionKepler, "752.01"},
		{"koi lowercase", "koi-752.01", domain.MissionKepler, "752.01"},
		{"koi zero padded short form", "K00752.01", domain.MissionKepler, "00752.01"},
		{"k2 with dash", "K2-18", domain.MissionK2, "18"},
		{"epic", "EPIC 201367065", domain.MissionK2, "201367065"},
		{"epic no space", "EPIC201367065", domain.MissionK2, "201367065"},
		{"tic with space", "TIC 307210830", domain.MissionTESS, "307210830"},
		{"tic lowercase", "tic 307210830", domain.MissionTESS, "307210830"},
		{"tess prefix", "TESS 307210830", domain.MissionTESS, "307210830"},
		{"kic", "KIC 10666592", domain.MissionKepler, "10666592"},
		{"kepler name", "Kepler-227", domain.MissionKepler, "227"},
		{"kepler name with planet letter", "Kepler-227 b", domain.MissionKepler, "227"},
		{"surrounding whitespace", "  TOI-1019.01  ", domain.MissionTESS, "1019.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.target)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.target, err)
			}
			if got.Mission != tt.mission {
				t.Errorf("Parse(%q) mission = %s, want %s", tt.target, got.Mission, tt.mission)
			}
			if got.NumericID != tt.numericID {
				t.Errorf("Parse(%q) numeric id = %s, want %s", tt.target, got.NumericID, tt.numericID)
			}
		})
	}
}

func TestParse_PreservesOriginalTarget(t *testing.T) {
	got, err := Parse("  KOI-752.01 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OriginalTarget != "KOI-752.01" {
		t.Errorf("original target = %q, want trimmed input", got.OriginalTarget)
	}
}

func TestParse_Unrecognized(t *testing.T) {
	for _, target := range []string{"XYZ-999", "", "TOI-", "planet nine", "TIC 123.45"} {
		_, err := Parse(target)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want UnrecognizedFormat", target)
			continue
		}
		if kind := domain.KindOf(err); kind != domain.KindUnrecognizedFormat {
			t.Errorf("Parse(%q) error kind = %s, want %s", target, kind, domain.KindUnrecognizedFormat)
		}
	}
}

// A bare "K" prefix followed by digits is read as a KOI short form, which
// shadows K2 designations like "K2" alone. The family precedence order is
// the contract; this test pins it.
func TestParse_FamilyPrecedence(t *testing.T) {
	got, err := Parse("K00752.01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mission != domain.MissionKepler {
		t.Errorf("K-prefixed id resolved to %s, want KEPLER", got.Mission)
	}

	got, err = Parse("K2-142")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mission != domain.MissionK2 {
		t.Errorf("K2 designation resolved to %s, want K2", got.Mission)
	}
}
