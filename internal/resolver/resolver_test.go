package resolver

import (
	"context"
	"testing"

	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
	"github.com/exoscout/exoscout/internal/target"
)

// stubArchive maps exact query strings to canned row sets and records the
// queries it served.
type stubArchive struct {
	rows    map[string][]domain.CatalogRecord
	err     error
	queries []string
}

func (s *stubArchive) Query(_ context.Context, query string) ([]domain.CatalogRecord, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[query], nil
}

func mustParse(t *testing.T, raw string) domain.ParsedTarget {
	t.Helper()
	parsed, err := target.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return parsed
}

func TestResolve_TOIToTIC(t *testing.T) {
	arch := &stubArchive{rows: map[string][]domain.CatalogRecord{
		"select * from toi where toi=1019.01": {{
			"toi":         1019.01,
			"tid":         307210830.0,
			"ra":          124.53,
			"dec":         -12.78,
			"tfopwg_disp": "PC",
			"pl_orbper":   3.14,
			"st_rad":      nil, // must be elided
		}},
	}}
	r := New(arch, logger.NewNop())

	res, err := r.Resolve(context.Background(), mustParse(t, "TOI-1019.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TargetID != "307210830" {
		t.Errorf("target id = %q, want 307210830", res.TargetID)
	}
	if res.RA == nil || *res.RA != 124.53 {
		t.Errorf("ra = %v, want 124.53", res.RA)
	}
	if _, ok := res.Metadata["st_rad"]; ok {
		t.Error("null metadata value survived elision")
	}
	if res.Metadata["tfopwg_disp"] != "PC" {
		t.Errorf("disposition = %v, want PC", res.Metadata["tfopwg_disp"])
	}
}

func TestResolve_BareNumberTriesTOILookup(t *testing.T) {
	arch := &stubArchive{rows: map[string][]domain.CatalogRecord{}}
	r := New(arch, logger.NewNop())

	res, err := r.Resolve(context.Background(), mustParse(t, "1019.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arch.queries) != 1 {
		t.Fatalf("issued %d queries, want 1 TOI lookup", len(arch.queries))
	}
	// Zero rows degrade to the parsed id rather than failing.
	if res.TargetID != "1019.01" {
		t.Errorf("target id = %q, want parsed id preserved", res.TargetID)
	}
}

func TestResolve_TICSkipsSecondaryLookup(t *testing.T) {
	arch := &stubArchive{}
	r := New(arch, logger.NewNop())

	res, err := r.Resolve(context.Background(), mustParse(t, "TIC 307210830"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arch.queries) != 0 {
		t.Errorf("TIC input issued %d archive queries, want 0", len(arch.queries))
	}
	if res.TargetID != "307210830" {
		t.Errorf("target id = %q, want 307210830", res.TargetID)
	}
}

func TestResolve_KeplerZeroPaddedLookup(t *testing.T) {
	arch := &stubArchive{rows: map[string][]domain.CatalogRecord{
		"select * from cumulative where kepoi_name='K00752.01'": {{
			"kepoi_name":      "K00752.01",
			"kepid":           10666592.0,
			"koi_disposition": "CONFIRMED",
			"koi_period":      9.49,
		}},
	}}
	r := New(arch, logger.NewNop())

	res, err := r.Resolve(context.Background(), mustParse(t, "KOI-752.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arch.queries) != 1 {
		t.Fatalf("issued %d queries, want 1", len(arch.queries))
	}
	if res.TargetID != "10666592" {
		t.Errorf("target id = %q, want 10666592", res.TargetID)
	}
	if res.Metadata["koi_period"] != 9.49 {
		t.Errorf("koi_period = %v, want 9.49", res.Metadata["koi_period"])
	}
}

func TestResolve_KeplerUnpaddedFallback(t *testing.T) {
	arch := &stubArchive{rows: map[string][]domain.CatalogRecord{
		"select * from cumulative where kepoi_name='752.01'": {{
			"kepid": 10666592.0,
		}},
	}}
	r := New(arch, logger.NewNop())

	res, err := r.Resolve(context.Background(), mustParse(t, "KOI-752.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"select * from cumulative where kepoi_name='K00752.01'",
		"select * from cumulative where kepoi_name='752.01'",
	}
	if len(arch.queries) != 2 || arch.queries[0] != want[0] || arch.queries[1] != want[1] {
		t.Fatalf("queries = %v, want padded then literal", arch.queries)
	}
	if res.TargetID != "10666592" {
		t.Errorf("target id = %q, want 10666592", res.TargetID)
	}
}

func TestResolve_KICSkipsKOILookup(t *testing.T) {
	arch := &stubArchive{}
	r := New(arch, logger.NewNop())

	for _, raw := range []string{"KIC 10666592", "Kepler-227 b"} {
		res, err := r.Resolve(context.Background(), mustParse(t, raw))
		if err != nil {
			t.Fatalf("resolve %q: %v", raw, err)
		}
		if res.TargetID == "" {
			t.Errorf("resolve %q: empty target id", raw)
		}
	}
	// KepID spellings carry the primary id already and never hit the archive.
	if len(arch.queries) != 0 {
		t.Errorf("KepID inputs issued %d archive queries, want 0", len(arch.queries))
	}
}

func TestResolve_KeplerNotFoundAfterFallback(t *testing.T) {
	arch := &stubArchive{}
	r := New(arch, logger.NewNop())

	_, err := r.Resolve(context.Background(), mustParse(t, "KOI-99999.99"))
	if err == nil {
		t.Fatal("expected NotFound")
	}
	if kind := domain.KindOf(err); kind != domain.KindNotFound {
		t.Errorf("error kind = %s, want %s", kind, domain.KindNotFound)
	}
	if len(arch.queries) != 2 {
		t.Errorf("issued %d queries, want exactly one fallback retry", len(arch.queries))
	}
}

func TestResolve_UpstreamErrorPropagates(t *testing.T) {
	arch := &stubArchive{err: domain.NewError(domain.KindUpstream, "archive.query", "boom", nil)}
	r := New(arch, logger.NewNop())

	_, err := r.Resolve(context.Background(), mustParse(t, "KOI-752.01"))
	if kind := domain.KindOf(err); kind != domain.KindUpstream {
		t.Errorf("error kind = %s, want %s", kind, domain.KindUpstream)
	}
}

func TestResolve_K2Passthrough(t *testing.T) {
	arch := &stubArchive{}
	r := New(arch, logger.NewNop())

	res, err := r.Resolve(context.Background(), mustParse(t, "EPIC 201367065"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arch.queries) != 0 {
		t.Errorf("K2 resolution issued %d queries, want 0", len(arch.queries))
	}
	if res.TargetID != "201367065" {
		t.Errorf("target id = %q, want 201367065", res.TargetID)
	}
}

func TestCoordinates(t *testing.T) {
	arch := &stubArchive{rows: map[string][]domain.CatalogRecord{
		"select kepid, ra, dec, kepmag from kic where kepid=10666592": {{
			"kepid": 10666592.0, "ra": 297.71, "dec": 48.08, "kepmag": 13.0,
		}},
	}}
	r := New(arch, logger.NewNop())

	ra, dec, err := r.Coordinates(context.Background(), domain.MissionKepler, "10666592")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ra != 297.71 || dec != 48.08 {
		t.Errorf("coordinates = (%v, %v), want (297.71, 48.08)", ra, dec)
	}

	_, _, err = r.Coordinates(context.Background(), domain.MissionKepler, "1")
	if kind := domain.KindOf(err); kind != domain.KindNotFound {
		t.Errorf("empty coordinates error kind = %s, want %s", kind, domain.KindNotFound)
	}
}
