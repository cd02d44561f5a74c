package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := NewError(KindUpstream, "archive.query", "status 503", nil)

	if got := KindOf(base); got != KindUpstream {
		t.Errorf("kind = %s, want %s", got, KindUpstream)
	}

	// Tag survives fmt wrapping.
	wrapped := fmt.Errorf("resolving target: %w", base)
	if got := KindOf(wrapped); got != KindUpstream {
		t.Errorf("wrapped kind = %s, want %s", got, KindUpstream)
	}

	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("plain error kind = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("nil error kind = %q, want empty", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(KindUpstream, "archive.query", "querying archive", cause)

	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
	want := "archive.query: querying archive: connection refused"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestParseMission(t *testing.T) {
	for raw, want := range map[string]Mission{
		"TESS": MissionTESS, "tess": MissionTESS,
		"Kepler": MissionKepler, "k2": MissionK2,
	} {
		got, err := ParseMission(raw)
		if err != nil || got != want {
			t.Errorf("ParseMission(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}

	_, err := ParseMission("JWST")
	if KindOf(err) != KindUnrecognizedFormat {
		t.Errorf("unsupported mission kind = %s, want %s", KindOf(err), KindUnrecognizedFormat)
	}
}
