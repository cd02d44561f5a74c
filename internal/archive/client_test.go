package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/exoscout/exoscout/internal/domain"
	"github.com/exoscout/exoscout/internal/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, RPS: 1000}, nil, logger.NewNop())
}

// recordingMetrics captures round-trip outcomes in call order.
type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) RecordArchiveQuery(outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func TestQuery_DecodesRows(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format param = %q, want json", got)
		}
		if got := r.URL.Query().Get("query"); got != "select * from toi where toi=1019.01" {
			t.Errorf("unexpected query param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"toi": 1019.01, "tid": 307210830, "tfopwg_disp": "PC"}]`))
	})

	rows, err := client.Query(context.Background(), TOIByNumber("1019.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["tfopwg_disp"] != "PC" {
		t.Errorf("disposition = %v, want PC", rows[0]["tfopwg_disp"])
	}
}

func TestQuery_EmptyResultIsNotAnError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	rows, err := client.Query(context.Background(), KOIByName("K99999.99"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestQuery_Non2xxIsUpstream(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	})

	_, err := client.Query(context.Background(), TOIByNumber("1"))
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if kind := domain.KindOf(err); kind != domain.KindUpstream {
		t.Errorf("error kind = %s, want %s", kind, domain.KindUpstream)
	}
}

func TestQuery_TransportFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately closed so the dial fails

	client := NewClient(Config{BaseURL: srv.URL, RPS: 1000}, nil, logger.NewNop())
	_, err := client.Query(context.Background(), TOIByNumber("1"))
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if kind := domain.KindOf(err); kind != domain.KindUpstream {
		t.Errorf("error kind = %s, want %s", kind, domain.KindUpstream)
	}
}

func TestQuery_RecordsOutcomes(t *testing.T) {
	metrics := &recordingMetrics{}
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL, RPS: 1000}, metrics, logger.NewNop())

	if _, err := client.Query(context.Background(), TOIByNumber("1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	status = http.StatusServiceUnavailable
	if _, err := client.Query(context.Background(), TOIByNumber("1")); err == nil {
		t.Fatal("expected error for 503 response")
	}

	want := []string{"ok", "error"}
	if len(metrics.outcomes) != 2 || metrics.outcomes[0] != want[0] || metrics.outcomes[1] != want[1] {
		t.Errorf("recorded outcomes = %v, want %v", metrics.outcomes, want)
	}
}

func TestKeplerPaddedName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"752.01", "K00752.01"},
		{"00752.01", "K00752.01"},
		{"1.01", "K00001.01"},
		{"12345.67", "K12345.67"},
	}
	for _, tt := range tests {
		if got := KeplerPaddedName(tt.in); got != tt.want {
			t.Errorf("KeplerPaddedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
