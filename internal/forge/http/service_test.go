package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

type fakeProvider struct {
	stats Stats
}

func (f fakeProvider) Stats() Stats { return f.stats }

func TestHealthzReturnsOK(t *testing.T) {
	s := NewService("127.0.0.1:0", fakeProvider{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	s.router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsReturnsProviderStats(t *testing.T) {
	s := NewService("127.0.0.1:0", fakeProvider{stats: Stats{SnapshotCount: 7, WorkerCount: 3}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	s.router.ServeHTTP(rec, req)

	var got Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.SnapshotCount != 7 || got.WorkerCount != 3 {
		t.Fatalf("expected stats to round-trip, got %+v", got)
	}
}

func TestDebugThroughputReturnsOpsPerSecond(t *testing.T) {
	s := NewService("127.0.0.1:0", fakeProvider{stats: Stats{OpsPerSecond: 12.5}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/debug/throughput", nil)
	s.router.ServeHTTP(rec, req)

	var got map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got["ops_per_second"] != 12.5 {
		t.Fatalf("expected ops_per_second 12.5, got %v", got["ops_per_second"])
	}
}
