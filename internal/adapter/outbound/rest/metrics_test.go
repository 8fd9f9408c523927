package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal not initialized")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration not initialized")
	}
	if m.RefreshesTotal == nil {
		t.Error("RefreshesTotal not initialized")
	}
	if m.RetriesTotal == nil {
		t.Error("RetriesTotal not initialized")
	}
}

func TestNilMetricsRecordingIsNoop(t *testing.T) {
	var m *Metrics
	m.recordRequest(http.MethodGet, "2xx", 0.01)
	m.recordRefresh("success")
	m.recordRetry()
}

func TestPipelineRecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh-token":
			writeEnvelope(w, http.StatusOK, true, "refreshed", map[string]string{"token": "acc-2"})
		case "/orders":
			if r.Header.Get("Authorization") == "Bearer acc-2" {
				writeEnvelope(w, http.StatusOK, true, "ok", []any{})
				return
			}
			writeEnvelope(w, http.StatusUnauthorized, false, "token expired", nil)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	tokens := &memTokens{access: "acc-stale", refresh: "ref-1"}
	client := NewClient(server.URL, tokens, WithMetrics(m))

	if err := client.Do(context.Background(), http.MethodGet, "/orders", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The exchange is three requests: the 401ed GET, the refresh POST, and
	// the retried GET.
	if n := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "4xx")); n != 1 {
		t.Errorf("requests_total{GET,4xx} = %v, want 1", n)
	}
	if n := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "2xx")); n != 1 {
		t.Errorf("requests_total{GET,2xx} = %v, want 1", n)
	}
	if n := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodPost, "2xx")); n != 1 {
		t.Errorf("requests_total{POST,2xx} = %v, want 1", n)
	}
	if n := testutil.ToFloat64(m.RefreshesTotal.WithLabelValues("success")); n != 1 {
		t.Errorf("token_refreshes_total{success} = %v, want 1", n)
	}
	if n := testutil.ToFloat64(m.RetriesTotal); n != 1 {
		t.Errorf("request_retries_total = %v, want 1", n)
	}

	// Every request also lands a duration observation.
	if n := histogramSampleCount(t, reg, "shopkit_request_duration_seconds"); n != 3 {
		t.Errorf("request_duration sample count = %d, want 3", n)
	}
}

func TestFailedRefreshRecordsFailureMetric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "nope", nil)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	tokens := &memTokens{access: "acc-stale", refresh: "ref-dead"}
	client := NewClient(server.URL, tokens, WithMetrics(m))

	if err := client.Do(context.Background(), http.MethodGet, "/orders", nil, nil, nil); err == nil {
		t.Fatal("expected an error")
	}
	if n := testutil.ToFloat64(m.RefreshesTotal.WithLabelValues("failure")); n != 1 {
		t.Errorf("token_refreshes_total{failure} = %v, want 1", n)
	}
	if n := testutil.ToFloat64(m.RetriesTotal); n != 0 {
		t.Errorf("request_retries_total = %v, want 0", n)
	}
}

// histogramSampleCount sums the sample counts of a histogram family across
// all its label sets.
func histogramSampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var total uint64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		if mf.GetType() != dto.MetricType_HISTOGRAM {
			t.Fatalf("%s is %v, want histogram", name, mf.GetType())
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetHistogram().GetSampleCount()
		}
	}
	return total
}
