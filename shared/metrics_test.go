package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestServiceMetricsSnapshot(t *testing.T) {
	metrics := NewServiceMetrics("ipo_list")
	metrics.RecordRequest(true, 10*time.Millisecond)
	metrics.RecordRequest(false, 30*time.Millisecond)
	metrics.IncrementCustomCounter("failed_cycles")
	metrics.SetCustomMetric("record_count", 3)

	snapshot := metrics.GetSnapshot()
	if snapshot.TotalRequests != 2 || snapshot.SuccessfulRequests != 1 || snapshot.FailedRequests != 1 {
		t.Errorf("unexpected counts %+v", snapshot)
	}
	if snapshot.AverageProcessingTime != 20*time.Millisecond {
		t.Errorf("expected 20ms average, got %v", snapshot.AverageProcessingTime)
	}
	if snapshot.Performance.MaxProcessingTime != 30*time.Millisecond || snapshot.Performance.MinProcessingTime != 10*time.Millisecond {
		t.Errorf("unexpected min/max %+v", snapshot.Performance)
	}
	if metrics.GetSuccessRate() != 50 {
		t.Errorf("expected 50%% success rate, got %v", metrics.GetSuccessRate())
	}

	metrics.SetCustomMetric("record_count", 5)
	if snapshot.CustomMetrics["record_count"] != 3 {
		t.Error("snapshot must not alias live custom metrics")
	}
}

func TestExecuteHTTPRequestRecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") != "no-cache" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	factory := NewHTTPClientFactory(5 * time.Second)
	defer factory.CleanupAllClients()
	client := factory.CreateHTTPClient(-1)
	if factory.CreateHTTPClient(5*time.Second) != client {
		t.Error("clients with the same timeout should be shared")
	}

	request, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	SetBrowserLikeHeaders(request, "text/csv")

	metrics := NewHTTPMetrics()
	response, err := ExecuteHTTPRequest(client, request, metrics)
	if err != nil {
		t.Fatalf("non-2xx must not be an error: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", response.StatusCode)
	}

	snapshot := metrics.GetSnapshot()
	if snapshot["failed_requests"] != int64(1) {
		t.Errorf("expected 1 failed request, got %v", snapshot["failed_requests"])
	}
	if snapshot["status_code_counts"].(map[int]int64)[http.StatusForbidden] != 1 {
		t.Errorf("expected 403 to be counted, got %v", snapshot["status_code_counts"])
	}
}
