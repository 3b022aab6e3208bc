package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServerHealth(t *testing.T) {
	last := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := NewMetricsServer("127.0.0.1:0", func() ScanStatus {
		return ScanStatus{Status: "up", LastScan: last, FilesScanned: 3, Unused: 2}
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got ScanStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 3, got.FilesScanned)
	assert.Equal(t, 2, got.Unused)
	assert.True(t, got.LastScan.Equal(last))
}

func TestMetricsServerUnhealthy(t *testing.T) {
	srv := NewMetricsServer("127.0.0.1:0", func() ScanStatus { return ScanStatus{Status: "scanning"} })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpointExposesScanMetrics(t *testing.T) {
	FilesScannedTotal.Inc()

	rec := httptest.NewRecorder()
	NewMetricsServer("", nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "wake_files_scanned_total"))
}

func TestSetupTracingWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "", "wake")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
