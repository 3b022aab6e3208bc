package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScanStatus reports the latest scan state for the health endpoint.
type ScanStatus struct {
	Status       string    `json:"status"`
	LastScan     time.Time `json:"last_scan,omitempty"`
	FilesScanned int       `json:"files_scanned"`
	Unused       int       `json:"unused"`
}

// StatusFunc returns the current scan status.
type StatusFunc func() ScanStatus

type MetricsServer struct {
	addr   string
	status StatusFunc
	server *http.Server
}

func NewMetricsServer(addr string, status StatusFunc) *MetricsServer {
	return &MetricsServer{addr: addr, status: status}
}

// Handler exposes /metrics and /health.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := ScanStatus{Status: "up"}
		if s.status != nil {
			status = s.status()
		}
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
	return mux
}

func (s *MetricsServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("metrics server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	return nil
}

func (s *MetricsServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
