package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is a minimal HTTP server exposing the registry at /metrics and a
// liveness/uptime probe at /health.
// parsecd starts one alongside the Unix-socket listener when
// config.MetricsConfig.Enabled is set.
type Server struct {
	httpSrv   *http.Server
	startedAt time.Time
}

// healthResponse mirrors internal/cli/health.Response, the shape parsecd
// status expects back from this endpoint.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      struct {
		Service   string `json:"service"`
		StartedAt string `json:"started_at"`
		Uptime    string `json:"uptime"`
		UptimeSec int64  `json:"uptime_sec"`
	} `json:"data"`
}

// NewServer returns a metrics HTTP server bound to port, serving the
// process-wide registry (GetRegistry) at /metrics and a health probe at /health. Call Serve to start it.
func NewServer(port int) *Server {
	s := &Server{startedAt: time.Now()}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	uptime := now.Sub(s.startedAt)

	resp := healthResponse{Status: "healthy", Timestamp: now.Format(time.RFC3339)}
	resp.Data.Service = "parsecd"
	resp.Data.StartedAt = s.startedAt.Format(time.RFC3339)
	resp.Data.Uptime = uptime.String()
	resp.Data.UptimeSec = int64(uptime.Seconds())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Serve starts the metrics server and blocks until it stops. It returns
// nil on a clean Shutdown.
func (s *Server) Serve() error {
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
