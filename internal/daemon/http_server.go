package daemon

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
)

// statusResponse is the JSON shape of GET /status.
type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Builds        int64  `json:"builds"`
	LastBuildID   string `json:"last_build_id,omitempty"`
	LastBuildAt   string `json:"last_build_at,omitempty"`
	FilesScanned  int    `json:"files_scanned,omitempty"`
}

// newHTTPServer wires the daemon's endpoints: health, status, metrics and the
// target directory itself (so the freshly built gateway is browsable).
func (d *Daemon) newHTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		resp := statusResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
			Builds:        d.buildCount.Load(),
		}
		d.mu.RLock()
		if d.lastReport != nil {
			resp.LastBuildID = d.lastReport.BuildID
			resp.LastBuildAt = d.lastReport.StartedAt.Format(time.RFC3339)
			resp.FilesScanned = d.lastReport.FilesScanned
		}
		d.mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.Handle("/metrics", d.metricsHandler)
	mux.Handle("/", http.FileServer(http.Dir(d.cfg.Scan.Directory)))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (d *Daemon) serveHTTP(srv *http.Server) {
	slog.Info("HTTP server listening", logfields.Addr(srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("HTTP server failed", logfields.Error(err))
	}
}

func shutdownHTTP(ctx context.Context, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown incomplete", logfields.Error(err))
	}
}
