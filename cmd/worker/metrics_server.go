package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drug-pipeline/internal/repository"
	pkgconfig "drug-pipeline/pkg/config"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// LedgerHealthResponse reports whether the run ledger is reachable and what
// the latest recorded run looked like.
type LedgerHealthResponse struct {
	Healthy      bool   `json:"healthy"`
	Enabled      bool   `json:"enabled"`
	LatestRunID  string `json:"latest_run_id,omitempty"`
	LatestStatus string `json:"latest_status,omitempty"`
	Error        string `json:"error,omitempty"`
}

// startMetricsServer serves /metrics, /health and /health/ledger on
// METRICS_PORT (default 9090). It returns immediately; the server drains
// with a 5s grace period once ctx is cancelled, and shutdown errors are
// logged rather than surfaced so they never block process exit.
func startMetricsServer(ctx context.Context, logger *slog.Logger, runs repository.RunRepository, ledgerEnabled bool) *http.Server {
	port := getMetricsPort()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/health/ledger", ledgerHealthHandler(runs, ledgerEnabled))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("metrics server shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

func getMetricsPort() int {
	port := pkgconfig.GetEnvInt("METRICS_PORT", 9090)
	if port <= 0 || port > 65535 {
		return 9090
	}
	return port
}

// healthHandler is the liveness probe; it always answers 200.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "healthy"})
}

// ledgerHealthHandler serves /health/ledger. A disabled ledger is healthy:
// runs are simply not recorded. With a ledger configured, a failing query
// returns 503 so operators notice the pipeline has lost its run history.
func ledgerHealthHandler(runs repository.RunRepository, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !enabled {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(LedgerHealthResponse{
				Healthy: true,
				Enabled: false,
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		latest, err := runs.Latest(ctx)
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(LedgerHealthResponse{
				Healthy: false,
				Enabled: true,
				Error:   err.Error(),
			})
			return
		}

		resp := LedgerHealthResponse{
			Healthy: true,
			Enabled: true,
		}
		if latest != nil {
			resp.LatestRunID = latest.RunID
			resp.LatestStatus = string(latest.Status)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
