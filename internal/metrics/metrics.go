package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpdateCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memcleaner_update_cycles_total",
		Help: "Number of completed update cycles.",
	})

	UpdateCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "memcleaner_update_cycle_seconds",
		Help:    "Wall time of one update cycle.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	TrackedRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "memcleaner_tracked_records",
		Help: "Records in the process table by state.",
	}, []string{"state"})

	RecordsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memcleaner_records_evicted_total",
		Help: "Records removed because their process exited.",
	})

	SuppressionPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memcleaner_suppression_passes_total",
		Help: "Suppression passes by outcome (ran, idle).",
	}, []string{"outcome"})

	Terminations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memcleaner_terminations_total",
		Help: "Termination attempts by result (killed, failed, skipped, dry_run).",
	}, []string{"result"})

	ConfigReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memcleaner_config_reloads_total",
		Help: "Whitelist reloads by result (ok, error).",
	}, []string{"result"})
)

// Serve exposes the default registry on addr under /metrics until ctx is
// cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics on %s: %w", addr, err)
	}
	return nil
}
