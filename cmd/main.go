package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/sensei/internal/adapters/http/api"
	"github.com/okian/sensei/internal/adapters/http/swagger"
	"github.com/okian/sensei/internal/adapters/narrator"
	app "github.com/okian/sensei/internal/app"
	"github.com/okian/sensei/internal/config"
	"github.com/okian/sensei/internal/domain/recommend"
	"github.com/okian/sensei/internal/domain/scoring"
	"github.com/okian/sensei/pkg/logger"
	"github.com/okian/sensei/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom registry only
	// carries application metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithCatalogPath(cfg.CatalogPath),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithScoringWeights(scoring.Weights{
			Correctness: cfg.CorrectnessWeight,
			Efficiency:  cfg.EfficiencyWeight,
			Speed:       cfg.SpeedWeight,
			Attempts:    cfg.AttemptsWeight,
		}),
		app.WithEngineOptions(
			recommend.WithWeaknessWeight(cfg.WeaknessWeight),
			recommend.WithProgressionWeight(cfg.ProgressionWeight),
		),
		app.WithNarrator(buildNarrator(cfg)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxRecommendations).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildNarrator returns the configured narrator, or the no-op one when
// LLM commentary is disabled.
func buildNarrator(cfg *config.Config) recommend.Narrator {
	if !cfg.NarratorEnabled {
		return recommend.NoopNarrator{}
	}
	return narrator.New(
		narrator.WithBaseURL(cfg.NarratorBaseURL),
		narrator.WithModel(cfg.NarratorModel),
		narrator.WithTimeout(time.Duration(cfg.NarratorTimeoutMS)*time.Millisecond),
	)
}

// startServiceMetricsUpdater periodically refreshes gauges that are
// derived from service state rather than recorded at call sites.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := svc.GetStats()
			if queueLen, ok := stats["queue_length"].(int); ok {
				metrics.UpdateQueueSize(queueLen)
			}
			metrics.UpdateSystemGoroutines(runtime.NumGoroutine())
		}
	}
}
