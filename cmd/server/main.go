package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"dossier/internal/app"
	"dossier/internal/platform/config"
	"dossier/internal/platform/httpserver"
	"dossier/internal/platform/logger"
	"dossier/internal/platform/metrics"
	httptransport "dossier/internal/transport/http"
)

// main wires the pipeline, starts the deep-audit workers and serves HTTP
// until interrupted. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	a, err := app.Build(ctx, cfg, log, m)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		a.RunWorkers(context.Background())
	}()

	checks := make(map[string]httptransport.HealthCheck, len(a.Checks))
	for name, check := range a.Checks {
		checks[name] = check
	}
	router := httptransport.NewRouter(httptransport.NewHandler(a.Orchestrator, log), httptransport.RouterConfig{
		Logger:   log,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Checks:   checks,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	if err := httpserver.Run(ctx, srv, log); err != nil {
		log.Error("server error", "error", err)
	}

	// Closing the queue lets the workers drain what they hold and exit.
	if err := a.Queue.Close(); err != nil {
		log.Warn("audit queue close failed", "error", err)
	}
	workers.Wait()
	log.Info("shutdown complete")
}
