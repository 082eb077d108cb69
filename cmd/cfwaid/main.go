// Command cfwaid is the daemon: it loads configuration, validates the
// library service is reachable, starts the three pipeline stages, and
// serves the HTTP ingress until signaled to shut down.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfwai/internal/bootstrap"
	"cfwai/internal/config"
	"cfwai/internal/logging"
	"cfwai/internal/preflight"
	"cfwai/internal/sonarr"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		return 2
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Printf("init logger: %v", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := sonarr.New(cfg.Sonarr.URL, cfg.Sonarr.API)
	if err := preflight.CheckSonarr(ctx, client); err != nil {
		logging.ErrorWithContext(logger, "library service unreachable at startup", "preflight_failed", logging.Error(err))
		return 2
	}

	fatal := make(chan struct{}, 1)
	app, err := bootstrap.Build(cfg, logger, func() {
		select {
		case fatal <- struct{}{}:
		default:
		}
	})
	if err != nil {
		logging.ErrorWithContext(logger, "failed to build application", "bootstrap_failed", logging.Error(err))
		return 2
	}

	if err := app.Supervisor.AcquireLock(); err != nil {
		logging.ErrorWithContext(logger, "failed to acquire single-instance lock", "lock_failed", logging.Error(err))
		return 2
	}

	app.StartAll(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTP.Bind,
		Handler: app.Handlers.Router(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorWithContext(logger, "http ingress exited", "http_server_failed", logging.Error(err))
		}
	}()

	logger.Info(fmt.Sprintf("cfwaid listening on %s", cfg.HTTP.Bind))

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case <-fatal:
		logger.Warn("download stage exited after a hard failure")
		exitCode = 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	app.Supervisor.Shutdown()
	return exitCode
}
