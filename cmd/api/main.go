package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"runway-agent/internal/agent"
	"runway-agent/internal/api"
	"runway-agent/internal/app"
	"runway-agent/internal/config"

	"github.com/sirupsen/logrus"
)

func main() {
	settings := config.LoadSettings()
	log := config.NewLogger(settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, settings, log)
	stop()
	if err != nil {
		log.WithError(err).Error("api server exited")
		os.Exit(1)
	}
}

// run blocks until ctx is cancelled or the listener fails.
func run(ctx context.Context, settings *config.Settings, log *logrus.Logger) error {
	a, err := app.New(ctx, settings, log)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	defer a.Close()

	deps := api.Deps{
		Log:         log,
		Store:       a.Store,
		Tools:       a.Tools,
		Agent:       a.Agent,
		Sessions:    agent.NewManager(agent.DefaultMemoryTurns),
		ScenarioDir: settings.ScenarioDir,
		StaticDir:   settings.StaticDir,
		CORSOrigins: settings.CORSOrigins,
		Release:     settings.Env == "production",
	}
	if a.Monitor != nil {
		deps.Monitor = a.Monitor
		if settings.MonitorSchedule != "" {
			scheduler, err := a.Monitor.Schedule(settings.MonitorSchedule)
			if err != nil {
				return fmt.Errorf("schedule monitor: %w", err)
			}
			defer scheduler.Stop()
			log.WithField("schedule", settings.MonitorSchedule).Info("watchlist monitor scheduled")
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", settings.Port),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
	return nil
}
