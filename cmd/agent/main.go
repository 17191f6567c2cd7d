package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agent-daemon/internal/di"
	"agent-daemon/internal/infrastructure/env"
)

const shutdownTimeout = 5 * time.Second

func main() {
	envService := env.NewEnvService()
	cfg := di.LoadConfig(envService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise: %v", err)
	}
	defer container.Close()

	srv := &http.Server{
		Addr:              container.Addr,
		Handler:           container.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("HTTP server listening", "addr", container.Addr)
		errCh <- srv.ListenAndServe()
	}()
	container.Notifier.ShowStartup(ctx, container.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("HTTP server failed", "error", err)
			container.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		container.Logger.Info("Shutting down; the browser stays open")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("Graceful shutdown failed", "error", err)
	}
}
