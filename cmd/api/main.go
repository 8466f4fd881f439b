// Package main is the entry point for the Bootcamp API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/bootcamp-api/internal/config"
	"github.com/pkordes/bootcamp-api/internal/handler"
	"github.com/pkordes/bootcamp-api/internal/logger"
	"github.com/pkordes/bootcamp-api/internal/middleware"
	"github.com/pkordes/bootcamp-api/internal/service"
)

const serviceName = "bootcamp-api"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	log := logger.New(os.Stdout, cfg.LogLevel, serviceName, cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Store ------------------------------------------------------------
	bootcamps, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Geocoder ---------------------------------------------------------
	geocoder, closeGeocoder, err := newGeocoder(cfg.Geocoder)
	if err != nil {
		return err
	}
	defer closeGeocoder()

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → SlogLogger → Metrics → Tracing → Recoverer → CORS → MaxBodySize.
	// Recoverer stays as a last line of defence; handler.Server already turns
	// handler panics into the JSON error envelope.
	metrics := middleware.NewMetrics()
	srvHandler := handler.NewServer(service.NewBootcampService(bootcamps, geocoder), log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.NewTracingHandler(serviceName))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	srvHandler.RegisterRoutes(r)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logStartup(log, cfg)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	// Give in-flight requests up to 15 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
