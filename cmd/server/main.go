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

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/app"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/scheduler"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/version"
)

// shutdownTimeout bounds the graceful shutdown after a signal or server failure.
const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

// run wires the application and serves until interrupted. Deferred cleanup
// runs on every return path.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	// Wire database, market data and services
	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logrus.WithError(err).Error("failed to close application")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"database": cfg.Database.Path,
		"provider": cfg.Provider.Name,
		"version":  version.Version,
	}).Info("application initialized")

	// Keep quotes of held symbols warm
	refresher := scheduler.NewQuoteRefresher(application.TransactionRepo, application.Gateway)
	if err := refresher.Start(cfg.Scheduler.QuoteRefresh); err != nil {
		return fmt.Errorf("failed to start quote refresher: %w", err)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:      application.System,
		Portfolio:   application.Portfolio,
		Transaction: application.Transaction,
		Market:      application.Market,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serve(server, quit, refresher.Stop)
}

// serve runs server until quit fires or the listener fails, then stops
// background work and shuts the server down. A listener failure is returned.
func serve(server *http.Server, quit <-chan os.Signal, stop func(context.Context)) error {
	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var failure error
	select {
	case <-quit:
		logrus.Info("Shutting down server...")
	case err := <-serverErr:
		failure = fmt.Errorf("server failed to start: %w", err)
		logrus.Error(failure)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stop(ctx)

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
	return failure
}
