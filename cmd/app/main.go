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

	"tracking/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := cmd.NewLogger(configs)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, logger); err != nil {
		logger.Error("tracking service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Warn("failed to close connections", "error", closeErr)
		}
	}()

	if err = app.Seed(ctx); err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config) error {
	e, err := app.CreateEcho()
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		e.Logger.Infof("listening on :%s", configs.HTTPPort)
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
