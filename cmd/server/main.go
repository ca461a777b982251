// Package main is the entry point for the SRE dashboard server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sre-dashboard/internal/app"
	"sre-dashboard/internal/config"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	application, err := app.New(ctx, app.Deps{Cfg: cfg, Logger: logger})
	if err != nil {
		return err
	}
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer application.Stop()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           application.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			"addr", cfg.ListenAddr,
			"env", cfg.Env,
			"warehouse_configured", cfg.Warehouse.Configured(),
			"tables", cfg.Catalog+"."+cfg.Schema)
		logger.Info("dashboard ready", "ui", localURL(cfg.ListenAddr, "/ui"), "health", localURL(cfg.ListenAddr, "/api/health"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// localURL builds the URL an operator on this machine opens to reach path.
// Wildcard listen hosts become localhost; an unparsable address is used as is.
func localURL(listenAddr, path string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		addr = config.DefaultListenAddr
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		switch host {
		case "", "0.0.0.0", "::":
			host = "localhost"
		}
		addr = net.JoinHostPort(host, port)
	}
	return "http://" + addr + path
}
