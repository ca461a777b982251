// Package app wires configuration, the warehouse client and the services
// into the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/robfig/cron/v3"

	"sre-dashboard/internal/config"
	"sre-dashboard/internal/service/chat"
	"sre-dashboard/internal/service/dashboard"
	"sre-dashboard/internal/service/probe"
	"sre-dashboard/internal/service/remediation"
	"sre-dashboard/internal/warehouse"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	// HTTPClient overrides the warehouse HTTP client. Tests point it at a stub.
	HTTPClient *http.Client
}

// Services groups the services the API handler, UI and router need.
type Services struct {
	Warehouse   *warehouse.Client
	Chat        *chat.Service
	Dashboard   *dashboard.Service
	Remediation *remediation.Service
	Probe       *probe.Prober
}

// App holds the fully-wired application.
type App struct {
	Services Services
	cfg      *config.Config
	logger   *slog.Logger
}

// New wires the warehouse client and every service from deps. It fails only
// on invalid configuration such as an unreadable chat intents file or a bad
// probe schedule.
func New(_ context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var opts []warehouse.ClientOptions
	if deps.HTTPClient != nil {
		opts = append(opts, warehouse.ClientOptions{HTTPClient: deps.HTTPClient})
	}
	client := warehouse.NewClient(cfg.Warehouse, logger.With("component", "warehouse"), opts...)

	var intents []chat.Intent
	if cfg.ChatIntentsFile != "" {
		loaded, err := chat.LoadIntents(cfg.ChatIntentsFile)
		if err != nil {
			return nil, fmt.Errorf("chat intents: %w", err)
		}
		intents = loaded
		logger.Info("chat intents loaded", "file", cfg.ChatIntentsFile, "count", len(intents))
	}

	if cfg.ProbeSchedule != "" {
		if _, err := cron.ParseStandard(cfg.ProbeSchedule); err != nil {
			return nil, fmt.Errorf("probe schedule %q: %w", cfg.ProbeSchedule, err)
		}
	}

	tables := cfg.Tables()
	return &App{
		Services: Services{
			Warehouse:   client,
			Chat:        chat.NewService(client, tables, intents, logger.With("component", "chat")),
			Dashboard:   dashboard.NewService(client, tables, logger.With("component", "dashboard")),
			Remediation: remediation.NewService(logger.With("component", "remediation")),
			Probe:       probe.NewProber(client, cfg.ProbeSchedule, logger.With("component", "probe")),
		},
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start launches background work. The probe runs until Stop.
func (a *App) Start(ctx context.Context) error {
	return a.Services.Probe.Start(ctx)
}

// Stop waits for background work to finish.
func (a *App) Stop() {
	a.Services.Probe.Stop()
}
