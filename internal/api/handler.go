// Package api provides HTTP handlers for the SRE dashboard JSON API.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sre-dashboard/internal/domain"
)

// ChatService answers chat messages.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

// DashboardService builds the dashboard views.
type DashboardService interface {
	Overview(ctx context.Context) (*domain.Overview, error)
	Metrics(ctx context.Context) (*domain.Metrics, error)
	Remediation(ctx context.Context) (*domain.Remediation, error)
}

// RedeployService triggers redeploy quick actions.
type RedeployService interface {
	Redeploy(ctx context.Context, req domain.RedeployRequest) (*domain.RedeployResult, error)
}

// ProbeReporter exposes the last warehouse probe.
type ProbeReporter interface {
	Status() (domain.ProbeStatus, bool)
}

// Deps holds the services the handlers delegate to.
type Deps struct {
	Executor  domain.QueryExecutor
	Chat      ChatService
	Dashboard DashboardService
	Redeploy  RedeployService
	Probe     ProbeReporter
	// WarehouseConfigured reports whether the warehouse connection is complete.
	WarehouseConfigured func() bool
	Logger              *slog.Logger
}

// APIHandler serves the /api routes.
type APIHandler struct {
	exec       domain.QueryExecutor
	chat       ChatService
	dashboard  DashboardService
	redeploy   RedeployService
	probe      ProbeReporter
	configured func() bool
	logger     *slog.Logger
}

// NewHandler creates a new APIHandler.
func NewHandler(deps Deps) *APIHandler {
	configured := deps.WarehouseConfigured
	if configured == nil {
		configured = func() bool { return true }
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &APIHandler{
		exec:       deps.Executor,
		chat:       deps.Chat,
		dashboard:  deps.Dashboard,
		redeploy:   deps.Redeploy,
		probe:      deps.Probe,
		configured: configured,
		logger:     logger,
	}
}

// Mount registers the API routes on r. Paths are relative to the /api prefix.
func (h *APIHandler) Mount(r chi.Router) {
	r.Post("/databricks/query", h.ExecuteQuery)
	r.Post("/chat", h.Chat)
	r.Post("/redeploy", h.Redeploy)
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/overview", h.DashboardOverview)
		r.Get("/metrics", h.DashboardMetrics)
		r.Get("/remediation", h.DashboardRemediation)
	})
	r.Get("/health", h.Health)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	})
}
