// Package ui serves the server-rendered SRE dashboard pages.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/warehouse"

	gomponents "maragu.dev/gomponents"
)

// DashboardService builds the dashboard views.
type DashboardService interface {
	Overview(ctx context.Context) (*domain.Overview, error)
	Metrics(ctx context.Context) (*domain.Metrics, error)
	Remediation(ctx context.Context) (*domain.Remediation, error)
}

// ChatService answers chat messages.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

// RedeployService triggers redeploy quick actions.
type RedeployService interface {
	Redeploy(ctx context.Context, req domain.RedeployRequest) (*domain.RedeployResult, error)
}

type Handler struct {
	Dashboard  DashboardService
	Chat       ChatService
	Redeploy   RedeployService
	Query      domain.QueryExecutor
	Tables     domain.TableRef
	Logger     *slog.Logger
	Production bool
}

func NewHandler(
	dashboard DashboardService,
	chat ChatService,
	redeploy RedeployService,
	query domain.QueryExecutor,
	tables domain.TableRef,
	logger *slog.Logger,
	production bool,
) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		Dashboard:  dashboard,
		Chat:       chat,
		Redeploy:   redeploy,
		Query:      query,
		Tables:     tables,
		Logger:     logger,
		Production: production,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func principalLabel(ctx context.Context) string {
	name, ok := domain.PrincipalFromContext(ctx)
	if !ok || name == "" {
		return "anonymous"
	}
	return name
}

// renderServiceError renders a full error page for failures that leave
// nothing to show.
func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."

	var (
		validation *domain.ValidationError
		cfgErr     *warehouse.ConfigurationError
		timeout    *warehouse.TimeoutError
		remote     *warehouse.RemoteExecutionError
		transport  *warehouse.TransportError
		protocol   *warehouse.ProtocolError
	)
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		title = "Invalid Request"
		message = validation.Error()
	case errors.As(err, &cfgErr):
		status = http.StatusServiceUnavailable
		title = "Warehouse Not Configured"
		message = cfgErr.Error()
	case errors.As(err, &timeout):
		status = http.StatusGatewayTimeout
		title = "Query Timed Out"
		message = timeout.Error()
	case errors.As(err, &remote):
		status = http.StatusUnprocessableEntity
		title = "Query Failed"
		message = remote.Error()
	case errors.As(err, &transport), errors.As(err, &protocol):
		status = http.StatusBadGateway
		title = "Warehouse Unavailable"
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		h.Logger.LogAttrs(r.Context(), slog.LevelError, "ui request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	renderHTML(w, status, errorPage(title, message))
}
