// Package remediation triggers quick actions for known incidents.
package remediation

import (
	"context"
	"log/slog"
	"strings"

	"sre-dashboard/internal/domain"
)

// Redeployer triggers a pipeline redeploy for an incident.
type Redeployer interface {
	Redeploy(ctx context.Context, req domain.RedeployRequest) (*domain.RedeployResult, error)
}

// Service is the redeploy quick action. It acknowledges every request
// without contacting a deployment system.
type Service struct {
	logger *slog.Logger
}

var _ Redeployer = (*Service)(nil)

// NewService creates a remediation service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Target returns the identifier a redeploy acts on: the id, else the failure
// type, else "unknown".
func Target(req domain.RedeployRequest) string {
	if id := strings.TrimSpace(req.ID); id != "" {
		return id
	}
	if ft := strings.TrimSpace(req.FailureType); ft != "" {
		return ft
	}
	return "unknown"
}

// Redeploy acknowledges the request.
func (s *Service) Redeploy(ctx context.Context, req domain.RedeployRequest) (*domain.RedeployResult, error) {
	target := Target(req)
	s.logger.Info("redeploy triggered",
		"target", target,
		"id", req.ID,
		"failure_type", req.FailureType,
		"request_id", domain.RequestIDFromContext(ctx))
	return &domain.RedeployResult{
		Success: true,
		Message: "Redeploy triggered",
		Target:  target,
	}, nil
}
