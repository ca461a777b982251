// Package dashboard assembles the executive, metrics and remediation views
// from the monitoring tables.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"sre-dashboard/internal/domain"
)

// Service runs the dashboard queries through a QueryExecutor.
type Service struct {
	exec   domain.QueryExecutor
	tables domain.TableRef
	logger *slog.Logger
}

// NewService creates a dashboard service.
func NewService(exec domain.QueryExecutor, tables domain.TableRef, logger *slog.Logger) *Service {
	return &Service{exec: exec, tables: tables, logger: logger}
}

// Overview runs the health and incident feed queries concurrently. A failed
// panel is reported in the Overview instead of failing the call.
func (s *Service) Overview(ctx context.Context) (*domain.Overview, error) {
	out := &domain.Overview{Incidents: []domain.IncidentItem{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.exec.ExecuteSQL(gctx, HealthQuery(s.tables))
		if err != nil {
			s.logger.Warn("health query failed", "error", err)
			out.HealthError = err.Error()
			return nil
		}
		out.Health = parseHealth(res)
		return nil
	})
	g.Go(func() error {
		res, err := s.exec.ExecuteSQL(gctx, IncidentFeedQuery(s.tables))
		if err != nil {
			s.logger.Warn("incident feed query failed", "error", err)
			out.IncidentsError = err.Error()
			return nil
		}
		out.Incidents = parseIncidents(res)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	return out, nil
}

// Metrics returns the metric series and its summary.
func (s *Service) Metrics(ctx context.Context) (*domain.Metrics, error) {
	res, err := s.exec.ExecuteSQL(ctx, MetricsQuery(s.tables))
	if err != nil {
		return nil, err
	}
	points := make([]domain.MetricPoint, 0, len(res.Rows))
	for _, row := range res.Rows {
		points = append(points, domain.MetricPoint{
			Timestamp: stringValue(firstPresent(row, "ts", "timestamp")),
			CPUPct:    floatValue(row["cpu_pct"]),
			MemPct:    floatValue(row["mem_pct"]),
		})
	}
	return &domain.Metrics{Points: points, Summary: Summarize(points)}, nil
}

// Summarize computes averages, maxima and the memory spike count.
func Summarize(points []domain.MetricPoint) domain.MetricSummary {
	sum := domain.MetricSummary{Count: len(points)}
	if len(points) == 0 {
		return sum
	}
	var cpuTotal, memTotal float64
	sum.MaxCPU, sum.MaxMem = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		cpuTotal += p.CPUPct
		memTotal += p.MemPct
		sum.MaxCPU = math.Max(sum.MaxCPU, p.CPUPct)
		sum.MaxMem = math.Max(sum.MaxMem, p.MemPct)
		if p.MemorySpike() {
			sum.Spikes++
		}
	}
	sum.AvgCPU = cpuTotal / float64(len(points))
	sum.AvgMem = memTotal / float64(len(points))
	return sum
}

// Remediation lists the knowledge base with quick-action targets resolved.
func (s *Service) Remediation(ctx context.Context) (*domain.Remediation, error) {
	res, err := s.exec.ExecuteSQL(ctx, RemediationQuery(s.tables))
	if err != nil {
		return nil, err
	}

	items := make([]domain.RemediationItem, 0, len(res.Rows))
	for _, row := range res.Rows {
		items = append(items, domain.RemediationItem{
			Key:         stringValue(firstPresent(row, "incident_id", "id", "failure_type")),
			ID:          stringValue(firstPresent(row, "incident_id", "id")),
			FailureType: stringValue(firstPresent(row, "error_signature", "failure_type")),
			Values:      row,
		})
	}
	return &domain.Remediation{Columns: DisplayColumns(res.Columns), Items: items}, nil
}

var hiddenColumns = []string{"id", "created_at", "updated_at"}

var defaultRemediationColumns = []string{"failure_type", "description", "suggested_action", "last_updated"}

// DisplayColumns drops bookkeeping columns and moves the primary column,
// the first of incident_id, error_signature and failure_type, to the front.
func DisplayColumns(columns []string) []string {
	if len(columns) == 0 {
		columns = defaultRemediationColumns
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !slices.Contains(hiddenColumns, c) {
			out = append(out, c)
		}
	}
	for _, primary := range []string{"incident_id", "error_signature", "failure_type"} {
		idx := slices.Index(out, primary)
		if idx < 0 {
			continue
		}
		if idx > 0 {
			out = slices.Delete(out, idx, idx+1)
			out = slices.Insert(out, 0, primary)
		}
		break
	}
	return out
}

func parseHealth(res *domain.QueryResult) domain.Health {
	if res == nil || len(res.Rows) == 0 {
		return domain.Health{}
	}
	row := res.Rows[0]
	return domain.Health{
		PipelinesOK:   intValue(row["pipelines_ok"]),
		PipelinesFail: intValue(row["pipelines_fail"]),
		JobsOK:        intValue(row["jobs_ok"]),
		JobsFail:      intValue(row["jobs_fail"]),
	}
}

func parseIncidents(res *domain.QueryResult) []domain.IncidentItem {
	items := make([]domain.IncidentItem, 0, len(res.Rows))
	for _, row := range res.Rows {
		status := stringValue(firstPresent(row, "status", "run_status"))
		msg := stringValue(firstPresent(row, "message", "error_message", "remediation_steps", "log_message"))
		if msg == "" {
			msg = "—"
		}
		pipeline := stringValue(firstPresent(row, "pipeline_name", "pipeline_id"))
		if pipeline == "" {
			pipeline = "Pipeline"
		}
		items = append(items, domain.IncidentItem{
			ID:        stringValue(row["id"]),
			Pipeline:  pipeline,
			Status:    status,
			Failed:    IsFailureStatus(status),
			Message:   msg,
			Timestamp: stringValue(firstPresent(row, "timestamp", "start_time", "recorded_at", "starttime", "log_ts", "run_ts", "ts")),
			Raw:       row,
		})
	}
	return items
}

// IsFailureStatus reports whether a run status denotes a failure.
func IsFailureStatus(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "fail") || strings.Contains(s, "error")
}

// firstPresent returns the first non-nil value among keys.
func firstPresent(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// floatValue parses a warehouse value. JSON_ARRAY results carry numbers as
// strings; unparseable values count as zero.
func floatValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}

func intValue(v any) int64 {
	return int64(floatValue(v))
}
