package dashboard

import (
	"fmt"

	"sre-dashboard/internal/domain"
)

// Table names inside the monitoring namespace.
const (
	TablePipelineLogs  = "pipeline_logs"
	TableSystemMetrics = "system_metrics"
	TableKnowledgeBase = "incident_knowledge_base"
)

const (
	incidentFeedLimit = 20
	metricsLimit      = 500
	remediationLimit  = 100
)

// HealthQuery counts pipeline runs by outcome. Job counters come from the
// same table until a job_runs table exists.
func HealthQuery(t domain.TableRef) string {
	return fmt.Sprintf(`SELECT
  COUNT_IF(NOT %[2]s) AS pipelines_ok,
  COUNT_IF(%[2]s) AS pipelines_fail,
  COUNT_IF(NOT %[2]s) AS jobs_ok,
  COUNT_IF(%[2]s) AS jobs_fail
FROM %[1]s`, t.Qualify(TablePipelineLogs), failedPredicate)
}

const failedPredicate = "(LOWER(COALESCE(status, '')) LIKE '%fail%' OR LOWER(COALESCE(status, '')) LIKE '%error%')"

// IncidentFeedQuery selects the most recent pipeline_logs rows.
func IncidentFeedQuery(t domain.TableRef) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY COALESCE(start_time, recorded_at, starttime) DESC LIMIT %d",
		t.Qualify(TablePipelineLogs), incidentFeedLimit)
}

// MetricsQuery selects the metric series in ascending time order.
func MetricsQuery(t domain.TableRef) string {
	return fmt.Sprintf("SELECT timestamp as ts, cpu_pct, mem_pct FROM %s ORDER BY timestamp ASC LIMIT %d",
		t.Qualify(TableSystemMetrics), metricsLimit)
}

// RemediationQuery lists the incident knowledge base.
func RemediationQuery(t domain.TableRef) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", t.Qualify(TableKnowledgeBase), remediationLimit)
}
