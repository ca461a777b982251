package domain

import "time"

// MemorySpikeThreshold is the mem_pct above which a metric point is a spike.
const MemorySpikeThreshold = 85.0

// Health holds the pipeline and job counters of the executive dashboard.
type Health struct {
	PipelinesOK   int64 `json:"pipelines_ok"`
	PipelinesFail int64 `json:"pipelines_fail"`
	JobsOK        int64 `json:"jobs_ok"`
	JobsFail      int64 `json:"jobs_fail"`
}

// PipelinesTotal returns the number of pipeline runs counted.
func (h Health) PipelinesTotal() int64 { return h.PipelinesOK + h.PipelinesFail }

// JobsTotal returns the number of job runs counted.
func (h Health) JobsTotal() int64 { return h.JobsOK + h.JobsFail }

// IncidentItem is one entry of the incident feed, derived from a pipeline_logs row.
type IncidentItem struct {
	ID        string         `json:"id,omitempty"`
	Pipeline  string         `json:"pipeline"`
	Status    string         `json:"status"`
	Failed    bool           `json:"failed"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp,omitempty"`
	Raw       map[string]any `json:"raw"`
}

// Overview is the executive dashboard. Each panel carries its own error so
// one failing query does not hide the other.
type Overview struct {
	Health         Health         `json:"health"`
	HealthError    string         `json:"health_error,omitempty"`
	Incidents      []IncidentItem `json:"incidents"`
	IncidentsError string         `json:"incidents_error,omitempty"`
}

// MetricPoint is one system_metrics sample.
type MetricPoint struct {
	Timestamp string  `json:"ts"`
	CPUPct    float64 `json:"cpu_pct"`
	MemPct    float64 `json:"mem_pct"`
}

// MemorySpike reports whether the sample exceeds MemorySpikeThreshold.
func (p MetricPoint) MemorySpike() bool { return p.MemPct > MemorySpikeThreshold }

// MetricSummary aggregates a metric series.
type MetricSummary struct {
	Count  int     `json:"count"`
	AvgCPU float64 `json:"avg_cpu"`
	MaxCPU float64 `json:"max_cpu"`
	AvgMem float64 `json:"avg_mem"`
	MaxMem float64 `json:"max_mem"`
	Spikes int     `json:"spikes"`
}

// Metrics is the metrics page payload.
type Metrics struct {
	Points  []MetricPoint `json:"points"`
	Summary MetricSummary `json:"summary"`
}

// RemediationItem is one incident_knowledge_base row with the fields the
// quick action needs resolved up front.
type RemediationItem struct {
	Key         string         `json:"key"`
	ID          string         `json:"id,omitempty"`
	FailureType string         `json:"failure_type,omitempty"`
	Values      map[string]any `json:"values"`
}

// Remediation is the remediation page payload. Columns are ordered for
// display with the primary column first.
type Remediation struct {
	Columns []string          `json:"columns"`
	Items   []RemediationItem `json:"items"`
}

// RedeployRequest identifies the incident a redeploy is triggered for.
type RedeployRequest struct {
	ID          string `json:"id,omitempty"`
	FailureType string `json:"failure_type,omitempty"`
}

// RedeployResult is the outcome of a redeploy quick action.
type RedeployResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Target  string `json:"target"`
}

// ProbeStatus is the result of the last warehouse connectivity probe.
type ProbeStatus struct {
	CheckedAt time.Time     `json:"checked_at"`
	OK        bool          `json:"ok"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
}
