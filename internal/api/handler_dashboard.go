package api

import "net/http"

// DashboardOverview returns health counters and the incident feed.
func (h *APIHandler) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// DashboardMetrics returns the CPU and memory series.
func (h *APIHandler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboard.Metrics(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// DashboardRemediation returns the incident knowledge base.
func (h *APIHandler) DashboardRemediation(w http.ResponseWriter, r *http.Request) {
	rem, err := h.dashboard.Remediation(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}
