package api

import (
	"net/http"

	"sre-dashboard/internal/domain"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status              string              `json:"status"`
	WarehouseConfigured bool                `json:"warehouse_configured"`
	Probe               *domain.ProbeStatus `json:"probe,omitempty"`
}

// Health reports server liveness and warehouse reachability. It always
// answers 200; status is "degraded" when the warehouse is unusable.
func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", WarehouseConfigured: h.configured()}
	if !resp.WarehouseConfigured {
		resp.Status = "degraded"
	}
	if h.probe != nil {
		if st, ok := h.probe.Status(); ok {
			resp.Probe = &st
			if !st.OK {
				resp.Status = "degraded"
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
