package api

import (
	"encoding/json"
	"net/http"

	"sre-dashboard/internal/domain"
)

// Redeploy triggers the redeploy quick action. A missing or malformed body
// is treated as an empty request.
func (h *APIHandler) Redeploy(w http.ResponseWriter, r *http.Request) {
	var req domain.RedeployRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		req = domain.RedeployRequest{}
	}

	result, err := h.redeploy.Redeploy(r.Context(), req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
