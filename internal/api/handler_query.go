package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

const maxRequestBodyBytes = 1 << 20

// QueryRequest is the body of POST /api/databricks/query.
type QueryRequest struct {
	Query *string `json:"query"`
}

// ExecuteQuery runs an ad-hoc statement and returns {columns, rows}.
func (h *APIHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil || req.Query == nil || *req.Query == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "Missing or invalid 'query' in body")
		return
	}
	query := strings.TrimSpace(*req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "Query is empty")
		return
	}

	result, err := h.exec.ExecuteSQL(r.Context(), query)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
