package api

import (
	"encoding/json"
	"net/http"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message *string `json:"message"`
}

// ChatResponse is the reply to a chat message.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat answers a free-text question about the monitoring tables.
func (h *APIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil || req.Message == nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Missing or invalid 'message' in body")
		return
	}

	reply, err := h.chat.Reply(r.Context(), *req.Message)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
