package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/warehouse"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeWarehouseNotConfigured = "WAREHOUSE_NOT_CONFIGURED"
	CodeWarehouseTransport     = "WAREHOUSE_TRANSPORT"
	CodeWarehouseProtocol      = "WAREHOUSE_PROTOCOL"
	CodeQueryFailed            = "QUERY_FAILED"
	CodeQueryTimeout           = "QUERY_TIMEOUT"
	CodeCanceled               = "CANCELED"
	CodeInternal               = "INTERNAL"
)

// statusFromError maps domain and warehouse errors to an HTTP status and code.
func statusFromError(err error) (int, string) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		cfgErr     *warehouse.ConfigurationError
		transport  *warehouse.TransportError
		protocol   *warehouse.ProtocolError
		remote     *warehouse.RemoteExecutionError
		timeout    *warehouse.TimeoutError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, CodeValidation
	case errors.As(err, &notFound):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable, CodeWarehouseNotConfigured
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, CodeQueryTimeout
	case errors.As(err, &remote):
		return http.StatusUnprocessableEntity, CodeQueryFailed
	case errors.Is(err, context.Canceled):
		// nginx's "client closed request"
		return 499, CodeCanceled
	case errors.As(err, &protocol):
		return http.StatusBadGateway, CodeWarehouseProtocol
	case errors.As(err, &transport):
		return http.StatusBadGateway, CodeWarehouseTransport
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// renderError writes err as an ErrorResponse. Server-side failures are logged.
func (h *APIHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "api request failed",
			slog.String("path", r.URL.Path), slog.String("code", code), slog.Any("error", err))
	}
	writeError(w, status, code, err.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
