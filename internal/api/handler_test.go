package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/testutil"
	"sre-dashboard/internal/warehouse"
)

// === Mocks ===

type mockChat struct {
	replyFn func(ctx context.Context, message string) (string, error)
}

func (m *mockChat) Reply(ctx context.Context, message string) (string, error) {
	if m.replyFn == nil {
		panic("mockChat.Reply called but not configured")
	}
	return m.replyFn(ctx, message)
}

type mockDashboard struct {
	overviewFn    func(ctx context.Context) (*domain.Overview, error)
	metricsFn     func(ctx context.Context) (*domain.Metrics, error)
	remediationFn func(ctx context.Context) (*domain.Remediation, error)
}

func (m *mockDashboard) Overview(ctx context.Context) (*domain.Overview, error) {
	if m.overviewFn == nil {
		panic("mockDashboard.Overview called but not configured")
	}
	return m.overviewFn(ctx)
}

func (m *mockDashboard) Metrics(ctx context.Context) (*domain.Metrics, error) {
	if m.metricsFn == nil {
		panic("mockDashboard.Metrics called but not configured")
	}
	return m.metricsFn(ctx)
}

func (m *mockDashboard) Remediation(ctx context.Context) (*domain.Remediation, error) {
	if m.remediationFn == nil {
		panic("mockDashboard.Remediation called but not configured")
	}
	return m.remediationFn(ctx)
}

type mockRedeploy struct {
	got []domain.RedeployRequest
}

func (m *mockRedeploy) Redeploy(_ context.Context, req domain.RedeployRequest) (*domain.RedeployResult, error) {
	m.got = append(m.got, req)
	target := req.ID
	if target == "" {
		target = "unknown"
	}
	return &domain.RedeployResult{Success: true, Message: "Redeploy triggered", Target: target}, nil
}

type mockProbe struct {
	status domain.ProbeStatus
	ok     bool
}

func (m *mockProbe) Status() (domain.ProbeStatus, bool) { return m.status, m.ok }

// === Helpers ===

func newTestRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", NewHandler(deps).Mount)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// === Query ===

func TestExecuteQuery(t *testing.T) {
	exec := &testutil.MockExecutor{
		ExecuteFn: func(_ context.Context, q string) (*domain.QueryResult, error) {
			return testutil.Result([]string{"a", "b"}, []any{float64(1), "x"}, []any{float64(2), nil}), nil
		},
	}
	h := newTestRouter(Deps{Executor: exec})

	rec := doJSON(t, h, http.MethodPost, "/api/databricks/query", `{"query":"  SELECT a, b FROM t  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"columns":["a","b"],"rows":[{"a":1,"b":"x"},{"a":2,"b":null}]}`, rec.Body.String())
	assert.Equal(t, []string{"SELECT a, b FROM t"}, exec.Calls())
}

func TestExecuteQuery_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing query", `{}`, "Missing or invalid 'query' in body"},
		{"empty string", `{"query":""}`, "Missing or invalid 'query' in body"},
		{"non-string", `{"query":42}`, "Missing or invalid 'query' in body"},
		{"null", `{"query":null}`, "Missing or invalid 'query' in body"},
		{"not json", `SELECT 1`, "Missing or invalid 'query' in body"},
		{"blank", `{"query":"   \n\t"}`, "Query is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &testutil.MockExecutor{}
			h := newTestRouter(Deps{Executor: exec})

			rec := doJSON(t, h, http.MethodPost, "/api/databricks/query", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Equal(t, CodeValidation, body.Code)
			assert.Empty(t, exec.Calls())
		})
	}
}

func TestExecuteQuery_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"configuration", &warehouse.ConfigurationError{Missing: []string{warehouse.EnvToken}}, http.StatusServiceUnavailable, CodeWarehouseNotConfigured},
		{"transport", &warehouse.TransportError{Op: "submit", StatusCode: 500}, http.StatusBadGateway, CodeWarehouseTransport},
		{"protocol", &warehouse.ProtocolError{Message: "response missing statement_id"}, http.StatusBadGateway, CodeWarehouseProtocol},
		{"remote", &warehouse.RemoteExecutionError{State: warehouse.StateFailed, Message: "bad table"}, http.StatusUnprocessableEntity, CodeQueryFailed},
		{"timeout", &warehouse.TimeoutError{StatementID: "s1", LastState: warehouse.StateRunning, Waited: time.Minute}, http.StatusGatewayTimeout, CodeQueryTimeout},
		{"wrapped timeout", fmt.Errorf("overview: %w", &warehouse.TimeoutError{}), http.StatusGatewayTimeout, CodeQueryTimeout},
		{"canceled", fmt.Errorf("wait for statement s1: %w", context.Canceled), 499, CodeCanceled},
		{"canceled mid request", &warehouse.TransportError{Op: "poll", Err: context.Canceled}, 499, CodeCanceled},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &testutil.MockExecutor{
				ExecuteFn: func(context.Context, string) (*domain.QueryResult, error) { return nil, tt.err },
			}
			h := newTestRouter(Deps{Executor: exec})

			rec := doJSON(t, h, http.MethodPost, "/api/databricks/query", `{"query":"SELECT 1"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

// === Chat ===

func TestChat(t *testing.T) {
	var got string
	chat := &mockChat{replyFn: func(_ context.Context, msg string) (string, error) {
		got = msg
		return "No rows returned.", nil
	}}
	h := newTestRouter(Deps{Chat: chat})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", `{"message":"show metrics"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply":"No rows returned."}`, rec.Body.String())
	assert.Equal(t, "show metrics", got)
}

func TestChat_MissingMessage(t *testing.T) {
	h := newTestRouter(Deps{Chat: &mockChat{}})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", `{"msg":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing or invalid 'message' in body", decodeError(t, rec).Error)
}

func TestChat_ValidationFromService(t *testing.T) {
	chat := &mockChat{replyFn: func(context.Context, string) (string, error) {
		return "", domain.ErrValidation("Missing or invalid 'message' in body")
	}}
	h := newTestRouter(Deps{Chat: chat})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// === Redeploy ===

func TestRedeploy(t *testing.T) {
	redeploy := &mockRedeploy{}
	h := newTestRouter(Deps{Redeploy: redeploy})

	rec := doJSON(t, h, http.MethodPost, "/api/redeploy", `{"id":"inc-1","failure_type":"oom"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Redeploy triggered","target":"inc-1"}`, rec.Body.String())
	assert.Equal(t, []domain.RedeployRequest{{ID: "inc-1", FailureType: "oom"}}, redeploy.got)
}

func TestRedeploy_InvalidBodyIsTolerated(t *testing.T) {
	redeploy := &mockRedeploy{}
	h := newTestRouter(Deps{Redeploy: redeploy})

	rec := doJSON(t, h, http.MethodPost, "/api/redeploy", `not json`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Redeploy triggered","target":"unknown"}`, rec.Body.String())
	assert.Equal(t, []domain.RedeployRequest{{}}, redeploy.got)
}

// === Dashboard ===

func TestDashboardRoutes(t *testing.T) {
	dash := &mockDashboard{
		overviewFn: func(context.Context) (*domain.Overview, error) {
			return &domain.Overview{Health: domain.Health{PipelinesOK: 2}, Incidents: []domain.IncidentItem{}}, nil
		},
		metricsFn: func(context.Context) (*domain.Metrics, error) {
			return &domain.Metrics{Points: []domain.MetricPoint{{Timestamp: "t1", CPUPct: 1, MemPct: 2}}}, nil
		},
		remediationFn: func(context.Context) (*domain.Remediation, error) {
			return nil, &warehouse.RemoteExecutionError{State: warehouse.StateFailed, Message: "TABLE_OR_VIEW_NOT_FOUND"}
		},
	}
	h := newTestRouter(Deps{Dashboard: dash})

	rec := doJSON(t, h, http.MethodGet, "/api/dashboard/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var overview domain.Overview
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&overview))
	assert.Equal(t, int64(2), overview.Health.PipelinesOK)

	rec = doJSON(t, h, http.MethodGet, "/api/dashboard/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ts":"t1"`)

	rec = doJSON(t, h, http.MethodGet, "/api/dashboard/remediation", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "TABLE_OR_VIEW_NOT_FOUND")
}

// === Health ===

func TestHealth(t *testing.T) {
	checked := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		configured bool
		probe      *mockProbe
		wantStatus string
		wantProbe  bool
	}{
		{"configured no probe yet", true, &mockProbe{}, "ok", false},
		{"not configured", false, nil, "degraded", false},
		{"probe ok", true, &mockProbe{ok: true, status: domain.ProbeStatus{CheckedAt: checked, OK: true}}, "ok", true},
		{"probe failed", true, &mockProbe{ok: true, status: domain.ProbeStatus{CheckedAt: checked, Error: "timeout"}}, "degraded", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Deps{WarehouseConfigured: func() bool { return tt.configured }}
			if tt.probe != nil {
				deps.Probe = tt.probe
			}
			h := newTestRouter(deps)

			rec := doJSON(t, h, http.MethodGet, "/api/health", "")

			require.Equal(t, http.StatusOK, rec.Code)
			var got HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.configured, got.WarehouseConfigured)
			assert.Equal(t, tt.wantProbe, got.Probe != nil)
		})
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	h := newTestRouter(Deps{})

	rec := doJSON(t, h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decodeError(t, rec).Code)
}

func TestRequestBodyLimit(t *testing.T) {
	exec := &testutil.MockExecutor{}
	h := newTestRouter(Deps{Executor: exec})

	big := `{"query":"` + strings.Repeat("x", maxRequestBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/databricks/query", bytes.NewBufferString(big))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, exec.Calls())
}
