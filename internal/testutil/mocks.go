// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"strings"
	"sync"

	"sre-dashboard/internal/domain"
)

// === Query Executor Mock ===

// MockExecutor implements domain.QueryExecutor for testing.
type MockExecutor struct {
	// ExecuteFn, when set, handles every call.
	ExecuteFn func(ctx context.Context, query string) (*domain.QueryResult, error)
	// Responses maps a query substring to a canned result. The first key
	// contained in the query wins; iteration follows Match order.
	Responses map[string]*domain.QueryResult
	// Errors maps a query substring to a canned error.
	Errors map[string]error
	// Match lists the keys of Responses and Errors in match order.
	Match []string

	mu      sync.Mutex
	Queries []string // collected queries for assertions
}

var _ domain.QueryExecutor = (*MockExecutor)(nil)

// ExecuteSQL implements the interface method for testing.
func (m *MockExecutor) ExecuteSQL(ctx context.Context, query string) (*domain.QueryResult, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()

	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, query)
	}
	for _, key := range m.Match {
		if !strings.Contains(query, key) {
			continue
		}
		if err, ok := m.Errors[key]; ok {
			return nil, err
		}
		if res, ok := m.Responses[key]; ok {
			return res, nil
		}
	}
	return &domain.QueryResult{Columns: []string{}, Rows: []map[string]any{}}, nil
}

// Calls returns a copy of the collected queries.
func (m *MockExecutor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Queries...)
}

// Result builds a QueryResult from column names and positional rows.
func Result(columns []string, rows ...[]any) *domain.QueryResult {
	out := &domain.QueryResult{Columns: columns, Rows: make([]map[string]any, 0, len(rows))}
	for _, values := range rows {
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row[col] = values[i]
			} else {
				row[col] = nil
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
