package chat

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/testutil"
)

var testTables = domain.TableRef{Catalog: "cat", Schema: "mon"}

func newTestService(exec domain.QueryExecutor) *Service {
	return NewService(exec, testTables, nil, slog.New(slog.DiscardHandler))
}

func TestResolve_DefaultIntents(t *testing.T) {
	svc := newTestService(&testutil.MockExecutor{})

	tests := []struct {
		message    string
		wantIntent string
		wantSQL    string
	}{
		{"Recent pipeline failures", "pipeline_failures", "LIKE '%fail%' GROUP BY status"},
		{"any PIPELINE failure today?", "pipeline_failures", "cat.mon.pipeline_logs"},
		{"show last pipeline runs", "recent_pipelines", "ORDER BY COALESCE(start_time, recorded_at, starttime) DESC LIMIT 10"},
		{"Show metrics", "system_metrics", "cat.mon.system_metrics ORDER BY timestamp DESC LIMIT 20"},
		{"memory usage", "system_metrics", "mem_pct"},
		{"  CPU  ", "system_metrics", "cpu_pct"},
		{"open incidents", "incident_knowledge", "cat.mon.incident_knowledge_base LIMIT 10"},
		{"knowledge base", "incident_knowledge", "incident_knowledge_base"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			intent, sql, ok := svc.Resolve(tt.message)
			require.True(t, ok)
			assert.Equal(t, tt.wantIntent, intent.Name)
			assert.Contains(t, sql, tt.wantSQL)
			assert.NotContains(t, sql, "{catalog}")
			assert.NotContains(t, sql, "{schema}")
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	svc := newTestService(&testutil.MockExecutor{})

	for _, msg := range []string{"hello", "pipeline", "how are you"} {
		_, _, ok := svc.Resolve(msg)
		assert.False(t, ok, msg)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	svc := newTestService(&testutil.MockExecutor{})

	// Matches both the failures and the recent-pipelines intents.
	intent, _, ok := svc.Resolve("last pipeline failure")
	require.True(t, ok)
	assert.Equal(t, "pipeline_failures", intent.Name)
}

func TestReply_EmptyMessage(t *testing.T) {
	exec := &testutil.MockExecutor{}
	svc := newTestService(exec)

	_, err := svc.Reply(context.Background(), "")

	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, exec.Calls())
}

func TestReply_BlankMessageGetsHelp(t *testing.T) {
	exec := &testutil.MockExecutor{}
	svc := newTestService(exec)

	reply, err := svc.Reply(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, HelpText, reply)
	assert.Empty(t, exec.Calls())
}

func TestReply_Help(t *testing.T) {
	exec := &testutil.MockExecutor{}
	svc := newTestService(exec)

	reply, err := svc.Reply(context.Background(), "what's up?")
	require.NoError(t, err)
	assert.Equal(t, HelpText, reply)
	assert.Empty(t, exec.Calls())
}

func TestReply_FormatsResult(t *testing.T) {
	exec := &testutil.MockExecutor{
		Match: []string{"pipeline_logs"},
		Responses: map[string]*domain.QueryResult{
			"pipeline_logs": testutil.Result([]string{"status", "cnt"},
				[]any{"FAILED", "3"},
				[]any{"failure", nil},
			),
		},
	}
	svc := newTestService(exec)

	reply, err := svc.Reply(context.Background(), "pipeline failures")
	require.NoError(t, err)

	want := "```\nstatus | cnt\n--- | ---\nFAILED | 3\nfailure | null\n```"
	assert.Equal(t, want, reply)
	require.Len(t, exec.Calls(), 1)
}

func TestReply_NoRows(t *testing.T) {
	svc := newTestService(&testutil.MockExecutor{})

	reply, err := svc.Reply(context.Background(), "show metrics")
	require.NoError(t, err)
	assert.Equal(t, NoRowsText, reply)
}

func TestReply_PropagatesExecutorError(t *testing.T) {
	boom := errors.New("warehouse down")
	exec := &testutil.MockExecutor{
		ExecuteFn: func(context.Context, string) (*domain.QueryResult, error) { return nil, boom },
	}
	svc := newTestService(exec)

	_, err := svc.Reply(context.Background(), "incidents")
	assert.ErrorIs(t, err, boom)
}

func TestFormatResult_CapsRows(t *testing.T) {
	rows := make([][]any, 0, 75)
	for i := 0; i < 75; i++ {
		rows = append(rows, []any{float64(i)})
	}
	out := FormatResult(testutil.Result([]string{"n"}, rows...))

	lines := strings.Split(out, "\n")
	// fence + header + separator + rows + fence
	assert.Len(t, lines, 3+MaxReplyRows+1)
	assert.Equal(t, "49", lines[len(lines)-2])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, "x", FormatValue("x"))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "true", FormatValue(true))
}

func TestParseIntents_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "intents: [:"},
		{"empty", "intents: []"},
		{"no sql", "intents:\n  - name: a\n    any: [x]\n"},
		{"no keywords", "intents:\n  - name: a\n    sql: SELECT 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIntents([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadIntents_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.yaml")
	doc := "intents:\n  - name: errors\n    all: [Error, Rate]\n    sql: SELECT * FROM {catalog}.{schema}.errors\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	intents, err := LoadIntents(path)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, []string{"error", "rate"}, intents[0].All)

	svc := NewService(&testutil.MockExecutor{}, testTables, intents, slog.New(slog.DiscardHandler))
	_, sql, ok := svc.Resolve("What is the ERROR rate?")
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM cat.mon.errors", sql)

	_, _, ok = svc.Resolve("show metrics")
	assert.False(t, ok)
}

func TestLoadIntents_MissingFile(t *testing.T) {
	_, err := LoadIntents(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
