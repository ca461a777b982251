package apiclient

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable_Basic(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"name", "age"}, [][]string{{"Alice", "30"}, {"Bob", "25"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "NAME   AGE", lines[0])
	assert.Equal(t, "Alice  30", lines[1])
	assert.Equal(t, "Bob    25", lines[2])
}

func TestPrintTable_EmptyColumns(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, nil, [][]string{{"a"}})
	assert.Empty(t, buf.String())
}

func TestPrintTable_ShortRows(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"a", "b"}, [][]string{{"1"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[1])
}

func TestFitWidths(t *testing.T) {
	widths := []int{10, 40}
	fitWidths(widths, 30)
	assert.Equal(t, []int{10, 18}, widths)

	widths = []int{5, 5}
	fitWidths(widths, 0)
	assert.Equal(t, []int{5, 5}, widths)

	widths = []int{4, 4}
	fitWidths(widths, 3)
	assert.Equal(t, []int{4, 4}, widths, "columns never shrink below the minimum")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]string{"hello": "world"}))

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "world", parsed["hello"])
	assert.Contains(t, buf.String(), "\n  ")

	buf.Reset()
	require.NoError(t, PrintJSON(&buf, nil))
	assert.Equal(t, "null\n", buf.String())
}

func TestPrintDetail(t *testing.T) {
	var buf bytes.Buffer
	PrintDetail(&buf, map[string]any{
		"success": true,
		"message": "Redeploy triggered",
		"target":  nil,
		"extra":   map[string]any{"k": "v"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "extra:"))
	assert.Contains(t, lines[0], `{"k":"v"}`)
	assert.True(t, strings.HasPrefix(lines[1], "message:"))
	assert.True(t, strings.HasPrefix(lines[3], "target:"))
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "alice", "alice"},
		{"whole float", float64(42), "42"},
		{"fraction", 91.5, "91.5"},
		{"bool", false, "false"},
		{"slice", []any{"a", "b"}, `["a","b"]`},
		{"map", map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestExtractRows(t *testing.T) {
	items := []map[string]any{
		{"id": float64(1), "status": "FAILED"},
		{"id": float64(2)},
	}
	rows := ExtractRows(items, []string{"id", "status"})
	assert.Equal(t, [][]string{{"1", "FAILED"}, {"2", ""}}, rows)
}
