package ui

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/service/chat"
	"sre-dashboard/internal/service/dashboard"

	gomponents "maragu.dev/gomponents"
)

const sqlEditorMaxRows = 200
const sqlEditorCSVMaxRows = 5000

func (h *Handler) SQLEditorPage(w http.ResponseWriter, r *http.Request) {
	sqlText := strings.TrimSpace(r.URL.Query().Get("sql"))
	if sqlText == "" {
		sqlText = defaultSQLSnippet(r.URL.Query().Get("snippet"), h.Tables)
	}
	h.renderSQLEditor(w, r, sqlText, nil, "")
}

func (h *Handler) SQLEditorRun(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}

	sqlText := formString(r.Form, "sql")
	if sqlText == "" {
		h.renderSQLEditor(w, r, sqlText, nil, "Query is empty")
		return
	}
	result, err := h.Query.ExecuteSQL(r.Context(), sqlText)
	if err != nil {
		h.renderSQLEditor(w, r, sqlText, nil, err.Error())
		return
	}

	h.renderSQLEditor(w, r, sqlText, result, "")
}

func (h *Handler) SQLEditorDownloadCSV(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}

	sqlText := formString(r.Form, "sql")
	if sqlText == "" {
		h.renderSQLEditor(w, r, sqlText, nil, "Query is empty")
		return
	}
	result, err := h.Query.ExecuteSQL(r.Context(), sqlText)
	if err != nil {
		h.renderSQLEditor(w, r, sqlText, nil, err.Error())
		return
	}

	rows := result.Rows
	if len(rows) > sqlEditorCSVMaxRows {
		rows = rows[:sqlEditorCSVMaxRows]
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(result.Columns); err != nil {
		renderHTML(w, http.StatusInternalServerError, errorPage("Export Failed", "Failed writing CSV header."))
		return
	}
	for _, row := range rows {
		record := make([]string, 0, len(result.Columns))
		for _, col := range result.Columns {
			record = append(record, csvCell(row[col]))
		}
		if err := writer.Write(record); err != nil {
			renderHTML(w, http.StatusInternalServerError, errorPage("Export Failed", "Failed writing CSV rows."))
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		renderHTML(w, http.StatusInternalServerError, errorPage("Export Failed", "Failed finalizing CSV."))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.Tables.Schema+"_results.csv"))
	if len(result.Rows) > sqlEditorCSVMaxRows {
		w.Header().Set("X-Results-Truncated", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) renderSQLEditor(w http.ResponseWriter, r *http.Request, sqlText string, result *domain.QueryResult, runError string) {
	renderHTML(w, http.StatusOK, sqlEditorPage(principalLabel(r.Context()), sqlText, result, runError, func() gomponents.Node { return csrfField(r) }))
}

func defaultSQLSnippet(snippetID string, tables domain.TableRef) string {
	switch snippetID {
	case dashboard.TablePipelineLogs:
		return fmt.Sprintf("SELECT *\nFROM %s\nLIMIT 50", tables.Qualify(dashboard.TablePipelineLogs))
	case dashboard.TableSystemMetrics:
		return fmt.Sprintf("SELECT *\nFROM %s\nORDER BY timestamp DESC\nLIMIT 50", tables.Qualify(dashboard.TableSystemMetrics))
	case dashboard.TableKnowledgeBase:
		return fmt.Sprintf("SELECT *\nFROM %s\nLIMIT 50", tables.Qualify(dashboard.TableKnowledgeBase))
	default:
		return ""
	}
}

// csvCell leaves SQL NULL as an empty field.
func csvCell(v any) string {
	if v == nil {
		return ""
	}
	return chat.FormatValue(v)
}
