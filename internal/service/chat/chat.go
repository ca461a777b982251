// Package chat answers free-text questions about the monitoring tables by
// mapping keywords to predefined SQL.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sre-dashboard/internal/domain"
)

// MaxReplyRows caps the rows rendered into a reply table.
const MaxReplyRows = 50

// HelpText is returned when no intent matches.
const HelpText = `I can answer questions about pipeline failures, recent pipelines, metrics (CPU/Memory), and incidents. Try: "Recent pipeline failures" or "Show metrics".`

// NoRowsText is returned when the matched query yields nothing.
const NoRowsText = "No rows returned."

// Service resolves chat messages to queries and formats their results.
type Service struct {
	exec    domain.QueryExecutor
	tables  domain.TableRef
	intents []Intent
	logger  *slog.Logger
}

// NewService creates a chat service. A nil intents slice uses DefaultIntents.
func NewService(exec domain.QueryExecutor, tables domain.TableRef, intents []Intent, logger *slog.Logger) *Service {
	if intents == nil {
		intents = DefaultIntents()
	}
	return &Service{exec: exec, tables: tables, intents: intents, logger: logger}
}

// Resolve returns the first intent matching message and its rendered SQL.
func (s *Service) Resolve(message string) (*Intent, string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for i := range s.intents {
		if s.intents[i].Matches(normalized) {
			return &s.intents[i], s.intents[i].Render(s.tables), true
		}
	}
	return nil, "", false
}

// Reply answers message. Only the empty string is rejected; a blank message
// matches no intent and gets HelpText. Warehouse errors are returned unchanged.
func (s *Service) Reply(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", domain.ErrValidation("Missing or invalid 'message' in body")
	}

	intent, query, ok := s.Resolve(message)
	if !ok {
		return HelpText, nil
	}

	res, err := s.exec.ExecuteSQL(ctx, query)
	if err != nil {
		s.logger.Warn("chat query failed", "intent", intent.Name, "error", err)
		return "", err
	}
	s.logger.Debug("chat answered", "intent", intent.Name, "rows", len(res.Rows))
	return FormatResult(res), nil
}

// FormatResult renders a result as a fenced pipe table. Nil values print as
// "null" and at most MaxReplyRows rows are included.
func FormatResult(res *domain.QueryResult) string {
	if res == nil || len(res.Rows) == 0 {
		return NoRowsText
	}

	sep := make([]string, len(res.Columns))
	for i := range sep {
		sep[i] = "---"
	}

	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(strings.Join(res.Columns, " | "))
	b.WriteByte('\n')
	b.WriteString(strings.Join(sep, " | "))

	rows := res.Rows
	if len(rows) > MaxReplyRows {
		rows = rows[:MaxReplyRows]
	}
	cells := make([]string, len(res.Columns))
	for _, row := range rows {
		for i, col := range res.Columns {
			cells[i] = FormatValue(row[col])
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(cells, " | "))
	}
	b.WriteString("\n```")
	return b.String()
}

// FormatValue renders one cell value, nil as "null".
func FormatValue(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
