package ui

import (
	"fmt"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/service/chat"
	"sre-dashboard/internal/service/dashboard"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

type sqlSnippet struct {
	ID    string
	Label string
}

var sqlSnippets = []sqlSnippet{
	{ID: dashboard.TablePipelineLogs, Label: "Recent pipeline logs"},
	{ID: dashboard.TableSystemMetrics, Label: "Latest system metrics"},
	{ID: dashboard.TableKnowledgeBase, Label: "Knowledge base"},
}

func sqlEditorPage(principal, sqlText string, result *domain.QueryResult, runError string, csrfField func() gomponents.Node) gomponents.Node {
	resultNode := gomponents.Node(html.P(html.Class(mutedClass()), gomponents.Text("Run a query to see results.")))

	if runError != "" {
		resultNode = html.Div(
			html.Class(cardClass("warning")),
			html.H2(gomponents.Text("Query Error")),
			html.Pre(gomponents.Text(runError)),
		)
	} else if result != nil {
		headerCols := make([]gomponents.Node, 0, len(result.Columns))
		for _, col := range result.Columns {
			headerCols = append(headerCols, html.Th(gomponents.Text(col)))
		}

		displayRows := result.Rows
		truncated := len(displayRows) > sqlEditorMaxRows
		if truncated {
			displayRows = displayRows[:sqlEditorMaxRows]
		}

		rows := make([]gomponents.Node, 0, len(displayRows))
		for _, row := range displayRows {
			cells := make([]gomponents.Node, 0, len(result.Columns))
			for _, col := range result.Columns {
				cells = append(cells, html.Td(gomponents.Text(chat.FormatValue(row[col]))))
			}
			rows = append(rows, html.Tr(gomponents.Group(cells)))
		}

		meta := fmt.Sprintf("%d row(s)", len(result.Rows))
		if truncated {
			meta = fmt.Sprintf("%d row(s), showing first %d", len(result.Rows), sqlEditorMaxRows)
		}

		resultNode = html.Div(
			html.Class(cardClass("table-wrap")),
			html.H2(gomponents.Text("Results")),
			html.P(html.Class(mutedClass()), gomponents.Text(meta)),
			html.Table(
				html.THead(html.Tr(gomponents.Group(headerCols))),
				html.TBody(gomponents.Group(rows)),
			),
		)
	}

	snippets := make([]gomponents.Node, 0, len(sqlSnippets))
	for _, s := range sqlSnippets {
		snippets = append(snippets, html.Li(html.A(html.Href("/ui/sql?snippet="+s.ID), gomponents.Text(s.Label))))
	}

	return appPage(
		"SQL",
		"sql",
		principal,
		html.Div(
			html.Class(cardClass()),
			html.H2(gomponents.Text("Snippets")),
			html.Ul(gomponents.Group(snippets)),
		),
		html.Div(
			html.Class(cardClass()),
			html.Form(
				html.Method("post"),
				html.Action("/ui/sql/run"),
				csrfField(),
				html.Label(html.For("sql-text"), gomponents.Text("SQL")),
				html.Textarea(html.ID("sql-text"), html.Name("sql"), html.Required(), gomponents.Text(sqlText)),
				html.Div(
					html.Class("button-row"),
					html.Button(html.Type("submit"), html.Class(primaryButtonClass()), gomponents.Text("Run query")),
					html.Button(html.Type("submit"), html.Class(secondaryButtonClass()), html.FormAction("/ui/sql/download.csv"), gomponents.Text("Download CSV")),
				),
			),
		),
		resultNode,
	)
}
