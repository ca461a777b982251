package ui

import (
	"strings"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/service/chat"

	gomponents "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	html "maragu.dev/gomponents/html"
)

func remediationPage(principal string, rem *domain.Remediation, notice gomponents.Node, csrfField func() gomponents.Node) gomponents.Node {
	intro := html.P(html.Class(mutedClass()), gomponents.Text("Known failures from incident_knowledge_base with a redeploy quick action."))
	if len(rem.Items) == 0 {
		return appPage("Remediation", "remediation", principal, intro, notice, emptyStateCard("No incidents in knowledge base"))
	}

	headers := make([]gomponents.Node, 0, len(rem.Columns)+1)
	for _, col := range rem.Columns {
		headers = append(headers, html.Th(gomponents.Text(columnTitle(col))))
	}
	headers = append(headers, html.Th(gomponents.Text("Action")))

	rows := make([]gomponents.Node, 0, len(rem.Items))
	for _, item := range rem.Items {
		cells := make([]gomponents.Node, 0, len(rem.Columns)+1)
		text := make([]string, 0, len(rem.Columns))
		for _, col := range rem.Columns {
			v := chat.FormatValue(item.Values[col])
			if item.Values[col] == nil {
				v = "—"
			}
			text = append(text, v)
			cells = append(cells, html.Td(gomponents.Text(v)))
		}
		cells = append(cells, html.Td(html.Form(
			html.Method("post"),
			html.Action("/ui/redeploy"),
			csrfField(),
			html.Input(html.Type("hidden"), html.Name("id"), html.Value(item.ID)),
			html.Input(html.Type("hidden"), html.Name("failure_type"), html.Value(item.FailureType)),
			html.Button(html.Type("submit"), html.Class(primaryButtonClass()), gomponents.Text("Quick Action")),
		)))
		rows = append(rows, html.Tr(data.Show(containsExpr(strings.Join(text, " "))), gomponents.Group(cells)))
	}

	return appPage(
		"Remediation",
		"remediation",
		principal,
		intro,
		notice,
		filterInput("Filter by failure type or action"),
		html.Div(
			html.Class(cardClass("table-wrap")),
			html.Table(
				html.THead(html.Tr(gomponents.Group(headers))),
				html.TBody(gomponents.Group(rows)),
			),
		),
	)
}

func redeployNotice(res *domain.RedeployResult) gomponents.Node {
	if res == nil {
		return nil
	}
	tone := "success"
	if !res.Success {
		tone = "warning"
	}
	return html.Div(html.Class(cardClass("notice", "notice-"+tone)), gomponents.Attr("role", "status"), gomponents.Text(res.Message))
}
