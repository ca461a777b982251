package ui

import (
	"strconv"

	"sre-dashboard/internal/domain"

	gomponents "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	html "maragu.dev/gomponents/html"
)

func executivePage(principal string, overview *domain.Overview, schema string) gomponents.Node {
	var warnings []gomponents.Node
	if overview.HealthError != "" {
		warnings = append(warnings, warningCard("Health data: "+overview.HealthError+". Using placeholder counts."))
	}
	if overview.IncidentsError != "" {
		warnings = append(warnings, warningCard("Incident feed: "+overview.IncidentsError+". Check catalog/schema and pipeline_logs table."))
	}

	return appPage(
		"Executive Dashboard",
		"executive",
		principal,
		gomponents.Group(warnings),
		healthCards(overview.Health, schema),
		incidentFeed(overview.Incidents),
	)
}

func healthCards(health domain.Health, schema string) gomponents.Node {
	systemState, systemNote, systemTone := "Operational", "All systems nominal", "success"
	if health.PipelinesFail+health.JobsFail > 0 {
		systemState = "Degraded"
		systemNote = strconv.FormatInt(health.PipelinesFail+health.JobsFail, 10) + " failed run(s) in pipeline_logs"
		systemTone = "danger"
	}

	return html.Div(
		html.Class("grid"),
		counterCard("Pipelines", health.PipelinesOK, health.PipelinesFail),
		counterCard("Jobs", health.JobsOK, health.JobsFail),
		html.Div(
			html.Class(cardClass("stat")),
			html.H2(gomponents.Text("System Health")),
			html.P(html.Class("stat-value"), statusLabel(systemState, systemTone)),
			html.P(html.Class(mutedClass()), gomponents.Text(systemNote)),
		),
		html.Div(
			html.Class(cardClass("stat")),
			html.H2(gomponents.Text("Data Quality")),
			html.P(html.Class("stat-value"), gomponents.Text("—")),
			html.P(html.Class(mutedClass()), gomponents.Text("From "+schema)),
		),
	)
}

func counterCard(title string, ok, fail int64) gomponents.Node {
	return html.Div(
		html.Class(cardClass("stat")),
		html.H2(gomponents.Text(title)),
		html.P(
			html.Class("stat-value"),
			gomponents.Text(strconv.FormatInt(ok+fail, 10)),
			html.Span(html.Class(mutedClass()), gomponents.Text(" total")),
		),
		html.P(
			statusLabel(strconv.FormatInt(ok, 10)+" ok", "success"),
			gomponents.Text(" "),
			statusLabel(strconv.FormatInt(fail, 10)+" failed", "danger"),
		),
	)
}

func incidentFeed(incidents []domain.IncidentItem) gomponents.Node {
	header := []gomponents.Node{
		html.H2(gomponents.Text("Incident Feed")),
		html.P(html.Class(mutedClass()), gomponents.Text("Recent pipeline_logs")),
	}
	if len(incidents) == 0 {
		return html.Div(html.Class(cardClass()), gomponents.Group(header), html.P(html.Class(mutedClass()), gomponents.Text("No recent incidents")))
	}

	rows := make([]gomponents.Node, 0, len(incidents))
	for _, inc := range incidents {
		tone := "success"
		if inc.Failed {
			tone = "danger"
		}
		status := inc.Status
		if status == "" {
			status = "unknown"
		}
		rows = append(rows, html.Li(
			html.Class("incident"),
			data.Show(containsExpr(inc.Pipeline+" "+inc.Status+" "+inc.Message)),
			html.Div(
				statusLabel(status, tone),
				gomponents.Text(" "),
				html.Strong(gomponents.Text(inc.Pipeline)),
				gomponents.If(inc.Timestamp != "", html.Span(html.Class(mutedClass()), gomponents.Text(" "+inc.Timestamp))),
			),
			html.P(gomponents.Text(inc.Message)),
		))
	}

	return html.Div(
		filterInput("Filter by pipeline, status or message"),
		html.Div(
			html.Class(cardClass()),
			gomponents.Group(header),
			html.Ul(html.Class("incident-list"), gomponents.Group(rows)),
		),
	)
}
