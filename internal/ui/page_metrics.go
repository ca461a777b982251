package ui

import (
	"fmt"
	"strconv"
	"strings"

	"sre-dashboard/internal/domain"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const (
	chartWidth  = 800
	chartHeight = 240
)

func metricsPage(principal string, metrics *domain.Metrics) gomponents.Node {
	threshold := strconv.FormatFloat(domain.MemorySpikeThreshold, 'f', -1, 64)
	intro := html.P(html.Class(mutedClass()), gomponents.Text("CPU and memory from system_metrics. Memory above "+threshold+"% is flagged as a spike."))

	if len(metrics.Points) == 0 {
		return appPage("Metrics", "metrics", principal, intro, emptyStateCard("No data"))
	}

	s := metrics.Summary
	summary := html.Div(
		html.Class("grid"),
		summaryCard("Samples", strconv.Itoa(s.Count)),
		summaryCard("CPU avg / max", percent(s.AvgCPU)+" / "+percent(s.MaxCPU)),
		summaryCard("Memory avg / max", percent(s.AvgMem)+" / "+percent(s.MaxMem)),
		summaryCard("Memory spikes", strconv.Itoa(s.Spikes)),
	)

	rows := make([]gomponents.Node, 0, len(metrics.Points))
	for i := len(metrics.Points) - 1; i >= 0; i-- {
		p := metrics.Points[i]
		memCell := gomponents.Node(gomponents.Text(percent(p.MemPct)))
		if p.MemorySpike() {
			memCell = statusLabel(percent(p.MemPct)+" spike", "danger")
		}
		rows = append(rows, html.Tr(
			gomponents.If(p.MemorySpike(), html.Class("spike")),
			html.Td(gomponents.Text(p.Timestamp)),
			html.Td(gomponents.Text(percent(p.CPUPct))),
			html.Td(memCell),
		))
	}

	return appPage(
		"Metrics",
		"metrics",
		principal,
		intro,
		summary,
		html.Div(html.Class(cardClass()), metricsChart(metrics.Points)),
		html.Div(
			html.Class(cardClass("table-wrap")),
			html.H2(gomponents.Text("Samples")),
			html.Table(
				html.THead(html.Tr(html.Th(gomponents.Text("Time")), html.Th(gomponents.Text("CPU %")), html.Th(gomponents.Text("Memory %")))),
				html.TBody(gomponents.Group(rows)),
			),
		),
	)
}

func summaryCard(title, value string) gomponents.Node {
	return html.Div(
		html.Class(cardClass("stat")),
		html.H2(gomponents.Text(title)),
		html.P(html.Class("stat-value"), gomponents.Text(value)),
	)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// metricsChart draws the series as an inline SVG on a fixed 0-100% scale.
func metricsChart(points []domain.MetricPoint) gomponents.Node {
	y := func(pct float64) float64 {
		pct = min(max(pct, 0), 100)
		return chartHeight - pct/100*chartHeight
	}
	x := func(i int) float64 {
		if len(points) == 1 {
			return chartWidth / 2
		}
		return float64(i) * chartWidth / float64(len(points)-1)
	}

	var cpu, mem strings.Builder
	for i, p := range points {
		fmt.Fprintf(&cpu, "%.1f,%.1f ", x(i), y(p.CPUPct))
		fmt.Fprintf(&mem, "%.1f,%.1f ", x(i), y(p.MemPct))
	}
	thresholdY := fmt.Sprintf("%.1f", y(domain.MemorySpikeThreshold))

	return gomponents.El("svg",
		html.Class("chart"),
		gomponents.Attr("viewBox", fmt.Sprintf("0 0 %d %d", chartWidth, chartHeight)),
		gomponents.Attr("preserveAspectRatio", "none"),
		gomponents.Attr("role", "img"),
		gomponents.Attr("aria-label", "CPU and memory usage over time"),
		gomponents.El("line",
			html.Class("threshold"),
			gomponents.Attr("x1", "0"), gomponents.Attr("x2", strconv.Itoa(chartWidth)),
			gomponents.Attr("y1", thresholdY), gomponents.Attr("y2", thresholdY),
		),
		gomponents.El("polyline", html.Class("series-cpu"), gomponents.Attr("points", strings.TrimSpace(cpu.String()))),
		gomponents.El("polyline", html.Class("series-mem"), gomponents.Attr("points", strings.TrimSpace(mem.String()))),
	)
}
