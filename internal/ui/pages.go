package ui

import (
	"strconv"
	"strings"

	gomponents "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	html "maragu.dev/gomponents/html"
)

const datastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

type navItem struct {
	Label string
	Href  string
	Key   string
}

var navItems = []navItem{
	{Label: "Executive", Href: "/ui", Key: "executive"},
	{Label: "Metrics", Href: "/ui/metrics", Key: "metrics"},
	{Label: "Remediation", Href: "/ui/remediation", Key: "remediation"},
	{Label: "Chat", Href: "/ui/chat", Key: "chat"},
	{Label: "SQL", Href: "/ui/sql", Key: "sql"},
}

func pageHead(title string, extra ...gomponents.Node) gomponents.Node {
	return html.Head(
		html.Meta(html.Charset("utf-8")),
		html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
		html.TitleEl(gomponents.Text(title+" | SRE Dashboard")),
		html.Link(html.Rel("icon"), html.Href("data:,")),
		html.Link(html.Rel("stylesheet"), html.Href("/ui/static/app.css")),
		html.Script(gomponents.Raw(themeInitScript)),
		gomponents.Group(extra),
	)
}

func appPage(title, active, principal string, body ...gomponents.Node) gomponents.Node {
	nav := make([]gomponents.Node, 0, len(navItems))
	for _, item := range navItems {
		className := ""
		if item.Key == active {
			className = "active"
		}
		nav = append(nav, html.A(html.Href(item.Href), html.Class(className), gomponents.Text(item.Label)))
	}

	return html.HTML(
		html.Lang("en"),
		gomponents.Attr("data-color-mode", "auto"),
		pageHead(title, html.Script(html.Type("module"), html.Src(datastarSrc))),
		html.Body(
			html.Main(
				html.Class("layout"),
				html.Div(
					html.Class("topbar"),
					html.Div(
						html.Strong(gomponents.Text("SRE Dashboard")),
						html.P(html.Class(mutedClass()), gomponents.Text("Pipeline health from the SQL warehouse")),
					),
					html.Div(
						html.P(html.Class(mutedClass()), gomponents.Text("Signed in as "+principal)),
						html.Button(html.Type("button"), html.ID("theme-toggle"), html.Class(secondaryButtonClass()), gomponents.Text("Theme")),
					),
				),
				html.Nav(html.Class("nav"), gomponents.Group(nav)),
				html.H1(html.Class("page-title"), gomponents.Text(title)),
				gomponents.Group(body),
			),
			html.Script(gomponents.Raw(themeBehaviorScript)),
		),
	)
}

func errorPage(title, message string) gomponents.Node {
	return html.HTML(
		html.Lang("en"),
		gomponents.Attr("data-color-mode", "auto"),
		pageHead(title),
		html.Body(
			html.Main(
				html.Class("layout"),
				html.H1(html.Class("page-title"), gomponents.Text(title)),
				html.P(gomponents.Text(message)),
				html.P(html.A(html.Href("/ui"), gomponents.Text("Back to dashboard"))),
			),
		),
	)
}

func cardClass(extra ...string) string {
	return strings.Join(append([]string{"card"}, extra...), " ")
}

func mutedClass() string {
	return "muted"
}

func primaryButtonClass() string {
	return "btn btn-primary"
}

func secondaryButtonClass() string {
	return "btn"
}

func statusLabel(text, tone string) gomponents.Node {
	className := "label"
	if tone != "" {
		className += " label-" + tone
	}
	return html.Span(html.Class(className), gomponents.Text(text))
}

// warningCard shows a panel-level failure without hiding the rest of the page.
func warningCard(message string) gomponents.Node {
	return html.Div(html.Class(cardClass("warning")), gomponents.Attr("role", "alert"), gomponents.Text(message))
}

func emptyStateCard(message string) gomponents.Node {
	return html.Div(html.Class(cardClass("blankslate")), html.P(html.Class(mutedClass()), gomponents.Text(message)))
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}

func filterInput(placeholder string) gomponents.Node {
	return html.Div(
		html.Class(cardClass("toolbar")),
		data.Signals(map[string]any{"q": ""}),
		html.Label(gomponents.Text("Quick filter")),
		html.Input(html.Type("search"), html.Placeholder(placeholder), data.Bind("q"), html.AutoComplete("off")),
	)
}

// columnTitle turns a column name into a table header.
func columnTitle(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
