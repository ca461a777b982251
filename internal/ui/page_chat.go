package ui

import (
	"sre-dashboard/internal/service/chat"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

type chatExchange struct {
	Message string
	Reply   string
	Error   string
}

func chatPage(principal string, ex *chatExchange, csrfField func() gomponents.Node) gomponents.Node {
	message := ""
	if ex != nil {
		message = ex.Message
	}

	var answer gomponents.Node
	switch {
	case ex == nil:
		answer = html.Div(html.Class(cardClass()), html.P(html.Class(mutedClass()), gomponents.Text(chat.HelpText)))
	case ex.Error != "":
		answer = html.Div(html.Class(cardClass("warning")), html.H2(gomponents.Text("Error")), html.Pre(gomponents.Text(ex.Error)))
	default:
		answer = html.Div(html.Class(cardClass()), html.H2(gomponents.Text("Reply")), html.Pre(html.Class("reply"), gomponents.Text(ex.Reply)))
	}

	return appPage(
		"Chat",
		"chat",
		principal,
		html.Div(
			html.Class(cardClass()),
			html.Form(
				html.Method("post"),
				html.Action("/ui/chat"),
				csrfField(),
				html.Label(html.For("chat-message"), gomponents.Text("Ask about pipelines, metrics or incidents")),
				html.Input(html.Type("text"), html.ID("chat-message"), html.Name("message"), html.Value(message), html.Placeholder("Recent pipeline failures"), html.Required(), html.AutoComplete("off")),
				html.Div(html.Class("button-row"), html.Button(html.Type("submit"), html.Class(primaryButtonClass()), gomponents.Text("Send"))),
			),
		),
		answer,
	)
}
