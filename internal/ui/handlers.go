package ui

import (
	"log/slog"
	"net/http"
	"net/url"

	"sre-dashboard/internal/domain"

	gomponents "maragu.dev/gomponents"
)

func (h *Handler) Executive(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Dashboard.Overview(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, executivePage(principalLabel(r.Context()), overview, h.Tables.Schema))
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboard.Metrics(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, metricsPage(principalLabel(r.Context()), metrics))
}

func (h *Handler) Remediation(w http.ResponseWriter, r *http.Request) {
	var notice gomponents.Node
	if msg := r.URL.Query().Get("notice"); msg != "" {
		notice = redeployNotice(&domain.RedeployResult{Success: r.URL.Query().Get("ok") != "0", Message: msg})
	}
	h.renderRemediation(w, r, notice)
}

func (h *Handler) renderRemediation(w http.ResponseWriter, r *http.Request, notice gomponents.Node) {
	rem, err := h.Dashboard.Remediation(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, remediationPage(principalLabel(r.Context()), rem, notice, func() gomponents.Node { return csrfField(r) }))
}

// RedeploySubmit runs the quick action and redirects back to the
// remediation page with the outcome.
func (h *Handler) RedeploySubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}
	res, err := h.Redeploy.Redeploy(r.Context(), domain.RedeployRequest{
		ID:          formString(r.Form, "id"),
		FailureType: formString(r.Form, "failure_type"),
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	q := url.Values{}
	q.Set("notice", res.Message)
	if !res.Success {
		q.Set("ok", "0")
	}
	http.Redirect(w, r, "/ui/remediation?"+q.Encode(), http.StatusSeeOther)
}

func (h *Handler) ChatPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, chatPage(principalLabel(r.Context()), nil, func() gomponents.Node { return csrfField(r) }))
}

func (h *Handler) ChatSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRenderBadRequest(w, r) {
		return
	}
	ex := &chatExchange{Message: formString(r.Form, "message")}
	reply, err := h.Chat.Reply(r.Context(), ex.Message)
	if err != nil {
		h.Logger.LogAttrs(r.Context(), slog.LevelWarn, "chat reply failed", slog.Any("error", err))
		ex.Error = err.Error()
	} else {
		ex.Reply = reply
	}
	renderHTML(w, http.StatusOK, chatPage(principalLabel(r.Context()), ex, func() gomponents.Node { return csrfField(r) }))
}
