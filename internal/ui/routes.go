package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sre-dashboard/internal/ui/assets"
)

// MountRoutes registers the dashboard pages on r, which is expected to be
// mounted at /ui. authMiddleware may be nil.
func MountRoutes(r chi.Router, h *Handler, authMiddleware func(http.Handler) http.Handler) {
	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)

		r.Get("/", h.Executive)
		r.Get("/metrics", h.Metrics)
		r.Get("/remediation", h.Remediation)
		r.Post("/redeploy", h.RedeploySubmit)
		r.Get("/chat", h.ChatPage)
		r.Post("/chat", h.ChatSubmit)
		r.Get("/sql", h.SQLEditorPage)
		r.Post("/sql/run", h.SQLEditorRun)
		r.Post("/sql/download.csv", h.SQLEditorDownloadCSV)
	})
}
