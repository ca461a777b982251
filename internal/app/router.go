package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sre-dashboard/internal/api"
	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/middleware"
	"sre-dashboard/internal/ui"
)

// UIUser is the basic-auth user name for the dashboard pages when an API
// token is configured. The password is the token.
const UIUser = "sre"

// Router builds the HTTP handler. ctx bounds background work owned by the
// router such as the rate limiter's cleanup loop.
func (a *App) Router(ctx context.Context) http.Handler {
	cfg := a.cfg
	s := a.Services

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui", http.StatusFound)
	})
	r.Get("/openapi.json", api.ServeOpenAPI)
	r.Get("/docs", serveDocs)

	apiHandler := api.NewHandler(api.Deps{
		Executor:            s.Warehouse,
		Chat:                s.Chat,
		Dashboard:           s.Dashboard,
		Redeploy:            s.Remediation,
		Probe:               s.Probe,
		WarehouseConfigured: cfg.Warehouse.Configured,
		Logger:              a.logger,
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimiter(ctx, middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}))
		r.Use(middleware.BearerAuth(cfg.APIToken))
		apiHandler.Mount(r)
	})

	uiHandler := ui.NewHandler(s.Dashboard, s.Chat, s.Remediation, s.Warehouse, cfg.Tables(), a.logger, cfg.IsProduction())
	var uiAuth func(http.Handler) http.Handler
	if cfg.APIToken != "" {
		basic := chimw.BasicAuth("sre-dashboard", map[string]string{UIUser: cfg.APIToken})
		uiAuth = func(next http.Handler) http.Handler {
			return basic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), UIUser)))
			}))
		}
	}
	r.Route("/ui", func(r chi.Router) {
		ui.MountRoutes(r, uiHandler, uiAuth)
	})

	return r
}

func serveDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
    <title>SRE Dashboard API</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@scalar/api-reference@1.44.16/dist/style.min.css" />
</head>
<body>
    <script id="api-reference" data-url="/openapi.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference@1.44.16/dist/browser/standalone.min.js"></script>
</body>
</html>`)
}
