package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the dashboard pages and the JSON API.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Recover)
	r.Use(middleware.CleanPath)
	r.Use(middleware.GetHead)
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
		}))
	}

	dash := DashboardHandler{Search: d.Search, CfgVal: d.CfgVal}
	r.Get("/", dash.Index)
	r.Get("/listings/{id}", dash.Detail)
	r.Post("/search/run", dash.RunSearch)

	r.Get("/health", HealthHandler{Search: d.Search}.Health)
	r.Get("/events", EventsHandler{Hub: d.Hub}.ServeSSE)

	r.Route("/api", func(api chi.Router) {
		res := ResultsHandler{Search: d.Search}
		api.Get("/results", res.List)
		api.Get("/results/{id}", res.Get)

		sh := SearchHandler{Search: d.Search, CfgVal: d.CfgVal}
		api.Post("/search/run", sh.Run)
		api.Get("/search/status", sh.Status)

		api.Get("/runs", RunsHandler{Store: d.Store}.List)
		api.Post("/db/checkpoint", DBHandler{Store: d.Store}.Checkpoint)

		ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg, Hub: d.Hub}
		api.Get("/config", ch.Get)
		api.Put("/config", ch.Put)
		api.Get("/config/path", ch.Path)
		api.Get("/config/validate", ch.Validate)

		sec := SecretsHandler{CfgVal: d.CfgVal, SetFn: d.SetSecret, DeleteFn: d.DeleteSecret}
		api.Post("/secrets/{name}", sec.Set)
		api.Delete("/secrets/{name}", sec.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "not found")
	})
	return r
}
