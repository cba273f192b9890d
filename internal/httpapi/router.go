package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// NewRouter mounts the API under /api/v1. metrics, when non-nil, is served
// at /metrics.
func NewRouter(h *Handler, metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		render.SetContentType(render.ContentTypeJSON),
	)

	r.Get("/healthz", h.health)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sweep", h.sweep)

		r.Route("/users/{email}", func(r chi.Router) {
			r.Post("/profile", h.registerProfile)
			r.Get("/profile", h.getProfile)
			r.Put("/profile/rates", h.updateRates)
			r.Put("/profile/limit", h.updateLimit)

			r.Post("/entries", h.recordEntry)

			r.Get("/days", h.listDays)
			r.Get("/days/{day}", h.getDay)
			r.Get("/weeks/{week}", h.getWeek)
			r.Get("/months/{year}/{month}", h.getMonth)
			r.Get("/years/{year}", h.getYear)
			r.Get("/dashboard", h.getDashboard)
		})
	})
	return r
}
