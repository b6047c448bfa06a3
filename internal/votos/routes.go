package votos

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /votos. requireUser must reject anonymous callers.
func SetupRoutes(h *Handler, requireUser func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/count", h.Count)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Delete("/eliminar", h.Delete)
		r.Get("/usuario", h.Mine)
		r.Get("/check", h.Check)
	})

	return r
}

// CastRoutes serves POST /votar.
func CastRoutes(h *Handler, requireUser func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requireUser)
	r.Post("/", h.Cast)
	return r
}
