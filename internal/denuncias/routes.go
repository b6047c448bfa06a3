package denuncias

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /denuncias. Listing is public; filing needs requireUser.
func SetupRoutes(h *Handler, requireUser func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.All)
	r.Get("/candidato/{id}", h.ForCandidate)

	r.With(requireUser).Post("/", h.Create)

	return r
}
