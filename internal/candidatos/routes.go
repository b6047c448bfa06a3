package candidatos

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves the candidate catalog. identity attaches the caller's
// user id when present; it must not reject anonymous requests.
func SetupRoutes(h *Handler, identity func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(identity)

	r.Get("/", h.List)
	r.Get("/{id}", h.Detail)

	return r
}

// AdminRoutes serves the sync trigger behind gate.
func AdminRoutes(h *Handler, gate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/sync-candidatos", h.Sync)
	})

	return r
}
