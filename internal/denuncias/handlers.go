package denuncias

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/httputil"
	"github.com/votojudicial/backend/internal/utils"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(l *Ledger) *Handler {
	return &Handler{ledger: l}
}

type fileRequest struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	CandidatoID string `json:"candidatoId"`
}

// Create handles POST /denuncias.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req fileRequest
	if err := httputil.DecodeJSON(r, &req, "Formato de solicitud inválido"); err != nil {
		httputil.WriteError(w, err, "Error al crear la denuncia")
		return
	}

	if _, err := h.ledger.FileComplaint(r.Context(), userID, req.CandidatoID, req.Titulo, req.Descripcion); err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			log.Printf("[denuncias] create: %v", err)
		}
		httputil.WriteError(w, err, "Error al crear la denuncia")
		return
	}

	httputil.WriteJSON(w, map[string]any{
		"success": true,
		"message": "Denuncia creada exitosamente",
	})
}

// ForCandidate handles GET /denuncias/candidato/{id}.
func (h *Handler) ForCandidate(w http.ResponseWriter, r *http.Request) {
	ds, err := h.ledger.ListComplaintsForCandidate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			log.Printf("[denuncias] list for candidate: %v", err)
		}
		httputil.WriteError(w, err, "Error al obtener las denuncias")
		return
	}
	httputil.WriteJSON(w, ds)
}

// All handles GET /denuncias.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ds, err := h.ledger.ListAll(r.Context())
	if err != nil {
		log.Printf("[denuncias] list: %v", err)
		httputil.WriteError(w, err, "Error al obtener las denuncias")
		return
	}
	httputil.WriteJSON(w, ds)
}
