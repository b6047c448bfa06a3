package votos

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/httputil"
	"github.com/votojudicial/backend/internal/utils"
)

const errInterno = "Error interno del servidor"

type Handler struct {
	ledger *Ledger
}

func NewHandler(l *Ledger) *Handler {
	return &Handler{ledger: l}
}

// candidatoRef accepts the candidate id as a JSON string or a bare number.
type candidatoRef string

func (c *candidatoRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = candidatoRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = candidatoRef(n.String())
	return nil
}

func logUnexpected(op string, err error) {
	if apperr.Status(err) == http.StatusInternalServerError {
		log.Printf("[votos] %s: %v", op, err)
	}
}

// Cast handles POST /votar.
func (h *Handler) Cast(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var body struct {
		CandidatoID candidatoRef `json:"candidatoId"`
	}
	if err := httputil.DecodeJSON(r, &body, "Formato de solicitud inválido"); err != nil {
		httputil.WriteError(w, err, errInterno)
		return
	}

	v, err := h.ledger.CastVote(r.Context(), userID, string(body.CandidatoID))
	if err != nil {
		logUnexpected("cast", err)
		httputil.WriteError(w, err, "Error al registrar el voto")
		return
	}

	httputil.WriteJSON(w, map[string]any{
		"success": true,
		"mensaje": "Voto registrado correctamente",
		"voto": map[string]any{
			"_id":         v.ID,
			"candidatoId": v.CandidatoID,
			"timestamp":   v.Timestamp,
		},
	})
}

// Delete handles DELETE /votos/eliminar?votoId=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.ledger.DeleteVote(r.Context(), userID, r.URL.Query().Get("votoId")); err != nil {
		logUnexpected("delete", err)
		httputil.WriteError(w, err, errInterno)
		return
	}
	httputil.WriteJSON(w, map[string]any{
		"success": true,
		"message": "Voto eliminado correctamente",
	})
}

// Mine handles GET /votos/usuario.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	vs, err := h.ledger.ListUserVotes(r.Context(), userID)
	if err != nil {
		logUnexpected("list", err)
		httputil.WriteError(w, err, errInterno)
		return
	}
	httputil.WriteJSON(w, map[string]any{"votos": vs})
}

// Check handles GET /votos/check?candidatoId=.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("candidatoId"))
	if ref == "" {
		httputil.WriteJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "Se requiere candidatoId"})
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	start := time.Now()
	res, err := h.ledger.Check(r.Context(), userID, ref)
	if err != nil {
		logUnexpected("check", err)
		httputil.WriteError(w, err, errInterno)
		return
	}
	httputil.AddServerTiming(w, [2]string{"db", httputil.Millis(time.Since(start))})
	httputil.WriteJSON(w, res)
}

// Count handles GET /votos/count, optionally narrowed by candidatoId.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	counts, err := h.ledger.Counts(r.Context(), strings.TrimSpace(r.URL.Query().Get("candidatoId")))
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		log.Printf("[votos] count: %v", err)
		httputil.WriteJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": "Error al obtener conteo de votos"})
		return
	}

	out := make(map[string]int64, len(counts))
	for id, n := range counts {
		out[id.String()] = n
	}
	httputil.WriteJSON(w, map[string]any{
		"success": true,
		"votos":   out,
	})
}
