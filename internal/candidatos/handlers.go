package candidatos

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/httputil"
	"github.com/votojudicial/backend/internal/utils"
)

const (
	sinDescripcion = "Sin descripción disponible"
	syncTimeout    = 10 * time.Minute
)

// VoteCounter aggregates the vote ledger for read paths.
type VoteCounter interface {
	CountByCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	VotedSet(ctx context.Context, userID string, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type ComplaintCounter interface {
	CountForCandidate(ctx context.Context, id uuid.UUID) (int64, error)
}

type Handler struct {
	store      Store
	votes      VoteCounter
	complaints ComplaintCounter
	syncer     *Syncer
}

func NewHandler(store Store, votes VoteCounter, complaints ComplaintCounter, syncer *Syncer) *Handler {
	return &Handler{store: store, votes: votes, complaints: complaints, syncer: syncer}
}

type listResponse struct {
	Fecha      time.Time   `json:"fecha"`
	Candidatos []Candidato `json:"candidatos"`
	Pagination Pagination  `json:"pagination"`
}

// List handles GET /candidatos.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := ParseFilter(r.URL.Query())

	cs, total, err := h.store.List(ctx, f)
	if err != nil {
		log.Printf("[candidatos] list: %v", err)
		httputil.WriteJSONStatus(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error al obtener los candidatos",
			"message": err.Error(),
		})
		return
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	h.annotate(ctx, cs, userID)

	httputil.WriteJSON(w, listResponse{
		Fecha:      time.Now().UTC(),
		Candidatos: cs,
		Pagination: NewPagination(total, f.Page, f.Limit),
	})
}

// annotate replaces cached counters with live ledger counts. If the ledger
// cannot be read the cached values are kept.
func (h *Handler) annotate(ctx context.Context, cs []Candidato, userID string) {
	if len(cs) == 0 {
		return
	}
	ids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}

	counts, err := h.votes.CountByCandidates(ctx, ids)
	if err != nil {
		log.Printf("[candidatos] live vote counts: %v", err)
	} else {
		for i := range cs {
			cs[i].TotalVotos = counts[cs[i].ID]
		}
	}

	if userID == "" {
		return
	}
	voted, err := h.votes.VotedSet(ctx, userID, ids)
	if err != nil {
		log.Printf("[candidatos] voted set for %s: %v", userID, err)
		return
	}
	for i := range cs {
		v := voted[cs[i].ID]
		cs[i].UserHasVoted = &v
	}
}

// Detail handles GET /candidatos/{id}. The id is an internal id or, failing
// that, a candidate name with '+' standing for spaces.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := chi.URLParam(r, "id")

	c, err := h.lookup(ctx, ref)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			log.Printf("[candidatos] detail %q: %v", ref, err)
		}
		httputil.WriteError(w, err, "Error al obtener el candidato")
		return
	}

	if counts, err := h.votes.CountByCandidates(ctx, []uuid.UUID{c.ID}); err != nil {
		log.Printf("[candidatos] live vote count %s: %v", c.ID, err)
	} else {
		c.TotalVotos = counts[c.ID]
	}

	if n, err := h.complaints.CountForCandidate(ctx, c.ID); err != nil {
		log.Printf("[candidatos] complaint count %s: %v", c.ID, err)
	} else {
		c.TotalDenuncias = &n
	}

	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		if voted, err := h.votes.VotedSet(ctx, userID, []uuid.UUID{c.ID}); err == nil {
			v := voted[c.ID]
			c.UserHasVoted = &v
		}
	}

	if strings.TrimSpace(c.DescripcionCandidato) == "" {
		c.DescripcionCandidato = sinDescripcion
	}
	httputil.WriteJSON(w, c)
}

func (h *Handler) lookup(ctx context.Context, ref string) (Candidato, error) {
	if id, err := uuid.Parse(ref); err == nil {
		c, err := h.store.FindByID(ctx, id)
		if err == nil || !errors.Is(err, apperr.ErrNotFound) {
			return c, err
		}
	}
	return h.store.FindByName(ctx, strings.ReplaceAll(ref, "+", " "))
}

// Sync handles GET /admin/sync-candidatos. The token is checked by
// middleware before this handler runs.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), syncTimeout)
	defer cancel()

	stats, err := h.syncer.Run(ctx)
	httputil.AddServerTiming(w,
		[2]string{"fetch", httputil.Millis(stats.Fetch)},
		[2]string{"classify", httputil.Millis(stats.Classify)},
		[2]string{"write", httputil.Millis(stats.Write)},
	)
	if errors.Is(err, ErrSyncInProgress) {
		httputil.WriteError(w, err, "")
		return
	}
	if err != nil {
		log.Printf("[sync] failed: %v", err)
		httputil.WriteJSONStatus(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Error al sincronizar candidatos",
			"message": err.Error(),
		})
		return
	}

	httputil.WriteJSON(w, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
