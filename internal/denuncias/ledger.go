package denuncias

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/votojudicial/backend/internal/apperr"
)

var (
	ErrNoUser             = apperr.New(apperr.ErrUnauthorized, "No autorizado")
	ErrInvalidCandidato   = apperr.New(apperr.ErrValidation, "ID de candidato inválido")
	ErrCandidatoNotFound  = apperr.New(apperr.ErrNotFound, "Candidato no encontrado")
	ErrMissingTitulo      = apperr.New(apperr.ErrValidation, "El título es obligatorio")
	ErrMissingDescripcion = apperr.New(apperr.ErrValidation, "La descripción es obligatoria")
)

// CandidateChecker reports whether a candidate exists.
type CandidateChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Ledger struct {
	store      Store
	candidates CandidateChecker
	now        func() time.Time
}

func NewLedger(store Store, candidates CandidateChecker) *Ledger {
	return &Ledger{store: store, candidates: candidates, now: time.Now}
}

func (l *Ledger) candidate(ctx context.Context, ref string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return uuid.Nil, ErrInvalidCandidato
	}
	ok, err := l.candidates.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check candidate %s: %w", id, err)
	}
	if !ok {
		return uuid.Nil, ErrCandidatoNotFound
	}
	return id, nil
}

// FileComplaint records a pending complaint from userID against the candidate.
func (l *Ledger) FileComplaint(ctx context.Context, userID, candidatoID, titulo, descripcion string) (Denuncia, error) {
	if userID == "" {
		return Denuncia{}, ErrNoUser
	}
	titulo, descripcion = strings.TrimSpace(titulo), strings.TrimSpace(descripcion)
	if titulo == "" {
		return Denuncia{}, ErrMissingTitulo
	}
	if descripcion == "" {
		return Denuncia{}, ErrMissingDescripcion
	}

	id, err := l.candidate(ctx, candidatoID)
	if err != nil {
		// A malformed id cannot name an existing candidate.
		if errors.Is(err, ErrInvalidCandidato) {
			return Denuncia{}, ErrCandidatoNotFound
		}
		return Denuncia{}, err
	}

	now := l.now().UTC()
	d := Denuncia{
		Titulo:      titulo,
		Descripcion: descripcion,
		CandidatoID: id,
		UserID:      userID,
		Estado:      EstadoPendiente,
		Resuelto:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.store.Insert(ctx, &d); err != nil {
		return Denuncia{}, fmt.Errorf("insert denuncia: %w", err)
	}
	return d, nil
}

// ListComplaintsForCandidate returns every complaint for the candidate,
// newest first. No identity is required.
func (l *Ledger) ListComplaintsForCandidate(ctx context.Context, candidatoID string) ([]DenunciaView, error) {
	id, err := l.candidate(ctx, candidatoID)
	if err != nil {
		return nil, err
	}
	ds, err := l.store.ListForCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return views(ds), nil
}

func (l *Ledger) ListAll(ctx context.Context) ([]DenunciaView, error) {
	ds, err := l.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return views(ds), nil
}

func (l *Ledger) CountForCandidate(ctx context.Context, id uuid.UUID) (int64, error) {
	return l.store.CountForCandidate(ctx, id)
}

func views(ds []Denuncia) []DenunciaView {
	out := make([]DenunciaView, 0, len(ds))
	for _, d := range ds {
		out = append(out, newView(d))
	}
	return out
}
