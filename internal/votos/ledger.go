package votos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/candidatos"
)

var (
	ErrNoUser           = apperr.New(apperr.ErrUnauthorized, "No autenticado")
	ErrMissingCandidato = apperr.New(apperr.ErrValidation, "ID de candidato no proporcionado")
	ErrInvalidVotoID    = apperr.New(apperr.ErrValidation, "ID de voto inválido o no proporcionado")
	ErrAlreadyVoted     = apperr.New(apperr.ErrConflict, "Ya has votado por este candidato")
	ErrVotoNotFound     = apperr.New(apperr.ErrNotFound, "Voto no encontrado")
	ErrNotOwner         = apperr.New(apperr.ErrForbidden, "No tienes permiso para eliminar este voto")
)

// CandidateDirectory is the view of the candidate store the ledger needs.
type CandidateDirectory interface {
	Resolve(ctx context.Context, ref string) (candidatos.Candidato, error)
	IncrementVotes(ctx context.Context, id uuid.UUID) error
	FindMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]candidatos.Candidato, error)
}

// Ledger records votes and keeps the cached candidate counter in step.
// The votos table is authoritative; the counter is best effort.
type Ledger struct {
	store      Store
	candidates CandidateDirectory
	now        func() time.Time
}

func NewLedger(store Store, candidates CandidateDirectory) *Ledger {
	return &Ledger{store: store, candidates: candidates, now: time.Now}
}

// CastVote records userID's vote for the candidate referenced by ref, an
// internal id or an external idCandidato.
func (l *Ledger) CastVote(ctx context.Context, userID, ref string) (Voto, error) {
	if userID == "" {
		return Voto{}, ErrNoUser
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Voto{}, ErrMissingCandidato
	}

	c, err := l.candidates.Resolve(ctx, ref)
	if err != nil {
		return Voto{}, err
	}

	if _, err := l.store.Find(ctx, userID, c.ID); err == nil {
		return Voto{}, ErrAlreadyVoted
	} else if !errors.Is(err, ErrVotoNotFound) {
		return Voto{}, fmt.Errorf("check existing vote: %w", err)
	}

	v := Voto{UserID: userID, CandidatoID: c.ID, Timestamp: l.now().UTC()}
	if err := l.store.Insert(ctx, &v); err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			return Voto{}, err
		}
		return Voto{}, fmt.Errorf("insert vote: %w", err)
	}

	if err := l.candidates.IncrementVotes(ctx, c.ID); err != nil {
		log.Printf("[votos] counter increment for %s failed: %v", c.ID, err)
	}
	return v, nil
}

// DeleteVote removes a vote owned by userID. The cached counter is left as is.
func (l *Ledger) DeleteVote(ctx context.Context, userID, votoID string) error {
	if userID == "" {
		return ErrNoUser
	}
	id, err := uuid.Parse(votoID)
	if err != nil {
		return ErrInvalidVotoID
	}

	v, err := l.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v.UserID != userID {
		return ErrNotOwner
	}
	return l.store.Delete(ctx, id)
}

// CountVotesForCandidate aggregates the ledger for one candidate.
func (l *Ledger) CountVotesForCandidate(ctx context.Context, id uuid.UUID) (int64, error) {
	counts, err := l.store.CountByCandidates(ctx, []uuid.UUID{id})
	if err != nil {
		return 0, err
	}
	return counts[id], nil
}

func (l *Ledger) HasVoted(ctx context.Context, userID string, candidatoID uuid.UUID) (bool, error) {
	_, err := l.store.Find(ctx, userID, candidatoID)
	if errors.Is(err, ErrVotoNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Check resolves ref and reports whether userID voted for it. An unknown
// candidate is reported as not voted.
func (l *Ledger) Check(ctx context.Context, userID, ref string) (CheckResult, error) {
	if userID == "" {
		return CheckResult{}, ErrNoUser
	}
	res := CheckResult{CandidatoID: ref}
	c, err := l.candidates.Resolve(ctx, ref)
	if errors.Is(err, apperr.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return CheckResult{}, err
	}
	res.CandidatoID = c.ID.String()

	v, err := l.store.Find(ctx, userID, c.ID)
	if errors.Is(err, ErrVotoNotFound) {
		return res, nil
	}
	if err != nil {
		return CheckResult{}, err
	}
	res.HasVoted = true
	res.Timestamp = &v.Timestamp
	return res, nil
}

// ListUserVotes returns userID's votes, newest first, each with a summary
// of its candidate when the candidate still exists.
func (l *Ledger) ListUserVotes(ctx context.Context, userID string) ([]VotoConCandidato, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	vs, err := l.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.CandidatoID)
	}
	cs, err := l.candidates.FindMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]VotoConCandidato, 0, len(vs))
	for _, v := range vs {
		item := VotoConCandidato{ID: v.ID, CandidatoID: v.CandidatoID, Timestamp: v.Timestamp}
		if c, ok := cs[v.CandidatoID]; ok {
			item.Candidato = &CandidatoResumen{
				ID:              c.ID,
				IDCandidato:     c.IDCandidato,
				DatosPersonales: c.DatosPersonales.Data(),
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// Counts aggregates votes per candidate. An empty ref counts every
// candidate; an unknown ref yields an empty map.
func (l *Ledger) Counts(ctx context.Context, ref string) (map[uuid.UUID]int64, error) {
	if ref == "" {
		return l.store.CountAll(ctx)
	}
	c, err := l.candidates.Resolve(ctx, ref)
	if errors.Is(err, apperr.ErrNotFound) {
		return map[uuid.UUID]int64{}, nil
	}
	if err != nil {
		return nil, err
	}
	return l.store.CountByCandidates(ctx, []uuid.UUID{c.ID})
}

func (l *Ledger) CountByCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	return l.store.CountByCandidates(ctx, ids)
}

func (l *Ledger) VotedSet(ctx context.Context, userID string, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return l.store.VotedSet(ctx, userID, ids)
}
