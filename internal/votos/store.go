package votos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/db"
)

type Store interface {
	// Insert stores v. A second vote for the same pair fails with ErrAlreadyVoted.
	Insert(ctx context.Context, v *Voto) error
	Find(ctx context.Context, userID string, candidatoID uuid.UUID) (Voto, error)
	FindByID(ctx context.Context, id uuid.UUID) (Voto, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByUser returns the user's votes, newest first.
	ListByUser(ctx context.Context, userID string) ([]Voto, error)
	CountByCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	CountAll(ctx context.Context) (map[uuid.UUID]int64, error)
	VotedSet(ctx context.Context, userID string, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Insert(ctx context.Context, v *Voto) error {
	err := s.db.WithContext(ctx).Create(v).Error
	if db.IsUniqueViolation(err) {
		return ErrAlreadyVoted
	}
	return err
}

func (s *GormStore) Find(ctx context.Context, userID string, candidatoID uuid.UUID) (Voto, error) {
	var v Voto
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND candidato_id = ?", userID, candidatoID).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Voto{}, ErrVotoNotFound
	}
	return v, err
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (Voto, error) {
	var v Voto
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Voto{}, ErrVotoNotFound
	}
	return v, err
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Voto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVotoNotFound
	}
	return nil
}

func (s *GormStore) ListByUser(ctx context.Context, userID string) ([]Voto, error) {
	out := []Voto{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&out).Error
	return out, err
}

type countRow struct {
	CandidatoID uuid.UUID
	Total       int64
}

func (s *GormStore) counts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []countRow
	q := s.db.WithContext(ctx).Model(&Voto{}).
		Select("candidato_id, COUNT(*) AS total").
		Group("candidato_id")
	if ids != nil {
		q = q.Where("candidato_id IN ?", ids)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		out[r.CandidatoID] = r.Total
	}
	return out, nil
}

func (s *GormStore) CountByCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]int64{}, nil
	}
	return s.counts(ctx, ids)
}

func (s *GormStore) CountAll(ctx context.Context) (map[uuid.UUID]int64, error) {
	return s.counts(ctx, nil)
}

func (s *GormStore) VotedSet(ctx context.Context, userID string, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	if len(ids) == 0 {
		return out, nil
	}
	var voted []uuid.UUID
	err := s.db.WithContext(ctx).Model(&Voto{}).
		Where("user_id = ? AND candidato_id IN ?", userID, ids).
		Pluck("candidato_id", &voted).Error
	if err != nil {
		return nil, err
	}
	for _, id := range voted {
		out[id] = true
	}
	return out, nil
}
