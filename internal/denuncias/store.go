package denuncias

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store interface {
	Insert(ctx context.Context, d *Denuncia) error
	// ListForCandidate returns the candidate's complaints, newest first.
	ListForCandidate(ctx context.Context, candidatoID uuid.UUID) ([]Denuncia, error)
	ListAll(ctx context.Context) ([]Denuncia, error)
	CountForCandidate(ctx context.Context, candidatoID uuid.UUID) (int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Insert(ctx context.Context, d *Denuncia) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *GormStore) ListForCandidate(ctx context.Context, candidatoID uuid.UUID) ([]Denuncia, error) {
	out := []Denuncia{}
	err := s.db.WithContext(ctx).
		Where("candidato_id = ?", candidatoID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) ListAll(ctx context.Context) ([]Denuncia, error) {
	out := []Denuncia{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) CountForCandidate(ctx context.Context, candidatoID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Denuncia{}).
		Where("candidato_id = ?", candidatoID).
		Count(&n).Error
	return n, err
}
