package votos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/candidatos"
	"github.com/votojudicial/backend/internal/db"
)

// Voto is one user's vote for one candidate. The (user_id, candidato_id)
// pair is unique.
type Voto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	UserID      string    `gorm:"not null;uniqueIndex:votos_user_candidato_unique,priority:1" json:"userId"`
	CandidatoID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:votos_user_candidato_unique,priority:2" json:"candidatoId"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
}

func (Voto) TableName() string { return db.Schema + ".votos" }

func (v *Voto) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// CandidatoResumen is the candidate summary attached to a user's votes.
type CandidatoResumen struct {
	ID              uuid.UUID                  `json:"_id"`
	IDCandidato     int64                      `json:"idCandidato"`
	DatosPersonales candidatos.DatosPersonales `json:"datosPersonales"`
}

type VotoConCandidato struct {
	ID          uuid.UUID         `json:"_id"`
	CandidatoID uuid.UUID         `json:"candidatoId"`
	Timestamp   time.Time         `json:"timestamp"`
	Candidato   *CandidatoResumen `json:"candidato"`
}

// CheckResult answers whether a user has voted for a candidate.
type CheckResult struct {
	HasVoted    bool       `json:"hasVoted"`
	CandidatoID string     `json:"candidatoId"`
	Timestamp   *time.Time `json:"timestamp"`
}
