package denuncias

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/db"
)

const (
	EstadoPendiente = "PENDIENTE"
)

// Denuncia is a complaint filed by a user against a candidate. Records are
// never deleted; only estado and resuelto change after creation.
type Denuncia struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	Titulo      string    `gorm:"not null" json:"titulo"`
	Descripcion string    `gorm:"type:text;not null" json:"descripcion"`
	CandidatoID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidatoId"`
	UserID      string    `gorm:"not null;index" json:"userId"`
	Estado      string    `gorm:"not null;default:PENDIENTE" json:"estado"`
	Resuelto    bool      `gorm:"not null;default:false" json:"resuelto"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Denuncia) TableName() string { return db.Schema + ".denuncias" }

func (d *Denuncia) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Estado == "" {
		d.Estado = EstadoPendiente
	}
	return nil
}

// DenunciaView is the listing shape: the stored record plus display dates.
type DenunciaView struct {
	Denuncia
	FechaCreacion           string `json:"fechaCreacion"`
	FechaCreacionFormateada string `json:"fechaCreacionFormateada"`
}

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// fechaLarga formats t as "20 de mayo de 2025".
func fechaLarga(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}

func newView(d Denuncia) DenunciaView {
	v := DenunciaView{Denuncia: d}
	if !d.CreatedAt.IsZero() {
		v.FechaCreacion = d.CreatedAt.UTC().Format(time.RFC3339Nano)
		v.FechaCreacionFormateada = fechaLarga(d.CreatedAt)
	}
	return v
}
