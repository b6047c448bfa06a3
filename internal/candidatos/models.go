package candidatos

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/db"
)

// Candidato is the canonical candidate record. Nested profile data is kept
// as JSONB; the columns used for filtering are stored flat.
type Candidato struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"_id"`
	IDCandidato int64     `gorm:"uniqueIndex;not null" json:"idCandidato"`

	DatosPersonales datatypes.JSONType[DatosPersonales] `json:"datosPersonales"`

	DescripcionCandidato      string                         `json:"descripcionCandidato"`
	Propuestas                datatypes.JSONType[Propuestas] `json:"propuestas"`
	Propuesta1                string                         `json:"propuesta1"`
	Propuesta2                string                         `json:"propuesta2"`
	Propuesta3                string                         `json:"propuesta3"`
	VisionImparticionJusticia string                         `json:"visionImparticionJusticia"`
	RazonPostulacion          string                         `json:"razonPostulacion"`
	Motivacion                string                         `json:"motivacion"`
	OrganizacionPostulante    string                         `json:"organizacionPostulante,omitempty"`
	DescripcionHLC            string                         `gorm:"column:descripcion_hlc" json:"descripcionHLC,omitempty"`

	Contacto         datatypes.JSONSlice[Contacto]       `json:"contacto"`
	RedesSociales    datatypes.JSONSlice[RedSocial]      `json:"redesSociales"`
	CursosCandidatos datatypes.JSONSlice[Curso]          `json:"cursosCandidatos"`
	DatosAcademicos  datatypes.JSONType[DatosAcademicos] `json:"datosAcademicos"`

	IDEstadoEleccion          int64 `gorm:"index" json:"idEstadoEleccion"`
	IDSalaRegional            int64 `json:"idSalaRegional,omitempty"`
	IDGrado                   int64 `json:"idGrado,omitempty"`
	IDTipoCandidatura         int64 `json:"idTipoCandidatura,omitempty"`
	IDCircunscripcionEleccion int64 `json:"idCircunscripcionEleccion,omitempty"`
	IDDistritoJudicial        int64 `json:"idDistritoJudicial,omitempty"`

	// Flat copies of datosPersonales fields used by listing filters.
	CargoPostula   string        `gorm:"index" json:"-"`
	PoderPostula   pq.Int64Array `gorm:"type:bigint[]" json:"-"`
	NombreBusqueda string        `gorm:"index" json:"-"`
	TextoBusqueda  string        `json:"-"`

	// TotalVotos is a cache of the vote ledger; reads overwrite it with a live count.
	TotalVotos int64 `gorm:"not null;default:0" json:"totalVotos"`

	TotalDenuncias *int64 `gorm:"-" json:"totalDenuncias,omitempty"`
	UserHasVoted   *bool  `gorm:"-" json:"userHasVoted,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Candidato) TableName() string { return db.Schema + ".candidatos" }

func (c *Candidato) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type DatosPersonales struct {
	NombreCandidato         string                    `json:"nombreCandidato"`
	FechaNacimiento         string                    `json:"fechaNacimiento"`
	URLFoto                 string                    `json:"urlFoto"`
	Sexo                    string                    `json:"sexo"`
	NumListaBoleta          string                    `json:"numListaBoleta"`
	PoderPostula            []int64                   `json:"poderPostula"`
	PoderPostulaDescriptivo []PoderPostulaDescriptivo `json:"poderPostulaDescriptivo"`
	CargoPostula            string                    `json:"cargoPostula"`
}

type PoderPostulaDescriptivo struct {
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
}

type Propuestas struct {
	Propuesta1 string `json:"propuesta1"`
	Propuesta2 string `json:"propuesta2"`
	Propuesta3 string `json:"propuesta3"`
}

// Contacto tipo is one of email, telefono, web or no_especificado.
type Contacto struct {
	Tipo  string `json:"tipo"`
	Valor string `json:"valor"`
}

type RedSocial struct {
	IDTipoRed      int64  `json:"idTipoRed"`
	DescripcionRed string `json:"descripcionRed"`
	NombreRed      string `json:"nombreRed"`
}

type Curso struct {
	IDCurso     int64  `json:"idCurso"`
	NombreCurso string `json:"nombreCurso"`
	Institucion string `json:"institucion"`
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
	Descripcion string `json:"descripcion"`
}

type DatosAcademicos struct {
	GradoAcademico  string   `json:"gradoAcademico"`
	EstatusGrado    string   `json:"estatusGrado"`
	Descripcion     string   `json:"descripcion"`
	Institucion     string   `json:"institucion"`
	AnioGraduacion  string   `json:"anioGraduacion"`
	Especialidad    string   `json:"especialidad"`
	Trayectoria     []string `json:"trayectoria"`
	Certificaciones []string `json:"certificaciones"`
}
