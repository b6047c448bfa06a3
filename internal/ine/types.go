package ine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt decodes identifiers the catalogs publish either as numbers or as
// numeric strings. Empty, null and unparsable values decode to 0, which the
// normalizer treats as a missing id.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil && x == float64(int64(x)) {
		*f = FlexInt(int64(x))
		return nil
	}
	*f = 0
	return nil
}

// FlexString accepts strings, numbers and null.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(strings.TrimSpace(string(b)))
	return nil
}

// RawCandidato mirrors the fields of a catalog candidate that the service reads.
type RawCandidato struct {
	IDCandidato               FlexInt    `json:"idCandidato"`
	NombreCandidato           string     `json:"nombreCandidato"`
	FechaNacimiento           string     `json:"fechaNacimiento"`
	URLFoto                   string     `json:"urlFoto"`
	Sexo                      FlexString `json:"sexo"`
	NumListaBoleta            FlexString `json:"numListaBoleta"`
	PoderPostula              []FlexInt  `json:"poderPostula"`
	CargoPostula              string     `json:"cargoPostula"`
	NombreCorto               string     `json:"nombreCorto"`
	CorreoElecPublico         string     `json:"correoElecPublico"`
	TelefonoPublico           FlexString `json:"telefonoPublico"`
	PaginaWeb                 string     `json:"paginaWeb"`
	DescripcionCandidato      string     `json:"descripcionCandidato"`
	Propuesta1                string     `json:"propuesta1"`
	Propuesta2                string     `json:"propuesta2"`
	Propuesta3                string     `json:"propuesta3"`
	VisionImparticionJusticia string     `json:"visionImparticionJusticia"`
	VisionJurisdiccional      string     `json:"visionJurisdiccional"`
	RazonPostulacion          string     `json:"razonPostulacion"`
	DescripcionTP             string     `json:"descripcionTP"`
	DescripcionHLC            string     `json:"descripcionHLC"`
	Institucion               string     `json:"institucion"`
	AnioGraduacion            FlexString `json:"anioGraduacion"`
	Especialidad              string     `json:"especialidad"`
	OrganizacionPostulante    string     `json:"organizacionPostulante"`
	IDGrado                   FlexInt    `json:"idGrado"`
	IDEstadoEleccion          FlexInt    `json:"idEstadoEleccion"`
	IDSalaRegional            FlexInt    `json:"idSalaRegional"`
	IDTipoCandidatura         FlexInt    `json:"idTipoCandidatura"`
	IDCircunscripcionEleccion FlexInt    `json:"idCircunscripcionEleccion"`
	IDDistritoJudicial        FlexInt    `json:"idDistritoJudicial"`
}

type RawRedSocial struct {
	IDCandidato    FlexInt `json:"idCandidato"`
	IDTipoRed      FlexInt `json:"idTipoRed"`
	DescripcionRed string  `json:"descripcionRed"`
}

type RawCurso struct {
	IDCandidato FlexInt    `json:"idCandidato"`
	IDCurso     FlexInt    `json:"idCurso"`
	NombreCurso string     `json:"nombreCurso"`
	Institucion string     `json:"institucion"`
	FechaInicio FlexString `json:"fechaInicio"`
	FechaFin    FlexString `json:"fechaFin"`
	Descripcion string     `json:"descripcion"`
}

// Catalog is one fetched source: its candidates plus the source-scoped
// social and course arrays.
type Catalog struct {
	Key              string
	Candidatos       []RawCandidato
	RedesSociales    []RawRedSocial
	CursosCandidatos []RawCurso
}
