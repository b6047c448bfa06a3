package candidatos

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/votojudicial/backend/internal/ine"
)

// Normalize converts one raw catalog candidate into a Candidato. redes and
// cursos are the full source-scoped arrays; only entries whose idCandidato
// equals the candidate's are used. ok is false when the record has no id or
// could not be processed and must be skipped.
//
// Normalize performs no I/O and is deterministic: the same input always
// yields the same output.
func Normalize(raw ine.RawCandidato, redes []ine.RawRedSocial, cursos []ine.RawCurso) (c Candidato, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[candidatos] normalize idCandidato=%d: %v", raw.IDCandidato, r)
			c, ok = Candidato{}, false
		}
	}()

	id := int64(raw.IDCandidato)
	if id == 0 {
		return Candidato{}, false
	}

	nombre := raw.NombreCandidato
	if nombre == "" {
		nombre = fmt.Sprintf("Candidato ID %d", id)
	}

	cargo := firstNonEmpty(raw.CargoPostula, raw.NombreCorto, tiposCandidatura[int64(raw.IDTipoCandidatura)])

	poder := make([]int64, 0, len(raw.PoderPostula))
	descriptivo := make([]PoderPostulaDescriptivo, 0, len(raw.PoderPostula))
	for _, p := range raw.PoderPostula {
		code := int64(p)
		poder = append(poder, code)
		descriptivo = append(descriptivo, PoderPostulaDescriptivo{
			Codigo:      fmt.Sprint(code),
			Descripcion: poderLabel(code),
		})
	}

	vision := firstNonEmpty(raw.VisionImparticionJusticia, raw.VisionJurisdiccional)

	c = Candidato{
		IDCandidato: id,
		DatosPersonales: datatypes.NewJSONType(DatosPersonales{
			NombreCandidato:         nombre,
			FechaNacimiento:         raw.FechaNacimiento,
			URLFoto:                 raw.URLFoto,
			Sexo:                    string(raw.Sexo),
			NumListaBoleta:          string(raw.NumListaBoleta),
			PoderPostula:            poder,
			PoderPostulaDescriptivo: descriptivo,
			CargoPostula:            cargo,
		}),
		DescripcionCandidato: raw.DescripcionCandidato,
		Propuestas: datatypes.NewJSONType(Propuestas{
			Propuesta1: raw.Propuesta1,
			Propuesta2: raw.Propuesta2,
			Propuesta3: raw.Propuesta3,
		}),
		Propuesta1:                raw.Propuesta1,
		Propuesta2:                raw.Propuesta2,
		Propuesta3:                raw.Propuesta3,
		VisionImparticionJusticia: vision,
		RazonPostulacion:          raw.RazonPostulacion,
		Motivacion:                firstNonEmpty(raw.VisionImparticionJusticia, raw.RazonPostulacion),
		OrganizacionPostulante:    raw.OrganizacionPostulante,
		DescripcionHLC:            raw.DescripcionHLC,
		Contacto:                  contactos(raw),
		RedesSociales:             redesFor(id, redes),
		CursosCandidatos:          cursosFor(id, cursos),
		DatosAcademicos:           datatypes.NewJSONType(academicos(raw)),

		IDEstadoEleccion:          int64(raw.IDEstadoEleccion),
		IDSalaRegional:            int64(raw.IDSalaRegional),
		IDGrado:                   int64(raw.IDGrado),
		IDTipoCandidatura:         int64(raw.IDTipoCandidatura),
		IDCircunscripcionEleccion: int64(raw.IDCircunscripcionEleccion),
		IDDistritoJudicial:        int64(raw.IDDistritoJudicial),

		CargoPostula:   cargo,
		PoderPostula:   poder,
		NombreBusqueda: Fold(nombre),
		TextoBusqueda: SearchText(
			nombre, raw.DescripcionCandidato, raw.Propuesta1, raw.Propuesta2, raw.Propuesta3, vision,
		),
	}
	return c, true
}

// NormalizeCatalog normalizes every candidate of a fetched catalog against
// that catalog's social and course arrays.
func NormalizeCatalog(cat ine.Catalog) (out []Candidato, skipped int) {
	start := time.Now()
	out = make([]Candidato, 0, len(cat.Candidatos))
	for _, raw := range cat.Candidatos {
		c, ok := Normalize(raw, cat.RedesSociales, cat.CursosCandidatos)
		if !ok {
			skipped++
			continue
		}
		out = append(out, c)
	}
	ine.LogTransform(cat.Key, len(cat.Candidatos), len(out), time.Since(start))
	return out, skipped
}

func contactos(raw ine.RawCandidato) datatypes.JSONSlice[Contacto] {
	var out datatypes.JSONSlice[Contacto]
	if v := raw.CorreoElecPublico; strings.TrimSpace(v) != "" {
		out = append(out, Contacto{Tipo: "email", Valor: v})
	}
	if v := string(raw.TelefonoPublico); strings.TrimSpace(v) != "" {
		out = append(out, Contacto{Tipo: "telefono", Valor: v})
	}
	if v := raw.PaginaWeb; strings.TrimSpace(v) != "" {
		out = append(out, Contacto{Tipo: "web", Valor: v})
	}
	if len(out) == 0 {
		out = append(out, Contacto{Tipo: "no_especificado", Valor: "no_disponible"})
	}
	return out
}

func redesFor(id int64, all []ine.RawRedSocial) datatypes.JSONSlice[RedSocial] {
	out := datatypes.JSONSlice[RedSocial]{}
	for _, r := range all {
		if int64(r.IDCandidato) != id || strings.TrimSpace(r.DescripcionRed) == "" {
			continue
		}
		out = append(out, RedSocial{
			IDTipoRed:      int64(r.IDTipoRed),
			DescripcionRed: r.DescripcionRed,
			NombreRed:      redLabel(int64(r.IDTipoRed)),
		})
	}
	return out
}

func cursosFor(id int64, all []ine.RawCurso) datatypes.JSONSlice[Curso] {
	out := datatypes.JSONSlice[Curso]{}
	for _, cu := range all {
		if int64(cu.IDCandidato) != id {
			continue
		}
		out = append(out, Curso{
			IDCurso:     int64(cu.IDCurso),
			NombreCurso: cu.NombreCurso,
			Institucion: cu.Institucion,
			FechaInicio: string(cu.FechaInicio),
			FechaFin:    string(cu.FechaFin),
			Descripcion: cu.Descripcion,
		})
	}
	return out
}

func academicos(raw ine.RawCandidato) DatosAcademicos {
	g := grados[int64(raw.IDGrado)]
	return DatosAcademicos{
		GradoAcademico:  g.descripcion,
		EstatusGrado:    g.estatus,
		Descripcion:     raw.DescripcionTP,
		Institucion:     raw.Institucion,
		AnioGraduacion:  string(raw.AnioGraduacion),
		Especialidad:    raw.Especialidad,
		Trayectoria:     []string{},
		Certificaciones: []string{},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
