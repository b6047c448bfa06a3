package candidatos

import "fmt"

var poderLabels = map[int64]string{
	1: "Salas Regionales",
	2: "Sala Superior",
	3: "Tribunal de Disciplina Judicial",
	4: "Tribunales",
	5: "Suprema Corte",
}

var redLabels = map[int64]string{
	1: "Facebook",
	2: "Twitter",
	3: "Instagram",
	4: "YouTube",
	5: "TikTok",
	6: "LinkedIn",
}

type grado struct {
	descripcion string
	estatus     string
}

// Academic degree catalog published alongside the candidate data.
var grados = map[int64]grado{
	1:  {"Postdoctorado", "Cédula profesional"},
	2:  {"Postdoctorado", "Título profesional"},
	3:  {"Postdoctorado", "Concluido"},
	5:  {"Doctorado", "Cédula profesional"},
	6:  {"Doctorado", "Título profesional"},
	7:  {"Doctorado", "Concluido"},
	9:  {"Maestría", "Cédula profesional"},
	10: {"Maestría", "Título profesional"},
	11: {"Maestría", "Concluido"},
	13: {"Especialidad", "Cédula profesional"},
	14: {"Especialidad", "Título profesional"},
	15: {"Especialidad", "Concluido"},
	17: {"Licenciatura", "Cédula profesional"},
	18: {"Licenciatura", "Título profesional"},
	19: {"Licenciatura", "Concluido"},
}

// Short names by idTipoCandidatura.
var tiposCandidatura = map[int64]string{
	6:  "Ministra/o Suprema Corte de Justicia de la Nación",
	7:  "Magistratura Tribunal de Disciplina Judicial",
	8:  "Magistratura Sala Superior del TE del PJF",
	9:  "Magistratura Salas Regionales del TE del PJF",
	10: "Magistraturas de Tribunales Colegiados de Circuito",
	11: "Juezas/es de Distrito",
}

// Tipo is a listing filter for one judicial body: a candidate matches when
// its cargo contains Cargo (case-insensitive) or its poderPostula holds Poder.
type Tipo struct {
	Cargo string
	Poder int64
}

var tipos = map[string]Tipo{
	"salasRegionales": {Cargo: "Sala Regional", Poder: 1},
	"salaSuperior":    {Cargo: "Sala Superior", Poder: 2},
	"tribunalDJ":      {Cargo: "Tribunal de Disciplina", Poder: 3},
	"tribunales":      {Cargo: "Tribunal", Poder: 4},
	"supremacorte":    {Cargo: "Suprema Corte", Poder: 5},
}

// LookupTipo returns the filter for a catalog key.
func LookupTipo(key string) (Tipo, bool) {
	t, ok := tipos[key]
	return t, ok
}

func poderLabel(code int64) string {
	if l, ok := poderLabels[code]; ok {
		return l
	}
	return fmt.Sprint(code)
}

func redLabel(id int64) string {
	if l, ok := redLabels[id]; ok {
		return l
	}
	return fmt.Sprintf("Red Social %d", id)
}
