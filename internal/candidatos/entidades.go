package candidatos

import (
	"net/http"

	"github.com/votojudicial/backend/internal/httputil"
)

type Entidad struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// Entidades lists the federal entities, numbered as the listing's entidad filter expects.
var Entidades = []Entidad{
	{0, "Aguascalientes"},
	{1, "Baja California"},
	{2, "Baja California Sur"},
	{3, "Campeche"},
	{4, "Coahuila"},
	{5, "Colima"},
	{6, "Chiapas"},
	{7, "Chihuahua"},
	{8, "Ciudad de México"},
	{9, "Durango"},
	{10, "Guanajuato"},
	{11, "Guerrero"},
	{12, "Hidalgo"},
	{13, "Jalisco"},
	{14, "México"},
	{15, "Michoacán"},
	{16, "Morelos"},
	{17, "Nayarit"},
	{18, "Nuevo León"},
	{19, "Oaxaca"},
	{20, "Puebla"},
	{21, "Querétaro"},
	{22, "Quintana Roo"},
	{23, "San Luis Potosí"},
	{24, "Sinaloa"},
	{25, "Sonora"},
	{26, "Tabasco"},
	{27, "Tamaulipas"},
	{28, "Tlaxcala"},
	{29, "Veracruz"},
	{30, "Yucatán"},
	{31, "Zacatecas"},
}

// ListEntidades handles GET /entidades.
func ListEntidades(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, map[string]any{
		"success":   true,
		"entidades": Entidades,
	})
}
