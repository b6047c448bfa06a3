package candidatos

import (
	"net/url"
	"testing"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total     int64
		limit     int
		wantPages int64
	}{
		{25, 12, 3},
		{24, 12, 2},
		{0, 12, 0},
		{1, 100, 1},
	}
	for _, tc := range cases {
		p := NewPagination(tc.total, 1, tc.limit)
		if p.TotalPages != tc.wantPages {
			t.Errorf("total=%d limit=%d: got %d pages, want %d", tc.total, tc.limit, p.TotalPages, tc.wantPages)
		}
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		name  string
		query string
		check func(t *testing.T, f Filter)
	}{
		{"defaults", "", func(t *testing.T, f Filter) {
			if f.Page != 1 || f.Limit != DefaultLimit || f.Tipo != "" || f.Entidad != nil || f.Search != "" {
				t.Errorf("unexpected %+v", f)
			}
		}},
		{"page and limit", "page=3&limit=500", func(t *testing.T, f Filter) {
			if f.Page != 3 || f.Limit != MaxLimit || f.Offset() != 200 {
				t.Errorf("unexpected %+v offset=%d", f, f.Offset())
			}
		}},
		{"huge page", "page=922337203685477590&limit=100", func(t *testing.T, f Filter) {
			if f.Page != MaxPage || f.Offset() != (MaxPage-1)*100 {
				t.Errorf("unexpected %+v offset=%d", f, f.Offset())
			}
		}},
		{"page out of int range", "page=99999999999999999999999", func(t *testing.T, f Filter) {
			if f.Page != MaxPage || f.Offset() <= 0 {
				t.Errorf("unexpected %+v offset=%d", f, f.Offset())
			}
		}},
		{"invalid page", "page=-2&limit=abc", func(t *testing.T, f Filter) {
			if f.Page != 1 || f.Limit != DefaultLimit {
				t.Errorf("unexpected %+v", f)
			}
		}},
		{"known tipo", "tipo=salaSuperior", func(t *testing.T, f Filter) {
			if f.Tipo != "salaSuperior" {
				t.Errorf("tipo %q", f.Tipo)
			}
		}},
		{"unknown tipo", "tipo=congreso", func(t *testing.T, f Filter) {
			if f.Tipo != "" {
				t.Errorf("tipo %q", f.Tipo)
			}
		}},
		{"entidad", "entidad=09", func(t *testing.T, f Filter) {
			if f.Entidad == nil || *f.Entidad != 9 {
				t.Errorf("entidad %v", f.Entidad)
			}
		}},
		{"entidad too long", "entidad=123", func(t *testing.T, f Filter) {
			if f.Entidad != nil {
				t.Errorf("entidad %v", *f.Entidad)
			}
		}},
		{"q alias", "q=+juez+", func(t *testing.T, f Filter) {
			if f.Search != "juez" {
				t.Errorf("search %q", f.Search)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatal(err)
			}
			tc.check(t, ParseFilter(q))
		})
	}
}

func TestFilterMatches(t *testing.T) {
	c := Candidato{
		CargoPostula:     "Magistratura de Tribunal Colegiado",
		PoderPostula:     []int64{2},
		IDEstadoEleccion: 14,
		TextoBusqueda:    SearchText("José Núñez", "Propuesta: justicia abierta"),
	}
	nueve, catorce := int64(9), int64(14)

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"no filter", Filter{}, true},
		{"poder match", Filter{Tipo: "salaSuperior"}, true},
		{"cargo match", Filter{Tipo: "tribunales"}, true},
		{"neither", Filter{Tipo: "supremacorte"}, false},
		{"entidad match", Filter{Entidad: &catorce}, true},
		{"entidad mismatch", Filter{Entidad: &nueve}, false},
		{"accent-insensitive search", Filter{Search: "NUNEZ"}, true},
		{"search in proposals", Filter{Search: "justicia abierta"}, true},
		{"search across fields", Filter{Search: "nunez propuesta"}, false},
		{"tipo and search", Filter{Tipo: "salaSuperior", Search: "ausente"}, false},
	}
	for _, tc := range cases {
		if got := tc.f.Matches(c); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
