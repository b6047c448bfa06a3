package candidatos

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
	// MaxPage keeps the offset far from int overflow. Any page past it is
	// already beyond the last candidate.
	MaxPage = 1_000_000
)

var entidadPattern = regexp.MustCompile(`^\d{1,2}$`)

// Filter selects a page of candidates. Tipo and Search are each an OR-group;
// when both are set a candidate must satisfy both groups.
type Filter struct {
	Tipo    string
	Entidad *int64
	Search  string
	Page    int
	Limit   int
}

// ParseFilter reads listing parameters. Unknown tipos and malformed entidad
// values are ignored; page and limit fall back to defaults.
func ParseFilter(q url.Values) Filter {
	f := Filter{Page: 1, Limit: DefaultLimit}

	if _, ok := LookupTipo(q.Get("tipo")); ok {
		f.Tipo = q.Get("tipo")
	}
	if e := q.Get("entidad"); entidadPattern.MatchString(e) {
		n, _ := strconv.ParseInt(e, 10, 64)
		f.Entidad = &n
	}

	f.Search = strings.TrimSpace(q.Get("search"))
	if f.Search == "" {
		f.Search = strings.TrimSpace(q.Get("q"))
	}

	switch p, err := strconv.Atoi(q.Get("page")); {
	case errors.Is(err, strconv.ErrRange) && p > 0:
		f.Page = MaxPage
	case err == nil && p > 0:
		f.Page = min(p, MaxPage)
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		f.Limit = min(l, MaxLimit)
	}
	return f
}

func (f Filter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (min(f.Page, MaxPage) - 1) * min(f.Limit, MaxLimit)
}

// Matches evaluates the filter against c in memory, with the same semantics
// as the SQL built by GormStore.List.
func (f Filter) Matches(c Candidato) bool {
	if f.Entidad != nil && c.IDEstadoEleccion != *f.Entidad {
		return false
	}
	if t, ok := LookupTipo(f.Tipo); ok {
		inCargo := strings.Contains(strings.ToLower(c.CargoPostula), strings.ToLower(t.Cargo))
		inPoder := false
		for _, p := range c.PoderPostula {
			if p == t.Poder {
				inPoder = true
				break
			}
		}
		if !inCargo && !inPoder {
			return false
		}
	}
	if f.Search != "" && !strings.Contains(c.TextoBusqueda, Fold(f.Search)) {
		return false
	}
	return true
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
