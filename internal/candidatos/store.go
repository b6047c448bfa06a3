package candidatos

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/db"
)

var ErrCandidatoNotFound = apperr.New(apperr.ErrNotFound, "Candidato no encontrado")

// Store persists candidates.
type Store interface {
	Ping(ctx context.Context) error
	// ExistingIDs maps each external id already stored to its internal id.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]uuid.UUID, error)
	// CreateBatch inserts new candidates, skipping ids that already exist.
	// A row that cannot be stored does not prevent the others; such rows are
	// reported through a *CreateError alongside the created count.
	CreateBatch(ctx context.Context, cs []Candidato) (int64, error)
	// Update overwrites the profile of an existing candidate. Empty social
	// and course arrays leave the stored ones in place; the vote counter is
	// never touched.
	Update(ctx context.Context, c Candidato) error
	FindByID(ctx context.Context, id uuid.UUID) (Candidato, error)
	FindByExternalID(ctx context.Context, id int64) (Candidato, error)
	// FindByName does a case- and accent-insensitive name lookup, preferring
	// an exact match over a substring match.
	FindByName(ctx context.Context, name string) (Candidato, error)
	FindMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Candidato, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f Filter) ([]Candidato, int64, error)
	IncrementVotes(ctx context.Context, id uuid.UUID) error
}

// CreateError lists the candidates of a batch that could not be inserted.
// The rest of the batch was written.
type CreateError struct {
	Failed []int64
	Err    error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("%d candidates not created, first error: %v", len(e.Failed), e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// Directory resolves candidate references for the vote and complaint ledgers.
type Directory struct {
	Store
}

// Resolve accepts an internal id or, as a fallback, an external idCandidato.
func (d Directory) Resolve(ctx context.Context, ref string) (Candidato, error) {
	if id, err := uuid.Parse(ref); err == nil {
		c, err := d.FindByID(ctx, id)
		if err == nil || !errors.Is(err, apperr.ErrNotFound) {
			return c, err
		}
	}
	if ext, err := strconv.ParseInt(ref, 10, 64); err == nil && ext != 0 {
		return d.FindByExternalID(ctx, ext)
	}
	return Candidato{}, ErrCandidatoNotFound
}

// mergeUpdate applies the sync update rules of incoming onto existing.
func mergeUpdate(existing, incoming Candidato) Candidato {
	out := incoming
	out.ID = existing.ID
	out.TotalVotos = existing.TotalVotos
	out.CreatedAt = existing.CreatedAt
	if len(incoming.RedesSociales) == 0 {
		out.RedesSociales = existing.RedesSociales
	}
	if len(incoming.CursosCandidatos) == 0 {
		out.CursosCandidatos = existing.CursosCandidatos
	}
	return out
}

func updateColumns(c Candidato) map[string]any {
	m := map[string]any{
		"datos_personales":            c.DatosPersonales,
		"descripcion_candidato":       c.DescripcionCandidato,
		"propuestas":                  c.Propuestas,
		"propuesta1":                  c.Propuesta1,
		"propuesta2":                  c.Propuesta2,
		"propuesta3":                  c.Propuesta3,
		"vision_imparticion_justicia": c.VisionImparticionJusticia,
		"razon_postulacion":           c.RazonPostulacion,
		"motivacion":                  c.Motivacion,
		"organizacion_postulante":     c.OrganizacionPostulante,
		"descripcion_hlc":             c.DescripcionHLC,
		"contacto":                    c.Contacto,
		"datos_academicos":            c.DatosAcademicos,
		"id_estado_eleccion":          c.IDEstadoEleccion,
		"id_sala_regional":            c.IDSalaRegional,
		"id_grado":                    c.IDGrado,
		"id_tipo_candidatura":         c.IDTipoCandidatura,
		"id_circunscripcion_eleccion": c.IDCircunscripcionEleccion,
		"id_distrito_judicial":        c.IDDistritoJudicial,
		"cargo_postula":               c.CargoPostula,
		"poder_postula":               c.PoderPostula,
		"nombre_busqueda":             c.NombreBusqueda,
		"texto_busqueda":              c.TextoBusqueda,
	}
	if len(c.RedesSociales) > 0 {
		m["redes_sociales"] = c.RedesSociales
	}
	if len(c.CursosCandidatos) > 0 {
		m["cursos_candidatos"] = c.CursosCandidatos
	}
	return m
}

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Ping(ctx context.Context) error {
	return db.Ping(ctx, s.db)
}

func (s *GormStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]uuid.UUID, error) {
	out := make(map[int64]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID          uuid.UUID
		IDCandidato int64
	}
	err := s.db.WithContext(ctx).Model(&Candidato{}).
		Select("id", "id_candidato").
		Where("id_candidato IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", db.ErrUnavailable, err)
	}
	for _, r := range rows {
		out[r.IDCandidato] = r.ID
	}
	return out, nil
}

// createChunk bounds the rows sent in one INSERT.
const createChunk = 200

// CreateBatch inserts cs in chunks. A chunk Postgres rejects is retried row by
// row so one bad record costs only itself; the rows that still fail are
// reported in a *CreateError.
func (s *GormStore) CreateBatch(ctx context.Context, cs []Candidato) (int64, error) {
	var created int64
	var cerr *CreateError
	for chunk := range slices.Chunk(cs, createChunk) {
		res := s.insert(ctx).Create(&chunk)
		if res.Error == nil {
			created += res.RowsAffected
			continue
		}
		if err := db.Ping(ctx, s.db); err != nil {
			return created, err
		}
		for i := range chunk {
			res := s.insert(ctx).Create(&chunk[i])
			if res.Error != nil {
				if cerr == nil {
					cerr = &CreateError{Err: res.Error}
				}
				cerr.Failed = append(cerr.Failed, chunk[i].IDCandidato)
				continue
			}
			created += res.RowsAffected
		}
	}
	if cerr != nil {
		return created, cerr
	}
	return created, nil
}

func (s *GormStore) insert(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id_candidato"}},
		DoNothing: true,
	})
}

func (s *GormStore) Update(ctx context.Context, c Candidato) error {
	res := s.db.WithContext(ctx).Model(&Candidato{}).
		Where("id_candidato = ?", c.IDCandidato).
		Updates(updateColumns(c))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCandidatoNotFound
	}
	return nil
}

func (s *GormStore) first(ctx context.Context, query any, args ...any) (Candidato, error) {
	var c Candidato
	err := s.db.WithContext(ctx).Where(query, args...).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Candidato{}, ErrCandidatoNotFound
	}
	return c, err
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (Candidato, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) FindByExternalID(ctx context.Context, id int64) (Candidato, error) {
	return s.first(ctx, "id_candidato = ?", id)
}

func (s *GormStore) FindByName(ctx context.Context, name string) (Candidato, error) {
	folded := Fold(name)
	if folded == "" {
		return Candidato{}, ErrCandidatoNotFound
	}
	var c Candidato
	err := s.db.WithContext(ctx).
		Where("nombre_busqueda LIKE ?", "%"+escapeLike(folded)+"%").
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "(nombre_busqueda = ?) DESC, id_candidato", Vars: []any{folded}, WithoutParentheses: true},
		}).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Candidato{}, ErrCandidatoNotFound
	}
	return c, err
}

func (s *GormStore) FindMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Candidato, error) {
	out := make(map[uuid.UUID]Candidato, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cs []Candidato
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&cs).Error; err != nil {
		return nil, err
	}
	for _, c := range cs {
		out[c.ID] = c
	}
	return out, nil
}

func (s *GormStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Candidato{}).Where("id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

func (s *GormStore) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&Candidato{})
	if f.Entidad != nil {
		q = q.Where("id_estado_eleccion = ?", *f.Entidad)
	}
	if t, ok := LookupTipo(f.Tipo); ok {
		q = q.Where(
			s.db.Where("cargo_postula ILIKE ?", "%"+escapeLike(t.Cargo)+"%").
				Or("poder_postula @> ARRAY[?]::bigint[]", t.Poder),
		)
	}
	if f.Search != "" {
		q = q.Where("texto_busqueda LIKE ?", "%"+escapeLike(Fold(f.Search))+"%")
	}
	return q
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]Candidato, int64, error) {
	var total int64
	if err := s.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []Candidato{}
	if int64(f.Offset()) >= total {
		return out, total, nil
	}
	err := s.filtered(ctx, f).
		Order("id_candidato").
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&out).Error
	return out, total, err
}

func (s *GormStore) IncrementVotes(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&Candidato{}).
		Where("id = ?", id).
		UpdateColumn("total_votos", gorm.Expr("total_votos + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCandidatoNotFound
	}
	return nil
}
