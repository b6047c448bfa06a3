package candidatos

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store. It applies the same filter and update
// semantics as GormStore and backs dry-run syncs and tests.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]Candidato
	byExt map[int64]uuid.UUID

	// PingErr, when set, is returned by Ping.
	PingErr error
	// UpdateErr, when set for an external id, is returned by Update for it.
	UpdateErr map[int64]error
	// CreateErr, when set for an external id, rejects that row in CreateBatch.
	CreateErr map[int64]error
}

func NewMemStore(cs ...Candidato) *MemStore {
	s := &MemStore{
		byID:      map[uuid.UUID]Candidato{},
		byExt:     map[int64]uuid.UUID{},
		UpdateErr: map[int64]error{},
		CreateErr: map[int64]error{},
	}
	if _, err := s.CreateBatch(context.Background(), cs); err != nil {
		panic(err)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return s.PingErr }

func (s *MemStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]uuid.UUID, len(ids))
	for _, ext := range ids {
		if id, ok := s.byExt[ext]; ok {
			out[ext] = id
		}
	}
	return out, nil
}

func (s *MemStore) CreateBatch(ctx context.Context, cs []Candidato) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	var cerr *CreateError
	now := time.Now()
	for _, c := range cs {
		if err := s.CreateErr[c.IDCandidato]; err != nil {
			if cerr == nil {
				cerr = &CreateError{Err: err}
			}
			cerr.Failed = append(cerr.Failed, c.IDCandidato)
			continue
		}
		if _, dup := s.byExt[c.IDCandidato]; dup {
			continue
		}
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.CreatedAt, c.UpdatedAt = now, now
		s.byID[c.ID] = c
		s.byExt[c.IDCandidato] = c.ID
		n++
	}
	if cerr != nil {
		return n, cerr
	}
	return n, nil
}

func (s *MemStore) Update(ctx context.Context, c Candidato) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.UpdateErr[c.IDCandidato]; err != nil {
		return err
	}
	id, ok := s.byExt[c.IDCandidato]
	if !ok {
		return ErrCandidatoNotFound
	}
	merged := mergeUpdate(s.byID[id], c)
	merged.UpdatedAt = time.Now()
	s.byID[id] = merged
	return nil
}

func (s *MemStore) FindByID(ctx context.Context, id uuid.UUID) (Candidato, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return Candidato{}, ErrCandidatoNotFound
	}
	return c, nil
}

func (s *MemStore) FindByExternalID(ctx context.Context, ext int64) (Candidato, error) {
	s.mu.RLock()
	id, ok := s.byExt[ext]
	s.mu.RUnlock()
	if !ok {
		return Candidato{}, ErrCandidatoNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *MemStore) FindByName(ctx context.Context, name string) (Candidato, error) {
	folded := Fold(name)
	if folded == "" {
		return Candidato{}, ErrCandidatoNotFound
	}
	var best *Candidato
	for _, c := range s.sorted() {
		if c.NombreBusqueda == folded {
			return c, nil
		}
		if best == nil && strings.Contains(c.NombreBusqueda, folded) {
			best = &c
		}
	}
	if best == nil {
		return Candidato{}, ErrCandidatoNotFound
	}
	return *best, nil
}

func (s *MemStore) FindMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Candidato, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]Candidato, len(ids))
	for _, id := range ids {
		if c, ok := s.byID[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (s *MemStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok, nil
}

func (s *MemStore) List(ctx context.Context, f Filter) ([]Candidato, int64, error) {
	var matched []Candidato
	for _, c := range s.sorted() {
		if f.Matches(c) {
			matched = append(matched, c)
		}
	}
	total := int64(len(matched))
	out := []Candidato{}
	if off := f.Offset(); off >= 0 && off < len(matched) {
		out = append(out, matched[off:min(off+f.Limit, len(matched))]...)
	}
	return out, total, nil
}

func (s *MemStore) IncrementVotes(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrCandidatoNotFound
	}
	c.TotalVotos++
	s.byID[id] = c
	return nil
}

// Len returns the number of stored candidates.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemStore) sorted() []Candidato {
	s.mu.RLock()
	out := make([]Candidato, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b Candidato) int {
		return cmp.Compare(a.IDCandidato, b.IDCandidato)
	})
	return out
}
