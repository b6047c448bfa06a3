package votos

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type pairKey struct {
	user      string
	candidato uuid.UUID
}

// memStore enforces the (user, candidate) uniqueness the database index does.
type memStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]Voto
	byPair  map[pairKey]uuid.UUID
	inserts int
	err     error
}

func newMemStore() *memStore {
	return &memStore{byID: map[uuid.UUID]Voto{}, byPair: map[pairKey]uuid.UUID{}}
}

func (s *memStore) Insert(ctx context.Context, v *Voto) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	k := pairKey{v.UserID, v.CandidatoID}
	if _, dup := s.byPair[k]; dup {
		return ErrAlreadyVoted
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.byID[v.ID] = *v
	s.byPair[k] = v.ID
	s.inserts++
	return nil
}

func (s *memStore) Find(ctx context.Context, userID string, candidatoID uuid.UUID) (Voto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPair[pairKey{userID, candidatoID}]
	if !ok {
		return Voto{}, ErrVotoNotFound
	}
	return s.byID[id], nil
}

func (s *memStore) FindByID(ctx context.Context, id uuid.UUID) (Voto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return Voto{}, ErrVotoNotFound
	}
	return v, nil
}

func (s *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return ErrVotoNotFound
	}
	delete(s.byID, id)
	delete(s.byPair, pairKey{v.UserID, v.CandidatoID})
	return nil
}

func (s *memStore) ListByUser(ctx context.Context, userID string) ([]Voto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Voto{}
	for _, v := range s.byID {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b Voto) int { return b.Timestamp.Compare(a.Timestamp) })
	return out, nil
}

func (s *memStore) CountByCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	all, _ := s.CountAll(ctx)
	out := map[uuid.UUID]int64{}
	for _, id := range ids {
		if n := all[id]; n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (s *memStore) CountAll(ctx context.Context) (map[uuid.UUID]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := map[uuid.UUID]int64{}
	for _, v := range s.byID {
		out[v.CandidatoID]++
	}
	return out, nil
}

func (s *memStore) VotedSet(ctx context.Context, userID string, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uuid.UUID]bool{}
	for _, id := range ids {
		if _, ok := s.byPair[pairKey{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (s *memStore) votes() []Voto {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Voto, 0, len(s.byID))
	for _, v := range s.byID {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b Voto) int { return cmp.Compare(a.UserID, b.UserID) })
	return out
}
