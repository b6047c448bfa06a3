package candidatos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/ine"
)

var (
	// ErrStoreUnavailable aborts a sync run; per-record failures never do.
	ErrStoreUnavailable = errors.New("candidate store unavailable")
	ErrSyncInProgress   = apperr.New(apperr.ErrConflict, "Ya hay una sincronización en curso")
)

// CatalogFetcher retrieves one external catalog.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, src ine.Source) (ine.Catalog, error)
}

// SourceStats describes one catalog within a sync run.
type SourceStats struct {
	Catalog    string `json:"catalogo"`
	Fetched    int    `json:"obtenidos"`
	Normalized int    `json:"normalizados"`
	Skipped    int    `json:"omitidos"`
	Error      string `json:"error,omitempty"`
}

type SyncStats struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  int           `json:"errors"`
	Sources []SourceStats `json:"fuentes"`

	Fetch    time.Duration `json:"-"`
	Classify time.Duration `json:"-"`
	Write    time.Duration `json:"-"`
}

// Syncer refreshes the candidate store from every configured catalog.
type Syncer struct {
	store   Store
	fetcher CatalogFetcher
	sources []ine.Source

	// UpdateWorkers bounds concurrent update statements.
	UpdateWorkers int

	running sync.Mutex
}

func NewSyncer(store Store, fetcher CatalogFetcher, sources []ine.Source) *Syncer {
	return &Syncer{store: store, fetcher: fetcher, sources: sources, UpdateWorkers: 8}
}

// Run performs one full sync. A catalog that cannot be fetched contributes
// no candidates. Only store connectivity failures return an error.
func (s *Syncer) Run(ctx context.Context) (SyncStats, error) {
	if !s.running.TryLock() {
		return SyncStats{}, ErrSyncInProgress
	}
	defer s.running.Unlock()

	var stats SyncStats
	if err := s.store.Ping(ctx); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	start := time.Now()
	batch := s.collect(ctx, &stats)
	stats.Total = len(batch)
	stats.Fetch = time.Since(start)

	start = time.Now()
	creates, updates, err := s.classify(ctx, batch, &stats)
	if err != nil {
		return stats, err
	}
	stats.Classify = time.Since(start)

	start = time.Now()
	s.write(ctx, creates, updates, &stats)
	stats.Write = time.Since(start)

	if err := s.store.Ping(ctx); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ine.LogUpsert("sync", stats.Created, stats.Updated, stats.Errors, stats.Write)
	return stats, nil
}

// collect fetches and normalizes every source. A candidate present in more
// than one catalog keeps its last occurrence.
func (s *Syncer) collect(ctx context.Context, stats *SyncStats) []Candidato {
	index := map[int64]int{}
	var batch []Candidato

	for _, src := range s.sources {
		ss := SourceStats{Catalog: src.Key}
		cat, err := s.fetcher.FetchCatalog(ctx, src)
		if err != nil {
			log.Printf("[sync] catalog %s skipped: %v", src.Key, err)
			ss.Error = err.Error()
			stats.Sources = append(stats.Sources, ss)
			continue
		}
		ss.Fetched = len(cat.Candidatos)

		normalized, skipped := NormalizeCatalog(cat)
		ss.Normalized, ss.Skipped = len(normalized), skipped
		stats.Sources = append(stats.Sources, ss)

		for _, c := range normalized {
			if i, dup := index[c.IDCandidato]; dup {
				batch[i] = c
				continue
			}
			index[c.IDCandidato] = len(batch)
			batch = append(batch, c)
		}
	}
	return batch
}

func (s *Syncer) classify(ctx context.Context, batch []Candidato, stats *SyncStats) (creates, updates []Candidato, err error) {
	ids := make([]int64, 0, len(batch))
	for _, c := range batch {
		ids = append(ids, c.IDCandidato)
	}

	existing, err := s.store.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	for _, c := range batch {
		if err := validateForWrite(c); err != nil {
			log.Printf("[sync] idCandidato=%d excluded: %v", c.IDCandidato, err)
			stats.Errors++
			continue
		}
		if _, ok := existing[c.IDCandidato]; ok {
			updates = append(updates, c)
		} else {
			c.TotalVotos = 0
			creates = append(creates, c)
		}
	}
	return creates, updates, nil
}

func validateForWrite(c Candidato) error {
	if c.IDCandidato <= 0 {
		return fmt.Errorf("invalid idCandidato %d", c.IDCandidato)
	}
	if c.DatosPersonales.Data().NombreCandidato == "" {
		return errors.New("missing nombreCandidato")
	}
	return nil
}

// write runs updates as independent statements and creates as one unordered
// batch.
func (s *Syncer) write(ctx context.Context, creates, updates []Candidato, stats *SyncStats) {
	var updated, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(max(s.UpdateWorkers, 1))
	for _, c := range updates {
		g.Go(func() error {
			if err := s.store.Update(ctx, c); err != nil {
				log.Printf("[sync] update idCandidato=%d: %v", c.IDCandidato, err)
				failed.Add(1)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats.Updated = int(updated.Load())
	stats.Errors += int(failed.Load())

	if len(creates) == 0 {
		return
	}
	n, err := s.store.CreateBatch(ctx, creates)
	stats.Created = int(n)
	createFailed := 0
	var cerr *CreateError
	switch {
	case errors.As(err, &cerr):
		log.Printf("[sync] create idCandidato=%v: %v", cerr.Failed, cerr.Err)
		createFailed = len(cerr.Failed)
	case err != nil:
		log.Printf("[sync] create batch of %d: %v", len(creates), err)
		createFailed = len(creates) - int(n)
	}
	stats.Errors += createFailed
	if lost := len(creates) - int(n) - createFailed; lost > 0 {
		log.Printf("[sync] %d candidates were created concurrently and skipped", lost)
	}
}
