package votos

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/votojudicial/backend/internal/apperr"
	"github.com/votojudicial/backend/internal/candidatos"
)

func testCandidato(ext int64, nombre string) candidatos.Candidato {
	return candidatos.Candidato{
		ID:          uuid.New(),
		IDCandidato: ext,
		DatosPersonales: datatypes.NewJSONType(candidatos.DatosPersonales{
			NombreCandidato: nombre,
		}),
		NombreBusqueda: candidatos.Fold(nombre),
	}
}

// countingDirectory counts counter increments on top of a MemStore.
type countingDirectory struct {
	candidatos.Directory
	increments atomic.Int64
	incErr     error
}

func (d *countingDirectory) IncrementVotes(ctx context.Context, id uuid.UUID) error {
	if d.incErr != nil {
		return d.incErr
	}
	d.increments.Add(1)
	return d.Directory.IncrementVotes(ctx, id)
}

func newTestLedger(cs ...candidatos.Candidato) (*Ledger, *memStore, *countingDirectory, *candidatos.MemStore) {
	cands := candidatos.NewMemStore(cs...)
	dir := &countingDirectory{Directory: candidatos.Directory{Store: cands}}
	store := newMemStore()
	l := NewLedger(store, dir)
	l.now = func() time.Time { return time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC) }
	return l, store, dir, cands
}

func TestCastVote_ByInternalAndExternalID(t *testing.T) {
	a, b := testCandidato(101, "Ana"), testCandidato(202, "Beto")
	l, store, _, cands := newTestLedger(a, b)
	ctx := context.Background()

	v, err := l.CastVote(ctx, "u1", a.ID.String())
	if err != nil {
		t.Fatalf("CastVote by uuid: %v", err)
	}
	if v.CandidatoID != a.ID || v.UserID != "u1" {
		t.Errorf("unexpected vote %+v", v)
	}

	v, err = l.CastVote(ctx, "u1", "202")
	if err != nil {
		t.Fatalf("CastVote by external id: %v", err)
	}
	if v.CandidatoID != b.ID {
		t.Errorf("external id resolved to %s, want %s", v.CandidatoID, b.ID)
	}

	if got := len(store.votes()); got != 2 {
		t.Errorf("expected 2 votes, got %d", got)
	}
	got, _ := cands.FindByID(ctx, b.ID)
	if got.TotalVotos != 1 {
		t.Errorf("expected cached counter 1, got %d", got.TotalVotos)
	}
}

func TestCastVote_Rejections(t *testing.T) {
	a := testCandidato(101, "Ana")
	l, _, _, _ := newTestLedger(a)
	ctx := context.Background()

	cases := []struct {
		name   string
		user   string
		ref    string
		status int
	}{
		{"no user", "", a.ID.String(), 401},
		{"missing candidate", "u1", "  ", 400},
		{"unknown uuid", "u1", uuid.NewString(), 404},
		{"unknown external", "u1", "999", 404},
		{"garbage", "u1", "not-an-id", 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.CastVote(ctx, tc.user, tc.ref)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.Status(err); got != tc.status {
				t.Errorf("expected status %d, got %d (%v)", tc.status, got, err)
			}
		})
	}
}

// TestCastVote_SecondVoteConflicts covers a repeated vote: the first is
// stored, the second is a conflict and nothing else changes.
func TestCastVote_SecondVoteConflicts(t *testing.T) {
	a := testCandidato(101, "Ana")
	l, store, dir, cands := newTestLedger(a)
	ctx := context.Background()

	if _, err := l.CastVote(ctx, "u1", a.ID.String()); err != nil {
		t.Fatal(err)
	}
	_, err := l.CastVote(ctx, "u1", "101")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if apperr.Status(err) != 409 {
		t.Errorf("expected 409, got %d", apperr.Status(err))
	}
	if store.inserts != 1 || dir.increments.Load() != 1 {
		t.Errorf("inserts=%d increments=%d, want 1/1", store.inserts, dir.increments.Load())
	}
	got, _ := cands.FindByID(ctx, a.ID)
	if got.TotalVotos != 1 {
		t.Errorf("cached counter %d, want 1", got.TotalVotos)
	}

	// Another user can still vote for the same candidate.
	if _, err := l.CastVote(ctx, "u2", a.ID.String()); err != nil {
		t.Errorf("second user: %v", err)
	}
}

// TestCastVote_Concurrent fires many simultaneous votes from one user and
// expects exactly one stored vote and one counter increment.
func TestCastVote_Concurrent(t *testing.T) {
	a := testCandidato(101, "Ana")
	l, store, dir, _ := newTestLedger(a)
	ctx := context.Background()

	const n = 32
	var (
		wg        sync.WaitGroup
		ok, dupes atomic.Int64
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.CastVote(ctx, "u1", a.ID.String())
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				dupes.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || dupes.Load() != n-1 {
		t.Errorf("ok=%d dupes=%d", ok.Load(), dupes.Load())
	}
	if store.inserts != 1 {
		t.Errorf("expected 1 insert, got %d", store.inserts)
	}
	if dir.increments.Load() != 1 {
		t.Errorf("expected 1 increment, got %d", dir.increments.Load())
	}
}

func TestCastVote_CounterFailureKeepsVote(t *testing.T) {
	a := testCandidato(101, "Ana")
	l, store, dir, _ := newTestLedger(a)
	dir.incErr = errors.New("counter down")

	if _, err := l.CastVote(context.Background(), "u1", a.ID.String()); err != nil {
		t.Fatalf("expected success despite counter failure, got %v", err)
	}
	if store.inserts != 1 {
		t.Errorf("vote not recorded")
	}
}

func TestDeleteVote(t *testing.T) {
	a := testCandidato(101, "Ana")
	l, store, _, cands := newTestLedger(a)
	ctx := context.Background()

	v, err := l.CastVote(ctx, "owner", a.ID.String())
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		user   string
		id     string
		status int
	}{
		{"no user", "", v.ID.String(), 401},
		{"invalid id", "owner", "abc", 400},
		{"empty id", "owner", "", 400},
		{"unknown", "owner", uuid.NewString(), 404},
		{"not owner", "intruder", v.ID.String(), 403},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := l.DeleteVote(ctx, tc.user, tc.id)
			if got := apperr.Status(err); err == nil || got != tc.status {
				t.Errorf("expected %d, got %v", tc.status, err)
			}
		})
	}

	if err := l.DeleteVote(ctx, "owner", v.ID.String()); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(store.votes()) != 0 {
		t.Errorf("vote still present")
	}
	// The cached counter is not decremented.
	c, _ := cands.FindByID(ctx, a.ID)
	if c.TotalVotos != 1 {
		t.Errorf("cached counter changed to %d", c.TotalVotos)
	}

	if _, err := l.CastVote(ctx, "owner", a.ID.String()); err != nil {
		t.Errorf("revote after delete: %v", err)
	}
}

func TestCheck(t *testing.T) {
	a, b := testCandidato(101, "Ana"), testCandidato(202, "Beto")
	l, _, _, _ := newTestLedger(a, b)
	ctx := context.Background()

	if _, err := l.CastVote(ctx, "u1", a.ID.String()); err != nil {
		t.Fatal(err)
	}

	res, err := l.Check(ctx, "u1", "101")
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasVoted || res.CandidatoID != a.ID.String() || res.Timestamp == nil {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = l.Check(ctx, "u1", b.ID.String())
	if err != nil || res.HasVoted || res.Timestamp != nil {
		t.Errorf("expected not voted, got %+v %v", res, err)
	}

	res, err = l.Check(ctx, "u1", "555")
	if err != nil || res.HasVoted {
		t.Errorf("unknown candidate: %+v %v", res, err)
	}

	voted, err := l.HasVoted(ctx, "u2", a.ID)
	if err != nil || voted {
		t.Errorf("u2 HasVoted = %v, %v", voted, err)
	}
}

func TestListUserVotesAndCounts(t *testing.T) {
	a, b := testCandidato(101, "Ana"), testCandidato(202, "Beto")
	l, _, _, _ := newTestLedger(a, b)
	ctx := context.Background()

	base := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	tick := 0
	l.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	for _, vote := range []struct{ user, ref string }{
		{"u1", a.ID.String()}, {"u1", b.ID.String()}, {"u2", a.ID.String()},
	} {
		if _, err := l.CastVote(ctx, vote.user, vote.ref); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := l.ListUserVotes(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(mine))
	}
	if mine[0].CandidatoID != b.ID {
		t.Errorf("expected newest first")
	}
	if mine[0].Candidato == nil || mine[0].Candidato.DatosPersonales.NombreCandidato != "Beto" {
		t.Errorf("missing candidate summary: %+v", mine[0].Candidato)
	}

	all, err := l.Counts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if all[a.ID] != 2 || all[b.ID] != 1 {
		t.Errorf("unexpected counts %v", all)
	}

	one, err := l.Counts(ctx, "202")
	if err != nil || len(one) != 1 || one[b.ID] != 1 {
		t.Errorf("single count: %v %v", one, err)
	}

	none, err := l.Counts(ctx, uuid.NewString())
	if err != nil || len(none) != 0 {
		t.Errorf("unknown candidate count: %v %v", none, err)
	}

	n, err := l.CountVotesForCandidate(ctx, a.ID)
	if err != nil || n != 2 {
		t.Errorf("CountVotesForCandidate = %d, %v", n, err)
	}
}
