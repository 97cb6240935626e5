package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/ledger"
	"missioncore/internal/domain/lifesupport"
	"missioncore/internal/domain/physiology"
)

func TestEcosystemRepo_LineageAndStates(t *testing.T) {
	ctx := context.Background()
	repo := NewEcosystemRepo(NewStore())

	if err := repo.AppendState(ctx, "eco-1", ecosystem.State{}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown lineage, got %v", err)
	}
	rec := ports.LineageRecord{LineageID: "eco-1", Seed: "s", Genomes: []ecosystem.Genome{{ID: "g1"}}}
	if err := repo.CreateLineage(ctx, rec); err != nil {
		t.Fatalf("create lineage: %v", err)
	}
	if err := repo.CreateLineage(ctx, rec); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := repo.LatestState(ctx, "eco-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any state, got %v", err)
	}

	for tick := 0; tick < 5; tick++ {
		state := ecosystem.State{ID: "eco-1", Tick: tick, Populations: []ecosystem.Population{{GenomeID: "g1", Count: 100 + tick}}}
		if err := repo.AppendState(ctx, "eco-1", state); err != nil {
			t.Fatalf("append tick %d: %v", tick, err)
		}
	}
	if err := repo.AppendState(ctx, "eco-1", ecosystem.State{Tick: 2}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for stale tick, got %v", err)
	}

	latest, err := repo.LatestState(ctx, "eco-1")
	if err != nil || latest.Tick != 4 {
		t.Fatalf("latest mismatch: tick=%d err=%v", latest.Tick, err)
	}
	recent, err := repo.RecentStates(ctx, "eco-1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 || recent[0].Tick != 2 || recent[2].Tick != 4 {
		t.Fatalf("recent window mismatch: %+v", recent)
	}
	recent[0].Populations[0].Count = -1
	again, _ := repo.RecentStates(ctx, "eco-1", 3)
	if again[0].Populations[0].Count != 102 {
		t.Fatalf("returned states must be copies")
	}
}

func TestCrewAndHabitatRepos(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	crew := NewCrewRepo(store)
	if _, err := crew.Get(ctx, "c1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := crew.Save(ctx, "c1", physiology.Baseline()); err != nil {
		t.Fatalf("save crew: %v", err)
	}
	if got, err := crew.Get(ctx, "c1"); err != nil || got != physiology.Baseline() {
		t.Fatalf("crew mismatch: %+v err=%v", got, err)
	}

	habitats := NewHabitatRepo(store)
	if _, err := habitats.Latest(ctx, "h1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	s := lifesupport.InitResourceState(time.Unix(0, 0))
	s.Tick = 3
	if err := habitats.Append(ctx, "h1", s, 0.5); err != nil {
		t.Fatalf("append habitat: %v", err)
	}
	if got, err := habitats.Latest(ctx, "h1"); err != nil || got.Tick != 3 {
		t.Fatalf("habitat mismatch: %+v err=%v", got, err)
	}
}

func TestLedgerRepo_EnforcesContiguousIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepo(NewStore())
	if err := repo.Append(ctx, "l1", ledger.Entry{Index: 1}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for gap, got %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := repo.Append(ctx, "l1", ledger.Entry{Index: i}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := repo.Append(ctx, "l1", ledger.Entry{Index: 2}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate index, got %v", err)
	}
	entries, err := repo.List(ctx, "l1")
	if err != nil || len(entries) != 3 {
		t.Fatalf("list mismatch: %d err=%v", len(entries), err)
	}
	if empty, _ := repo.List(ctx, "none"); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", empty)
	}
}

func TestEventRepo_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepo(NewStore())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		evt := events.New(events.TypeEcosystemTicked, base.Add(time.Duration(i)*time.Minute), map[string]any{"tick": i})
		if err := repo.Append(ctx, "eco-1", []events.DomainEvent{evt}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := repo.ListBySubject(ctx, "eco-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Payload["tick"] != 3 || got[1].Payload["tick"] != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}
	all, _ := repo.ListBySubject(ctx, "eco-1", 0)
	if len(all) != 4 {
		t.Fatalf("expected all events, got %d", len(all))
	}
}

func TestTxManager_SerializesAndAllowsRepoCallsInside(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	crew := NewCrewRepo(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
				state, err := crew.Get(ctx, "c1")
				if errors.Is(err, ports.ErrNotFound) {
					state = physiology.Baseline()
				} else if err != nil {
					return err
				}
				state.Time++
				return tx.RunInTx(ctx, func(inner context.Context) error {
					return crew.Save(inner, "c1", state)
				})
			})
			if err != nil {
				t.Errorf("tx: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := crew.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Time != 20 {
		t.Fatalf("lost update: time=%v want=20", got.Time)
	}
}
