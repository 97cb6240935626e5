package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/ledger"
	"missioncore/internal/domain/lifesupport"
	"missioncore/internal/domain/physiology"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("MISSIONCORE_DB_DSN")
	if dsn == "" {
		t.Skip("MISSIONCORE_DB_DSN is required for integration test")
	}
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestApplyMigrations_IsIdempotent(t *testing.T) {
	db := requireDB(t)
	applied, err := ApplyMigrations(context.Background(), db, Migrations())
	if err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected nothing to apply on a migrated schema, got %v", applied)
	}
}

func TestEcosystemRepo_LineageAndStates(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	lineageID := "it-eco-lineage"
	_ = db.Exec("DELETE FROM ecosystem_states WHERE lineage_id = ?", lineageID).Error
	_ = db.Exec("DELETE FROM ecosystem_lineages WHERE lineage_id = ?", lineageID).Error

	now := func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) }
	state, genomes := ecosystem.Initialize(ecosystem.Config{Seed: lineageID, Now: now})
	repo := NewEcosystemRepo(db)
	rec := ports.LineageRecord{LineageID: lineageID, Seed: lineageID, Genomes: genomes, CreatedAt: now()}
	if err := repo.CreateLineage(ctx, rec); err != nil {
		t.Fatalf("create lineage: %v", err)
	}
	if err := repo.CreateLineage(ctx, rec); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate lineage, got %v", err)
	}
	got, err := repo.GetLineage(ctx, lineageID)
	if err != nil {
		t.Fatalf("get lineage: %v", err)
	}
	if len(got.Genomes) != len(genomes) || got.Genomes[0].ID != genomes[0].ID {
		t.Fatalf("genomes mismatch: %+v", got.Genomes)
	}

	engine := ecosystem.Engine{Rand: ecosystem.NewSeededSource("it"), Now: now}
	current := state
	for i := 0; i < 4; i++ {
		if err := repo.AppendState(ctx, lineageID, current); err != nil {
			t.Fatalf("append state %d: %v", i, err)
		}
		if current, err = engine.Advance(current, genomes); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if err := repo.AppendState(ctx, lineageID, state); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate tick, got %v", err)
	}
	latest, err := repo.LatestState(ctx, lineageID)
	if err != nil || latest.Tick != 3 {
		t.Fatalf("latest mismatch: tick=%d err=%v", latest.Tick, err)
	}
	recent, err := repo.RecentStates(ctx, lineageID, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Tick != 2 || recent[1].Tick != 3 {
		t.Fatalf("recent must be oldest first: %+v", recent)
	}
	if _, err := repo.GetLineage(ctx, "it-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCrewAndHabitatRepos_RoundTrip(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM crew_states WHERE crew_id = ?", "it-crew").Error
	_ = db.Exec("DELETE FROM habitat_states WHERE habitat_id = ?", "it-hab").Error

	crew := NewCrewRepo(db)
	if _, err := crew.Get(ctx, "it-crew"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	s := physiology.Baseline()
	s.RadiationDose = 12.5
	if err := crew.Save(ctx, "it-crew", s); err != nil {
		t.Fatalf("save crew: %v", err)
	}
	s.Time = 3
	if err := crew.Save(ctx, "it-crew", s); err != nil {
		t.Fatalf("upsert crew: %v", err)
	}
	got, err := crew.Get(ctx, "it-crew")
	if err != nil || got != s {
		t.Fatalf("crew round trip mismatch: got=%+v err=%v", got, err)
	}

	habitats := NewHabitatRepo(db)
	first := lifesupport.InitResourceState(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	second := first
	second.Tick = 6
	if err := habitats.Append(ctx, "it-hab", first, 0.7); err != nil {
		t.Fatalf("append habitat: %v", err)
	}
	if err := habitats.Append(ctx, "it-hab", second, 0.6); err != nil {
		t.Fatalf("append habitat: %v", err)
	}
	latest, err := habitats.Latest(ctx, "it-hab")
	if err != nil || latest.Tick != 6 {
		t.Fatalf("latest habitat mismatch: tick=%v err=%v", latest.Tick, err)
	}
}

func TestLedgerRepo_AppendListAndConflict(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	ledgerID := "it-ledger"
	_ = db.Exec("DELETE FROM ledger_entries WHERE ledger_id = ?", ledgerID).Error

	clock := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	l := ledger.New(ledgerID, func() time.Time { clock = clock.Add(1500 * time.Microsecond); return clock })
	repo := NewLedgerRepo(db)
	for i := 0; i < 3; i++ {
		entry, err := l.AddSnapshot("tick", map[string]int{"i": i})
		if err != nil {
			t.Fatalf("add snapshot: %v", err)
		}
		if err := repo.Append(ctx, ledgerID, entry); err != nil {
			t.Fatalf("append entry %d: %v", i, err)
		}
	}
	if err := repo.Append(ctx, ledgerID, ledger.Entry{Index: 1}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	entries, err := repo.List(ctx, ledgerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res := ledger.Restore(ledgerID, entries, nil).Verify(); !res.OK {
		t.Fatalf("persisted chain must verify: %+v", res)
	}
}

func TestEventRepo_AppendAndListBySubject(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	subject := "it-event-repo"
	_ = db.Exec("DELETE FROM domain_events WHERE subject = ?", subject).Error

	repo := NewEventRepo(db)
	if err := repo.Append(ctx, subject, []events.DomainEvent{
		events.New("e-old", time.Unix(100, 0), map[string]any{"k": "v1"}),
		events.New("e-new", time.Unix(200, 0), map[string]any{"k": "v2"}),
	}); err != nil {
		t.Fatalf("append events: %v", err)
	}
	list, err := repo.ListBySubject(ctx, subject, 1)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(list) != 1 || list[0].Type != "e-new" || list[0].Payload["k"] != "v2" {
		t.Fatalf("expected newest event only, got %+v", list)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	subject := "it-tx-rollback"
	_ = db.Exec("DELETE FROM domain_events WHERE subject = ?", subject).Error

	repo := NewEventRepo(db)
	boom := errors.New("boom")
	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Append(txCtx, subject, []events.DomainEvent{events.New("x", time.Now(), nil)}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	list, _ := repo.ListBySubject(ctx, subject, 0)
	if len(list) != 0 {
		t.Fatalf("rollback expected, got %d events", len(list))
	}
}

func TestLedgerRepo_AppendInTxTakesChainLock(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	ledgerID := "it-ledger-tx"
	_ = db.Exec("DELETE FROM ledger_entries WHERE ledger_id = ?", ledgerID).Error

	l := ledger.New(ledgerID, nil)
	repo := NewLedgerRepo(db)
	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		for i := 0; i < 2; i++ {
			entry, err := l.AddSnapshot("tick", i)
			if err != nil {
				return err
			}
			if err := repo.Append(txCtx, ledgerID, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("append in tx: %v", err)
	}
	entries, err := repo.List(ctx, ledgerID)
	if err != nil || len(entries) != 2 {
		t.Fatalf("expected 2 committed entries, got=%d err=%v", len(entries), err)
	}
}
