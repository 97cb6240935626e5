package main

import (
	"context"
	"path/filepath"
	"testing"

	"missioncore/internal/adapter/metrics/inmemory"
	"missioncore/internal/config"
	"missioncore/internal/logging"
)

func memoryUseCases(t *testing.T) (useCases, repoSet) {
	t.Helper()
	cfg := config.Default()
	repos, err := buildRepos(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("build repos: %v", err)
	}
	if repos.kind != "memory" {
		t.Fatalf("expected memory store without dsn, got %s", repos.kind)
	}
	return buildUseCases(cfg, repos, nil, inmemory.NewRecorder(), logging.Discard()), repos
}

func TestEnsureLineages_IsIdempotent(t *testing.T) {
	uc, repos := memoryUseCases(t)
	lineages := []config.LineageConfig{{ID: "eco-a", Seed: "a"}, {ID: "eco-b", Seed: "b"}}
	for i := 0; i < 2; i++ {
		if err := ensureLineages(context.Background(), uc.orchestrator, lineages); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
	}
	entries, err := repos.ledgers.List(context.Background(), "eco-a")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one genesis entry, got %d err=%v", len(entries), err)
	}
}

func TestBuildJobs_TicksLineagesAndHabitats(t *testing.T) {
	uc, repos := memoryUseCases(t)
	sched := config.SchedulerConfig{
		Lineages: []config.LineageConfig{{ID: "eco-a", Seed: "a"}},
		Habitats: []string{"hab-1"},
		DtHours:  2,
	}
	if err := ensureLineages(context.Background(), uc.orchestrator, sched.Lineages); err != nil {
		t.Fatalf("ensure lineages: %v", err)
	}
	jobs := buildJobs(sched, uc.orchestrator, uc.habitat)
	if len(jobs) != 2 || jobs[0].Name() != "lineage/eco-a" || jobs[1].Name() != "habitat/hab-1" {
		t.Fatalf("unexpected jobs: %d", len(jobs))
	}
	for _, j := range jobs {
		if err := j.Run(context.Background()); err != nil {
			t.Fatalf("job %s: %v", j.Name(), err)
		}
	}
	state, err := repos.habitats.Latest(context.Background(), "hab-1")
	if err != nil || state.Tick != 2 {
		t.Fatalf("habitat tick mismatch: tick=%v err=%v", state.Tick, err)
	}
	latest, err := repos.ecosystems.LatestState(context.Background(), "eco-a")
	if err != nil || latest.Tick != 1 {
		t.Fatalf("lineage tick mismatch: tick=%d err=%v", latest.Tick, err)
	}
}

func TestBuildArchive_Drivers(t *testing.T) {
	a, closeFn, err := buildArchive(context.Background(), config.ArchiveConfig{Driver: config.ArchiveNone})
	if err != nil || a != nil {
		t.Fatalf("none driver should yield no archive: %v %v", a, err)
	}
	closeFn()

	a, closeFn, err = buildArchive(context.Background(), config.ArchiveConfig{
		Driver:     config.ArchiveSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "archive.db"),
	})
	if err != nil || a == nil {
		t.Fatalf("sqlite driver: archive=%v err=%v", a, err)
	}
	closeFn()

	if _, _, err := buildArchive(context.Background(), config.ArchiveConfig{Driver: config.ArchiveS3}); err == nil {
		t.Fatalf("s3 driver without bucket must fail")
	}
}
