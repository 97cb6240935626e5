package crew

import (
	"context"
	"errors"
	"testing"
	"time"

	"missioncore/internal/adapter/repo/memory"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/physiology"
)

var marsTransit = physiology.EnvironmentState{Gravity: 0.38, Oxygen: 0.85, Radiation: 0.55, Water: 0.75, Nutrition: 0.8}

func newUseCase() (UseCase, *memory.Store) {
	store := memory.NewStore()
	return UseCase{
		TxManager: memory.NewTxManager(store),
		Crew:      memory.NewCrewRepo(store),
		Events:    memory.NewEventRepo(store),
		Now:       func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) },
	}, store
}

func TestUseCase_AdvanceStartsFromBaseline(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	out, err := uc.Advance(ctx, AdvanceRequest{CrewID: "cmdr", Environment: marsTransit, DtDays: 1})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if out.Before != physiology.Baseline() {
		t.Fatalf("expected baseline before state, got %+v", out.Before)
	}
	if out.State.Time != 1 || out.State.RadiationDose <= 0 {
		t.Fatalf("unexpected state: %+v", out.State)
	}

	second, err := uc.Advance(ctx, AdvanceRequest{CrewID: "cmdr", Environment: marsTransit, DtDays: 2})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if second.Before != out.State || second.State.Time != 3 {
		t.Fatalf("second advance must continue from stored state: %+v", second)
	}

	status, err := uc.Status(ctx, StatusRequest{CrewID: "cmdr"})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.State != second.State {
		t.Fatalf("status mismatch: %+v", status.State)
	}

	evts, _ := memory.NewEventRepo(store).ListBySubject(ctx, "cmdr", 0)
	if len(evts) != 2 || evts[0].Type != events.TypePhysiologyAdvanced {
		t.Fatalf("unexpected events: %+v", evts)
	}
}

func TestUseCase_AdvanceRejectsInvalidInput(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	if _, err := uc.Advance(ctx, AdvanceRequest{CrewID: "", DtDays: 1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank id, got %v", err)
	}
	_, err := uc.Advance(ctx, AdvanceRequest{CrewID: "cmdr", Environment: marsTransit, DtDays: 0})
	if !errors.Is(err, ErrInvalidRequest) || !errors.Is(err, physiology.ErrInvalidDelta) {
		t.Fatalf("expected ErrInvalidRequest for zero dt, got %v", err)
	}
	if _, err := memory.NewCrewRepo(store).Get(ctx, "cmdr"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("rejected advance must not persist, got %v", err)
	}
}

func TestUseCase_StatusUnknownCrew(t *testing.T) {
	uc, _ := newUseCase()
	if _, err := uc.Status(context.Background(), StatusRequest{CrewID: "nobody"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUseCase_StatusClampsDisplay(t *testing.T) {
	uc, store := newUseCase()
	boosted := physiology.Baseline()
	boosted.MuscleMass = 1.3
	store.SeedCrew("eva", boosted)

	out, err := uc.Status(context.Background(), StatusRequest{CrewID: "eva"})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out.State.MuscleMass != 1.3 || out.Display.MuscleMass != 1 {
		t.Fatalf("expected raw 1.3 and display 1, got %v / %v", out.State.MuscleMass, out.Display.MuscleMass)
	}
}
