package inmemory

import (
	"testing"

	"missioncore/internal/app/ports"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordTick(ports.EngineEcosystem)
	r.RecordTick(ports.EngineEcosystem)
	r.RecordTick(ports.EngineLifeSupport)
	r.RecordConflict()
	r.RecordFailure("tick")
	r.RecordFailure("verify")
	r.RecordAnomaly("eco-1")
	r.RecordTamper("eco-1")
	r.ObservePopulation("eco-1", 640)
	r.ObservePopulation("eco-1", 655)
	r.ObserveSustainability("hab-1", 0.42)

	s := r.Snapshot()
	if s.TickTotal != 3 {
		t.Fatalf("expected tick total 3, got %d", s.TickTotal)
	}
	if s.TickByEngine[ports.EngineEcosystem] != 2 {
		t.Fatalf("expected ecosystem ticks 2, got %d", s.TickByEngine[ports.EngineEcosystem])
	}
	if s.Conflicts != 1 || s.Failures != 2 || s.FailuresByOp["verify"] != 1 {
		t.Fatalf("unexpected failure counters: %+v", s)
	}
	if s.Anomalies != 1 || s.Tampers != 1 {
		t.Fatalf("unexpected anomaly/tamper counters: %+v", s)
	}
	if s.Population["eco-1"] != 655 {
		t.Fatalf("expected latest population 655, got %d", s.Population["eco-1"])
	}
	if s.Sustainability["hab-1"] != 0.42 {
		t.Fatalf("expected sustainability 0.42, got %v", s.Sustainability["hab-1"])
	}

	s.TickByEngine["x"] = 9
	if _, ok := r.Snapshot().TickByEngine["x"]; ok {
		t.Fatalf("snapshot maps must be copies")
	}
}
