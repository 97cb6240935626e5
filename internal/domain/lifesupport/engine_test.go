package lifesupport

import (
	"fmt"
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w-%d", n)
	}
}

func ptr(v float64) *float64 { return &v }

func TestStep_CrewOfFourWithoutModulesDepletes(t *testing.T) {
	prev := InitResourceState(t0)
	res := (Engine{NewID: seqIDs()}).Step(prev, nil, DefaultConfig(), 24)
	s := res.State

	if !(s.Oxygen < prev.Oxygen) || !(s.Water < prev.Water) {
		t.Fatalf("expected oxygen and water to fall: oxygen=%v water=%v", s.Oxygen, s.Water)
	}
	if !(s.CarbonDioxide > prev.CarbonDioxide) || !(s.Waste > prev.Waste) {
		t.Fatalf("expected co2 and waste to rise: co2=%v waste=%v", s.CarbonDioxide, s.Waste)
	}
	if s.Oxygen >= 100 {
		t.Fatalf("expected oxygen below 100 after a day, got %v", s.Oxygen)
	}
	if math.Abs(s.Oxygen-(240-4*1.6*24)) > 1e-9 {
		t.Fatalf("oxygen mismatch: got=%v want=%v", s.Oxygen, 240-4*1.6*24)
	}
	if len(res.WarningFlags) == 0 || res.WarningFlags[0] != WarningOxygenLow {
		t.Fatalf("expected oxygen-low flag, got %v", res.WarningFlags)
	}
	w := s.Warnings[0]
	if w.Severity != SeverityWarning || w.AtTick != 24 || w.ID != "w-1" {
		t.Fatalf("unexpected warning: %+v", w)
	}
	if got, want := s.Tick, 24.0; got != want {
		t.Fatalf("tick mismatch: got=%v want=%v", got, want)
	}
	if got, want := s.Timestamp, t0.Add(24*time.Hour); !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got=%v want=%v", got, want)
	}
	if len(res.ModuleMetrics) != 0 {
		t.Fatalf("expected no module metrics, got %v", res.ModuleMetrics)
	}
}

func TestStep_ReservesNeverNegative(t *testing.T) {
	engine := Engine{NewID: seqIDs()}
	cfg := DefaultConfig()
	cfg.CrewCount = 12
	state := InitResourceState(t0)
	scrubber := []Module{{ID: "scrub", CO2ScrubRate: 500}}
	for i := 0; i < 40; i++ {
		state = engine.Step(state, scrubber, cfg, 6).State
		for name, v := range map[string]float64{
			"oxygen": state.Oxygen, "water": state.Water, "energy": state.Energy,
			"co2": state.CarbonDioxide, "waste": state.Waste, "biomass": state.Biomass,
		} {
			if v < 0 {
				t.Fatalf("step %d: %s negative: %v", i, name, v)
			}
		}
	}
	if state.Oxygen != 0 || state.CarbonDioxide != 0 {
		t.Fatalf("expected oxygen and co2 pinned at 0, got oxygen=%v co2=%v", state.Oxygen, state.CarbonDioxide)
	}
	var critical bool
	for _, w := range state.Warnings {
		if w.Type == WarningOxygenLow && w.Severity == SeverityCritical {
			critical = true
		}
	}
	if !critical {
		t.Fatalf("expected critical oxygen warning, got %+v", state.Warnings)
	}
}

func TestStep_ModuleContributionsAndMetrics(t *testing.T) {
	modules := []Module{
		{ID: "oga", Type: "oxygen", OxygenGenRate: 10, Efficiency: ptr(0.5)},
		{ID: "wrs", Type: "water", WaterRecycleRate: 4},
		{ID: "solar", Type: "power", EnergyOutput: 8, Efficiency: ptr(2)},
		{ID: "farm", Type: "biomass", BiomassOutputRate: 1.5, CO2ScrubRate: 2},
	}
	cfg := Config{}
	prev := InitResourceState(t0)
	res := (Engine{NewID: seqIDs()}).Step(prev, modules, cfg, 2)

	want := map[string]float64{
		"oga:oxygen":   10 * 0.5 * 2,
		"oga:co2":      0.6 * 10 * 0.5 * 2,
		"wrs:water":    4 * 2,
		"solar:energy": 8 * 2,
		"farm:biomass": 1.5 * 2,
		"farm:co2":     2 * 2,
	}
	if len(res.ModuleMetrics) != len(want) {
		t.Fatalf("metric keys mismatch: got=%v want=%v", res.ModuleMetrics, want)
	}
	for k, v := range want {
		if math.Abs(res.ModuleMetrics[k]-v) > 1e-9 {
			t.Fatalf("metric %s mismatch: got=%v want=%v", k, res.ModuleMetrics[k], v)
		}
	}

	s := res.State
	if math.Abs(s.Oxygen-(prev.Oxygen+10)) > 1e-9 {
		t.Fatalf("oxygen mismatch: got=%v", s.Oxygen)
	}
	if math.Abs(s.CarbonDioxide-(prev.CarbonDioxide-6-4)) > 1e-9 {
		t.Fatalf("co2 mismatch: got=%v", s.CarbonDioxide)
	}
	if math.Abs(s.Energy-(prev.Energy+16)) > 1e-9 {
		t.Fatalf("energy mismatch: efficiency must clamp to 1, got=%v", s.Energy)
	}
	if math.Abs(s.Biomass-(prev.Biomass+3)) > 1e-9 {
		t.Fatalf("biomass mismatch: got=%v", s.Biomass)
	}
}

func TestStep_NegativeDeltaIsNoOp(t *testing.T) {
	prev := InitResourceState(t0)
	res := (Engine{NewID: seqIDs()}).Step(prev, nil, DefaultConfig(), -5)
	if res.State.Oxygen != prev.Oxygen || res.State.Tick != prev.Tick {
		t.Fatalf("expected unchanged reserves, got %+v", res.State)
	}
}

func TestStep_DoesNotMutateModulesOrPrevious(t *testing.T) {
	prev := InitResourceState(t0)
	prev.Warnings = []ResourceWarning{{ID: "old", Type: WarningWaterLow}}
	modules := []Module{{ID: "oga", OxygenGenRate: 3}}
	_ = (Engine{NewID: seqIDs()}).Step(prev, modules, DefaultConfig(), 30)
	if prev.Oxygen != InitialOxygen || len(prev.Warnings) != 1 || prev.Warnings[0].ID != "old" {
		t.Fatalf("previous state mutated: %+v", prev)
	}
	if modules[0].OxygenGenRate != 3 || modules[0].Efficiency != nil {
		t.Fatalf("module mutated: %+v", modules[0])
	}
}

func TestSustainability_Bounds(t *testing.T) {
	full := ResourceState{Oxygen: 900, Water: 900, Energy: 900}
	if got := Sustainability(full); math.Abs(got-1) > 1e-12 {
		t.Fatalf("expected 1 for saturated reserves, got %v", got)
	}
	empty := ResourceState{CarbonDioxide: 1000, Waste: 1000}
	if got := Sustainability(empty); got != 0 {
		t.Fatalf("expected 0 for exhausted habitat, got %v", got)
	}
	initial := Sustainability(InitResourceState(t0))
	want := 0.25*240.0/500 + 0.25*600.0/800 + 0.2*400.0/600 + 0.15*(1-40.0/300) + 0.15*(1-30.0/400)
	if math.Abs(initial-want) > 1e-12 {
		t.Fatalf("initial index mismatch: got=%v want=%v", initial, want)
	}
}

func TestThreshold_HighAndLowBands(t *testing.T) {
	state := ResourceState{Oxygen: 59, Water: 150, Energy: 500, CarbonDioxide: 200, Waste: 301, Tick: 7}
	warnings := evaluateWarnings(state, seqIDs())
	got := map[WarningType]Severity{}
	for _, w := range warnings {
		got[w.Type] = w.Severity
		if w.AtTick != 7 {
			t.Fatalf("warning tick mismatch: %+v", w)
		}
	}
	want := map[WarningType]Severity{
		WarningOxygenLow: SeverityCritical,
		WarningWaterLow:  SeverityWarning,
		WarningCO2High:   SeverityWarning,
		WarningWasteHigh: SeverityCritical,
	}
	if len(got) != len(want) {
		t.Fatalf("warning set mismatch: got=%v want=%v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s severity mismatch: got=%q want=%q", k, got[k], v)
		}
	}
}
