package lifesupport

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// InitResourceState returns the fixed starting reserves at tick 0.
func InitResourceState(now time.Time) ResourceState {
	return ResourceState{
		Timestamp:     now.UTC(),
		Tick:          0,
		Oxygen:        InitialOxygen,
		CarbonDioxide: InitialCO2,
		Water:         InitialWater,
		Biomass:       InitialBiomass,
		Energy:        InitialEnergy,
		Waste:         InitialWaste,
		Warnings:      []ResourceWarning{},
	}
}

type Engine struct {
	// NewID names warnings. Defaults to random UUIDs.
	NewID func() string
}

// Step advances the reserves by dtHours. Negative or NaN deltas count as zero, so Step
// never fails and the result never holds a negative reserve.
func (e Engine) Step(previous ResourceState, modules []Module, cfg Config, dtHours float64) StepResult {
	newID := e.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	dt := dtHours
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	crew := float64(max(cfg.CrewCount, 0))

	next := previous
	next.Warnings = nil
	next.Tick = previous.Tick + dt
	next.Timestamp = previous.Timestamp.Add(time.Duration(dt * float64(time.Hour)))

	next.Oxygen -= crew * cfg.OxygenPerCrewHour * dt
	next.Water -= crew * cfg.WaterPerCrewHour * dt
	next.Energy -= crew * cfg.EnergyPerCrewHour * dt
	next.CarbonDioxide += crew * cfg.CO2PerCrewHour * dt
	next.Waste += crew * cfg.WastePerCrewHour * dt

	metrics := make(map[string]float64)
	for _, m := range modules {
		scale := m.efficiency() * dt
		if m.OxygenGenRate != 0 {
			produced := m.OxygenGenRate * scale
			next.Oxygen += produced
			metrics[metricKey(m.ID, "oxygen")] += produced
		}
		if m.WaterRecycleRate != 0 {
			recycled := m.WaterRecycleRate * scale
			next.Water += recycled
			metrics[metricKey(m.ID, "water")] += recycled
		}
		scrub := m.CO2ScrubRate + OxygenGenCO2ScrubShare*m.OxygenGenRate
		if scrub != 0 {
			scrubbed := scrub * scale
			next.CarbonDioxide -= scrubbed
			metrics[metricKey(m.ID, "co2")] += scrubbed
		}
		if m.BiomassOutputRate != 0 {
			grown := m.BiomassOutputRate * scale
			next.Biomass += grown
			metrics[metricKey(m.ID, "biomass")] += grown
		}
		if m.EnergyOutput != 0 {
			generated := m.EnergyOutput * scale
			next.Energy += generated
			metrics[metricKey(m.ID, "energy")] += generated
		}
	}

	next.Oxygen = floor0(next.Oxygen)
	next.Water = floor0(next.Water)
	next.Energy = floor0(next.Energy)
	next.CarbonDioxide = floor0(next.CarbonDioxide)
	next.Waste = floor0(next.Waste)
	next.Biomass = floor0(next.Biomass)

	next.Warnings = evaluateWarnings(next, newID)
	flags := make([]WarningType, 0, len(next.Warnings))
	for _, w := range next.Warnings {
		flags = append(flags, w.Type)
	}

	return StepResult{
		State:               next,
		SustainabilityIndex: Sustainability(next),
		WarningFlags:        flags,
		ModuleMetrics:       metrics,
	}
}

// Sustainability blends normalised reserves into one [0,1] score. CO2 and waste count
// inversely.
func Sustainability(s ResourceState) float64 {
	score := OxygenWeight*clamp(s.Oxygen/OxygenNorm, 0, 1) +
		WaterWeight*clamp(s.Water/WaterNorm, 0, 1) +
		EnergyWeight*clamp(s.Energy/EnergyNorm, 0, 1) +
		CO2Weight*clamp(1-s.CarbonDioxide/CO2Norm, 0, 1) +
		WasteWeight*clamp(1-s.Waste/WasteNorm, 0, 1)
	return clamp(score, 0, 1)
}

func evaluateWarnings(s ResourceState, newID func() string) []ResourceWarning {
	out := make([]ResourceWarning, 0, len(thresholds))
	for _, th := range thresholds {
		v := th.value(s)
		severity, limit, ok := th.classify(v)
		if !ok {
			continue
		}
		direction := "below"
		if th.high {
			direction = "above"
		}
		out = append(out, ResourceWarning{
			ID:       newID(),
			Type:     th.kind,
			Severity: severity,
			Message:  fmt.Sprintf("%s at %.1f, %s %s threshold %.0f", th.label, v, direction, severity, limit),
			AtTick:   s.Tick,
		})
	}
	return out
}

func (th threshold) classify(v float64) (Severity, float64, bool) {
	if th.high {
		switch {
		case v > th.critical:
			return SeverityCritical, th.critical, true
		case v > th.warning:
			return SeverityWarning, th.warning, true
		}
		return "", 0, false
	}
	switch {
	case v < th.critical:
		return SeverityCritical, th.critical, true
	case v < th.warning:
		return SeverityWarning, th.warning, true
	}
	return "", 0, false
}

func metricKey(moduleID, resource string) string {
	return moduleID + ":" + resource
}

func floor0(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
