package predictive

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"missioncore/internal/domain/ledger"
	"missioncore/internal/domain/physiology"
)

var ErrInvalidHorizon = errors.New("invalid projection horizon")

// DefaultMaxSteps bounds a projection's trajectory length when Options.MaxSteps is zero.
const DefaultMaxSteps = 20000

const (
	// MaxBoostedFraction caps fractional fields after an intervention.
	MaxBoostedFraction = 1.5

	LossWarningFraction  = 0.02
	LossCriticalFraction = 0.08
	DoseWarning          = 150.0
	DoseCritical         = 500.0
)

type Modeler struct {
	Engine          physiology.Engine
	Countermeasures map[string]Countermeasure
}

func NewModeler(catalog Catalog) Modeler {
	return Modeler{Countermeasures: catalog.CountermeasureIndex()}
}

// Project runs floor(days/dtDays) physiology ticks under the scenario's constant
// environment. After each tick every scheduled intervention whose day boundary was
// crossed is applied once, in schedule order; entries on the same day compound.
// Trajectory[0] is initial, untouched.
func (m Modeler) Project(initial physiology.HumanState, scenario ScenarioProfile, opts Options) (Projection, error) {
	days := opts.Days
	if days == 0 {
		days = scenario.DurationDays
	}
	dt := opts.DtDays
	if dt == 0 {
		dt = 1
	}
	if !(days >= 0) || !(dt > 0) || math.IsInf(days, 0) || math.IsInf(dt, 0) {
		return Projection{}, fmt.Errorf("%w: days=%v dt=%v", ErrInvalidHorizon, days, dt)
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if n := math.Floor(days / dt); n > float64(maxSteps) {
		return Projection{}, fmt.Errorf("%w: %v steps exceeds limit %d", ErrInvalidHorizon, n, maxSteps)
	}
	steps := int(math.Floor(days / dt))

	env := scenario.Environment()
	var schedule []ScheduledIntervention
	applied := AppliedPlan{Applied: []AppliedIntervention{}}
	if opts.Plan != nil {
		schedule = opts.Plan.Schedule
		applied.PlanID = opts.Plan.ID
		applied.Label = opts.Plan.Label
	}

	trajectory := make([]physiology.HumanState, 0, steps+1)
	trajectory = append(trajectory, initial)
	state := initial
	lastDay := -1
	for step := 1; step <= steps; step++ {
		next, err := m.Engine.Advance(state, env, dt)
		if err != nil {
			return Projection{}, err
		}
		day := int(math.Floor(float64(step) * dt))
		for _, item := range schedule {
			if item.Day <= lastDay || item.Day > day {
				continue
			}
			cm, ok := m.Countermeasures[item.CountermeasureID]
			if !ok {
				applied.SkippedIDs = appendOnce(applied.SkippedIDs, item.CountermeasureID)
				continue
			}
			next = applyCountermeasure(next, cm)
			applied.Applied = append(applied.Applied, AppliedIntervention{
				Day:              item.Day,
				Step:             step,
				CountermeasureID: cm.ID,
				Effects:          cm.EfficacyTargets,
			})
		}
		lastDay = day
		trajectory = append(trajectory, next)
		state = next
	}

	return Projection{
		ScenarioID:  scenario.ID,
		Trajectory:  trajectory,
		Insights:    buildInsights(scenario, applied.PlanID, initial, state, days),
		AppliedPlan: applied,
	}, nil
}

func applyCountermeasure(s physiology.HumanState, cm Countermeasure) physiology.HumanState {
	for field, efficacy := range cm.EfficacyTargets {
		factor := 1 + efficacy
		switch field {
		case FieldBoneDensity:
			s.BoneDensity = boosted(s.BoneDensity * factor)
		case FieldMuscleMass:
			s.MuscleMass = boosted(s.MuscleMass * factor)
		case FieldBloodFlowIndex:
			s.BloodFlowIndex = boosted(s.BloodFlowIndex * factor)
		case FieldFatigue:
			s.Fatigue = boosted(s.Fatigue * factor)
		case FieldStressLoad:
			s.StressLoad = boosted(s.StressLoad * factor)
		case FieldRecoveryPotential:
			s.RecoveryPotential = boosted(s.RecoveryPotential * factor)
		case FieldRadiationDose:
			s.RadiationDose = math.Max(0, s.RadiationDose*factor)
		}
	}
	return s
}

func boosted(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, MaxBoostedFraction)
}

func buildInsights(scenario ScenarioProfile, planID string, initial, final physiology.HumanState, days float64) []Insight {
	bone := 1 - final.BoneDensity
	muscle := 1 - final.MuscleMass
	dose := final.RadiationDose - initial.RadiationDose

	out := []Insight{
		newInsight(scenario.ID, planID, "bone-loss", bone, lossSeverity(bone),
			"Bone density outlook",
			fmt.Sprintf("Projected bone density loss of %.2f%% over %.0f days in %s.", bone*100, days, labelOf(scenario))),
		newInsight(scenario.ID, planID, "muscle-loss", muscle, lossSeverity(muscle),
			"Muscle mass outlook",
			fmt.Sprintf("Projected muscle mass loss of %.2f%% over %.0f days in %s.", muscle*100, days, labelOf(scenario))),
	}
	if dose > 0 {
		out = append(out, newInsight(scenario.ID, planID, "radiation-dose", dose, doseSeverity(dose),
			"Radiation exposure",
			fmt.Sprintf("Accumulated %.1f dose units over the projection; recovery potential ends at %.2f.", dose, final.RecoveryPotential)))
	}
	return out
}

// newInsight derives the integrity hash from scenario, plan, metric and value so the same
// projection always reproduces it.
func newInsight(scenarioID, planID, metric string, value float64, severity, title, narrative string) Insight {
	hash := ledger.Digest(scenarioID, planID, metric, strconv.FormatFloat(value, 'f', 6, 64))
	return Insight{
		ID:            metric + "-" + hash[:12],
		Metric:        metric,
		Value:         value,
		Severity:      severity,
		Title:         title,
		Narrative:     narrative,
		IntegrityHash: hash,
	}
}

func lossSeverity(loss float64) string {
	switch {
	case loss >= LossCriticalFraction:
		return "critical"
	case loss >= LossWarningFraction:
		return "warning"
	}
	return "info"
}

func doseSeverity(dose float64) string {
	switch {
	case dose >= DoseCritical:
		return "critical"
	case dose >= DoseWarning:
		return "warning"
	}
	return "info"
}

func labelOf(s ScenarioProfile) string {
	if s.Label != "" {
		return s.Label
	}
	if s.ID != "" {
		return s.ID
	}
	return "the scenario"
}

func appendOnce(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
