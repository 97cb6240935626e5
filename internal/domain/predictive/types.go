package predictive

import "missioncore/internal/domain/physiology"

// Field names a HumanState field a countermeasure can target. Names match the JSON keys
// of physiology.HumanState.
type Field string

const (
	FieldBoneDensity       Field = "bone_density"
	FieldMuscleMass        Field = "muscle_mass"
	FieldBloodFlowIndex    Field = "blood_flow_index"
	FieldRadiationDose     Field = "radiation_dose"
	FieldFatigue           Field = "fatigue"
	FieldStressLoad        Field = "stress_load"
	FieldRecoveryPotential Field = "recovery_potential"
)

// Countermeasure declares fractional effects per field. Positive values improve the
// field, negative ones degrade it; for radiation_dose a negative value reduces the dose.
type Countermeasure struct {
	ID              string            `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	Description     string            `json:"description,omitempty" yaml:"description"`
	EfficacyTargets map[Field]float64 `json:"efficacy_targets" yaml:"efficacy_targets"`
}

type ScheduledIntervention struct {
	Day              int    `json:"day" yaml:"day"`
	CountermeasureID string `json:"countermeasure_id" yaml:"countermeasure_id"`
}

type InterventionPlan struct {
	ID       string                  `json:"id" yaml:"id"`
	Label    string                  `json:"label" yaml:"label"`
	Schedule []ScheduledIntervention `json:"schedule" yaml:"schedule"`
}

type ScenarioProfile struct {
	ID           string   `json:"id" yaml:"id"`
	Label        string   `json:"label" yaml:"label"`
	DurationDays float64  `json:"duration_days" yaml:"duration_days"`
	Gravity      float64  `json:"gravity" yaml:"gravity"`
	Oxygen       float64  `json:"oxygen" yaml:"oxygen"`
	Radiation    float64  `json:"radiation" yaml:"radiation"`
	Water        float64  `json:"water" yaml:"water"`
	Nutrition    float64  `json:"nutrition" yaml:"nutrition"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Tags         []string `json:"tags,omitempty" yaml:"tags"`
}

// Environment is the constant exposure a scenario implies.
func (s ScenarioProfile) Environment() physiology.EnvironmentState {
	return physiology.EnvironmentState{
		Gravity:   s.Gravity,
		Oxygen:    s.Oxygen,
		Radiation: s.Radiation,
		Water:     s.Water,
		Nutrition: s.Nutrition,
	}
}

// Options tune a projection. Zero Days means the scenario duration; zero DtDays means 1;
// zero MaxSteps means DefaultMaxSteps.
type Options struct {
	Plan     *InterventionPlan
	Days     float64
	DtDays   float64
	MaxSteps int
}

type AppliedIntervention struct {
	Day              int               `json:"day"`
	Step             int               `json:"step"`
	CountermeasureID string            `json:"countermeasure_id"`
	Effects          map[Field]float64 `json:"effects"`
}

type AppliedPlan struct {
	PlanID     string                `json:"plan_id,omitempty"`
	Label      string                `json:"label,omitempty"`
	Applied    []AppliedIntervention `json:"applied"`
	SkippedIDs []string              `json:"skipped_ids,omitempty"`
}

type Insight struct {
	ID            string  `json:"id"`
	Metric        string  `json:"metric"`
	Value         float64 `json:"value"`
	Severity      string  `json:"severity"`
	Title         string  `json:"title"`
	Narrative     string  `json:"narrative"`
	IntegrityHash string  `json:"integrity_hash"`
}

type Projection struct {
	ScenarioID  string                  `json:"scenario_id"`
	Trajectory  []physiology.HumanState `json:"trajectory"`
	Insights    []Insight               `json:"insights"`
	AppliedPlan AppliedPlan             `json:"applied_plan"`
}

// Final is the last trajectory state.
func (p Projection) Final() physiology.HumanState {
	return p.Trajectory[len(p.Trajectory)-1]
}
