package physiology

// EnvironmentState is the per-tick exposure a crew member lives in. Every field is a
// fraction where 1.0 approximates Earth-normal; gravity may exceed 1.0.
type EnvironmentState struct {
	Gravity   float64 `json:"gravity" yaml:"gravity"`
	Oxygen    float64 `json:"oxygen" yaml:"oxygen"`
	Radiation float64 `json:"radiation" yaml:"radiation"`
	Water     float64 `json:"water" yaml:"water"`
	Nutrition float64 `json:"nutrition" yaml:"nutrition"`
}

// HumanState is one crew member's health snapshot. Fractional fields are nominally in
// [0,1]; RadiationDose is cumulative and unbounded.
type HumanState struct {
	Time              float64 `json:"time"`
	BoneDensity       float64 `json:"bone_density"`
	MuscleMass        float64 `json:"muscle_mass"`
	BloodFlowIndex    float64 `json:"blood_flow_index"`
	RadiationDose     float64 `json:"radiation_dose"`
	Fatigue           float64 `json:"fatigue"`
	StressLoad        float64 `json:"stress_load"`
	RecoveryPotential float64 `json:"recovery_potential"`
}

func Baseline() HumanState {
	return HumanState{
		Time:              0,
		BoneDensity:       1,
		MuscleMass:        1,
		BloodFlowIndex:    1,
		RadiationDose:     0,
		Fatigue:           0,
		StressLoad:        0,
		RecoveryPotential: BaselineRecoveryPotential,
	}
}

// Clamped returns a copy with fractional fields pinned to [0,1] for display. Time and
// RadiationDose are left as they are.
func (s HumanState) Clamped() HumanState {
	out := s
	out.BoneDensity = clamp(s.BoneDensity, 0, 1)
	out.MuscleMass = clamp(s.MuscleMass, 0, 1)
	out.BloodFlowIndex = clamp(s.BloodFlowIndex, 0, 1)
	out.Fatigue = clamp(s.Fatigue, 0, 1)
	out.StressLoad = clamp(s.StressLoad, 0, 1)
	out.RecoveryPotential = clamp(s.RecoveryPotential, 0, 1)
	return out
}
