package predictive

// Catalog bundles the scenario, countermeasure and plan records a modeler reads.
type Catalog struct {
	Scenarios       []ScenarioProfile  `json:"scenarios" yaml:"scenarios"`
	Countermeasures []Countermeasure   `json:"countermeasures" yaml:"countermeasures"`
	Plans           []InterventionPlan `json:"plans" yaml:"plans"`
}

func (c Catalog) Scenario(id string) (ScenarioProfile, bool) {
	for _, s := range c.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return ScenarioProfile{}, false
}

func (c Catalog) Plan(id string) (InterventionPlan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return InterventionPlan{}, false
}

func (c Catalog) CountermeasureIndex() map[string]Countermeasure {
	out := make(map[string]Countermeasure, len(c.Countermeasures))
	for _, cm := range c.Countermeasures {
		out[cm.ID] = cm
	}
	return out
}

// Merge overlays other onto c by id. Records only in c are kept in order; new ones are
// appended.
func (c Catalog) Merge(other Catalog) Catalog {
	out := Catalog{
		Scenarios:       mergeByID(c.Scenarios, other.Scenarios, func(s ScenarioProfile) string { return s.ID }),
		Countermeasures: mergeByID(c.Countermeasures, other.Countermeasures, func(m Countermeasure) string { return m.ID }),
		Plans:           mergeByID(c.Plans, other.Plans, func(p InterventionPlan) string { return p.ID }),
	}
	return out
}

func mergeByID[T any](base, overlay []T, id func(T) string) []T {
	out := append([]T(nil), base...)
	pos := make(map[string]int, len(out))
	for i, v := range out {
		pos[id(v)] = i
	}
	for _, v := range overlay {
		if i, ok := pos[id(v)]; ok {
			out[i] = v
			continue
		}
		pos[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}

func DefaultCatalog() Catalog {
	return Catalog{
		Scenarios: []ScenarioProfile{
			{
				ID: "mars-transit", Label: "Mars transit", DurationDays: 180,
				Gravity: 0.38, Oxygen: 0.85, Radiation: 0.55, Water: 0.75, Nutrition: 0.8,
				Description: "Cruise phase with partial spin gravity and deep-space radiation.",
				Tags:        []string{"mars", "transit"},
			},
			{
				ID: "leo-station", Label: "Low Earth orbit station", DurationDays: 180,
				Gravity: 0, Oxygen: 0.95, Radiation: 0.2, Water: 0.9, Nutrition: 0.9,
				Description: "Microgravity inside the magnetosphere.",
				Tags:        []string{"orbit", "microgravity"},
			},
			{
				ID: "lunar-surface", Label: "Lunar surface", DurationDays: 30,
				Gravity: 0.165, Oxygen: 0.9, Radiation: 0.45, Water: 0.7, Nutrition: 0.85,
				Description: "Surface stay without atmospheric shielding.",
				Tags:        []string{"moon", "surface"},
			},
			{
				ID: "mars-surface", Label: "Mars surface", DurationDays: 500,
				Gravity: 0.38, Oxygen: 0.9, Radiation: 0.35, Water: 0.8, Nutrition: 0.85,
				Description: "Long stay under a thin atmosphere.",
				Tags:        []string{"mars", "surface"},
			},
		},
		Countermeasures: []Countermeasure{
			{
				ID: "resistive-exercise", Name: "Resistive exercise block",
				EfficacyTargets: map[Field]float64{FieldMuscleMass: 0.02, FieldBoneDensity: 0.005},
			},
			{
				ID: "bisphosphonate", Name: "Bisphosphonate dose",
				EfficacyTargets: map[Field]float64{FieldBoneDensity: 0.01},
			},
			{
				ID: "storm-shelter", Name: "Radiation storm shelter",
				EfficacyTargets: map[Field]float64{FieldRadiationDose: -0.05},
			},
			{
				ID: "centrifuge", Name: "Short-arm centrifuge session",
				EfficacyTargets: map[Field]float64{FieldMuscleMass: 0.015, FieldBoneDensity: 0.008, FieldBloodFlowIndex: 0.02},
			},
			{
				ID: "nutrition-boost", Name: "Caloric and vitamin D boost",
				EfficacyTargets: map[Field]float64{FieldFatigue: -0.1, FieldRecoveryPotential: 0.02},
			},
		},
		Plans: []InterventionPlan{
			{
				ID: "exercise-triad", Label: "Three resistive blocks",
				Schedule: []ScheduledIntervention{
					{Day: 3, CountermeasureID: "resistive-exercise"},
					{Day: 7, CountermeasureID: "resistive-exercise"},
					{Day: 11, CountermeasureID: "resistive-exercise"},
				},
			},
		},
	}
}
