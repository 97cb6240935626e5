package ecosystem

import "time"

type Traits struct {
	RadiationResistance float64 `json:"radiation_resistance"`
	GrowthRate          float64 `json:"growth_rate"`
	MutationRate        float64 `json:"mutation_rate"`
	ResourceEfficiency  float64 `json:"resource_efficiency"`
	StressTolerance     float64 `json:"stress_tolerance"`
}

// Genome is an immutable trait bundle for one organism lineage.
type Genome struct {
	ID      string   `json:"id"`
	Species string   `json:"species"`
	Traits  Traits   `json:"traits"`
	Lineage []string `json:"lineage"`
}

type Environment struct {
	Temperature    float64 `json:"temperature"`
	Radiation      float64 `json:"radiation"`
	Gravity        float64 `json:"gravity"`
	Pressure       float64 `json:"pressure"`
	Nutrients      float64 `json:"nutrients"`
	LightIntensity float64 `json:"light_intensity"`
}

type Population struct {
	GenomeID       string  `json:"genome_id"`
	Count          int     `json:"count"`
	HealthIndex    float64 `json:"health_index"`
	DiversityIndex float64 `json:"diversity_index"`
}

type State struct {
	ID              string       `json:"id"`
	Tick            int          `json:"tick"`
	Timestamp       time.Time    `json:"timestamp"`
	Environment     Environment  `json:"environment"`
	Populations     []Population `json:"populations"`
	StabilityScore  float64      `json:"stability_score"`
	ResilienceScore float64      `json:"resilience_score"`
}

// TotalPopulation sums every population count.
func (s State) TotalPopulation() int {
	total := 0
	for _, p := range s.Populations {
		total += p.Count
	}
	return total
}

func (s State) clone() State {
	out := s
	out.Populations = append([]Population(nil), s.Populations...)
	return out
}

type Config struct {
	Seed           string
	InitialGenomes []Genome
	Now            func() time.Time
}
