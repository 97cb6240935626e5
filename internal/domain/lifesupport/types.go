package lifesupport

import "time"

type WarningType string

const (
	WarningOxygenLow WarningType = "oxygen-low"
	WarningWaterLow  WarningType = "water-low"
	WarningEnergyLow WarningType = "energy-low"
	WarningCO2High   WarningType = "co2-high"
	WarningWasteHigh WarningType = "waste-high"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type ResourceWarning struct {
	ID       string      `json:"id"`
	Type     WarningType `json:"type"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
	AtTick   float64     `json:"at_tick"`
}

// ResourceState is the habitat reserve ledger. Tick counts simulated hours.
type ResourceState struct {
	Timestamp     time.Time         `json:"timestamp"`
	Tick          float64           `json:"tick"`
	Oxygen        float64           `json:"oxygen"`
	CarbonDioxide float64           `json:"carbon_dioxide"`
	Water         float64           `json:"water"`
	Biomass       float64           `json:"biomass"`
	Energy        float64           `json:"energy"`
	Waste         float64           `json:"waste"`
	Warnings      []ResourceWarning `json:"warnings"`
}

// Module is static equipment configuration. Rates are per hour at full efficiency.
// A nil Efficiency means 1.
type Module struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Type              string   `json:"type" yaml:"type"`
	OxygenGenRate     float64  `json:"oxygen_gen_rate,omitempty" yaml:"oxygen_gen_rate"`
	WaterRecycleRate  float64  `json:"water_recycle_rate,omitempty" yaml:"water_recycle_rate"`
	CO2ScrubRate      float64  `json:"co2_scrub_rate,omitempty" yaml:"co2_scrub_rate"`
	BiomassOutputRate float64  `json:"biomass_output_rate,omitempty" yaml:"biomass_output_rate"`
	EnergyOutput      float64  `json:"energy_output,omitempty" yaml:"energy_output"`
	Efficiency        *float64 `json:"efficiency,omitempty" yaml:"efficiency"`
}

func (m Module) efficiency() float64 {
	if m.Efficiency == nil {
		return 1
	}
	return clamp(*m.Efficiency, 0, 1)
}

// Config holds crew size and per-crew hourly rates.
type Config struct {
	CrewCount         int     `json:"crew_count" yaml:"crew_count"`
	OxygenPerCrewHour float64 `json:"oxygen_per_crew_hour" yaml:"oxygen_per_crew_hour"`
	WaterPerCrewHour  float64 `json:"water_per_crew_hour" yaml:"water_per_crew_hour"`
	EnergyPerCrewHour float64 `json:"energy_per_crew_hour" yaml:"energy_per_crew_hour"`
	CO2PerCrewHour    float64 `json:"co2_per_crew_hour" yaml:"co2_per_crew_hour"`
	WastePerCrewHour  float64 `json:"waste_per_crew_hour" yaml:"waste_per_crew_hour"`
}

func DefaultConfig() Config {
	return Config{
		CrewCount:         DefaultCrewCount,
		OxygenPerCrewHour: DefaultOxygenPerCrewHour,
		WaterPerCrewHour:  DefaultWaterPerCrewHour,
		EnergyPerCrewHour: DefaultEnergyPerCrewHour,
		CO2PerCrewHour:    DefaultCO2PerCrewHour,
		WastePerCrewHour:  DefaultWastePerCrewHour,
	}
}

type StepResult struct {
	State               ResourceState      `json:"state"`
	SustainabilityIndex float64            `json:"sustainability_index"`
	WarningFlags        []WarningType      `json:"warning_flags"`
	ModuleMetrics       map[string]float64 `json:"module_metrics"`
}
