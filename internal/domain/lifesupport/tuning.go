package lifesupport

const (
	InitialOxygen  = 240.0
	InitialWater   = 600.0
	InitialEnergy  = 400.0
	InitialCO2     = 40.0
	InitialWaste   = 30.0
	InitialBiomass = 120.0

	DefaultCrewCount         = 4
	DefaultOxygenPerCrewHour = 1.6
	DefaultWaterPerCrewHour  = 2.5
	DefaultEnergyPerCrewHour = 1.2
	DefaultCO2PerCrewHour    = 1.4
	DefaultWastePerCrewHour  = 0.9

	// Oxygen generators scrub CO2 at this share of their oxygen rate.
	OxygenGenCO2ScrubShare = 0.6
)

// Sustainability normalisation ceilings and weights.
const (
	OxygenNorm = 500.0
	WaterNorm  = 800.0
	EnergyNorm = 600.0
	CO2Norm    = 300.0
	WasteNorm  = 400.0

	OxygenWeight = 0.25
	WaterWeight  = 0.25
	EnergyWeight = 0.20
	CO2Weight    = 0.15
	WasteWeight  = 0.15
)

// threshold describes one reserve alarm. For high alarms the levels are upper bounds.
type threshold struct {
	kind     WarningType
	label    string
	warning  float64
	critical float64
	high     bool
	value    func(ResourceState) float64
}

var thresholds = []threshold{
	{WarningOxygenLow, "oxygen", 100, 60, false, func(s ResourceState) float64 { return s.Oxygen }},
	{WarningWaterLow, "water", 200, 120, false, func(s ResourceState) float64 { return s.Water }},
	{WarningEnergyLow, "energy", 120, 60, false, func(s ResourceState) float64 { return s.Energy }},
	{WarningCO2High, "co2", 180, 260, true, func(s ResourceState) float64 { return s.CarbonDioxide }},
	{WarningWasteHigh, "waste", 200, 300, true, func(s ResourceState) float64 { return s.Waste }},
}
