package ecosystem

const (
	DefaultSeed        = "mission-default"
	DefaultGenomeCount = 3
	MarsGravity        = 0.38

	InitialCountMin  = 100
	InitialCountSpan = 200

	GrowthBias     = 0.45
	GrowthAmpl     = 0.1
	HealthWalkStep = 0.02
	DiversityStep  = 0.01

	StabilityHealthWeight    = 0.6
	StabilityNutrientsWeight = 0.4
	ResilienceFromStability  = 0.9
	ResilienceBonusMax       = 0.05
)

var defaultSpecies = [DefaultGenomeCount]string{
	"Deinococcus radiodurans",
	"Chlorella vulgaris",
	"Hypsibius dujardini",
}

// span is a half-open [min, min+width) draw range.
type span struct {
	min, width float64
}

func (s span) draw(r RandomSource) float64 {
	return s.min + r.Float64()*s.width
}

var (
	radiationResistanceRange = span{0.3, 0.6}
	growthRateRange          = span{0.2, 0.6}
	mutationRateRange        = span{0.001, 0.009}
	resourceEfficiencyRange  = span{0.4, 0.5}
	stressToleranceRange     = span{0.3, 0.6}

	temperatureRange    = span{15, 15}
	radiationRange      = span{0.1, 0.5}
	pressureRange       = span{0.6, 0.4}
	nutrientsRange      = span{0.5, 0.5}
	lightIntensityRange = span{0.4, 0.5}

	healthRange    = span{0.7, 0.3}
	diversityRange = span{0.5, 0.4}
)
