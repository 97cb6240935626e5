package ports

type Metrics interface {
	RecordTick(engine string)
	RecordConflict()
	RecordFailure(op string)
	RecordAnomaly(lineageID string)
	RecordTamper(ledgerID string)
	ObservePopulation(lineageID string, total int)
	ObserveSustainability(habitatID string, index float64)
}

// Engine labels used with RecordTick.
const (
	EngineEcosystem   = "ecosystem"
	EnginePhysiology  = "physiology"
	EngineLifeSupport = "lifesupport"
	EngineProjection  = "projection"
)
