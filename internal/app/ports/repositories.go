package ports

import (
	"context"
	"time"

	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/ledger"
	"missioncore/internal/domain/lifesupport"
	"missioncore/internal/domain/physiology"
)

type LineageRecord struct {
	LineageID string
	Seed      string
	Genomes   []ecosystem.Genome
	CreatedAt time.Time
}

type EcosystemRepository interface {
	// CreateLineage returns ErrConflict when the lineage already exists.
	CreateLineage(ctx context.Context, lineage LineageRecord) error
	GetLineage(ctx context.Context, lineageID string) (LineageRecord, error)
	// AppendState returns ErrConflict when a state with the same tick is stored.
	AppendState(ctx context.Context, lineageID string, state ecosystem.State) error
	LatestState(ctx context.Context, lineageID string) (ecosystem.State, error)
	// RecentStates returns at most limit states, oldest first.
	RecentStates(ctx context.Context, lineageID string, limit int) ([]ecosystem.State, error)
}

type CrewRepository interface {
	Get(ctx context.Context, crewID string) (physiology.HumanState, error)
	Save(ctx context.Context, crewID string, state physiology.HumanState) error
}

type HabitatRepository interface {
	Latest(ctx context.Context, habitatID string) (lifesupport.ResourceState, error)
	Append(ctx context.Context, habitatID string, state lifesupport.ResourceState, sustainability float64) error
}

type LedgerRepository interface {
	// Append returns ErrConflict when the index is already taken.
	Append(ctx context.Context, ledgerID string, entry ledger.Entry) error
	// List returns the chain ordered by index.
	List(ctx context.Context, ledgerID string) ([]ledger.Entry, error)
}

type EventRepository interface {
	Append(ctx context.Context, subject string, evts []events.DomainEvent) error
	// ListBySubject returns newest first. limit <= 0 means no limit.
	ListBySubject(ctx context.Context, subject string, limit int) ([]events.DomainEvent, error)
}
