package memory

import (
	"context"
	"sync"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/ledger"
	"missioncore/internal/domain/lifesupport"
	"missioncore/internal/domain/physiology"
)

type habitatRecord struct {
	state          lifesupport.ResourceState
	sustainability float64
}

type Store struct {
	mu        sync.RWMutex
	lineages  map[string]ports.LineageRecord
	ecoStates map[string][]ecosystem.State
	crew      map[string]physiology.HumanState
	habitats  map[string][]habitatRecord
	ledgers   map[string][]ledger.Entry
	events    map[string][]events.DomainEvent
}

func NewStore() *Store {
	return &Store{
		lineages:  make(map[string]ports.LineageRecord),
		ecoStates: make(map[string][]ecosystem.State),
		crew:      make(map[string]physiology.HumanState),
		habitats:  make(map[string][]habitatRecord),
		ledgers:   make(map[string][]ledger.Entry),
		events:    make(map[string][]events.DomainEvent),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read runs fn under the read lock unless the caller already holds the store lock
// through RunInTx.
func (s *Store) read(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn()
}

func (s *Store) SeedCrew(crewID string, state physiology.HumanState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crew[crewID] = state
}

// SeedLedger replaces a stored chain; tests use it to simulate tampering at rest.
func (s *Store) SeedLedger(ledgerID string, entries []ledger.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[ledgerID] = append([]ledger.Entry(nil), entries...)
}
