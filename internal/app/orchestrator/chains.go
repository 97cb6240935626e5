package orchestrator

import (
	"context"
	"sync"
	"time"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ledger"
)

// Chains holds one in-process ledger and one tick lock per lineage. A ledger is loaded
// from the repository on first use and dropped whenever a write fails, so the next tick
// reloads the persisted chain.
type Chains struct {
	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
	locks   map[string]*sync.Mutex
}

func NewChains() *Chains {
	return &Chains{
		ledgers: map[string]*ledger.Ledger{},
		locks:   map[string]*sync.Mutex{},
	}
}

// Lock blocks until lineageID is free and returns the matching unlock.
func (c *Chains) Lock(lineageID string) func() {
	c.mu.Lock()
	l, ok := c.locks[lineageID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[lineageID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (c *Chains) get(ctx context.Context, lineageID string, repo ports.LedgerRepository, now func() time.Time) (*ledger.Ledger, error) {
	c.mu.Lock()
	l, ok := c.ledgers[lineageID]
	c.mu.Unlock()
	if ok {
		return l, nil
	}
	entries, err := repo.List(ctx, lineageID)
	if err != nil {
		return nil, err
	}
	l = ledger.Restore(lineageID, entries, now)
	c.mu.Lock()
	c.ledgers[lineageID] = l
	c.mu.Unlock()
	return l, nil
}

func (c *Chains) drop(lineageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ledgers, lineageID)
}
