package memory

import (
	"context"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ledger"
)

type LedgerRepo struct {
	store *Store
}

func NewLedgerRepo(store *Store) LedgerRepo {
	return LedgerRepo{store: store}
}

func (r LedgerRepo) Append(ctx context.Context, ledgerID string, entry ledger.Entry) error {
	return r.store.write(ctx, func() error {
		chain := r.store.ledgers[ledgerID]
		if entry.Index != len(chain) {
			return ports.ErrConflict
		}
		r.store.ledgers[ledgerID] = append(chain, entry)
		return nil
	})
}

func (r LedgerRepo) List(ctx context.Context, ledgerID string) ([]ledger.Entry, error) {
	var out []ledger.Entry
	err := r.store.read(ctx, func() error {
		out = append([]ledger.Entry{}, r.store.ledgers[ledgerID]...)
		return nil
	})
	return out, err
}
