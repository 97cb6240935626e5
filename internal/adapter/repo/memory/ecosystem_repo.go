package memory

import (
	"context"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ecosystem"
)

type EcosystemRepo struct {
	store *Store
}

func NewEcosystemRepo(store *Store) EcosystemRepo {
	return EcosystemRepo{store: store}
}

func (r EcosystemRepo) CreateLineage(ctx context.Context, lineage ports.LineageRecord) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.lineages[lineage.LineageID]; ok {
			return ports.ErrConflict
		}
		lineage.Genomes = append([]ecosystem.Genome(nil), lineage.Genomes...)
		r.store.lineages[lineage.LineageID] = lineage
		return nil
	})
}

func (r EcosystemRepo) GetLineage(ctx context.Context, lineageID string) (ports.LineageRecord, error) {
	var out ports.LineageRecord
	err := r.store.read(ctx, func() error {
		rec, ok := r.store.lineages[lineageID]
		if !ok {
			return ports.ErrNotFound
		}
		out = rec
		out.Genomes = append([]ecosystem.Genome(nil), rec.Genomes...)
		return nil
	})
	return out, err
}

func (r EcosystemRepo) AppendState(ctx context.Context, lineageID string, state ecosystem.State) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.lineages[lineageID]; !ok {
			return ports.ErrNotFound
		}
		history := r.store.ecoStates[lineageID]
		if n := len(history); n > 0 && history[n-1].Tick >= state.Tick {
			return ports.ErrConflict
		}
		state.Populations = append([]ecosystem.Population(nil), state.Populations...)
		r.store.ecoStates[lineageID] = append(history, state)
		return nil
	})
}

func (r EcosystemRepo) LatestState(ctx context.Context, lineageID string) (ecosystem.State, error) {
	var out ecosystem.State
	err := r.store.read(ctx, func() error {
		history := r.store.ecoStates[lineageID]
		if len(history) == 0 {
			return ports.ErrNotFound
		}
		out = history[len(history)-1]
		out.Populations = append([]ecosystem.Population(nil), out.Populations...)
		return nil
	})
	return out, err
}

func (r EcosystemRepo) RecentStates(ctx context.Context, lineageID string, limit int) ([]ecosystem.State, error) {
	var out []ecosystem.State
	err := r.store.read(ctx, func() error {
		history := r.store.ecoStates[lineageID]
		if limit > 0 && len(history) > limit {
			history = history[len(history)-limit:]
		}
		out = make([]ecosystem.State, 0, len(history))
		for _, s := range history {
			s.Populations = append([]ecosystem.Population(nil), s.Populations...)
			out = append(out, s)
		}
		return nil
	})
	return out, err
}
