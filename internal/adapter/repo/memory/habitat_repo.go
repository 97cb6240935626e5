package memory

import (
	"context"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/lifesupport"
)

type HabitatRepo struct {
	store *Store
}

func NewHabitatRepo(store *Store) HabitatRepo {
	return HabitatRepo{store: store}
}

func (r HabitatRepo) Latest(ctx context.Context, habitatID string) (lifesupport.ResourceState, error) {
	var out lifesupport.ResourceState
	err := r.store.read(ctx, func() error {
		history := r.store.habitats[habitatID]
		if len(history) == 0 {
			return ports.ErrNotFound
		}
		out = history[len(history)-1].state
		out.Warnings = append([]lifesupport.ResourceWarning(nil), out.Warnings...)
		return nil
	})
	return out, err
}

func (r HabitatRepo) Append(ctx context.Context, habitatID string, state lifesupport.ResourceState, sustainability float64) error {
	return r.store.write(ctx, func() error {
		state.Warnings = append([]lifesupport.ResourceWarning(nil), state.Warnings...)
		r.store.habitats[habitatID] = append(r.store.habitats[habitatID], habitatRecord{state: state, sustainability: sustainability})
		return nil
	})
}
