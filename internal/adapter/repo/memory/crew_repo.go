package memory

import (
	"context"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/physiology"
)

type CrewRepo struct {
	store *Store
}

func NewCrewRepo(store *Store) CrewRepo {
	return CrewRepo{store: store}
}

func (r CrewRepo) Get(ctx context.Context, crewID string) (physiology.HumanState, error) {
	var out physiology.HumanState
	err := r.store.read(ctx, func() error {
		state, ok := r.store.crew[crewID]
		if !ok {
			return ports.ErrNotFound
		}
		out = state
		return nil
	})
	return out, err
}

func (r CrewRepo) Save(ctx context.Context, crewID string, state physiology.HumanState) error {
	return r.store.write(ctx, func() error {
		r.store.crew[crewID] = state
		return nil
	})
}
