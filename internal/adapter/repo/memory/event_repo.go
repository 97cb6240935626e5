package memory

import (
	"context"

	"missioncore/internal/domain/events"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, subject string, evts []events.DomainEvent) error {
	return r.store.write(ctx, func() error {
		r.store.events[subject] = append(r.store.events[subject], evts...)
		return nil
	})
}

func (r EventRepo) ListBySubject(ctx context.Context, subject string, limit int) ([]events.DomainEvent, error) {
	var out []events.DomainEvent
	err := r.store.read(ctx, func() error {
		items := r.store.events[subject]
		out = make([]events.DomainEvent, 0, len(items))
		for i := len(items) - 1; i >= 0; i-- {
			out = append(out, items[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}
