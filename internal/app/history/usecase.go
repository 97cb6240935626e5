package history

import (
	"context"
	"errors"
	"strings"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/events"
)

var ErrInvalidRequest = errors.New("invalid history request")

const MaxLimit = 500

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	// Filters run after the fetch, so the repository limit only applies when nothing
	// else narrows the result.
	fetch := limit
	if req.OccurredFrom > 0 || req.OccurredTo > 0 || len(req.Types) > 0 {
		fetch = 0
	}
	list, err := u.Events.ListBySubject(ctx, subject, fetch)
	if err != nil {
		return Response{}, err
	}
	list = filterByTimeWindow(list, req.OccurredFrom, req.OccurredTo)
	list = filterByType(list, req.Types)
	if len(list) > limit {
		list = list[:limit]
	}
	return Response{Subject: subject, Events: list, LatestState: latestState(list)}, nil
}

func filterByTimeWindow(list []events.DomainEvent, from, to int64) []events.DomainEvent {
	if from <= 0 && to <= 0 {
		return list
	}
	out := make([]events.DomainEvent, 0, len(list))
	for _, evt := range list {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func filterByType(list []events.DomainEvent, types []string) []events.DomainEvent {
	if len(types) == 0 {
		return list
	}
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[strings.TrimSpace(t)] = true
	}
	out := make([]events.DomainEvent, 0, len(list))
	for _, evt := range list {
		if want[evt.Type] {
			out = append(out, evt)
		}
	}
	return out
}

func latestState(newestFirst []events.DomainEvent) any {
	for _, evt := range newestFirst {
		if after, ok := evt.Payload["state_after"]; ok && after != nil {
			return after
		}
	}
	return nil
}
