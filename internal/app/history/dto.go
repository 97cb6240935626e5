package history

import "missioncore/internal/domain/events"

type Request struct {
	Subject string
	Limit   int
	// OccurredFrom and OccurredTo are unix seconds; zero leaves that side open.
	OccurredFrom int64
	OccurredTo   int64
	Types        []string
}

type Response struct {
	Subject string               `json:"subject"`
	Events  []events.DomainEvent `json:"events"`
	// LatestState is the state_after payload of the newest matching event that has one.
	LatestState any `json:"latest_state,omitempty"`
}
