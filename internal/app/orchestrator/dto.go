package orchestrator

import (
	"missioncore/internal/domain/anomaly"
	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/ledger"
)

type StartRequest struct {
	LineageID string             `json:"lineage_id"`
	Seed      string             `json:"seed"`
	Genomes   []ecosystem.Genome `json:"genomes,omitempty"`
}

type StartResponse struct {
	State   ecosystem.State    `json:"state"`
	Genomes []ecosystem.Genome `json:"genomes"`
	Entry   ledger.Entry       `json:"ledger_entry"`
}

type TickRequest struct {
	LineageID string `json:"lineage_id"`
}

type TickResponse struct {
	State   ecosystem.State      `json:"state"`
	Entry   ledger.Entry         `json:"ledger_entry"`
	Anomaly anomaly.Result       `json:"anomaly"`
	Events  []events.DomainEvent `json:"events"`
}
