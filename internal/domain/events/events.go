package events

import "time"

const (
	TypeLineageStarted     = "lineage_started"
	TypeEcosystemTicked    = "ecosystem_ticked"
	TypeAnomalyFlagged     = "anomaly_flagged"
	TypePhysiologyAdvanced = "physiology_advanced"
	TypeHabitatStepped     = "habitat_stepped"
	TypeResourceWarning    = "resource_warning"
	TypeTamperDetected     = "tamper_detected"
	TypeLedgerExported     = "ledger_exported"
)

// DomainEvent is an append-only record of something that happened to a subject (a
// lineage, crew member, habitat or ledger).
type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

func New(eventType string, at time.Time, payload map[string]any) DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return DomainEvent{Type: eventType, OccurredAt: at.UTC(), Payload: payload}
}
