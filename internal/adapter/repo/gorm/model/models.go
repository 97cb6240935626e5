package model

import "time"

const (
	TableNameEcosystemLineage = "ecosystem_lineages"
	TableNameEcosystemState   = "ecosystem_states"
	TableNameCrewState        = "crew_states"
	TableNameHabitatState     = "habitat_states"
	TableNameLedgerEntry      = "ledger_entries"
	TableNameDomainEvent      = "domain_events"
)

type EcosystemLineage struct {
	LineageID string    `gorm:"column:lineage_id;primaryKey" json:"lineage_id"`
	Seed      string    `gorm:"column:seed;not null" json:"seed"`
	Genomes   []byte    `gorm:"column:genomes;type:jsonb;not null" json:"genomes"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (*EcosystemLineage) TableName() string { return TableNameEcosystemLineage }

type EcosystemState struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	LineageID       string    `gorm:"column:lineage_id;not null" json:"lineage_id"`
	Tick            int32     `gorm:"column:tick;not null" json:"tick"`
	TotalPopulation int64     `gorm:"column:total_population;not null" json:"total_population"`
	StabilityScore  float64   `gorm:"column:stability_score;not null" json:"stability_score"`
	State           []byte    `gorm:"column:state;type:jsonb;not null" json:"state"`
	RecordedAt      time.Time `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

func (*EcosystemState) TableName() string { return TableNameEcosystemState }

type CrewState struct {
	CrewID    string    `gorm:"column:crew_id;primaryKey" json:"crew_id"`
	State     []byte    `gorm:"column:state;type:jsonb;not null" json:"state"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (*CrewState) TableName() string { return TableNameCrewState }

type HabitatState struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	HabitatID      string    `gorm:"column:habitat_id;not null" json:"habitat_id"`
	Tick           float64   `gorm:"column:tick;not null" json:"tick"`
	Sustainability float64   `gorm:"column:sustainability;not null" json:"sustainability"`
	State          []byte    `gorm:"column:state;type:jsonb;not null" json:"state"`
	RecordedAt     time.Time `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

func (*HabitatState) TableName() string { return TableNameHabitatState }

type LedgerEntry struct {
	LedgerID     string    `gorm:"column:ledger_id;primaryKey" json:"ledger_id"`
	Idx          int32     `gorm:"column:idx;primaryKey" json:"idx"`
	Timestamp    time.Time `gorm:"column:ts;not null" json:"ts"`
	SnapshotHash string    `gorm:"column:snapshot_hash;not null" json:"snapshot_hash"`
	PrevHash     string    `gorm:"column:prev_hash;not null" json:"prev_hash"`
	PayloadRef   string    `gorm:"column:payload_ref;not null" json:"payload_ref"`
	ContentHash  string    `gorm:"column:content_hash;not null" json:"content_hash"`
}

func (*LedgerEntry) TableName() string { return TableNameLedgerEntry }

type DomainEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Subject    string    `gorm:"column:subject;not null" json:"subject"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload    []byte    `gorm:"column:payload;type:jsonb" json:"payload"`
}

func (*DomainEvent) TableName() string { return TableNameDomainEvent }
