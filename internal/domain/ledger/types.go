package ledger

import "time"

// Entry is one link of the chain. PrevHash of entry i equals SnapshotHash of entry i-1 and
// is empty for entry 0.
type Entry struct {
	Index        int       `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	SnapshotHash string    `json:"snapshot_hash"`
	PrevHash     string    `json:"prev_hash,omitempty"`
	PayloadRef   string    `json:"payload_ref"`
	ContentHash  string    `json:"content_hash"`
}

const (
	FieldSnapshotHash = "snapshotHash"
	SeverityCritical  = "critical"
)

// TamperEvent describes the first broken link found by Verify. It is never stored by the
// ledger itself.
type TamperEvent struct {
	ID           string    `json:"id"`
	Index        int       `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	Field        string    `json:"field"`
	ExpectedHash string    `json:"expected_hash"`
	ActualHash   string    `json:"actual_hash"`
	Severity     string    `json:"severity"`
}

type VerifyResult struct {
	OK      bool         `json:"ok"`
	Checked int          `json:"checked"`
	Tamper  *TamperEvent `json:"tamper,omitempty"`
}
