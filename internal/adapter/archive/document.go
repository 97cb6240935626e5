package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"missioncore/internal/domain/ledger"
)

// Document is the archived form of one ledger chain, shared by every archive driver.
type Document struct {
	LedgerID   string         `json:"ledger_id"`
	Head       string         `json:"head"`
	ArchivedAt time.Time      `json:"archived_at"`
	Entries    []ledger.Entry `json:"entries"`
}

func NewDocument(ledgerID string, entries []ledger.Entry, at time.Time) Document {
	head := ""
	if n := len(entries); n > 0 {
		head = entries[n-1].SnapshotHash
	}
	return Document{
		LedgerID:   ledgerID,
		Head:       head,
		ArchivedAt: at.UTC(),
		Entries:    append([]ledger.Entry{}, entries...),
	}
}

func (d Document) Encode() ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode ledger archive %s: %w", d.LedgerID, err)
	}
	return b, nil
}

func Decode(b []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return Document{}, fmt.Errorf("decode ledger archive: %w", err)
	}
	return d, nil
}
