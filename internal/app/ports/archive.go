package ports

import (
	"context"
	"time"

	"missioncore/internal/domain/ledger"
)

type ArchiveReceipt struct {
	Location   string    `json:"location"`
	Entries    int       `json:"entries"`
	Head       string    `json:"head"`
	ArchivedAt time.Time `json:"archived_at"`
}

// LedgerArchive stores an exported copy of a ledger chain outside the primary database.
type LedgerArchive interface {
	Put(ctx context.Context, ledgerID string, entries []ledger.Entry) (ArchiveReceipt, error)
}
