package audit

import (
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ledger"
)

type VerifyRequest struct {
	LedgerID string `json:"ledger_id"`
}

type VerifyResponse struct {
	LedgerID string              `json:"ledger_id"`
	Entries  int                 `json:"entries"`
	Head     string              `json:"head"`
	Result   ledger.VerifyResult `json:"result"`
}

type ExportRequest struct {
	LedgerID string `json:"ledger_id"`
}

type ExportResponse struct {
	Receipt ports.ArchiveReceipt `json:"receipt"`
}
