package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/ledger"
	"missioncore/internal/logging"
)

var (
	ErrInvalidRequest  = errors.New("invalid audit request")
	ErrArchiveDisabled = errors.New("ledger archive not configured")
)

// UseCase checks persisted ledger chains and ships them to the configured archive.
type UseCase struct {
	Ledgers ports.LedgerRepository
	Events  ports.EventRepository
	Archive ports.LedgerArchive
	Metrics ports.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// Verify rebuilds the chain from storage and walks it. A broken chain is reported in
// the response, not as an error.
func (u UseCase) Verify(ctx context.Context, req VerifyRequest) (VerifyResponse, error) {
	ledgerID, entries, err := u.load(ctx, req.LedgerID)
	if err != nil {
		return VerifyResponse{}, err
	}
	chain := ledger.Restore(ledgerID, entries, u.now())
	result := chain.Verify()
	out := VerifyResponse{LedgerID: ledgerID, Entries: chain.Len(), Head: chain.Head(), Result: result}
	if result.OK {
		return out, nil
	}

	tamper := result.Tamper
	logging.OrDiscard(u.Logger).Warn("ledger tamper detected",
		"ledger_id", ledgerID,
		"index", tamper.Index,
		"field", tamper.Field,
	)
	if u.Metrics != nil {
		u.Metrics.RecordTamper(ledgerID)
	}
	if u.Events != nil {
		evt := events.New(events.TypeTamperDetected, u.now()(), map[string]any{
			"ledger_id":     ledgerID,
			"tamper_id":     tamper.ID,
			"index":         tamper.Index,
			"field":         tamper.Field,
			"expected_hash": tamper.ExpectedHash,
			"actual_hash":   tamper.ActualHash,
			"severity":      tamper.Severity,
		})
		if err := u.Events.Append(ctx, ledgerID, []events.DomainEvent{evt}); err != nil {
			return VerifyResponse{}, err
		}
	}
	return out, nil
}

// Export writes the full persisted chain to the archive.
func (u UseCase) Export(ctx context.Context, req ExportRequest) (ExportResponse, error) {
	if u.Archive == nil {
		return ExportResponse{}, ErrArchiveDisabled
	}
	ledgerID, entries, err := u.load(ctx, req.LedgerID)
	if err != nil {
		return ExportResponse{}, err
	}
	receipt, err := u.Archive.Put(ctx, ledgerID, entries)
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordFailure("ledger_export")
		}
		return ExportResponse{}, fmt.Errorf("archive ledger %s: %w", ledgerID, err)
	}
	if u.Events != nil {
		evt := events.New(events.TypeLedgerExported, u.now()(), map[string]any{
			"ledger_id": ledgerID,
			"location":  receipt.Location,
			"entries":   receipt.Entries,
			"head":      receipt.Head,
		})
		if err := u.Events.Append(ctx, ledgerID, []events.DomainEvent{evt}); err != nil {
			return ExportResponse{}, err
		}
	}
	return ExportResponse{Receipt: receipt}, nil
}

func (u UseCase) load(ctx context.Context, rawID string) (string, []ledger.Entry, error) {
	ledgerID := strings.TrimSpace(rawID)
	if ledgerID == "" {
		return "", nil, ErrInvalidRequest
	}
	entries, err := u.Ledgers.List(ctx, ledgerID)
	if err != nil {
		return "", nil, err
	}
	if len(entries) == 0 {
		return "", nil, fmt.Errorf("ledger %s: %w", ledgerID, ports.ErrNotFound)
	}
	return ledgerID, entries, nil
}

func (u UseCase) now() func() time.Time {
	if u.Now != nil {
		return u.Now
	}
	return time.Now
}
