package gormrepo

import (
	"context"

	"missioncore/internal/adapter/repo/gorm/model"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepo {
	return LedgerRepo{db: db}
}

// Append stores entry at its index. Only the next free index is accepted.
func (r LedgerRepo) Append(ctx context.Context, ledgerID string, entry ledger.Entry) error {
	if err := lockChain(ctx, ledgerID); err != nil {
		return err
	}
	db := dbFor(ctx, r.db)
	var count int64
	if err := db.Model(&model.LedgerEntry{}).Where("ledger_id = ?", ledgerID).Count(&count).Error; err != nil {
		return err
	}
	if int64(entry.Index) != count {
		return ports.ErrConflict
	}
	row := model.LedgerEntry{
		LedgerID:     ledgerID,
		Idx:          int32(entry.Index),
		Timestamp:    entry.Timestamp,
		SnapshotHash: entry.SnapshotHash,
		PrevHash:     entry.PrevHash,
		PayloadRef:   entry.PayloadRef,
		ContentHash:  entry.ContentHash,
	}
	return mapWriteErr(db.Create(&row).Error)
}

func (r LedgerRepo) List(ctx context.Context, ledgerID string) ([]ledger.Entry, error) {
	var rows []model.LedgerEntry
	if err := dbFor(ctx, r.db).Where("ledger_id = ?", ledgerID).Order("idx ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.Entry{
			Index:        int(row.Idx),
			Timestamp:    row.Timestamp.UTC(),
			SnapshotHash: row.SnapshotHash,
			PrevHash:     row.PrevHash,
			PayloadRef:   row.PayloadRef,
			ContentHash:  row.ContentHash,
		})
	}
	return out, nil
}
