package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// txFromContext returns the transaction opened by RunInTx, if any.
func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

// dbFor returns the enclosing transaction or base bound to ctx.
func dbFor(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return base.WithContext(ctx)
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx joins an enclosing transaction when ctx already carries one, so a tick's
// state, ledger entry and events commit together.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// lockChain takes a transaction-scoped advisory lock on a ledger so appends from
// several server processes stay single-writer. Outside a transaction it is a no-op.
func lockChain(ctx context.Context, ledgerID string) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "ledger:"+ledgerID).Error
}
