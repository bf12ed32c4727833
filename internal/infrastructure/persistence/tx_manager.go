package persistence

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key carrying the active transaction handle
type txKey struct{}

// GormTransactionManager implements shared.TransactionManager on top of
// GORM transactions. The transactional *gorm.DB travels in the context,
// so repositories join the transaction transparently via dbFromContext.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// RunInTx runs fn inside a database transaction. If the context already
// carries a transaction, fn joins it instead of opening a nested one;
// the outer caller then owns commit and rollback.
func (m *GormTransactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// txFromContext returns the active transaction handle, or nil
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFromContext returns the transactional handle when the context
// carries one, otherwise the repository's root connection.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
