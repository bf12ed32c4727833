package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/shared"
)

func TestGormTransactionManager_RunInTx(t *testing.T) {
	db := setupTestDB(t)
	tm := NewGormTransactionManager(db)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	t.Run("commits all writes on success", func(t *testing.T) {
		err := tm.RunInTx(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, newTestAccount(t, "1000", "Cash", accounting.AccountTypeAsset)); err != nil {
				return err
			}
			return repo.Save(txCtx, newTestAccount(t, "4000", "Revenue", accounting.AccountTypeRevenue))
		})
		require.NoError(t, err)

		accounts, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})

	t.Run("rolls back all writes on error", func(t *testing.T) {
		err := tm.RunInTx(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, newTestAccount(t, "2000", "Payables", accounting.AccountTypeLiability)); err != nil {
				return err
			}
			return shared.ErrInvalidState
		})
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		_, err = repo.FindByCode(ctx, "2000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("joins an ambient transaction instead of nesting", func(t *testing.T) {
		err := tm.RunInTx(ctx, func(outerCtx context.Context) error {
			if err := repo.Save(outerCtx, newTestAccount(t, "3000", "Equity", accounting.AccountTypeEquity)); err != nil {
				return err
			}
			// The inner call must see the outer transaction's writes.
			return tm.RunInTx(outerCtx, func(innerCtx context.Context) error {
				found, err := repo.FindByCode(innerCtx, "3000")
				if err != nil {
					return err
				}
				assert.Equal(t, "Equity", found.Name)
				return nil
			})
		})
		require.NoError(t, err)
	})

	t.Run("inner error rolls back the joined transaction", func(t *testing.T) {
		err := tm.RunInTx(ctx, func(outerCtx context.Context) error {
			if err := repo.Save(outerCtx, newTestAccount(t, "6000", "Misc", accounting.AccountTypeExpense)); err != nil {
				return err
			}
			return tm.RunInTx(outerCtx, func(innerCtx context.Context) error {
				return shared.ErrInvalidInput
			})
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = repo.FindByCode(ctx, "6000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
