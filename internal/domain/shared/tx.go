package shared

import "context"

// TransactionManager runs a function inside a database transaction.
// Repositories called with the transactional context join the same
// transaction; any returned error rolls everything back.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
